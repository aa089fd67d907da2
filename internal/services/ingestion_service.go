package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"stockhub/internal/alphavantage"
	apperrors "stockhub/internal/errors"
	"stockhub/internal/logger"
	"stockhub/internal/models"
	"stockhub/internal/pagination"
)

// ingestionService brings the local store for a symbol up to date with
// the upstream provider, idempotently.
type ingestionService struct {
	client MarketClient
	stocks StockServicer
	prices PriceServicer

	// Runs for the same symbol are serialized so a manual trigger
	// racing the daily timer cannot interleave one symbol's batch.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewIngestionService creates a new IngestionServicer.
func NewIngestionService(client MarketClient, stocks StockServicer, prices PriceServicer) IngestionServicer {
	return &ingestionService{
		client: client,
		stocks: stocks,
		prices: prices,
		locks:  make(map[string]*sync.Mutex),
	}
}

// IngestSymbol reconciles one symbol: resolve or create the stock,
// fetch the daily series, normalize every bar, and upsert the batch in
// one transaction. A malformed bar aborts the whole run with nothing
// committed.
func (s *ingestionService) IngestSymbol(ctx context.Context, symbol, outputSize string) (*IngestReport, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required")
	}
	if outputSize == "" {
		outputSize = alphavantage.OutputSizeCompact
	}

	lock := s.symbolLock(symbol)
	lock.Lock()
	defer lock.Unlock()

	report := &IngestReport{Symbol: symbol}

	stock, err := s.resolveStock(ctx, symbol, report)
	if err != nil {
		return nil, err
	}

	rawBars, err := s.client.DailySeries(ctx, symbol, outputSize)
	if err != nil {
		return nil, err
	}

	bars, err := normalizeBars(symbol, rawBars)
	if err != nil {
		return nil, err
	}

	count, err := s.prices.UpsertBatch(stock.ID, bars)
	if err != nil {
		return nil, err
	}
	report.BarsUpserted = count

	logger.Get().Infow("symbol ingested",
		"symbol", symbol,
		"bars", count,
		"stock_created", report.StockCreated,
	)
	return report, nil
}

// IngestAll runs IngestSymbol for every known stock sequentially. A
// failing symbol is logged and skipped; the batch always continues.
func (s *ingestionService) IngestAll(ctx context.Context, outputSize string) (*BatchReport, error) {
	report := &BatchReport{}

	page := pagination.PageRequest{Page: 1, PageSize: 100}
	for {
		stocks, err := s.stocks.ListStocks(page)
		if err != nil {
			return nil, err
		}
		for _, stock := range stocks.Data {
			result := BatchResult{Symbol: stock.Symbol}
			ingest, err := s.IngestSymbol(ctx, stock.Symbol, outputSize)
			if err != nil {
				logger.Get().Errorw("symbol ingestion failed",
					"symbol", stock.Symbol,
					"error", err.Error(),
				)
				result.Error = err.Error()
				report.Failed++
			} else {
				result.Bars = ingest.BarsUpserted
				report.Succeeded++
			}
			report.Results = append(report.Results, result)
		}
		if page.Page >= stocks.TotalPages {
			break
		}
		page.Page++
	}

	logger.Get().Infow("ingestion batch finished",
		"succeeded", report.Succeeded,
		"failed", report.Failed,
	)
	return report, nil
}

// resolveStock returns the stock row for a symbol, creating the asset
// and stock from the upstream overview on first sight.
func (s *ingestionService) resolveStock(ctx context.Context, symbol string, report *IngestReport) (*models.Stock, error) {
	stock, err := s.stocks.GetStockBySymbol(symbol)
	if err == nil {
		return stock, nil
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrStockNotFound.Code {
		return nil, err
	}

	overview, err := s.client.CompanyOverview(ctx, symbol)
	if err != nil {
		return nil, err
	}

	stock, err = s.stocks.UpsertStock(UpsertStockInput{
		Symbol:      symbol,
		Name:        overview.Name,
		Description: overview.Description,
		Country:     overview.Country,
		Exchange:    overview.Exchange,
		AssetClass:  overview.AssetType,
		Sector:      overview.Sector,
		Industry:    overview.Industry,
		MarketCap:   parseMarketCap(overview.MarketCapitalization),
	})
	if err != nil {
		return nil, err
	}
	report.StockCreated = true
	return stock, nil
}

// normalizeBars converts raw upstream bars to canonical price rows.
// Any malformed field fails the whole slice.
func normalizeBars(symbol string, raw []alphavantage.Bar) ([]models.StockPrice, error) {
	bars := make([]models.StockPrice, 0, len(raw))
	for _, bar := range raw {
		date, err := time.Parse("2006-01-02", bar.Date)
		if err != nil {
			return nil, parseError(symbol, bar.Date, "date", bar.Date, err)
		}
		open, err := decimal.NewFromString(bar.Open)
		if err != nil {
			return nil, parseError(symbol, bar.Date, "open", bar.Open, err)
		}
		high, err := decimal.NewFromString(bar.High)
		if err != nil {
			return nil, parseError(symbol, bar.Date, "high", bar.High, err)
		}
		low, err := decimal.NewFromString(bar.Low)
		if err != nil {
			return nil, parseError(symbol, bar.Date, "low", bar.Low, err)
		}
		closePrice, err := decimal.NewFromString(bar.Close)
		if err != nil {
			return nil, parseError(symbol, bar.Date, "close", bar.Close, err)
		}
		volume, err := strconv.ParseInt(bar.Volume, 10, 64)
		if err != nil {
			return nil, parseError(symbol, bar.Date, "volume", bar.Volume, err)
		}

		bars = append(bars, models.StockPrice{
			Date:   date.UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}
	return bars, nil
}

// parseMarketCap parses the overview market capitalization leniently:
// the provider reports "None" or "-" for symbols without one.
func parseMarketCap(raw string) decimal.Decimal {
	mc, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return mc
}

func parseError(symbol, date, field, value string, err error) error {
	return apperrors.Wrap(
		apperrors.WithMessage(apperrors.ErrDataParse,
			fmt.Sprintf("malformed %s %q for %s on %s", field, value, symbol, date)),
		err,
	)
}

// symbolLock returns the mutex guarding one symbol's ingestion runs.
func (s *ingestionService) symbolLock(symbol string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[symbol]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[symbol] = lock
	}
	return lock
}
