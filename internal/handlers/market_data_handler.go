package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "stockhub/internal/errors"
	"stockhub/internal/pagination"
	"stockhub/internal/services"
)

// MarketDataHandler handles stock, price, ingestion, and summary requests.
type MarketDataHandler struct {
	stocks    services.StockServicer
	prices    services.PriceServicer
	ingestion services.IngestionServicer
	summaries services.SummaryServicer
}

// NewMarketDataHandler creates a new MarketDataHandler.
func NewMarketDataHandler(
	stocks services.StockServicer,
	prices services.PriceServicer,
	ingestion services.IngestionServicer,
	summaries services.SummaryServicer,
) *MarketDataHandler {
	return &MarketDataHandler{
		stocks:    stocks,
		prices:    prices,
		ingestion: ingestion,
		summaries: summaries,
	}
}

// UpsertStockRequest represents the stock upsert payload.
type UpsertStockRequest struct {
	Symbol      string          `json:"symbol" binding:"required,max=10"`
	Name        string          `json:"name" binding:"omitempty,max=100"`
	Description string          `json:"description"`
	Country     string          `json:"country"`
	Exchange    string          `json:"exchange"`
	AssetClass  string          `json:"assetClass"`
	Sector      string          `json:"sector"`
	Industry    string          `json:"industry"`
	MarketCap   decimal.Decimal `json:"marketCap"`
}

// RebuildSummaryRequest asks for the daily summary of one date to be rebuilt.
type RebuildSummaryRequest struct {
	Date string `json:"date" binding:"required,trade_date"`
}

// GetStock returns a stock by ticker symbol
// @Summary     Get a stock
// @Tags        market-data
// @Produce     json
// @Security    BearerAuth
// @Param       symbol path string true "Ticker symbol"
// @Success     200 {object} map[string]interface{} "Stock"
// @Failure     404 {object} ErrorResponse "Stock not found"
// @Router      /market-data/stock/{symbol} [get]
func (h *MarketDataHandler) GetStock(c *gin.Context) {
	stock, err := h.stocks.GetStockBySymbol(c.Param("symbol"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock": stock})
}

// ListStocks returns a paginated stock listing
// @Summary     List stocks
// @Tags        market-data
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Paginated stocks"
// @Router      /market-data/stock [get]
func (h *MarketDataHandler) ListStocks(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.stocks.ListStocks(page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpsertStock creates or updates a stock by symbol
// @Summary     Upsert a stock
// @Tags        market-data
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpsertStockRequest true "Stock data"
// @Success     200 {object} map[string]interface{} "Upserted stock"
// @Failure     422 {object} ErrorResponse "Unknown classification"
// @Router      /market-data/stock [post]
func (h *MarketDataHandler) UpsertStock(c *gin.Context) {
	var req UpsertStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	stock, err := h.stocks.UpsertStock(services.UpsertStockInput{
		Symbol:      req.Symbol,
		Name:        req.Name,
		Description: req.Description,
		Country:     req.Country,
		Exchange:    req.Exchange,
		AssetClass:  req.AssetClass,
		Sector:      req.Sector,
		Industry:    req.Industry,
		MarketCap:   req.MarketCap,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock": stock})
}

// GetPrices returns price history for a symbol
// @Summary     Get price history
// @Tags        market-data
// @Produce     json
// @Security    BearerAuth
// @Param       symbol    path  string true  "Ticker symbol"
// @Param       startDate query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       endDate   query string false "Inclusive end date (YYYY-MM-DD)"
// @Success     200 {object} map[string]interface{} "Paginated price bars"
// @Failure     400 {object} ErrorResponse "Unparsable date"
// @Failure     404 {object} ErrorResponse "Stock not found"
// @Router      /market-data/stock/{symbol}/prices [get]
func (h *MarketDataHandler) GetPrices(c *gin.Context) {
	from, err := parseDateQuery(c, "startDate")
	if err != nil {
		respondWithError(c, err)
		return
	}
	to, err := parseDateQuery(c, "endDate")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.prices.GetPriceHistory(c.Param("symbol"), from, to, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// IngestPrices synchronously refreshes a symbol from the upstream provider
// @Summary     Ingest prices for a symbol
// @Tags        market-data
// @Produce     json
// @Security    BearerAuth
// @Param       symbol     path  string true  "Ticker symbol"
// @Param       outputSize query string false "compact or full" default(compact)
// @Success     200 {object} services.IngestReport "Ingestion report"
// @Failure     502 {object} ErrorResponse "Upstream failure"
// @Failure     504 {object} ErrorResponse "Upstream timeout"
// @Router      /market-data/stock/{symbol}/prices [put]
func (h *MarketDataHandler) IngestPrices(c *gin.Context) {
	outputSize := c.DefaultQuery("outputSize", "compact")
	if outputSize != "compact" && outputSize != "full" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "outputSize must be compact or full"))
		return
	}

	report, err := h.ingestion.IngestSymbol(c.Request.Context(), c.Param("symbol"), outputSize)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetDailySummary returns the market summary for a date
// @Summary     Get a daily summary
// @Tags        market-data
// @Produce     json
// @Security    BearerAuth
// @Param       date query string true "Date (YYYY-MM-DD)"
// @Success     200 {object} map[string]interface{} "Daily summary"
// @Failure     400 {object} ErrorResponse "Unparsable date"
// @Failure     404 {object} ErrorResponse "Summary not found"
// @Router      /market-data/daily-summary [get]
func (h *MarketDataHandler) GetDailySummary(c *gin.Context) {
	date, err := parseDateQuery(c, "date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if date == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required"))
		return
	}

	summary, err := h.summaries.GetByDate(*date)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// RebuildDailySummary recomputes the summary for a date from stored bars
// @Summary     Rebuild a daily summary
// @Tags        market-data
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RebuildSummaryRequest true "Date to rebuild"
// @Success     200 {object} map[string]interface{} "Daily summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /market-data/daily-summary [post]
func (h *MarketDataHandler) RebuildDailySummary(c *gin.Context) {
	var req RebuildSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	summary, err := h.summaries.RebuildForDate(date.UTC())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
