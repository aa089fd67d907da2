package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "stockhub/internal/errors"
	"stockhub/internal/models"
	"stockhub/internal/pagination"
)

// priceService handles historical price data.
type priceService struct {
	db     *gorm.DB
	stocks StockServicer
}

// NewPriceService creates a new PriceServicer.
func NewPriceService(db *gorm.DB, stocks StockServicer) PriceServicer {
	return &priceService{db: db, stocks: stocks}
}

// GetPriceHistory returns the bars for a symbol within an optional
// inclusive date range, ordered by date ascending.
func (s *priceService) GetPriceHistory(symbol string, from, to *time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.StockPrice], error) {
	stock, err := s.stocks.GetStockBySymbol(symbol)
	if err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.StockPrice{}).Where("stock_id = ?", stock.ID)
	if from != nil {
		base = base.Where("date >= ?", *from)
	}
	if to != nil {
		base = base.Where("date <= ?", *to)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var prices []models.StockPrice
	if err := base.Order("date ASC").Scopes(pagination.Paginate(page)).Find(&prices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(prices, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpsertBatch writes all bars for one ingestion run in a single
// transaction, keyed on (stock_id, date): new dates insert, existing
// dates get their OHLCV fields overwritten. Either every bar commits or
// none do.
func (s *priceService) UpsertBatch(stockID uint, bars []models.StockPrice) (int, error) {
	if len(bars) == 0 {
		return 0, nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range bars {
			bars[i].StockID = stockID
			bars[i].ID = 0
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "stock_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"open", "high", "low", "close", "volume", "updated_at",
			}),
		}).Create(&bars).Error
	})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return len(bars), nil
}
