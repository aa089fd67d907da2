package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "stockhub/internal/errors"
	"stockhub/internal/models"
	"stockhub/internal/pagination"
)

// stockService handles stock reference data.
type stockService struct {
	db      *gorm.DB
	lookups LookupServicer
}

// NewStockService creates a new StockServicer.
func NewStockService(db *gorm.DB, lookups LookupServicer) StockServicer {
	return &stockService{db: db, lookups: lookups}
}

// GetStockBySymbol returns the stock for a ticker symbol with its asset
// and classifications preloaded.
func (s *stockService) GetStockBySymbol(symbol string) (*models.Stock, error) {
	var stock models.Stock
	err := s.db.
		Preload("Asset").
		Preload("Asset.Country").
		Preload("Asset.Exchange").
		Preload("Asset.AssetClass").
		Where("symbol = ?", normalizeSymbol(symbol)).
		First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStockNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stock, nil
}

// UpsertStock creates the stock and its backing asset for a new symbol,
// or updates the mutable fields of an existing one. Classification names
// are resolved before anything is written.
func (s *stockService) UpsertStock(in UpsertStockInput) (*models.Stock, error) {
	symbol := normalizeSymbol(in.Symbol)
	if symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required")
	}

	var stock models.Stock
	err := s.db.Where("symbol = ?", symbol).First(&stock).Error
	switch {
	case err == nil:
		return s.updateExisting(&stock, in)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.createWithAsset(symbol, in)
	default:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}

// ListStocks returns a paginated list of stocks ordered by symbol.
func (s *stockService) ListStocks(page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Stock{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var stocks []models.Stock
	if err := base.Preload("Asset").Order("symbol ASC").Scopes(pagination.Paginate(page)).Find(&stocks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(stocks, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// createWithAsset writes exactly one asset row and one stock row for a
// symbol never seen before, in a single transaction.
func (s *stockService) createWithAsset(symbol string, in UpsertStockInput) (*models.Stock, error) {
	country, err := s.lookups.ResolveCountry(in.Country)
	if err != nil {
		return nil, err
	}
	exchange, err := s.lookups.ResolveExchange(in.Exchange)
	if err != nil {
		return nil, err
	}
	class, err := s.lookups.ResolveAssetClass(in.AssetClass)
	if err != nil {
		return nil, err
	}

	name := in.Name
	if name == "" {
		name = symbol
	}

	var stock *models.Stock
	err = s.db.Transaction(func(tx *gorm.DB) error {
		asset := &models.Asset{
			Name:         name,
			Ticker:       symbol,
			Description:  in.Description,
			CountryID:    country.ID,
			ExchangeID:   exchange.ID,
			AssetClassID: class.ID,
		}
		if err := tx.Create(asset).Error; err != nil {
			if isUniqueConstraintError(err) {
				return apperrors.ErrDuplicateAsset
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		stock = &models.Stock{
			Symbol:    symbol,
			AssetID:   asset.ID,
			Sector:    in.Sector,
			Industry:  in.Industry,
			MarketCap: in.MarketCap,
			Asset:     *asset,
		}
		if err := tx.Create(stock).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stock, nil
}

// updateExisting overwrites the mutable market fields of a known stock.
func (s *stockService) updateExisting(stock *models.Stock, in UpsertStockInput) (*models.Stock, error) {
	if in.Sector != "" {
		stock.Sector = in.Sector
	}
	if in.Industry != "" {
		stock.Industry = in.Industry
	}
	if !in.MarketCap.IsZero() {
		stock.MarketCap = in.MarketCap
	}
	if err := s.db.Save(stock).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if in.Description != "" {
		if err := s.db.Model(&models.Asset{}).Where("id = ?", stock.AssetID).
			Update("description", in.Description).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return stock, nil
}

// normalizeSymbol upper-cases and trims a ticker symbol.
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// isUniqueConstraintError checks if a GORM error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "duplicate key value violates unique constraint") // PostgreSQL
}
