package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "stockhub/internal/errors"
	"stockhub/internal/models"
	"stockhub/internal/pagination"
)

// assetService handles asset entity management.
type assetService struct {
	db      *gorm.DB
	lookups LookupServicer
}

// NewAssetService creates a new AssetServicer.
func NewAssetService(db *gorm.DB, lookups LookupServicer) AssetServicer {
	return &assetService{db: db, lookups: lookups}
}

// CreateAsset creates an asset after resolving its classification names.
func (s *assetService) CreateAsset(in CreateAssetInput) (*models.Asset, error) {
	if in.Name == "" || in.Ticker == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name and ticker are required")
	}

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

	asset := &models.Asset{
		Name:         in.Name,
		Ticker:       normalizeSymbol(in.Ticker),
		Description:  in.Description,
		CountryID:    country.ID,
		ExchangeID:   exchange.ID,
		AssetClassID: class.ID,
	}
	if err := s.db.Create(asset).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateAsset
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return asset, nil
}

// GetAssetByID returns an asset with its classifications preloaded.
func (s *assetService) GetAssetByID(id uint) (*models.Asset, error) {
	var asset models.Asset
	err := s.db.
		Preload("Country").
		Preload("Exchange").
		Preload("AssetClass").
		First(&asset, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &asset, nil
}

// ListAssets returns a paginated list of assets ordered by ticker.
func (s *assetService) ListAssets(page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Asset{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var assets []models.Asset
	if err := base.Order("ticker ASC").Scopes(pagination.Paginate(page)).Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(assets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateAsset applies a partial update to an asset's descriptive fields.
func (s *assetService) UpdateAsset(id uint, in UpdateAssetInput) (*models.Asset, error) {
	asset, err := s.GetAssetByID(id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		asset.Name = *in.Name
	}
	if in.Description != nil {
		asset.Description = *in.Description
	}
	if err := s.db.Save(asset).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateAsset
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return asset, nil
}

// DeleteAsset soft-deletes an asset.
func (s *assetService) DeleteAsset(id uint) error {
	asset, err := s.GetAssetByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(asset).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
