package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "stockhub/internal/errors"
	"stockhub/internal/pagination"
	"stockhub/internal/services"
)

// AssetHandler handles asset entity management requests.
type AssetHandler struct {
	assets services.AssetServicer
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assets services.AssetServicer) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// CreateAssetRequest represents the asset creation payload.
type CreateAssetRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Ticker      string `json:"ticker" binding:"required,max=10"`
	Description string `json:"description"`
	Country     string `json:"country" binding:"required"`
	Exchange    string `json:"exchange" binding:"required"`
	AssetClass  string `json:"assetClass" binding:"required"`
}

// UpdateAssetRequest carries a partial asset update.
type UpdateAssetRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description"`
}

// CreateAsset creates an asset
// @Summary     Create an asset
// @Tags        market-data
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAssetRequest true "Asset data"
// @Success     201 {object} map[string]interface{} "Created asset"
// @Failure     409 {object} ErrorResponse "Name or ticker already taken"
// @Failure     422 {object} ErrorResponse "Unknown classification"
// @Router      /market-data/assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	asset, err := h.assets.CreateAsset(services.CreateAssetInput{
		Name:        req.Name,
		Ticker:      req.Ticker,
		Description: req.Description,
		Country:     req.Country,
		Exchange:    req.Exchange,
		AssetClass:  req.AssetClass,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// ListAssets returns a paginated asset listing
// @Summary     List assets
// @Tags        market-data
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Paginated assets"
// @Router      /market-data/assets [get]
func (h *AssetHandler) ListAssets(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.assets.ListAssets(page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetAsset returns one asset by ID
// @Summary     Get an asset
// @Tags        market-data
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Asset ID"
// @Success     200 {object} map[string]interface{} "Asset"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /market-data/assets/{id} [get]
func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := h.assets.GetAssetByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// UpdateAsset applies a partial update to an asset
// @Summary     Update an asset
// @Tags        market-data
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Asset ID"
// @Param       request body UpdateAssetRequest true "Fields to update"
// @Success     200 {object} map[string]interface{} "Updated asset"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /market-data/assets/{id} [patch]
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	asset, err := h.assets.UpdateAsset(id, services.UpdateAssetInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// DeleteAsset removes an asset
// @Summary     Delete an asset
// @Tags        market-data
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Asset ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /market-data/assets/{id} [delete]
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.assets.DeleteAsset(id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
