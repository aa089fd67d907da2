package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"stockhub/internal/alphavantage"
	"stockhub/internal/models"
	"stockhub/internal/pagination"
)

// CreateUserInput is the write-model for registering a user. Role is a
// role name; empty means the default role.
type CreateUserInput struct {
	Name     string
	LastName string
	Username string
	Email    string
	Password string
	Role     string
}

// UpdateUserInput is the write-model for profile updates. Nil fields are
// left untouched. A non-nil Password is always re-hashed.
type UpdateUserInput struct {
	Name     *string
	LastName *string
	Username *string
	Email    *string
	Password *string
	Role     *string
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(in CreateUserInput) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	UpdateUser(id uint, in UpdateUserInput) (*models.User, error)
	DeleteUser(id uint) error
	AttemptSignIn(email, password string) (*models.User, error)
}

// LookupServicer resolves classification names to typed lookup rows,
// validated once at the boundary and cached across writes.
type LookupServicer interface {
	ResolveCountry(name string) (*models.Country, error)
	ResolveExchange(name string) (*models.Exchange, error)
	ResolveAssetClass(name string) (*models.AssetClass, error)
}

// UpsertStockInput is the write-model for creating or updating a stock
// together with its backing asset.
type UpsertStockInput struct {
	Symbol      string
	Name        string
	Description string
	Country     string
	Exchange    string
	AssetClass  string
	Sector      string
	Industry    string
	MarketCap   decimal.Decimal
}

// StockServicer defines the contract for stock reference data.
type StockServicer interface {
	GetStockBySymbol(symbol string) (*models.Stock, error)
	UpsertStock(in UpsertStockInput) (*models.Stock, error)
	ListStocks(page pagination.PageRequest) (*pagination.PageResponse[models.Stock], error)
}

// CreateAssetInput is the write-model for the asset management endpoints.
type CreateAssetInput struct {
	Name        string
	Ticker      string
	Description string
	Country     string
	Exchange    string
	AssetClass  string
}

// UpdateAssetInput carries optional asset mutations; nil fields are untouched.
type UpdateAssetInput struct {
	Name        *string
	Description *string
}

// AssetServicer defines the contract for asset entity management.
type AssetServicer interface {
	CreateAsset(in CreateAssetInput) (*models.Asset, error)
	GetAssetByID(id uint) (*models.Asset, error)
	ListAssets(page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	UpdateAsset(id uint, in UpdateAssetInput) (*models.Asset, error)
	DeleteAsset(id uint) error
}

// PriceServicer defines the contract for historical price data.
type PriceServicer interface {
	GetPriceHistory(symbol string, from, to *time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.StockPrice], error)
	UpsertBatch(stockID uint, bars []models.StockPrice) (int, error)
}

// SummaryServicer defines the contract for market-wide daily summaries.
type SummaryServicer interface {
	GetByDate(date time.Time) (*models.DailySummary, error)
	RebuildForDate(date time.Time) (*models.DailySummary, error)
}

// MarketClient abstracts the upstream market-data provider.
type MarketClient interface {
	DailySeries(ctx context.Context, symbol, outputSize string) ([]alphavantage.Bar, error)
	CompanyOverview(ctx context.Context, symbol string) (*alphavantage.Overview, error)
}

// IngestReport describes the outcome of ingesting one symbol.
type IngestReport struct {
	Symbol       string `json:"symbol"`
	StockCreated bool   `json:"stock_created"`
	BarsUpserted int    `json:"bars_upserted"`
}

// BatchResult is the per-symbol entry of a batch run.
type BatchResult struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error,omitempty"`
	Bars   int    `json:"bars"`
}

// BatchReport describes a multi-symbol ingestion run.
type BatchReport struct {
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Results   []BatchResult `json:"results"`
}

// IngestionServicer defines the contract for the reconciliation flow.
type IngestionServicer interface {
	IngestSymbol(ctx context.Context, symbol, outputSize string) (*IngestReport, error)
	IngestAll(ctx context.Context, outputSize string) (*BatchReport, error)
}
