package models

import "github.com/shopspring/decimal"

// Stock is the equity specialization of an Asset: one row per unique
// ticker symbol, carrying market-specific fields.
type Stock struct {
	Base
	Symbol    string          `gorm:"size:10;uniqueIndex;not null" json:"symbol"`
	AssetID   uint            `gorm:"not null" json:"asset_id"`
	Sector    string          `json:"sector"`
	Industry  string          `json:"industry"`
	MarketCap decimal.Decimal `gorm:"type:decimal(24,2)" json:"market_cap"`
	Asset     Asset           `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}
