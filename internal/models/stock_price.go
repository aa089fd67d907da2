package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPrice is one daily OHLCV bar per (stock, trading date).
// Re-ingestion overwrites the bar in place; the composite unique index
// is what the upsert keys on.
type StockPrice struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	StockID   uint            `gorm:"not null;uniqueIndex:uq_stock_prices_stock_date" json:"stock_id"`
	Date      time.Time       `gorm:"type:date;not null;uniqueIndex:uq_stock_prices_stock_date" json:"date"`
	Open      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"open"`
	High      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"high"`
	Low       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"low"`
	Close     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"close"`
	Volume    int64           `gorm:"not null" json:"volume"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Stock     Stock           `gorm:"foreignKey:StockID" json:"stock,omitempty"`
}
