package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary aggregates market-wide statistics for one calendar date.
// Derived data: it can always be rebuilt from the stored price bars.
type DailySummary struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Date           time.Time       `gorm:"type:date;uniqueIndex;not null" json:"date"`
	StocksTracked  int             `gorm:"not null" json:"stocks_tracked"`
	TotalVolume    int64           `gorm:"not null" json:"total_volume"`
	AdvancingCount int             `gorm:"not null" json:"advancing_count"`
	DecliningCount int             `gorm:"not null" json:"declining_count"`
	UnchangedCount int             `gorm:"not null" json:"unchanged_count"`
	AverageClose   decimal.Decimal `gorm:"type:decimal(20,4)" json:"average_close"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
