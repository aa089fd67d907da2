package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "stockhub/internal/errors"
	"stockhub/internal/models"
)

// summaryService maintains the market-wide daily summary table.
type summaryService struct {
	db *gorm.DB
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB) SummaryServicer {
	return &summaryService{db: db}
}

// GetByDate returns the summary row for a calendar date.
func (s *summaryService) GetByDate(date time.Time) (*models.DailySummary, error) {
	var summary models.DailySummary
	if err := s.db.Where("date = ?", truncateToDay(date)).First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSummaryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &summary, nil
}

// RebuildForDate recomputes the summary for one date from the stored
// price bars and upserts it. The date uniqueness constraint makes the
// rebuild idempotent.
func (s *summaryService) RebuildForDate(date time.Time) (*models.DailySummary, error) {
	day := truncateToDay(date)

	var bars []models.StockPrice
	if err := s.db.Where("date = ?", day).Find(&bars).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &models.DailySummary{Date: day}
	closeSum := decimal.Zero
	for _, bar := range bars {
		summary.StocksTracked++
		summary.TotalVolume += bar.Volume
		closeSum = closeSum.Add(bar.Close)
		switch bar.Close.Cmp(bar.Open) {
		case 1:
			summary.AdvancingCount++
		case -1:
			summary.DecliningCount++
		default:
			summary.UnchangedCount++
		}
	}
	if summary.StocksTracked > 0 {
		summary.AverageClose = closeSum.DivRound(decimal.NewFromInt(int64(summary.StocksTracked)), 4)
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stocks_tracked", "total_volume", "advancing_count",
			"declining_count", "unchanged_count", "average_close", "updated_at",
		}),
	}).Create(summary).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Re-read so the conflict-update path returns the stored row ID.
	return s.GetByDate(day)
}

// truncateToDay drops the time-of-day component in UTC.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
