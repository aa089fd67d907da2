package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"stockhub/internal/models"
	"stockhub/internal/testutil"
)

func TestRebuildForDate(t *testing.T) {
	t.Run("aggregates_all_bars_for_the_day", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		testutil.SeedClassifications(t, db)

		up := testutil.CreateTestStock(t, db, "UP")
		down := testutil.CreateTestStock(t, db, "DOWN")
		target := day(2024, 1, 2)

		// close > open for UP, close < open for DOWN (fixture sets open = close - 0.5).
		testutil.CreateTestBar(t, db, up.ID, target, 12.0, 1000)
		bar := testutil.CreateTestBar(t, db, down.ID, target, 8.0, 500)
		bar.Open = decimal.NewFromFloat(9)
		testutil.AssertNoError(t, db.Save(bar).Error)

		// A bar on another day must not count.
		testutil.CreateTestBar(t, db, up.ID, day(2024, 1, 3), 13.0, 700)

		svc := NewSummaryService(db)
		summary, err := svc.RebuildForDate(target)
		testutil.AssertNoError(t, err)

		if summary.StocksTracked != 2 {
			t.Errorf("expected 2 stocks tracked, got %d", summary.StocksTracked)
		}
		if summary.TotalVolume != 1500 {
			t.Errorf("expected total volume 1500, got %d", summary.TotalVolume)
		}
		if summary.AdvancingCount != 1 || summary.DecliningCount != 1 || summary.UnchangedCount != 0 {
			t.Errorf("expected 1 advancing / 1 declining / 0 unchanged, got %d/%d/%d",
				summary.AdvancingCount, summary.DecliningCount, summary.UnchangedCount)
		}
		if !summary.AverageClose.Equal(decimal.NewFromFloat(10)) {
			t.Errorf("expected average close 10, got %s", summary.AverageClose)
		}
	})

	t.Run("rebuild_is_idempotent_one_row_per_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		testutil.SeedClassifications(t, db)

		stock := testutil.CreateTestStock(t, db, "ABC")
		target := day(2024, 1, 2)
		testutil.CreateTestBar(t, db, stock.ID, target, 11.5, 1200)

		svc := NewSummaryService(db)
		first, err := svc.RebuildForDate(target)
		testutil.AssertNoError(t, err)

		// More data lands, then the summary gets rebuilt.
		other := testutil.CreateTestStock(t, db, "XYZ")
		testutil.CreateTestBar(t, db, other.ID, target, 20.0, 300)

		second, err := svc.RebuildForDate(target)
		testutil.AssertNoError(t, err)

		if second.ID != first.ID {
			t.Errorf("expected rebuild to update the same row, got IDs %d and %d", first.ID, second.ID)
		}
		if second.StocksTracked != 2 {
			t.Errorf("expected rebuilt count 2, got %d", second.StocksTracked)
		}

		var count int64
		testutil.AssertNoError(t, db.Model(&models.DailySummary{}).Where("date = ?", target).Count(&count).Error)
		if count != 1 {
			t.Errorf("expected exactly one summary row for the date, got %d", count)
		}
	})

	t.Run("empty_day_produces_zeroed_summary", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := NewSummaryService(db)
		summary, err := svc.RebuildForDate(day(2024, 6, 1))
		testutil.AssertNoError(t, err)

		if summary.StocksTracked != 0 || summary.TotalVolume != 0 {
			t.Errorf("expected zeroed summary, got %+v", summary)
		}
		if !summary.AverageClose.IsZero() {
			t.Errorf("expected zero average close, got %s", summary.AverageClose)
		}
	})
}

func TestGetSummaryByDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	testutil.SeedClassifications(t, db)

	stock := testutil.CreateTestStock(t, db, "ABC")
	target := day(2024, 1, 2)
	testutil.CreateTestBar(t, db, stock.ID, target, 11.5, 1200)

	svc := NewSummaryService(db)
	_, err := svc.RebuildForDate(target)
	testutil.AssertNoError(t, err)

	t.Run("time_of_day_is_ignored", func(t *testing.T) {
		got, err := svc.GetByDate(time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC))
		testutil.AssertNoError(t, err)
		if got.StocksTracked != 1 {
			t.Errorf("expected the stored summary, got %+v", got)
		}
	})

	t.Run("missing_date_not_found", func(t *testing.T) {
		_, err := svc.GetByDate(day(2024, 1, 5))
		testutil.AssertAppError(t, err, "SUMMARY_NOT_FOUND")
	})
}
