package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"stockhub/internal/models"
	"stockhub/internal/pagination"
	"stockhub/internal/testutil"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUpsertBatch(t *testing.T) {
	t.Run("inserts_then_overwrites_in_place", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		testutil.SeedClassifications(t, db)
		stock := testutil.CreateTestStock(t, db, "ABC")
		svc := NewPriceService(db, NewStockService(db, NewLookupService(db)))

		bars := []models.StockPrice{
			{Date: day(2024, 1, 1), Open: decimal.NewFromFloat(10), High: decimal.NewFromFloat(11), Low: decimal.NewFromFloat(9), Close: decimal.NewFromFloat(10.5), Volume: 1000},
			{Date: day(2024, 1, 2), Open: decimal.NewFromFloat(10.5), High: decimal.NewFromFloat(12), Low: decimal.NewFromFloat(10), Close: decimal.NewFromFloat(11.5), Volume: 1200},
		}
		count, err := svc.UpsertBatch(stock.ID, bars)
		testutil.AssertNoError(t, err)
		if count != 2 {
			t.Fatalf("expected 2 bars upserted, got %d", count)
		}

		// Same dates again with one changed close.
		bars[1].Close = decimal.NewFromFloat(11.8)
		_, err = svc.UpsertBatch(stock.ID, bars)
		testutil.AssertNoError(t, err)

		var rows []models.StockPrice
		testutil.AssertNoError(t, db.Where("stock_id = ?", stock.ID).Order("date ASC").Find(&rows).Error)
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows after re-upsert, got %d", len(rows))
		}
		if !rows[1].Close.Equal(decimal.NewFromFloat(11.8)) {
			t.Errorf("expected close 11.8 after overwrite, got %s", rows[1].Close)
		}
		if !rows[0].Close.Equal(decimal.NewFromFloat(10.5)) {
			t.Errorf("expected untouched close 10.5, got %s", rows[0].Close)
		}
	})

	t.Run("empty_batch_is_a_noop", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		testutil.SeedClassifications(t, db)
		stock := testutil.CreateTestStock(t, db, "ABC")
		svc := NewPriceService(db, NewStockService(db, NewLookupService(db)))

		count, err := svc.UpsertBatch(stock.ID, nil)
		testutil.AssertNoError(t, err)
		if count != 0 {
			t.Errorf("expected 0, got %d", count)
		}
	})
}

func TestGetPriceHistory(t *testing.T) {
	setup := func(t *testing.T) (PriceServicer, func()) {
		db := testutil.SetupTestDB(t)
		testutil.SeedClassifications(t, db)
		stock := testutil.CreateTestStock(t, db, "ABC")
		testutil.CreateTestBar(t, db, stock.ID, day(2024, 1, 1), 10.5, 1000)
		testutil.CreateTestBar(t, db, stock.ID, day(2024, 1, 2), 11.5, 1200)
		testutil.CreateTestBar(t, db, stock.ID, day(2024, 1, 3), 12.0, 900)
		svc := NewPriceService(db, NewStockService(db, NewLookupService(db)))
		return svc, func() { testutil.TeardownTestDB(t, db) }
	}

	t.Run("no_range_returns_everything_ascending", func(t *testing.T) {
		svc, teardown := setup(t)
		defer teardown()

		result, err := svc.GetPriceHistory("ABC", nil, nil, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 3 {
			t.Fatalf("expected 3 bars, got %d", result.TotalItems)
		}
		if !result.Data[0].Date.Equal(day(2024, 1, 1)) {
			t.Errorf("expected ascending dates, got %v first", result.Data[0].Date)
		}
	})

	t.Run("single_day_range_returns_exactly_one_row", func(t *testing.T) {
		svc, teardown := setup(t)
		defer teardown()

		from := day(2024, 1, 1)
		to := day(2024, 1, 1)
		result, err := svc.GetPriceHistory("ABC", &from, &to, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Fatalf("expected exactly 1 bar, got %d", result.TotalItems)
		}
		if !result.Data[0].Date.Equal(day(2024, 1, 1)) {
			t.Errorf("expected 2024-01-01, got %v", result.Data[0].Date)
		}
	})

	t.Run("bounds_are_inclusive", func(t *testing.T) {
		svc, teardown := setup(t)
		defer teardown()

		from := day(2024, 1, 2)
		result, err := svc.GetPriceHistory("ABC", &from, nil, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 bars from 2024-01-02, got %d", result.TotalItems)
		}
	})

	t.Run("unknown_symbol_not_found", func(t *testing.T) {
		svc, teardown := setup(t)
		defer teardown()

		_, err := svc.GetPriceHistory("NOPE", nil, nil, pagination.PageRequest{})
		testutil.AssertAppError(t, err, "STOCK_NOT_FOUND")
	})
}
