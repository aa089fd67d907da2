package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"stockhub/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// SeedRoles creates the default role set.
func SeedRoles(t *testing.T, db *gorm.DB) {
	t.Helper()

	roles := []models.Role{
		{Name: "user", Permission: "read"},
		{Name: "admin", Permission: "write"},
	}
	if err := db.Create(&roles).Error; err != nil {
		t.Fatalf("failed to seed roles: %v", err)
	}
}

// SeedClassifications creates the lookup rows ingestion resolves against.
func SeedClassifications(t *testing.T, db *gorm.DB) {
	t.Helper()

	if err := db.Create(&models.Country{Name: "USA", Code: "US"}).Error; err != nil {
		t.Fatalf("failed to seed country: %v", err)
	}
	exchanges := []models.Exchange{
		{Name: "NASDAQ", MIC: "XNAS"},
		{Name: "NYSE", MIC: "XNYS"},
	}
	if err := db.Create(&exchanges).Error; err != nil {
		t.Fatalf("failed to seed exchanges: %v", err)
	}
	if err := db.Create(&models.AssetClass{Name: "Common Stock"}).Error; err != nil {
		t.Fatalf("failed to seed asset class: %v", err)
	}
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	var role models.Role
	if err := db.Where("name = ?", "user").First(&role).Error; err != nil {
		t.Fatalf("default role missing, call SeedRoles first: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Password1!"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:     "Test",
		LastName: "User",
		Username: fmt.Sprintf("testuser%d", nextID()),
		Email:    email,
		Password: string(hash),
		RoleID:   role.ID,
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestStock creates a stock with its backing asset for a symbol.
func CreateTestStock(t *testing.T, db *gorm.DB, symbol string) *models.Stock {
	t.Helper()

	var country models.Country
	var exchange models.Exchange
	var class models.AssetClass
	if err := db.First(&country).Error; err != nil {
		t.Fatalf("classifications missing, call SeedClassifications first: %v", err)
	}
	if err := db.First(&exchange).Error; err != nil {
		t.Fatalf("failed to load exchange: %v", err)
	}
	if err := db.First(&class).Error; err != nil {
		t.Fatalf("failed to load asset class: %v", err)
	}

	asset := &models.Asset{
		Name:         fmt.Sprintf("%s Inc %d", symbol, nextID()),
		Ticker:       symbol,
		CountryID:    country.ID,
		ExchangeID:   exchange.ID,
		AssetClassID: class.ID,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}

	stock := &models.Stock{
		Symbol:  symbol,
		AssetID: asset.ID,
		Sector:  "Technology",
		Asset:   *asset,
	}
	if err := db.Create(stock).Error; err != nil {
		t.Fatalf("failed to create test stock: %v", err)
	}
	return stock
}

// CreateTestBar creates one price bar for a stock on a date.
func CreateTestBar(t *testing.T, db *gorm.DB, stockID uint, date time.Time, close float64, volume int64) *models.StockPrice {
	t.Helper()

	bar := &models.StockPrice{
		StockID: stockID,
		Date:    date,
		Open:    decimal.NewFromFloat(close).Sub(decimal.NewFromFloat(0.5)),
		High:    decimal.NewFromFloat(close).Add(decimal.NewFromFloat(1)),
		Low:     decimal.NewFromFloat(close).Sub(decimal.NewFromFloat(1)),
		Close:   decimal.NewFromFloat(close),
		Volume:  volume,
	}
	if err := db.Create(bar).Error; err != nil {
		t.Fatalf("failed to create test bar: %v", err)
	}
	return bar
}
