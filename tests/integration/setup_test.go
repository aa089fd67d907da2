package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stockhub/internal/alphavantage"
	"stockhub/internal/config"
	apperrors "stockhub/internal/errors"
	"stockhub/internal/handlers"
	"stockhub/internal/logger"
	"stockhub/internal/middleware"
	"stockhub/internal/models"
	"stockhub/internal/services"
	"stockhub/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Market *stubMarketClient
	Router *gin.Engine
}

// stubMarketClient substitutes the upstream provider with canned data.
type stubMarketClient struct {
	series    map[string][]alphavantage.Bar
	overviews map[string]*alphavantage.Overview
}

func (s *stubMarketClient) DailySeries(_ context.Context, symbol, _ string) ([]alphavantage.Bar, error) {
	bars, ok := s.series[symbol]
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrNoDataForSymbol, "no daily series for "+symbol)
	}
	return bars, nil
}

func (s *stubMarketClient) CompanyOverview(_ context.Context, symbol string) (*alphavantage.Overview, error) {
	overview, ok := s.overviews[symbol]
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrNoDataForSymbol, "no overview for "+symbol)
	}
	return overview, nil
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
	config.Set(&config.Config{
		JWTSecret:        "integration-test-secret",
		JWTExpirationDur: time.Hour,
		MarketAPIKey:     "test-key",
	})
}

// setupIsolatedDB creates an isolated in-memory SQLite database with
// seeded roles and classification lookups.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Role{},
		&models.User{},
		&models.Country{},
		&models.Exchange{},
		&models.AssetClass{},
		&models.Asset{},
		&models.Stock{},
		&models.StockPrice{},
		&models.DailySummary{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	roles := []models.Role{
		{Name: "user", Permission: "read"},
		{Name: "admin", Permission: "write"},
	}
	if err := db.Create(&roles).Error; err != nil {
		t.Fatalf("failed to seed roles: %v", err)
	}
	if err := db.Create(&models.Country{Name: "USA", Code: "US"}).Error; err != nil {
		t.Fatalf("failed to seed country: %v", err)
	}
	if err := db.Create(&models.Exchange{Name: "NASDAQ", MIC: "XNAS"}).Error; err != nil {
		t.Fatalf("failed to seed exchange: %v", err)
	}
	if err := db.Create(&models.AssetClass{Name: "Common Stock"}).Error; err != nil {
		t.Fatalf("failed to seed asset class: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated
// in-memory SQLite and a stubbed market-data provider.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	market := &stubMarketClient{
		series:    map[string][]alphavantage.Bar{},
		overviews: map[string]*alphavantage.Overview{},
	}

	// Services
	userService := services.NewUserService(db)
	lookupService := services.NewLookupService(db)
	stockService := services.NewStockService(db, lookupService)
	assetService := services.NewAssetService(db, lookupService)
	priceService := services.NewPriceService(db, stockService)
	summaryService := services.NewSummaryService(db)
	ingestionService := services.NewIngestionService(market, stockService, priceService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	assetHandler := handlers.NewAssetHandler(assetService)
	marketDataHandler := handlers.NewMarketDataHandler(stockService, priceService, ingestionService, summaryService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/sign-up", authHandler.SignUp)
	auth.POST("/sign-in", authHandler.SignIn)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	users := protected.Group("/users")
	users.GET("", userHandler.ListUsers)
	users.POST("", userHandler.CreateUser)
	users.GET("/:id", userHandler.GetUser)
	users.PATCH("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", userHandler.DeleteUser)

	marketData := protected.Group("/market-data")
	marketData.GET("/stock", marketDataHandler.ListStocks)
	marketData.POST("/stock", marketDataHandler.UpsertStock)
	marketData.GET("/stock/:symbol", marketDataHandler.GetStock)
	marketData.GET("/stock/:symbol/prices", marketDataHandler.GetPrices)
	marketData.PUT("/stock/:symbol/prices", marketDataHandler.IngestPrices)
	marketData.GET("/daily-summary", marketDataHandler.GetDailySummary)
	marketData.POST("/daily-summary", marketDataHandler.RebuildDailySummary)
	marketData.GET("/assets", assetHandler.ListAssets)
	marketData.POST("/assets", assetHandler.CreateAsset)
	marketData.GET("/assets/:id", assetHandler.GetAsset)
	marketData.PATCH("/assets/:id", assetHandler.UpdateAsset)
	marketData.DELETE("/assets/:id", assetHandler.DeleteAsset)

	return &testApp{DB: db, Market: market, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// signUpUser registers a new user and returns the token and user ID.
func (app *testApp) signUpUser(t *testing.T, email, password string) (token string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"name":"Test","lastName":"User","username":"user%d","email":%q,"password":%q}`,
		dbCounter.Add(1), email, password)
	rec := app.request("POST", "/api/v1/auth/sign-up", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("sign-up failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(float64)
}

// signInUser signs in and returns the token.
func (app *testApp) signInUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/sign-in", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("sign-in failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}
