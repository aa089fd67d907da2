package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockhub/internal/alphavantage"
	"stockhub/internal/config"
	"stockhub/internal/database"
	"stockhub/internal/handlers"
	"stockhub/internal/logger"
	"stockhub/internal/middleware"
	"stockhub/internal/scheduler"
	"stockhub/internal/services"
	"stockhub/internal/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration; required variables fail here, not at first use
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Upstream market-data client
	marketClient := alphavantage.NewClient(
		appConfig.MarketAPIBaseURL,
		appConfig.MarketAPIKey,
		appConfig.MarketAPITimeout,
	)

	// Initialize services
	db := dbManager.DB()
	lookupService := services.NewLookupService(db)
	userService := services.NewUserService(db)
	stockService := services.NewStockService(db, lookupService)
	assetService := services.NewAssetService(db, lookupService)
	priceService := services.NewPriceService(db, stockService)
	summaryService := services.NewSummaryService(db)
	ingestionService := services.NewIngestionService(marketClient, stockService, priceService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	marketDataHandler := handlers.NewMarketDataHandler(stockService, priceService, ingestionService, summaryService)
	assetHandler := handlers.NewAssetHandler(assetService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/sign-up", authHandler.SignUp)
	auth.POST("/sign-in", authHandler.SignIn)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User management
	users := protected.Group("/users")
	users.GET("", userHandler.ListUsers)
	users.POST("", userHandler.CreateUser)
	users.GET("/:id", userHandler.GetUser)
	users.PATCH("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", userHandler.DeleteUser)

	// Market data
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

	// Daily ingestion schedule
	ingestScheduler := scheduler.New(appConfig.IngestCronSpec, ingestionService, summaryService)
	if err := ingestScheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer ingestScheduler.Stop()

	srv := &http.Server{
		Addr:    ":" + appConfig.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting stockhub backend server on port %s", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Infof("Received signal %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
