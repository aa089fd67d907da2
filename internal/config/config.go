package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// DefaultMarketAPIBaseURL is the Alpha Vantage query endpoint used when
// MARKET_API_BASE_URL is not set.
const DefaultMarketAPIBaseURL = "https://www.alphavantage.co/query"

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Upstream market-data provider
	MarketAPIBaseURL string
	MarketAPIKey     string
	MarketAPITimeout time.Duration

	// Daily ingestion schedule (robfig/cron spec, minute-resolution)
	IngestCronSpec string
}

var appConfig *Config

// Load loads configuration from environment variables. Required variables
// missing from the environment fail here rather than at first use.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port:             getEnv("PORT", "8080"),
		JWTSecret:        getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		MarketAPIBaseURL: getEnv("MARKET_API_BASE_URL", DefaultMarketAPIBaseURL),
		MarketAPIKey:     os.Getenv("MARKET_API_KEY"),
		IngestCronSpec:   getEnv("INGEST_CRON", "30 18 * * *"),
	}

	if config.MarketAPIKey == "" {
		return nil, fmt.Errorf("MARKET_API_KEY is required")
	}

	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	timeoutStr := getEnv("MARKET_API_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		log.Printf("Warning: invalid MARKET_API_TIMEOUT value '%s', falling back to 10s\n", timeoutStr)
		timeout = 10 * time.Second
	}
	config.MarketAPITimeout = timeout

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Set overrides the cached configuration. Intended for tests.
func Set(c *Config) {
	appConfig = c
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
