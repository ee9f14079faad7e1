package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	BackendScript = "script"
	BackendSheets = "sheets"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	// StorageBackend picks where bookings live: the Apps Script web app
	// proxy ("script") or the Sheets API directly ("sheets").
	StorageBackend        string
	ScriptURL             string
	SpreadsheetID         string
	GoogleCredentialsFile string

	PaystackSecretKey string
	PaystackPublicKey string

	Currency string
	TaxRate  float64
	PageSize int

	// MongoDBURI is optional; without it failed submissions are not parked
	// for retry.
	MongoDBURI      string
	MongoDBPassword string

	AllowOrigin string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                  getEnvWithDefault("PORT", "8080"),
		Environment:           getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:              getEnvWithDefault("LOG_LEVEL", "info"),
		StorageBackend:        getEnvWithDefault("STORAGE_BACKEND", BackendScript),
		ScriptURL:             os.Getenv("SCRIPT_URL"),
		SpreadsheetID:         os.Getenv("SPREADSHEET_ID"),
		GoogleCredentialsFile: getEnvWithDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		PaystackSecretKey:     os.Getenv("PAYSTACK_SECRET_KEY"),
		PaystackPublicKey:     os.Getenv("PAYSTACK_PUBLIC_KEY"),
		Currency:              getEnvWithDefault("CURRENCY", "GHS"),
		MongoDBURI:            os.Getenv("MONGODB_URI"),
		MongoDBPassword:       os.Getenv("MONGODB_PASSWORD"),
		AllowOrigin:           getEnvWithDefault("ALLOW_ORIGIN", "http://localhost:3000"),
	}

	taxRate, err := getEnvFloat("TAX_RATE", 0.12)
	if err != nil {
		return nil, err
	}
	cfg.TaxRate = taxRate

	pageSize, err := getEnvInt("PAGE_SIZE", 6)
	if err != nil {
		return nil, err
	}
	cfg.PageSize = pageSize

	// Validate required fields
	switch cfg.StorageBackend {
	case BackendScript:
		if cfg.ScriptURL == "" {
			return nil, fmt.Errorf("SCRIPT_URL is required when STORAGE_BACKEND is %q", BackendScript)
		}
	case BackendSheets:
		if cfg.SpreadsheetID == "" {
			return nil, fmt.Errorf("SPREADSHEET_ID is required when STORAGE_BACKEND is %q", BackendSheets)
		}
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND: %q (expected %q or %q)", cfg.StorageBackend, BackendScript, BackendSheets)
	}

	if cfg.PaystackSecretKey == "" {
		return nil, fmt.Errorf("PAYSTACK_SECRET_KEY is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %v", key, err)
	}
	return value, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
