// Package config loads process configuration from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"costbook/internal/core/id"
	"costbook/internal/domain/distribution"
)

// Accounts is the chart of accounts the distribution generator books to.
type Accounts struct {
	InventoryValuation  string
	ReceivingAccrual    string
	InventoryAdjustment string
	COGS                string
	WipValuation        string
	ResourceAbsorption  string

	// InventoryAsset is the GL account reconciled against the subledger
	InventoryAsset string
}

// Chart maps line types to the configured accounts.
func (a Accounts) Chart() distribution.Chart {
	return distribution.Chart{
		distribution.LineInventoryValuation:  a.InventoryValuation,
		distribution.LineReceivingAccrual:    a.ReceivingAccrual,
		distribution.LineInventoryAdjustment: a.InventoryAdjustment,
		distribution.LineCOGS:                a.COGS,
		distribution.LineWipMaterial:         a.WipValuation,
		distribution.LineWipResource:         a.WipValuation,
		distribution.LineResourceAbsorption:  a.ResourceAbsorption,
	}
}

// Config is the process configuration shared by cmd/server and cmd/worker.
type Config struct {
	DatabaseURL string
	LogLevel    string
	Env         string
	Port        string

	RedisAddr     string
	RedisPassword string
	BatchLockTTL  time.Duration

	CostBatchPageSize       int
	WorkerInterval          time.Duration
	WorkerOrganizations     []id.ID
	ReconciliationTolerance decimal.Decimal
	DefaultCurrency         string

	Accounts Accounts
}

// Development reports whether the process runs in development mode.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// Load reads .env (when present) and the environment. DATABASE_URL is required.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Env:               getEnv("APP_ENV", "development"),
		Port:              getEnv("APP_PORT", "8080"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		BatchLockTTL:      getEnvDuration("BATCH_LOCK_TTL", 10*time.Minute),
		CostBatchPageSize: getEnvInt("COST_BATCH_PAGE_SIZE", 500),
		WorkerInterval:    getEnvDuration("WORKER_INTERVAL", 5*time.Minute),
		DefaultCurrency:   getEnv("DEFAULT_CURRENCY", "USD"),
		Accounts: Accounts{
			InventoryValuation:  getEnv("ACCOUNT_INVENTORY_VALUATION", "1400"),
			ReceivingAccrual:    getEnv("ACCOUNT_RECEIVING_ACCRUAL", "2150"),
			InventoryAdjustment: getEnv("ACCOUNT_INVENTORY_ADJUSTMENT", "5310"),
			COGS:                getEnv("ACCOUNT_COGS", "5000"),
			WipValuation:        getEnv("ACCOUNT_WIP_VALUATION", "1450"),
			ResourceAbsorption:  getEnv("ACCOUNT_RESOURCE_ABSORPTION", "5400"),
		},
	}
	cfg.Accounts.InventoryAsset = getEnv("ACCOUNT_INVENTORY_ASSET", cfg.Accounts.InventoryValuation)

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	tolerance, err := decimal.NewFromString(getEnv("RECONCILIATION_TOLERANCE", "0.01"))
	if err != nil {
		return nil, fmt.Errorf("parse RECONCILIATION_TOLERANCE: %w", err)
	}
	cfg.ReconciliationTolerance = tolerance

	for _, raw := range strings.Split(os.Getenv("WORKER_ORGANIZATIONS"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		orgID, err := id.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse WORKER_ORGANIZATIONS: %w", err)
		}
		cfg.WorkerOrganizations = append(cfg.WorkerOrganizations, orgID)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
