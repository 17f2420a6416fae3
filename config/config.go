package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Catalog backends selectable through CATALOG_SOURCE
const (
	CatalogSourceDB   = "db"
	CatalogSourceFile = "file"
)

// Config holds every setting the server reads from the environment
type Config struct {
	Port string
	Env  string

	// Primary store (PostgreSQL)
	DatabaseURL string
	// Secondary order store (SQLite file shared with the invoicing tools)
	SecondaryDBPath string

	CatalogSource string
	CatalogFile   string

	OrderSourceTag         string
	ShippingCost           decimal.Decimal
	ReplicationMaxAttempts int
	ReplicationBaseDelay   time.Duration

	JWTSecret string
	SyncToken string

	ReceiptsEnabled      bool
	ReceiptDir           string
	ChromePath           string
	DriveCredentialsPath string
	ReceiptDriveFolderID string
}

// Load reads the configuration from environment variables.
// Numeric values that cannot be parsed fall back to their defaults.
func Load(logger *zap.SugaredLogger) (*Config, error) {
	cfg := &Config{
		Port:                 strings.TrimPrefix(getEnv("PORT", "8080"), ":"),
		Env:                  getEnv("ENV", "development"),
		SecondaryDBPath:      getEnv("SECONDARY_DB_PATH", "./unified_orders.db"),
		CatalogSource:        strings.ToLower(getEnv("CATALOG_SOURCE", CatalogSourceDB)),
		CatalogFile:          getEnv("CATALOG_FILE", "catalog.json"),
		OrderSourceTag:       getEnv("ORDER_SOURCE_TAG", "ORD"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		SyncToken:            os.Getenv("SYNC_TOKEN"),
		ReceiptsEnabled:      getEnv("RECEIPTS_ENABLED", "false") == "true",
		ReceiptDir:           getEnv("RECEIPT_DIR", "receipts"),
		ChromePath:           os.Getenv("CHROME_PATH"),
		DriveCredentialsPath: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		ReceiptDriveFolderID: os.Getenv("RECEIPT_DRIVE_FOLDER_ID"),
	}

	dsn, err := primaryDSN()
	if err != nil {
		return nil, err
	}
	cfg.DatabaseURL = dsn

	if cfg.CatalogSource != CatalogSourceDB && cfg.CatalogSource != CatalogSourceFile {
		return nil, fmt.Errorf("invalid CATALOG_SOURCE %q: expected %q or %q", cfg.CatalogSource, CatalogSourceDB, CatalogSourceFile)
	}

	cfg.ShippingCost = decimal.RequireFromString("8.00")
	if raw := os.Getenv("SHIPPING_COST"); raw != "" {
		shipping, err := decimal.NewFromString(raw)
		if err != nil || shipping.IsNegative() {
			logger.Warnf("⚠️ Config: invalid SHIPPING_COST %q, using %s", raw, cfg.ShippingCost.StringFixed(2))
		} else {
			cfg.ShippingCost = shipping
		}
	}

	cfg.ReplicationMaxAttempts = getEnvInt(logger, "REPLICATION_MAX_ATTEMPTS", 3)
	if cfg.ReplicationMaxAttempts < 1 {
		logger.Warnf("⚠️ Config: REPLICATION_MAX_ATTEMPTS must be at least 1, using 1")
		cfg.ReplicationMaxAttempts = 1
	}

	cfg.ReplicationBaseDelay = 200 * time.Millisecond
	if raw := os.Getenv("REPLICATION_BASE_DELAY"); raw != "" {
		delay, err := time.ParseDuration(raw)
		if err != nil || delay < 0 {
			logger.Warnf("⚠️ Config: invalid REPLICATION_BASE_DELAY %q, using %s", raw, cfg.ReplicationBaseDelay)
		} else {
			cfg.ReplicationBaseDelay = delay
		}
	}

	if cfg.SyncToken == "" {
		logger.Warnf("⚠️ Config: SYNC_TOKEN not set, /api/sync/orders will reject every request")
	}

	return cfg, nil
}

// IsProduction reports whether ENV is set to production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// primaryDSN builds the PostgreSQL connection string from DATABASE_URL or the DB_* variables
func primaryDSN() (string, error) {
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		return connStr, nil
	}

	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	dbname := os.Getenv("DB_NAME")
	if host == "" || user == "" || dbname == "" {
		return "", fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host,
		getEnv("DB_PORT", "5432"),
		user,
		os.Getenv("DB_PASSWORD"),
		dbname,
		getEnv("DB_SSLMODE", "disable"),
	), nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(logger *zap.SugaredLogger, key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		logger.Warnf("⚠️ Config: invalid %s %q, using %d", key, raw, fallback)
		return fallback
	}
	return value
}
