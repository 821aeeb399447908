package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers for the snapshot documents.
const (
	StorageFile   = "file"
	StoragePgSQL  = "pgsql"
	StorageGCS    = "gcs"
	StorageMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	Port         string `validate:"required"`
	IsProduction bool

	StorageDriver  string `validate:"oneof=file pgsql gcs memory"`
	DataDir        string `validate:"required_if=StorageDriver file"`
	DatabaseURL    string `validate:"required_if=StorageDriver pgsql"`
	EnableDBCheck  bool
	RunMigrations  bool
	MigrationsPath string
	GCSBucket      string `validate:"required_if=StorageDriver gcs"`
	GCSPrefix      string
	SnapshotName   string `validate:"required"`

	ReconcileKeyStrategy  string   `validate:"oneof=natural surrogate"`
	PrimaryBalanceAccount string   `validate:"required"`
	BalanceAccounts       []string `validate:"min=1,dive,required"`

	ImportSpreadsheetPath string
	ImportSheetName       string

	JWTSecret          string
	CORSAllowedOrigins []string
	RateLimit          string `validate:"required"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORAGE_DRIVER", StorageFile)
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("GCS_BUCKET", "")
	v.SetDefault("GCS_PREFIX", "cashflow")
	v.SetDefault("SNAPSHOT_NAME", "default")
	v.SetDefault("RECONCILE_KEY_STRATEGY", "natural")
	v.SetDefault("PRIMARY_BALANCE_ACCOUNT", "bradesco")
	v.SetDefault("BALANCE_ACCOUNTS", "bradesco,banco_brasil,reag")
	v.SetDefault("IMPORT_SPREADSHEET_PATH", "")
	v.SetDefault("IMPORT_SHEET_NAME", "Analítico")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("RATE_LIMIT", "100-M")

	v.AutomaticEnv()

	cfg := &Config{
		Port:                  v.GetString("PORT"),
		IsProduction:          v.GetBool("IS_PRODUCTION"),
		StorageDriver:         strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		DataDir:               v.GetString("DATA_DIR"),
		DatabaseURL:           v.GetString("PGSQL_URL"),
		EnableDBCheck:         v.GetBool("ENABLE_DB_CHECK"),
		RunMigrations:         v.GetBool("RUN_MIGRATIONS"),
		MigrationsPath:        v.GetString("MIGRATIONS_PATH"),
		GCSBucket:             v.GetString("GCS_BUCKET"),
		GCSPrefix:             v.GetString("GCS_PREFIX"),
		SnapshotName:          strings.TrimSpace(v.GetString("SNAPSHOT_NAME")),
		ReconcileKeyStrategy:  strings.ToLower(strings.TrimSpace(v.GetString("RECONCILE_KEY_STRATEGY"))),
		PrimaryBalanceAccount: strings.TrimSpace(v.GetString("PRIMARY_BALANCE_ACCOUNT")),
		BalanceAccounts:       splitList(v.GetString("BALANCE_ACCOUNTS")),
		ImportSpreadsheetPath: v.GetString("IMPORT_SPREADSHEET_PATH"),
		ImportSheetName:       v.GetString("IMPORT_SHEET_NAME"),
		JWTSecret:             v.GetString("JWT_SECRET"),
		CORSAllowedOrigins:    splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RateLimit:             v.GetString("RATE_LIMIT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET not set. Bearer token verification is disabled.")
	}
	if !contains(cfg.BalanceAccounts, cfg.PrimaryBalanceAccount) {
		log.Printf("Warning: PRIMARY_BALANCE_ACCOUNT %q is not listed in BALANCE_ACCOUNTS. Adding it.\n", cfg.PrimaryBalanceAccount)
		cfg.BalanceAccounts = append(cfg.BalanceAccounts, cfg.PrimaryBalanceAccount)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
