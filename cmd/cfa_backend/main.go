package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/SscSPs/cash_flow_app/internal/adapters/spreadsheet"
	portsrepo "github.com/SscSPs/cash_flow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cash_flow_app/internal/core/ports/services"
	"github.com/SscSPs/cash_flow_app/internal/core/services"
	"github.com/SscSPs/cash_flow_app/internal/handlers"
	"github.com/SscSPs/cash_flow_app/internal/middleware"
	"github.com/SscSPs/cash_flow_app/internal/platform/config"
	"github.com/SscSPs/cash_flow_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/cash_flow_app/internal/repositories/file"
	"github.com/SscSPs/cash_flow_app/internal/repositories/gcs"
	"github.com/SscSPs/cash_flow_app/internal/repositories/memory"
	"github.com/SscSPs/cash_flow_app/internal/repositories/snapshot"
	"github.com/SscSPs/cash_flow_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Cash Flow Backend API
// @version 1.0
// @description Payables schedule: import reconciliation, priority ordering, balance allocation and installment splits.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	repos, closeStore, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize snapshot storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	importer := spreadsheet.NewImporter(cfg.ImportSheetName)
	container, err := services.NewServiceContainer(cfg, repos, importer)
	if err != nil {
		logger.Error("Failed to initialize services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.ImportSpreadsheetPath != "" {
		importOnStartup(ctx, container, cfg.ImportSpreadsheetPath, logger)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(rateLimiter))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container)

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// openRepositories builds the snapshot repositories for the configured storage driver. The
// returned func releases the underlying store.
func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StorageDriver {
	case config.StoragePgSQL:
		if cfg.RunMigrations {
			if err := runMigrations(cfg, logger); err != nil {
				return portsrepo.RepositoryProvider{}, nil, err
			}
		}
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(dbPool, cfg.SnapshotName), dbPool.Close, nil

	case config.StorageGCS:
		store, err := gcs.NewDocumentStore(ctx, cfg.GCSBucket, cfg.GCSPrefix)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Using GCS snapshot storage", slog.String("bucket", cfg.GCSBucket), slog.String("prefix", cfg.GCSPrefix))
		closeStore := func() {
			if err := store.Close(); err != nil {
				logger.Error("Error closing GCS client", slog.String("error", err.Error()))
			}
		}
		return snapshot.NewRepositoryProvider(store, cfg.SnapshotName), closeStore, nil

	case config.StorageMemory:
		logger.Warn("Using in-memory snapshot storage, nothing survives a restart")
		return snapshot.NewRepositoryProvider(memory.NewDocumentStore(), cfg.SnapshotName), func() {}, nil

	default:
		store, err := file.NewDocumentStore(cfg.DataDir)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Using file snapshot storage", slog.String("dir", cfg.DataDir))
		return snapshot.NewRepositoryProvider(store, cfg.SnapshotName), func() {}, nil
	}
}

// runMigrations applies every pending "up" migration using a short-lived database/sql
// connection on the pgx stdlib driver.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// importOnStartup refreshes the working set from a workbook on disk. A failed import leaves the
// stored snapshot authoritative and the server starts anyway.
func importOnStartup(ctx context.Context, container *portssvc.ServiceContainer, path string, logger *slog.Logger) {
	logger = logger.With(slog.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		logger.Warn("Startup import skipped, workbook unreadable", slog.String("error", err.Error()))
		return
	}
	defer f.Close()

	resp, err := container.Schedule.ImportSpreadsheet(ctx, f, filepath.Base(path))
	if err != nil {
		logger.Warn("Startup import failed, serving stored snapshot", slog.String("error", err.Error()))
		return
	}
	logger.Info("Startup import applied",
		slog.Int("records", resp.RecordCount),
		slog.Int("matched", resp.Stats.Matched),
		slog.Int("updated", resp.Stats.Updated),
		slog.Bool("degraded", resp.Degraded))
}
