package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencashbook/cashbook_backend/internal/adapters/database/pgsql"
	"github.com/opencashbook/cashbook_backend/internal/core/services"
	"github.com/opencashbook/cashbook_backend/internal/handlers"
	"github.com/opencashbook/cashbook_backend/internal/middleware"
	"github.com/opencashbook/cashbook_backend/internal/platform/config"
	"github.com/opencashbook/cashbook_backend/pkg/database"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Cash Book Backend API
// @version 1.0
// @description Single-ledger cash book: receipts, payments, fiscal-year reports and CSV ingestion.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handlers.RegisterValidations(); err != nil {
		logger.Error("Failed to register custom validations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("error", err.Error()))
		os.Exit(1)
	}
	limiterInstance := limiter.New(memory.NewStore(), rate)

	r.GET("/", handlers.GetHome)
	setupAPIV1Routes(r, cfg, dbPool, limiterInstance)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// Open a standard sql.DB connection for migrations using the pgx stdlib
	// driver, compatible with the main pool.
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		return err
	}
	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, dbPool *pgxpool.Pool, limiterInstance *limiter.Limiter) {
	v1 := r.Group("/api/v1", middleware.RateLimit(limiterInstance))

	recordRepo := pgsql.NewPgxRecordRepository(dbPool)
	reportService := services.NewReportService(recordRepo, cfg.ReportCacheTTL)
	recordService := services.NewRecordService(recordRepo, reportService)
	importService := services.NewImportService(recordRepo, recordService)

	recordHandler := handlers.NewRecordHandler(recordService)
	reportHandler := handlers.NewReportHandler(reportService)
	importHandler := handlers.NewImportHandler(recordService, importService)
	fiscalHandler := handlers.NewFiscalHandler()

	records := v1.Group("/records")
	{
		records.POST("", recordHandler.CreateRecord)
		records.GET("", recordHandler.ListRecords)
		records.GET("/:recordID", recordHandler.GetRecord)
		records.PUT("/:recordID", recordHandler.UpdateRecord)
		records.DELETE("/:recordID", recordHandler.DeleteRecord)
		records.DELETE("", recordHandler.DeleteRecords)
	}

	reports := v1.Group("/reports")
	{
		reports.GET("/cashbook", reportHandler.CashBook)
		reports.GET("/cashbook/export", reportHandler.ExportCashBookCSV)
	}

	imports := v1.Group("/imports")
	{
		imports.POST("/records", importHandler.BulkImportRecords)
		imports.POST("/fees", importHandler.ImportFees)
		imports.POST("/salary", importHandler.ImportSalary)
	}

	v1.GET("/fiscal-years", fiscalHandler.ListFiscalYears)
}
