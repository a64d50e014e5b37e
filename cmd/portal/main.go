// Entry point of the portal — the Föreningshandboken order site.
// Loads the configuration, applies migrations, connects to PostgreSQL,
// creates the blob store client when configured, wires the service
// layer and page handlers, starts dependency monitoring and the HTTP
// server with graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pontush81/portal/internal/blobstore"
	"github.com/pontush81/portal/internal/config"
	"github.com/pontush81/portal/internal/database"
	"github.com/pontush81/portal/internal/repository"
	"github.com/pontush81/portal/internal/server"
	"github.com/pontush81/portal/internal/service"
	"github.com/pontush81/portal/internal/web/handlers"
	"github.com/pontush81/portal/internal/web/i18n"
)

func main() {
	// 1. Configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Logging
	logger := config.SetupLogger(cfg)
	logger.Info("portal starting",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// Warnings for absent optional settings (blob store, Stripe).
	// None of these block startup.
	for _, warning := range cfg.Warnings() {
		logger.Warn(warning)
	}

	// 3. i18n catalogs
	bundle := i18n.Init(logger)
	if err := i18n.LoadFromEmbedFS(bundle, logger); err != nil {
		logger.Error("i18n load error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Database migrations
	logger.Info("applying database migrations...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("migration error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. PostgreSQL connection pool
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("PostgreSQL connection error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 5.1 pgxpool → *sql.DB adapter for topologymetrics (pool mode).
	// Health checks run through the existing connection pool, which
	// detects pool exhaustion.
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 6. Blob store client (optional)
	var blobClient *blobstore.Client
	if cfg.BlobStoreConfigured() {
		blobClient = blobstore.New(cfg.BlobStoreURL, cfg.BlobStoreKey, cfg.BlobStoreBucket, logger)
		logger.Info("blob store client created",
			slog.String("url", cfg.BlobStoreURL),
			slog.String("bucket", cfg.BlobStoreBucket),
		)
	}

	// 7. Repositories and services
	handbookRepo := repository.NewHandbookRepository(pool)
	handbooksSvc := service.NewHandbookService(handbookRepo, logger)

	var uploader service.LogoUploader
	if blobClient != nil {
		uploader = blobClient
	}
	submissionsSvc := service.NewSubmissionService(handbooksSvc, uploader, logger)

	// 8. Dependency monitoring (topologymetrics)
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"portal",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.BlobStoreURL,
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics unavailable, starting without dependency monitoring",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("topologymetrics start error",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics started",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 9. Readiness checkers and page handlers
	pgChecker := database.NewReadinessChecker(pool)
	var blobChecker handlers.ReadinessChecker
	if blobClient != nil {
		blobChecker = blobstore.NewReadinessChecker(blobClient)
	}

	h := server.Handlers{
		Order:        handlers.NewOrderHandler(submissionsSvc, cfg.ProductPrice, blobClient != nil, logger),
		Confirmation: handlers.NewConfirmationHandler(handbooksSvc, logger),
		Info:         handlers.NewInfoHandler(logger),
		Health:       handlers.NewHealthHandler(pgChecker, blobChecker),
	}

	if cfg.TestPagesEnabled {
		h.Probe = handlers.NewProbeHandler(handbooksSvc, blobClient, logger)
		logger.Warn("test pages enabled — do not use in production")
	}

	// 10. HTTP server
	srv := server.New(cfg, logger, h)
	if err := srv.Run(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 11. Stop background tasks
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("portal stopped")
}
