// dephealth.go — dependency monitoring through the topologymetrics SDK.
//
// The portal monitors up to two dependencies:
//   - PostgreSQL — SQL checker over the existing pgxpool (connection
//     pool mode, critical)
//   - blob store — HTTP checker against the service endpoint
//     (non-critical; submissions work without logo upload)
//
// Connection pool mode reflects the service's real ability to use the
// dependency and can detect pool exhaustion.
//
// The metrics are exposed on /metrics together with the rest of the
// Prometheus metrics:
//   - app_dependency_health — dependency state (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — check latency
//   - app_dependency_status — status category
//   - app_dependency_status_detail — detailed status
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // HTTP checker for the blob store
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"     // PostgreSQL checker (pool mode)
	"github.com/prometheus/client_golang/prometheus"
)

// DephealthService — dependency monitoring via topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService creates the dependency monitor. Metrics are
// registered in the global Prometheus registry.
//
// Parameters:
//   - serviceID — graph vertex name of this application (e.g. "portal")
//   - group — metric group name (HB_DEPHEALTH_GROUP)
//   - db — *sql.DB obtained from pgxpool via stdlib.OpenDBFromPool()
//   - pgConnURL — PostgreSQL connection URL (metric labels only)
//   - blobStoreURL — blob store endpoint; empty skips that check
//   - checkInterval — dependency check interval (HB_DEPHEALTH_CHECK_INTERVAL)
func NewDephealthService(
	serviceID string,
	group string,
	db *sql.DB,
	pgConnURL string,
	blobStoreURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, db, pgConnURL, blobStoreURL, checkInterval, logger)
}

// NewDephealthServiceWithRegisterer creates the monitor with a specific
// Prometheus registerer. Used in tests to isolate metrics.
func NewDephealthServiceWithRegisterer(
	serviceID string,
	group string,
	db *sql.DB,
	pgConnURL string,
	blobStoreURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, db, pgConnURL, blobStoreURL, checkInterval, logger,
		dephealth.WithRegisterer(registerer))
}

func newDephealthService(
	serviceID string,
	group string,
	db *sql.DB,
	pgConnURL string,
	blobStoreURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	extraOpts ...dephealth.Option,
) (*DephealthService, error) {
	opts := []dephealth.Option{
		dephealth.WithLogger(logger),
		// PostgreSQL — connection pool mode over the existing pgxpool.
		// The check runs through *sql.DB (pgxpool adapter), reflecting
		// the real pool state. pgcheck.New + AddDependency directly, to
		// avoid contrib/sqldb with its transitive MySQL dependency.
		dephealth.AddDependency("postgresql", dephealth.TypePostgres,
			pgcheck.New(pgcheck.WithDB(db)),
			dephealth.FromURL(pgConnURL),
			dephealth.CheckInterval(checkInterval),
			dephealth.Critical(true),
		),
	}

	// Blob store — optional; logo upload degrades gracefully when it
	// is down, so the dependency is not critical.
	if blobStoreURL != "" {
		opts = append(opts,
			dephealth.HTTP("blobstore",
				dephealth.FromURL(blobStoreURL),
				dephealth.CheckInterval(checkInterval),
				dephealth.Critical(false),
			),
		)
	}

	opts = append(opts, extraOpts...)

	dh, err := dephealth.New(serviceID, group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start begins the periodic dependency checks.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("dependency monitoring started")
	return ds.dh.Start(ctx)
}

// Stop stops the dependency monitoring.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("dependency monitoring stopped")
}

// Health returns the current dependency states.
// Key is the dependency name, value is true when ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}
