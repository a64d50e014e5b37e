// health.go — health endpoints of the portal.
// /health/live — liveness probe (process is up)
// /health/ready — readiness probe (PostgreSQL, optionally blob store)
// /metrics — Prometheus metrics
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pontush81/portal/internal/config"
)

// ReadinessChecker — readiness check of one dependency.
type ReadinessChecker interface {
	// CheckReady returns a status ("ok", "degraded", "fail") and a message.
	CheckReady() (status string, message string)
}

// HealthHandler — handler of the health endpoints.
type HealthHandler struct {
	pgChecker   ReadinessChecker
	blobChecker ReadinessChecker // nil when the blob store is not configured
	promHandler http.Handler
}

// NewHealthHandler creates the health endpoint handler.
// blobChecker may be nil; its check is then reported as skipped and
// does not affect readiness.
func NewHealthHandler(pgChecker, blobChecker ReadinessChecker) *HealthHandler {
	return &HealthHandler{
		pgChecker:   pgChecker,
		blobChecker: blobChecker,
		promHandler: promhttp.Handler(),
	}
}

// healthCheckResult — check outcome of one dependency.
type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// healthLiveResponse — liveness probe response.
type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

// healthReadyResponse — readiness probe response.
type healthReadyResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
	Checks    struct {
		PostgreSQL healthCheckResult `json:"postgresql"`
		BlobStore  healthCheckResult `json:"blobstore"`
	} `json:"checks"`
}

// HealthLive — liveness probe. Returns 200 while the process is up.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	resp := healthLiveResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   "portal",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// HealthReady — readiness probe. PostgreSQL is required; a failing
// blob store only degrades, because submissions without a logo keep
// working. Returns 200 (ok/degraded) or 503 (fail).
func (h *HealthHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	resp := healthReadyResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   "portal",
	}

	if h.pgChecker != nil {
		pgStatus, pgMsg := h.pgChecker.CheckReady()
		resp.Checks.PostgreSQL = healthCheckResult{Status: pgStatus, Message: pgMsg}
	} else {
		resp.Checks.PostgreSQL = healthCheckResult{Status: "fail", Message: "not initialized"}
	}

	if h.blobChecker != nil {
		blobStatus, blobMsg := h.blobChecker.CheckReady()
		if blobStatus == "fail" {
			blobStatus = "degraded"
		}
		resp.Checks.BlobStore = healthCheckResult{Status: blobStatus, Message: blobMsg}
	} else {
		resp.Checks.BlobStore = healthCheckResult{Status: "ok", Message: "not configured, logo upload disabled"}
	}

	resp.Status = overallStatus(resp.Checks.PostgreSQL.Status, resp.Checks.BlobStore.Status)

	w.Header().Set("Content-Type", "application/json")
	if resp.Status == "fail" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// GetMetrics — Prometheus metrics.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

// overallStatus folds dependency statuses into one.
// Any fail → fail; any degraded → degraded; otherwise ok.
func overallStatus(statuses ...string) string {
	hasDegraded := false
	for _, s := range statuses {
		if s == "fail" {
			return "fail"
		}
		if s == "degraded" {
			hasDegraded = true
		}
	}
	if hasDegraded {
		return "degraded"
	}
	return "ok"
}
