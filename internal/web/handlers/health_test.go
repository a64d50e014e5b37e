package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// staticChecker — fixed-outcome ReadinessChecker.
type staticChecker struct {
	status  string
	message string
}

func (c staticChecker) CheckReady() (string, string) {
	return c.status, c.message
}

func TestHealthLive(t *testing.T) {
	h := NewHealthHandler(staticChecker{"ok", ""}, nil)

	rec := httptest.NewRecorder()
	h.HealthLive(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
	if resp["service"] != "portal" {
		t.Errorf("service = %v, want portal", resp["service"])
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		pg         ReadinessChecker
		blob       ReadinessChecker
		wantCode   int
		wantStatus string
	}{
		{"all ok", staticChecker{"ok", ""}, staticChecker{"ok", ""}, http.StatusOK, "ok"},
		{"no blob store", staticChecker{"ok", ""}, nil, http.StatusOK, "ok"},
		{"postgres down", staticChecker{"fail", "connection refused"}, nil, http.StatusServiceUnavailable, "fail"},
		// A failing blob store only degrades readiness.
		{"blob store down", staticChecker{"ok", ""}, staticChecker{"fail", "timeout"}, http.StatusOK, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.pg, tt.blob)

			rec := httptest.NewRecorder()
			h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status code = %d, want %d", rec.Code, tt.wantCode)
			}
			var resp map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if resp["status"] != tt.wantStatus {
				t.Errorf("status = %v, want %s", resp["status"], tt.wantStatus)
			}
		})
	}
}

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		statuses []string
		want     string
	}{
		{[]string{"ok", "ok"}, "ok"},
		{[]string{"ok", "degraded"}, "degraded"},
		{[]string{"fail", "ok"}, "fail"},
		{[]string{"degraded", "fail"}, "fail"},
	}
	for _, tt := range tests {
		if got := overallStatus(tt.statuses...); got != tt.want {
			t.Errorf("overallStatus(%v) = %q, want %q", tt.statuses, got, tt.want)
		}
	}
}
