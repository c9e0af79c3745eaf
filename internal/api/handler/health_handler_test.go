package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestHealthHandler_Readiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]Check
		wantStatus int
		wantBody   string
	}{
		{"no dependencies", nil, http.StatusOK, "ok"},
		{"all healthy", map[string]Check{"sql": ok, "redis": ok}, http.StatusOK, "ok"},
		{"one down", map[string]Check{"sql": ok, "mongodb": down}, http.StatusServiceUnavailable, "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/health/ready", "", "")
			if err := NewHealthHandler(tt.checks).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Status != tt.wantBody {
				t.Fatalf("expected status %q, got %q", tt.wantBody, resp.Status)
			}
			if len(resp.Dependencies) != len(tt.checks) {
				t.Fatalf("expected %d dependencies, got %d", len(tt.checks), len(resp.Dependencies))
			}
		})
	}
}

func TestHealthHandler_LivenessAndRoot(t *testing.T) {
	h := NewHealthHandler(nil)

	c, rec := newContext(http.MethodGet, "/health", "", "")
	if err := h.Liveness(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("liveness failed: %v %d", err, rec.Code)
	}

	c, rec = newContext(http.MethodGet, "/", "", "")
	if err := h.Root(c); err != nil {
		t.Fatalf("root failed: %v", err)
	}
	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Message != "Hello, World!" {
		t.Fatalf("unexpected root payload: %s", rec.Body.String())
	}
}
