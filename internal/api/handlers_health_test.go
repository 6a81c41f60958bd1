// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

package api

import (
	"net/http"
	"testing"
)

func TestHealthLive(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, fixtureSource(), nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp := decodeResponse(t, rec); !resp.Success {
		t.Errorf("success = false: %+v", resp.Error)
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterConfig{RateLimitDisabled: true},
		newTestHandler(t, fixtureSource(), nil), NewHealthHandler(pingOK{}))

	rec := doRequest(t, router, http.MethodGet, "/api/v1/health/ready", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHealthReady_DatabaseDown(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterConfig{RateLimitDisabled: true},
		newTestHandler(t, fixtureSource(), nil), NewHealthHandler(pingFail{}))

	rec := doRequest(t, router, http.MethodGet, "/api/v1/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	resp := decodeResponse(t, rec)
	if resp.Success {
		t.Error("success = true for unreachable database")
	}
}
