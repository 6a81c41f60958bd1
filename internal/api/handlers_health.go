// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

package api

import (
	"net/http"
	"time"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping() error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db        Pinger
	startTime time.Time
}

// NewHealthHandler creates a health handler checking the given
// database.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, startTime: time.Now()}
}

// Live handles GET /api/v1/health/live. It succeeds as long as the
// process is serving requests.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "ok"})
}

// Ready handles GET /api/v1/health/ready. It fails when the database
// is unreachable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.db.Ping(); err != nil {
		rw.Error(http.StatusServiceUnavailable, ErrCodeInternalError, "database unreachable")
		return
	}

	rw.Success(map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	})
}
