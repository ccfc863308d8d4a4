package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/forgo/jobboard/internal/cache"
)

// PingFunc checks that the database is reachable
type PingFunc func(ctx context.Context) error

// CacheStats reports cache counters
type CacheStats interface {
	Stats() cache.Stats
}

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	ping    PingFunc
	cache   CacheStats
	timeout time.Duration
}

// NewHealthHandler creates a health handler. stats may be nil, including a
// nil *cache.Store, in which case no cache section is reported.
func NewHealthHandler(ping PingFunc, stats CacheStats) *HealthHandler {
	if store, ok := stats.(*cache.Store); ok && store == nil {
		stats = nil
	}
	return &HealthHandler{
		ping:    ping,
		cache:   stats,
		timeout: 2 * time.Second,
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string       `json:"status"`
	Database string       `json:"database"`
	Cache    *cache.Stats `json:"cache,omitempty"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Database: "ok"}
	status := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	if err := h.ping(ctx); err != nil {
		slog.Warn("health check: database ping failed", slog.String("error", err.Error()))
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	if h.cache != nil {
		stats := h.cache.Stats()
		resp.Cache = &stats
	}

	WriteData(w, status, resp, nil)
}
