// Package handlers implements the admin API endpoint handlers for mockserver.
//
// REST API Endpoints:
//
//   - GET /api/v1/health - Health check status
//   - GET /api/v1/stats - Uptime, Go runtime, process metrics and mock request counters
//   - GET /api/v1/config - Effective configuration
//
// The admin API listens on its own loopback port and is disabled by default.
// It never shares a listener with the mock responder, whose every path must
// answer with the acknowledgment body.
//
// @title mockserver Admin API
// @version 1.0
// @description Read-only introspection for the mockserver process.
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:8082
// @BasePath /api/v1
package handlers

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jroosing/mockserver/internal/config"
)

// RequestStatsSnapshot contains a point-in-time snapshot of mock request statistics.
type RequestStatsSnapshot struct {
	RequestsTotal uint64
	ByMethod      map[string]uint64
	BytesWritten  uint64
	AvgLatencyMs  float64
}

// RequestStatsFunc is a function that returns mock request statistics.
type RequestStatsFunc func() RequestStatsSnapshot

// ProcessStatsSnapshot contains OS-level metrics for this process.
type ProcessStatsSnapshot struct {
	PID        int32
	RSSBytes   uint64
	VMSBytes   uint64
	CPUPercent float64
	NumThreads int32
}

// ProcessStatsFunc reads process metrics.
type ProcessStatsFunc func() (ProcessStatsSnapshot, error)

// Handler contains dependencies for API handlers.
type Handler struct {
	cfg       *config.Config
	logger    *slog.Logger
	startTime time.Time

	requestStatsFunc RequestStatsFunc
	processStatsFunc ProcessStatsFunc
	mu               sync.RWMutex
}

// New creates a new Handler. Process metrics come from gopsutil by default.
func New(cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:              cfg,
		logger:           logger,
		startTime:        time.Now(),
		processStatsFunc: ReadProcessStats,
	}
}

// SetRequestStatsFunc sets the function to retrieve mock request statistics.
func (h *Handler) SetRequestStatsFunc(fn RequestStatsFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requestStatsFunc = fn
}

// GetRequestStatsFunc retrieves the mock request statistics function.
func (h *Handler) GetRequestStatsFunc() RequestStatsFunc {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.requestStatsFunc
}

// SetProcessStatsFunc overrides how process metrics are read. nil disables them.
func (h *Handler) SetProcessStatsFunc(fn ProcessStatsFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.processStatsFunc = fn
}

func (h *Handler) getProcessStatsFunc() ProcessStatsFunc {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.processStatsFunc
}
