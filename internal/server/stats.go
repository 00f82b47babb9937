package server

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestStats collects mock request statistics.
// All methods are safe for concurrent use.
type RequestStats struct {
	total          atomic.Uint64
	get            atomic.Uint64
	post           atomic.Uint64
	put            atomic.Uint64
	patch          atomic.Uint64
	del            atomic.Uint64
	head           atomic.Uint64
	options        atomic.Uint64
	other          atomic.Uint64
	bytesWritten   atomic.Uint64
	latencyTotalNs atomic.Uint64
}

// NewRequestStats creates a new request statistics collector.
func NewRequestStats() *RequestStats {
	return &RequestStats{}
}

// Record records one served request.
func (s *RequestStats) Record(method string, bytes int, latency time.Duration) {
	s.total.Add(1)
	s.counter(method).Add(1)
	if bytes > 0 {
		s.bytesWritten.Add(uint64(bytes))
	}
	if latency > 0 {
		s.latencyTotalNs.Add(uint64(latency.Nanoseconds()))
	}
}

func (s *RequestStats) counter(method string) *atomic.Uint64 {
	switch method {
	case http.MethodGet:
		return &s.get
	case http.MethodPost:
		return &s.post
	case http.MethodPut:
		return &s.put
	case http.MethodPatch:
		return &s.patch
	case http.MethodDelete:
		return &s.del
	case http.MethodHead:
		return &s.head
	case http.MethodOptions:
		return &s.options
	default:
		return &s.other
	}
}

// RequestStatsSnapshot is a point-in-time snapshot of request statistics.
type RequestStatsSnapshot struct {
	RequestsTotal uint64
	ByMethod      map[string]uint64
	BytesWritten  uint64
	AvgLatencyMs  float64
}

// Snapshot returns the current statistics. Methods never seen are omitted
// from ByMethod; extension methods are grouped under "OTHER".
func (s *RequestStats) Snapshot() RequestStatsSnapshot {
	total := s.total.Load()
	latencyNs := s.latencyTotalNs.Load()

	avgLatencyMs := 0.0
	if total > 0 {
		avgLatencyMs = float64(latencyNs) / float64(total) / 1e6
	}

	byMethod := make(map[string]uint64, 8)
	for name, c := range map[string]*atomic.Uint64{
		http.MethodGet:     &s.get,
		http.MethodPost:    &s.post,
		http.MethodPut:     &s.put,
		http.MethodPatch:   &s.patch,
		http.MethodDelete:  &s.del,
		http.MethodHead:    &s.head,
		http.MethodOptions: &s.options,
		"OTHER":            &s.other,
	} {
		if n := c.Load(); n > 0 {
			byMethod[name] = n
		}
	}

	return RequestStatsSnapshot{
		RequestsTotal: total,
		ByMethod:      byMethod,
		BytesWritten:  s.bytesWritten.Load(),
		AvgLatencyMs:  avgLatencyMs,
	}
}

// statsMiddleware records every request that passes through the engine.
func statsMiddleware(stats *RequestStats) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		stats.Record(c.Request.Method, c.Writer.Size(), time.Since(start))
	}
}
