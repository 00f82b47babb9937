package models

import "time"

// ServerStatsResponse contains runtime statistics for the mockserver process.
type ServerStatsResponse struct {
	Uptime        string                `json:"uptime"`
	UptimeSeconds int64                 `json:"uptime_seconds"`
	StartTime     time.Time             `json:"start_time"`
	GoRoutines    int                   `json:"goroutines"`
	MemoryAllocMB float64               `json:"memory_alloc_mb"`
	NumCPU        int                   `json:"num_cpu"`
	Requests      RequestStatsResponse  `json:"requests"`
	Process       *ProcessStatsResponse `json:"process,omitempty"`
}

// RequestStatsResponse contains mock request counters.
type RequestStatsResponse struct {
	Total        uint64            `json:"total"`
	ByMethod     map[string]uint64 `json:"by_method"`
	BytesWritten uint64            `json:"bytes_written"`
	AvgLatencyMs float64           `json:"avg_latency_ms"`
}

// ProcessStatsResponse contains OS-level process metrics.
type ProcessStatsResponse struct {
	PID        int32   `json:"pid"`
	RSSMB      float64 `json:"rss_mb"`
	VMSMB      float64 `json:"vms_mb"`
	CPUPercent float64 `json:"cpu_percent"`
	NumThreads int32   `json:"num_threads"`
}
