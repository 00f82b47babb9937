package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/mockserver/internal/api/models"
)

const bytesPerMB = 1024 * 1024

// Health godoc
// @Summary Health check
// @Description Returns server health status
// @Tags system
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatusResponse{Status: "ok"})
}

// Stats godoc
// @Summary Server statistics
// @Description Returns uptime, Go runtime and process metrics, and mock request counters
// @Tags system
// @Produce json
// @Success 200 {object} models.ServerStatsResponse
// @Router /stats [get]
func (h *Handler) Stats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.startTime)

	resp := models.ServerStatsResponse{
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: int64(uptime.Seconds()),
		StartTime:     h.startTime,
		GoRoutines:    runtime.NumGoroutine(),
		MemoryAllocMB: float64(m.Alloc) / bytesPerMB,
		NumCPU:        runtime.NumCPU(),
		Requests: models.RequestStatsResponse{
			ByMethod: map[string]uint64{},
		},
	}

	if fn := h.GetRequestStatsFunc(); fn != nil {
		snap := fn()
		resp.Requests = models.RequestStatsResponse{
			Total:        snap.RequestsTotal,
			ByMethod:     snap.ByMethod,
			BytesWritten: snap.BytesWritten,
			AvgLatencyMs: snap.AvgLatencyMs,
		}
		if resp.Requests.ByMethod == nil {
			resp.Requests.ByMethod = map[string]uint64{}
		}
	}

	if fn := h.getProcessStatsFunc(); fn != nil {
		snap, err := fn()
		if err != nil {
			if h.logger != nil {
				h.logger.Debug("process stats unavailable", "err", err)
			}
		} else {
			resp.Process = &models.ProcessStatsResponse{
				PID:        snap.PID,
				RSSMB:      float64(snap.RSSBytes) / bytesPerMB,
				VMSMB:      float64(snap.VMSBytes) / bytesPerMB,
				CPUPercent: snap.CPUPercent,
				NumThreads: snap.NumThreads,
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
