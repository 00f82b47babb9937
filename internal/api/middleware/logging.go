// Package middleware provides HTTP middleware for the mockserver admin API.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SlogRequestLogger logs each admin request once it completes. Server errors
// log at ERROR, client errors at WARN, everything else at INFO.
func SlogRequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		if logger == nil {
			return
		}

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		logger.Log(c.Request.Context(), level, "admin request",
			"method", method,
			"path", path,
			"status", status,
			"bytes", max(c.Writer.Size(), 0),
			"latency_ms", time.Since(start).Milliseconds(),
			"client", c.Request.RemoteAddr,
		)
	}
}
