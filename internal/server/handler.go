package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/mockserver/internal/pool"
)

// Acknowledgment constants.
const (
	AckMessage      = "Request successful"
	AckStatus       = "ok"
	ContentTypeJSON = "application/json"
)

// maxDrainBytes is how much of an unread request body is discarded so the
// connection can be reused. Anything larger is left for net/http, which
// closes the connection instead.
const maxDrainBytes = 64 << 10

// ackBufPool holds encode buffers; an acknowledgment is well under 512 bytes
// unless the request target is unusually long.
var ackBufPool = pool.NewBufferPool(256, 16<<10)

// Acknowledgment is the body returned for every request.
type Acknowledgment struct {
	Message string `json:"message"`
	Path    string `json:"path"`
	Status  string `json:"status"`
}

// NewAcknowledgment builds the acknowledgment for a request target.
func NewAcknowledgment(target string) Acknowledgment {
	return Acknowledgment{Message: AckMessage, Path: target, Status: AckStatus}
}

// EncodeTo appends the acknowledgment to buf as compact JSON without HTML
// escaping, so query strings such as "?a=1&b=2" appear in the body as sent.
func (a Acknowledgment) EncodeTo(buf *bytes.Buffer) error {
	start := buf.Len()
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(a); err != nil {
		buf.Truncate(start)
		return err
	}
	// Encode terminates with '\n'.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// RequestTarget returns the request-target exactly as it appeared on the
// request line. Requests constructed in-process carry no raw target, so the
// URL is used instead.
func RequestTarget(r *http.Request) string {
	if r.RequestURI != "" {
		return r.RequestURI
	}
	if r.URL == nil || (r.URL.Path == "" && r.URL.RawQuery == "" && r.URL.Opaque == "") {
		return ""
	}
	return r.URL.RequestURI()
}

// AccessEntry describes one served request.
type AccessEntry struct {
	Method     string
	ClientAddr string
	Target     string
	Status     int
	Latency    time.Duration
}

// AccessLogger receives one entry per served request.
type AccessLogger interface {
	LogRequest(ctx context.Context, entry AccessEntry)
}

// AccessLoggerFunc adapts a function to AccessLogger.
type AccessLoggerFunc func(ctx context.Context, entry AccessEntry)

func (f AccessLoggerFunc) LogRequest(ctx context.Context, entry AccessEntry) {
	f(ctx, entry)
}

// SlogAccessLogger logs entries at INFO on logger. A nil logger logs nothing.
func SlogAccessLogger(logger *slog.Logger) AccessLogger {
	return AccessLoggerFunc(func(ctx context.Context, e AccessEntry) {
		if logger == nil {
			return
		}
		logger.InfoContext(ctx, "request",
			"method", e.Method,
			"client", e.ClientAddr,
			"path", e.Target,
			"status", e.Status,
			"latency_ms", e.Latency.Milliseconds(),
		)
	})
}

// Handler answers every request with an Acknowledgment.
type Handler struct {
	access AccessLogger
	logger *slog.Logger
}

// NewHandler creates a Handler. access and logger may be nil; logger only
// reports access loggers that panic.
func NewHandler(access AccessLogger, logger *slog.Logger) *Handler {
	return &Handler{access: access, logger: logger}
}

// Handle is the gin handler. It never fails: the status is always 200.
func (h *Handler) Handle(c *gin.Context) {
	start := time.Now()
	r := c.Request
	target := RequestTarget(r)

	drainBody(r)

	buf := ackBufPool.Get()
	defer ackBufPool.Put(buf)
	// Encoding three strings cannot fail.
	_ = NewAcknowledgment(target).EncodeTo(buf)

	c.Data(http.StatusOK, ContentTypeJSON, buf.Bytes())

	h.logAccess(r.Context(), AccessEntry{
		Method:     r.Method,
		ClientAddr: r.RemoteAddr,
		Target:     target,
		Status:     c.Writer.Status(),
		Latency:    time.Since(start),
	})
}

// logAccess runs after the response is written; a misbehaving logger cannot
// change what the client receives.
func (h *Handler) logAccess(ctx context.Context, e AccessEntry) {
	if h.access == nil {
		return
	}
	defer func() {
		if v := recover(); v != nil && h.logger != nil {
			h.logger.DebugContext(ctx, "access logger panicked", "panic", v, "path", e.Target)
		}
	}()
	h.access.LogRequest(ctx, e)
}

func drainBody(r *http.Request) {
	if r.Body == nil || r.Body == http.NoBody {
		return
	}
	_, _ = io.CopyN(io.Discard, r.Body, maxDrainBytes)
}
