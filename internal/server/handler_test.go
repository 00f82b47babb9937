package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/jroosing/mockserver/internal/config"
	"github.com/jroosing/mockserver/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...server.Option) *server.Server {
	t.Helper()
	cfg := config.ServerConfig{Host: "127.0.0.1", Port: 0}
	opts = append([]server.Option{server.WithBannerOutput(io.Discard)}, opts...)
	return server.New(cfg, opts...)
}

func serve(s *server.Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

// =============================================================================
// Concrete Scenarios
// =============================================================================

func TestHandler_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		want   string
	}{
		{"get root", http.MethodGet, "/", `{"message":"Request successful","path":"/","status":"ok"}`},
		{"post with query", http.MethodPost, "/foo/bar?x=1", `{"message":"Request successful","path":"/foo/bar?x=1","status":"ok"}`},
		{"delete", http.MethodDelete, "/anything", `{"message":"Request successful","path":"/anything","status":"ok"}`},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(s, tt.method, tt.target, nil)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

// =============================================================================
// Properties
// =============================================================================

func TestHandler_EchoesTargetVerbatim(t *testing.T) {
	targets := []string{
		"/",
		"/a",
		"/deeply/nested/path/with/many/segments/",
		"/search?q=hello%20world&lang=en",
		"/a?x=<y>&z=1",
		"/a/../b/./c",
		"//double//slashes",
		"/trailing/",
		"/unicode/%E2%9C%93",
		"/?",
	}

	s := newTestServer(t)
	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			w := serve(s, http.MethodGet, target, nil)
			require.Equal(t, http.StatusOK, w.Code)

			var ack server.Acknowledgment
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
			assert.Equal(t, target, ack.Path)
		})
	}
}

func TestHandler_MethodDoesNotAffectBody(t *testing.T) {
	methods := []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodDelete,
		http.MethodPatch,
		http.MethodOptions,
		"PURGE",
	}

	s := newTestServer(t)
	reference := serve(s, http.MethodGet, "/same/path?k=v", nil).Body.String()

	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			w := serve(s, method, "/same/path?k=v", nil)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, reference, w.Body.String())
		})
	}
}

func TestHandler_BodyHasExactlyThreeKeys(t *testing.T) {
	s := newTestServer(t)
	w := serve(s, http.MethodPut, "/x", strings.NewReader(`{"ignored":true}`))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))

	assert.Len(t, raw, 3)
	assert.Equal(t, "Request successful", raw["message"])
	assert.Equal(t, "/x", raw["path"])
	assert.Equal(t, "ok", raw["status"])
}

func TestHandler_DoesNotEscapeHTML(t *testing.T) {
	s := newTestServer(t)
	w := serve(s, http.MethodGet, "/a?b=1&c=<d>", nil)

	assert.Contains(t, w.Body.String(), `"path":"/a?b=1&c=<d>"`)
}

func TestHandler_IgnoresAndDrainsBody(t *testing.T) {
	s := newTestServer(t)
	body := strings.NewReader(strings.Repeat("x", 4096))

	w := serve(s, http.MethodPost, "/upload", body)

	assert.Equal(t, `{"message":"Request successful","path":"/upload","status":"ok"}`, w.Body.String())
	assert.Zero(t, body.Len(), "small bodies should be drained")
}

// =============================================================================
// RequestTarget
// =============================================================================

func TestRequestTarget(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/raw?q=1", nil)
	assert.Equal(t, "/raw?q=1", server.RequestTarget(req))

	// In-process requests without a raw target fall back to the URL.
	req.RequestURI = ""
	assert.Equal(t, "/raw?q=1", server.RequestTarget(req))

	req.URL.Path = ""
	req.URL.RawQuery = ""
	assert.Equal(t, "", server.RequestTarget(req))
}

func TestHandler_EmptyTarget(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RequestURI = ""
	req.URL.Path = ""
	w := httptest.NewRecorder()

	s.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"message":"Request successful","path":"","status":"ok"}`, w.Body.String())
}

// =============================================================================
// Acknowledgment encoding
// =============================================================================

func TestAcknowledgment_EncodeTo(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("prefix:")

	require.NoError(t, server.NewAcknowledgment("/p").EncodeTo(&buf))

	assert.Equal(t, `prefix:{"message":"Request successful","path":"/p","status":"ok"}`, buf.String())
}

// =============================================================================
// Access logging
// =============================================================================

type recordingLogger struct {
	mu      sync.Mutex
	entries []server.AccessEntry
}

func (r *recordingLogger) LogRequest(_ context.Context, e server.AccessEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func TestHandler_LogsEachRequest(t *testing.T) {
	rec := &recordingLogger{}
	s := newTestServer(t, server.WithAccessLogger(rec))

	req := httptest.NewRequest(http.MethodPost, "/logged?x=1", nil)
	req.RemoteAddr = "127.0.0.1:54321"
	s.Engine().ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, rec.entries, 1)
	e := rec.entries[0]
	assert.Equal(t, http.MethodPost, e.Method)
	assert.Equal(t, "127.0.0.1:54321", e.ClientAddr)
	assert.Equal(t, "/logged?x=1", e.Target)
	assert.Equal(t, http.StatusOK, e.Status)
}

func TestHandler_PanickingLoggerDoesNotAffectResponse(t *testing.T) {
	boom := server.AccessLoggerFunc(func(context.Context, server.AccessEntry) {
		panic("log sink exploded")
	})
	s := newTestServer(t, server.WithAccessLogger(boom))

	var w *httptest.ResponseRecorder
	require.NotPanics(t, func() {
		w = serve(s, http.MethodGet, "/still/ok", nil)
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"message":"Request successful","path":"/still/ok","status":"ok"}`, w.Body.String())
}

func TestHandler_PanickingLoggerIsReported(t *testing.T) {
	var logBuf syncBuffer
	logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	boom := server.AccessLoggerFunc(func(context.Context, server.AccessEntry) {
		panic("log sink exploded")
	})
	s := newTestServer(t, server.WithLogger(logger), server.WithAccessLogger(boom))

	w := serve(s, http.MethodGet, "/reported", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	out := logBuf.String()
	assert.Contains(t, out, "access logger panicked")
	assert.Contains(t, out, "log sink exploded")
	assert.Contains(t, out, "path=/reported")
}

func TestSlogAccessLogger_NilLogger(t *testing.T) {
	a := server.SlogAccessLogger(nil)
	assert.NotPanics(t, func() {
		a.LogRequest(context.Background(), server.AccessEntry{Method: "GET"})
	})
}
