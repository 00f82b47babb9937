// Package server implements the mock HTTP responder and its process lifecycle.
//
// Every request, whatever its method or path, is answered with status 200,
// Content-Type application/json and the body
//
//	{"message":"Request successful","path":"<request target>","status":"ok"}
//
// A Server is an explicitly constructed instance owning its listener, so
// several can run side by side (tests bind port 0). Shutdown is driven by the
// context passed to Serve or Run.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/mockserver/internal/config"
	"github.com/jroosing/mockserver/internal/logging"
)

// Server is the mock responder bound to a single loopback address.
type Server struct {
	cfg    config.ServerConfig
	logger *slog.Logger
	banner io.Writer
	access AccessLogger

	engine     *gin.Engine
	stats      *RequestStats
	httpServer *http.Server

	mu sync.Mutex
	ln net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger. It also backs the default access log.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithBannerOutput sets where the startup and shutdown notices go (default os.Stdout).
func WithBannerOutput(w io.Writer) Option {
	return func(s *Server) { s.banner = w }
}

// WithAccessLogger replaces the per-request access log.
func WithAccessLogger(a AccessLogger) Option {
	return func(s *Server) { s.access = a }
}

// New creates a Server. Nothing is bound until Listen or Run.
func New(cfg config.ServerConfig, opts ...Option) *Server {
	s := &Server{cfg: cfg, banner: os.Stdout}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if s.banner == nil {
		s.banner = io.Discard
	}
	if s.access == nil {
		s.access = SlogAccessLogger(s.logger)
	}

	gin.SetMode(gin.ReleaseMode)
	s.stats = NewRequestStats()
	s.engine = gin.New()
	s.engine.Use(gin.Recovery())
	s.engine.Use(statsMiddleware(s.stats))
	// No routes are registered, so every method and path lands here.
	s.engine.NoRoute(NewHandler(s.access, s.logger).Handle)

	s.httpServer = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: cfg.ReadHeaderTimeoutDuration(),
		// "OPTIONS *" gets the acknowledgment like any other request.
		DisableGeneralOptionsHandler: true,
		// Connection-level failures (bad request lines, resets) are the
		// transport's business; keep them out of the main log unless debugging.
		ErrorLog: slog.NewLogLogger(s.logger.Handler(), slog.LevelDebug),
	}
	return s
}

// Engine returns the gin engine serving the mock responses.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Stats returns the request counters.
func (s *Server) Stats() *RequestStats {
	return s.stats
}

// ConfiguredAddr returns host:port as configured.
func (s *Server) ConfiguredAddr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Addr returns the bound address once listening, otherwise the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.ConfiguredAddr()
}

// URL returns the base URL clients should use, keeping the configured host
// name and the actually bound port.
func (s *Server) URL() string {
	port := strconv.Itoa(s.cfg.Port)
	if _, p, err := net.SplitHostPort(s.Addr()); err == nil {
		port = p
	}
	return "http://" + net.JoinHostPort(s.cfg.Host, port)
}

// Listen binds the listening socket. Failures are returned as *BindError.
func (s *Server) Listen(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return errors.New("server: already listening")
	}

	addr := s.ConfiguredAddr()
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return &BindError{Addr: addr, Err: err}
	}
	s.ln = ln
	return nil
}

// Serve accepts connections on the bound listener until ctx is cancelled,
// then stops accepting and waits up to the drain timeout for in-flight
// requests. A clean shutdown returns nil.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return errors.New("server: Serve called before Listen")
	}

	fmt.Fprintf(s.banner, "Starting mock server on %s\n", s.URL())
	fmt.Fprintln(s.banner, "Press Ctrl+C to stop")
	s.logger.Info("mock server listening", "addr", ln.Addr().String(), "url", s.URL())

	errCh := make(chan error, 1)
	go func() { errCh <- s.httpServer.Serve(ln) }()

	select {
	case <-ctx.Done():
		// shutdown requested
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", ln.Addr(), err)
	}

	fmt.Fprintln(s.banner, "\nShutting down mock server...")
	s.shutdown()
	<-errCh
	return nil
}

// Run binds and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(ctx); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// shutdown drains in-flight requests, forcing connections closed once the
// drain timeout expires.
func (s *Server) shutdown() {
	timeout := s.cfg.DrainTimeoutDuration()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Warn("drain timed out, closing remaining connections", "timeout", timeout, "err", err)
		_ = s.httpServer.Close()
		return
	}
	s.logger.Info("mock server stopped")
}
