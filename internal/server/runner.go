package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jroosing/mockserver/internal/api"
	"github.com/jroosing/mockserver/internal/api/handlers"
	"github.com/jroosing/mockserver/internal/config"
)

// Runner orchestrates process startup and shutdown: the mock server and,
// when enabled, the admin API.
type Runner struct {
	logger *slog.Logger
	banner io.Writer
}

// NewRunner creates a new runner. banner receives the human-readable
// startup and shutdown notices; nil means os.Stdout.
func NewRunner(logger *slog.Logger, banner io.Writer) *Runner {
	if banner == nil {
		banner = os.Stdout
	}
	return &Runner{logger: logger, banner: banner}
}

// Run serves until SIGINT or SIGTERM.
//
// Server lifecycle:
//  1. Bind the mock listener (a bind failure is returned immediately)
//  2. Start the admin API if enabled
//  3. Serve until a shutdown signal arrives
//  4. Drain in-flight requests and stop the admin API
func (r *Runner) Run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return r.RunWithContext(ctx, cfg)
}

// RunWithContext is Run with the shutdown signal supplied by the caller.
func (r *Runner) RunWithContext(ctx context.Context, cfg *config.Config) error {
	ctx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	mock := New(cfg.Server, WithLogger(r.logger), WithBannerOutput(r.banner))
	if err := mock.Listen(ctx); err != nil {
		return err
	}

	mockErr := make(chan error, 1)
	go func() { mockErr <- mock.Serve(ctx) }()

	var admin *api.Server
	var adminErr chan error // nil unless the admin API runs
	if cfg.Admin.Enabled {
		admin = api.New(cfg, r.logger)
		admin.Handler().SetRequestStatsFunc(requestStatsFunc(mock.Stats()))
		adminErr = make(chan error, 1)
		go func() { adminErr <- r.serveAdmin(admin) }()
	}

	// Wait for shutdown or error
	var runErr error
	select {
	case <-ctx.Done():
		// shutdown requested via signal
	case runErr = <-mockErr:
		cancelRun()
		r.stopAdmin(admin)
		return runErr
	case runErr = <-adminErr:
		cancelRun()
	}

	r.stopAdmin(admin)
	// The mock server drains on its own once ctx is done.
	if err := <-mockErr; err != nil {
		return err
	}
	return runErr
}

func (r *Runner) stopAdmin(admin *api.Server) {
	if admin == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = admin.Shutdown(ctx)
}

func (r *Runner) serveAdmin(admin *api.Server) error {
	if r.logger != nil {
		r.logger.Info("admin api listening", "addr", admin.Addr())
	}
	if err := admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("admin api: %w", err)
	}
	return nil
}

// requestStatsFunc adapts RequestStats to the admin handler's view.
func requestStatsFunc(stats *RequestStats) handlers.RequestStatsFunc {
	return func() handlers.RequestStatsSnapshot {
		snap := stats.Snapshot()
		return handlers.RequestStatsSnapshot{
			RequestsTotal: snap.RequestsTotal,
			ByMethod:      snap.ByMethod,
			BytesWritten:  snap.BytesWritten,
			AvgLatencyMs:  snap.AvgLatencyMs,
		}
	}
}
