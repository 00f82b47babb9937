// Package api provides the optional admin REST API for mockserver.
// It exposes health, statistics and configuration endpoints via a Gin-based
// HTTP server on its own loopback port, separate from the mock listener.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/mockserver/internal/api/handlers"
	"github.com/jroosing/mockserver/internal/api/middleware"
	"github.com/jroosing/mockserver/internal/config"
)

// Server is the admin REST API server.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	handler    *handlers.Handler
	engine     *gin.Engine
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) *Server {
	if cfg == nil {
		panic("api.New: cfg is nil")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.SlogRequestLogger(logger))

	h := handlers.New(cfg, logger)
	RegisterRoutes(engine, h)

	addr := net.JoinHostPort(cfg.Admin.Host, strconv.Itoa(cfg.Admin.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{cfg: cfg, logger: logger, handler: h, engine: engine, httpServer: httpServer}
}

func (s *Server) Addr() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.Addr
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler exposes the endpoint handlers so the runner can attach stats sources.
func (s *Server) Handler() *handlers.Handler {
	return s.handler
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
