// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	handler "github.com/newthinker/traderstats/internal/api/handler/api"
	"github.com/newthinker/traderstats/internal/api/session"
	"github.com/newthinker/traderstats/internal/app"
	"github.com/newthinker/traderstats/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const sweepInterval = time.Minute

// Server represents the HTTP server for the trade journal API
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	sessions   *handler.SessionHandler
	stopSweep  context.CancelFunc
	sweepCtx   context.Context
}

// Config holds server configuration
type Config struct {
	Host             string
	Port             int
	MaxUploadBytes   int64
	MetricsPath      string   // empty disables /metrics
	ImportsPerMinute int      // 0 disables the import limit
	CORSOrigins      []string // empty disables CORS
}

// Dependencies are the services the routes are served from.
type Dependencies struct {
	App      *app.App
	Sessions *session.Store
	Metrics  *metrics.Registry // optional
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if deps.App == nil || deps.Sessions == nil {
		return nil, fmt.Errorf("app and session store are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}

	mux := http.NewServeMux()

	var h http.Handler = mux
	if deps.Metrics != nil {
		h = metrics.HTTPMiddleware(deps.Metrics)(h)
	}
	if len(cfg.CORSOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type", metrics.RequestIDHeader},
			ExposedHeaders: []string{metrics.RequestIDHeader},
		}).Handler(h)
	}
	h = metrics.LoggingMiddleware(logger)(h)

	sweepCtx, stop := context.WithCancel(context.Background())
	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      h,
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:    logger,
		mux:       mux,
		sessions:  handler.NewSessionHandler(deps.App, deps.Sessions, deps.Metrics, logger, cfg.MaxUploadBytes),
		stopSweep: stop,
		sweepCtx:  sweepCtx,
	}

	s.setupRoutes(cfg, deps)
	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config, deps Dependencies) {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.Handle("POST /api/v1/sessions", importLimit(cfg.ImportsPerMinute)(http.HandlerFunc(s.sessions.Create)))
	s.mux.HandleFunc("GET /api/v1/sessions/{id}/report", s.sessions.Report)
	s.mux.HandleFunc("GET /api/v1/sessions/{id}/calendar", s.sessions.Calendar)
	s.mux.HandleFunc("GET /api/v1/sessions/{id}/trades", s.sessions.Trades)
	s.mux.HandleFunc("GET /api/v1/sessions/{id}/months", s.sessions.Months)
	s.mux.HandleFunc("DELETE /api/v1/sessions/{id}", s.sessions.Delete)

	if deps.Metrics != nil && cfg.MetricsPath != "" {
		s.mux.Handle("GET "+cfg.MetricsPath, promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}
}

// Handler returns the root handler including middleware.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	go s.sessions.Sweep(s.sweepCtx, sweepInterval)

	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	s.stopSweep()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
