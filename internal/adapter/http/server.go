package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/neo-scale-service/internal/page"
	"github.com/couchcryptid/neo-scale-service/internal/pipeline"
)

// Backend is the live page state the server exposes.
type Backend interface {
	sharedobs.ReadinessChecker
	Current() *pipeline.Session
	Reload(ctx context.Context) (*pipeline.Session, error)
	Resize(vp page.Viewport) int
}

// Server exposes the page, its scenes, and the health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	backend    Backend
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the page, API, and operational routes.
func NewServer(addr string, backend Backend, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		backend: backend,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(backend))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/feed", s.handleFeed)
	mux.HandleFunc("GET /api/neos/{id}/scene", s.handleScene)
	mux.HandleFunc("GET /api/neos/{id}/frame.png", s.handleFrame)
	mux.HandleFunc("GET /api/neos/{id}/stream", s.handleStream)
	mux.HandleFunc("POST /api/viewport", s.handleViewport)
	mux.HandleFunc("POST /api/reload", s.handleReload)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
