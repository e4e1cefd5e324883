package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/me/credsched/internal/config"
	"github.com/me/credsched/internal/store"
)

// maxBodyBytes bounds the size of a submitted workload.
const maxBodyBytes = 1 << 20

// Server is the credsched REST API server. Each submitted workload is
// simulated on its own scheduler inside the request goroutine.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	sim       config.SimulationConfig
	startTime time.Time
	store     store.Store
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithSimulationConfig sets the defaults applied to submitted workloads.
func WithSimulationConfig(cfg config.SimulationConfig) Option {
	return func(s *Server) {
		s.sim = cfg
	}
}

// New creates a new Server with all routes registered.
func New(cfg config.ServerConfig, st store.Store, logger *slog.Logger, opts ...Option) *Server {
	sim := config.DefaultSimulationConfig()
	sim.MaxTicks = cfg.MaxTicks
	sim.MaxUnits = cfg.MaxUnits

	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		sim:       sim,
		startTime: time.Now(),
		store:     st,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.handleDiscovery)
		r.Get("/health", s.handleHealth)

		r.Route("/runs", func(r chi.Router) {
			r.Get("/", s.handleListRuns)
			r.Post("/", s.handleCreateRun)
			r.Get("/{id}", s.handleGetRun)
		})
	})
}
