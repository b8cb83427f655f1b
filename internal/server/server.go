// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

// Package server exposes the generation service over HTTP: a readme
// generation endpoint, provider metrics surfaces, and health/metrics
// endpoints for operators.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/draftgen-dev/draftgen/internal/generator"
	"github.com/draftgen-dev/draftgen/internal/monitor"
	"github.com/draftgen-dev/draftgen/internal/provider"
	draftgenerr "github.com/draftgen-dev/draftgen/pkg/errors"
)

// ReadmeGenerator is the orchestration capability the server fronts.
type ReadmeGenerator interface {
	Generate(ctx context.Context, meta generator.RepoMetadata, opts generator.Options) (*generator.Result, error)
}

// Config holds HTTP server configuration.
type Config struct {
	ListenAddr   string
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MetricsRegistry enables the /metrics scrape endpoint when non-nil.
	MetricsRegistry *prometheus.Registry
}

// Server wraps a chi router with huma API and HTTP server.
type Server struct {
	router    chi.Router
	api       huma.API
	cfg       Config
	generator ReadmeGenerator
	monitor   *monitor.Monitor
	providers []provider.Provider
}

// New creates a Server with chi router, huma API, health endpoint, and CORS.
func New(cfg Config, gen ReadmeGenerator, m *monitor.Monitor, providers []provider.Provider) (*Server, error) {
	if cfg.ListenAddr == "" {
		return nil, draftgenerr.New(draftgenerr.CodeServerStartFailure, "listen address is required")
	}
	if gen == nil {
		return nil, draftgenerr.New(draftgenerr.CodeServerStartFailure, "generator is required")
	}
	if m == nil {
		return nil, draftgenerr.New(draftgenerr.CodeServerStartFailure, "monitor is required")
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		// Generation calls block on an upstream model; give them room.
		cfg.WriteTimeout = 180 * time.Second
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware(cfg.CORSOrigins))

	// Huma API with OpenAPI spec
	humaConfig := huma.DefaultConfig("Draftgen", "0.1.0")
	humaConfig.Info.Description = "AI README generation service API"
	api := humachi.New(r, humaConfig)

	// Health endpoint
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"system"},
	}, func(_ context.Context, _ *struct{}) (*HealthResponse, error) {
		return &HealthResponse{Body: HealthBody{Status: "ok"}}, nil
	})

	if cfg.MetricsRegistry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	srv := &Server{
		router:    r,
		api:       api,
		cfg:       cfg,
		generator: gen,
		monitor:   m,
		providers: providers,
	}
	srv.registerRoutes()

	return srv, nil
}

// Handler returns the underlying http.Handler for testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// API returns the huma API for OpenAPI spec extraction.
func (s *Server) API() huma.API {
	return s.api
}

// Start runs the HTTP server and blocks until the context is cancelled,
// then performs graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return draftgenerr.Wrapf(err, draftgenerr.CodeServerStartFailure, "listening on %s", s.cfg.ListenAddr)
	}

	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	slog.Info("server listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return draftgenerr.Wrap(err, draftgenerr.CodeServerStartFailure, "serving")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return draftgenerr.Wrap(err, draftgenerr.CodeServerShutdownFailure, "shutting down")
	}
	return nil
}

// HealthBody is the health endpoint payload.
type HealthBody struct {
	Status string `json:"status"`
}

// HealthResponse wraps HealthBody for huma.
type HealthResponse struct {
	Body HealthBody
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
