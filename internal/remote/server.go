/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package remote serves the congregation-facing control surface: the
// desktop remote, the phone remote, and the stage display, over HTTP
// and WebSocket on the fixed remote port.
package remote

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/friendsincode/projecton/internal/config"
	"github.com/friendsincode/projecton/internal/coordinator"
	"github.com/friendsincode/projecton/internal/events"
	"github.com/friendsincode/projecton/internal/settings"
	"github.com/friendsincode/projecton/internal/telemetry"
	"github.com/friendsincode/projecton/internal/version"
)

// Server is the remote control surface.
type Server struct {
	cfg       *config.Config
	coord     *coordinator.Coordinator
	store     *settings.Store
	bus       *events.Bus
	logger    zerolog.Logger
	templates *template.Template
	hub       *Hub

	// requestShutdown asks the host process to exit cleanly; wired by
	// the main command.
	requestShutdown func()

	httpServer *http.Server
}

// New creates the remote server.
func New(cfg *config.Config, coord *coordinator.Coordinator, store *settings.Store, bus *events.Bus, requestShutdown func(), logger zerolog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(TemplateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse remote templates: %w", err)
	}

	s := &Server{
		cfg:             cfg,
		coord:           coord,
		store:           store,
		bus:             bus,
		logger:          logger.With().Str("component", "remote").Logger(),
		templates:       tmpl,
		requestShutdown: requestShutdown,
	}
	s.hub = NewHub(bus, s.logger)
	return s, nil
}

// Routes builds the remote router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(telemetry.MetricsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "ok %s", version.Version)
	})

	if s.cfg.RemotePIN != "" {
		r.Get("/login", s.LoginPage)
		r.Post("/login", s.LoginSubmit)
	}

	r.Group(func(r chi.Router) {
		if s.cfg.RemotePIN != "" {
			r.Use(s.RequirePIN)
		}

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "/remote", http.StatusFound)
		})
		r.Get("/remote", s.RemotePage)
		r.Post("/remote", s.CommandSubmit)
		r.Get("/mremote", s.MobileRemotePage)
		r.Post("/mremote", s.CommandSubmit)
		r.Get("/stage", s.StagePage)
		r.Get("/shutdown", s.Shutdown)
		r.Post("/shutdown", s.Shutdown)
		r.Get("/ws", s.hub.Serve)
	})

	return otelhttp.NewHandler(r, "remote")
}

// listenAddr is where the remote surface binds. The port defaults to
// the fixed remote port so existing remotes keep working.
func (s *Server) listenAddr() string {
	return fmt.Sprintf("%s:%d", s.cfg.HTTPBind, s.cfg.HTTPPort)
}

// metricsRoutes serves prometheus metrics on the separate metrics bind,
// off the congregation-facing router.
func metricsRoutes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.Handler())
	return mux
}

// Start runs the HTTP server, the metrics listener, and the WebSocket
// hub until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := s.listenAddr()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.hub.Run(ctx)

	var metricsServer *http.Server
	if s.cfg.MetricsBind != "" {
		metricsServer = &http.Server{
			Addr:              s.cfg.MetricsBind,
			Handler:           metricsRoutes(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			s.logger.Info().Str("addr", s.cfg.MetricsBind).Msg("metrics listening")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("remote surface listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if metricsServer != nil {
			_ = metricsServer.Shutdown(shutdownCtx)
		}
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("remote server: %w", err)
	}
}

// Shutdown handles a remote request to exit the application.
func (s *Server) Shutdown(w http.ResponseWriter, r *http.Request) {
	s.logger.Info().Str("from", r.RemoteAddr).Msg("shutdown requested from remote")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "shutting down")
	if s.requestShutdown != nil {
		go s.requestShutdown()
	}
}
