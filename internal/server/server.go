// Package server wires the chi router, middleware stack and huma API groups
// into one HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	v1 "github.com/kinsu128-art/it-hub/internal/api/v1"
	"github.com/kinsu128-art/it-hub/internal/auth"
	"github.com/kinsu128-art/it-hub/internal/config"
	"github.com/kinsu128-art/it-hub/internal/history"
	"github.com/kinsu128-art/it-hub/internal/server/middleware"
	"github.com/kinsu128-art/it-hub/internal/store/postgres"
)

// Login attempts per IP. Generous for humans, tight enough to blunt
// credential stuffing.
const (
	loginRatePerSecond = 1
	loginRateBurst     = 5
)

// Server is the HTTP server with all application routes wired.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	auth       *auth.Service
	cfg        *config.Config
}

// New creates a Server with all routes wired.
func New(ctx context.Context, cfg *config.Config, store *postgres.Store, authSvc *auth.Service) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	router.Use(middleware.RequestMeta())

	s := &Server{
		router: router,
		store:  store,
		auth:   authSvc,
		cfg:    cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	tracker := history.NewTracker(store)

	// Mount API routes on /api/v1 with two sub-groups:
	// 1. Unauthenticated group for login (rate limited per IP).
	// 2. Authenticated group for everything else.
	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(ctx, loginRatePerSecond, loginRateBurst))

			authConfig := huma.DefaultConfig("IT Hub Auth API", "1.0.0")
			authConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			authAPI := humachi.New(r, authConfig)
			v1.RegisterAuthRoutes(authAPI, store, authSvc, cfg.Session.TTL, cfg.Session.CookieSecure)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authSvc))

			apiConfig := huma.DefaultConfig("IT Hub API", "1.0.0")
			apiConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			api := humachi.New(r, apiConfig)

			v1.RegisterSessionRoutes(api, store, authSvc, cfg.Session.CookieSecure)
			v1.RegisterPCRoutes(api, store)
			v1.RegisterServerRoutes(api, store)
			v1.RegisterNetworkIPRoutes(api, store)
			v1.RegisterPrinterRoutes(api, store)
			v1.RegisterSoftwareRoutes(api, store)
			v1.RegisterHistoryRoutes(api, tracker)
			v1.RegisterReportRoutes(api, store, tracker)
			v1.RegisterUserRoutes(api, store, authSvc)
		})
	})

	// Health check (unauthenticated).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
