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

	v1 "github.com/rentora/rentora/internal/api/v1"
	"github.com/rentora/rentora/internal/api/ws"
	"github.com/rentora/rentora/internal/billing"
	"github.com/rentora/rentora/internal/chat"
	"github.com/rentora/rentora/internal/config"
	"github.com/rentora/rentora/internal/hub"
	"github.com/rentora/rentora/internal/lease"
	"github.com/rentora/rentora/internal/server/middleware"
	"github.com/rentora/rentora/internal/store/postgres"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	hub        *hub.Hub
	cfg        *config.Config
}

// New creates a Server with all routes wired. The payment webhook is mounted
// outside the authenticated group: the gateway signs its requests instead of
// carrying a bearer token.
func New(
	ctx context.Context,
	cfg *config.Config,
	store *postgres.Store,
	h *hub.Hub,
	leaseSvc *lease.Service,
	billingSvc *billing.Reconciler,
	chatSvc *chat.Service,
) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	s := &Server{
		router: router,
		store:  store,
		hub:    h,
		cfg:    cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// Authenticated API routes.
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT.Secret))
		r.Use(middleware.RateLimit(ctx, 100, 200))

		apiConfig := huma.DefaultConfig("Rentora API", "1.0.0")
		apiConfig.Servers = []*huma.Server{
			{URL: "/api/v1"},
		}
		api := humachi.New(r, apiConfig)
		registerAPIRoutes(api, store, leaseSvc, billingSvc, chatSvc)
	})

	// Gateway webhook: signature-verified, never token-authenticated.
	router.Route("/webhooks", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(ctx, 10, 20))
		r.Post("/payment", v1.NewPaymentWebhookHandler(cfg.Gateway.WebhookSecret, billingSvc))
	})

	// WebSocket endpoint. Auth accepts the token query parameter here since
	// browsers cannot set headers on an upgrade request.
	router.Route("/ws", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT.Secret))
		registerWSRoutes(r, ws.NewHandler(h, chatSvc))
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
