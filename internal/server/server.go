// Package server owns the HTTP surface: routing, middleware order and the
// lifecycle of the http.Server itself.
package server

import (
	"context"
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/karirin/osidate-backend/internal/common"
	"github.com/karirin/osidate-backend/internal/config"
	"github.com/karirin/osidate-backend/internal/features/admin"
	"github.com/karirin/osidate-backend/internal/features/characters"
	"github.com/karirin/osidate-backend/internal/features/intimacy"
	"github.com/karirin/osidate-backend/internal/features/loginbonus"
	"github.com/karirin/osidate-backend/internal/features/users"
	"github.com/karirin/osidate-backend/internal/server/middleware"
)

// Handlers groups the feature handlers the router mounts.
type Handlers struct {
	LoginBonus *loginbonus.Handler
	Intimacy   *intimacy.Handler
	Users      *users.Handler
	Characters *characters.Handler
	Admin      *admin.Handler
}

// Server wraps the HTTP server.
type Server struct {
	httpServer *http.Server
	limiter    *middleware.RateLimiter
	cfg        *config.Config
}

// New builds the router and the configured http.Server.
//
// Middleware order matters: Recovery is outermost so a panic anywhere
// below still produces a 500, then logging and metrics observe the final
// status, then rate limiting rejects floods before they reach handlers.
func New(cfg *config.Config, h Handlers, userSvc *users.Service) *Server {
	r := mux.NewRouter()

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(limiter.Middleware)

	// Unauthenticated endpoints
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/users", h.Users.HandleRegister).Methods(http.MethodPost)
	api.HandleFunc("/admin/login", h.Admin.HandleLogin).Methods(http.MethodPost)

	// Admin endpoints guarded by the session token. Mounted before the
	// authed subrouter: that one has no path matcher and would otherwise
	// swallow /admin/* into its own 404.
	adminAPI := api.PathPrefix("/admin").Subrouter()
	adminAPI.Use(h.Admin.RequireSession)
	adminAPI.HandleFunc("/intimacy/grant", h.Admin.HandleGrant).Methods(http.MethodPost)
	adminAPI.HandleFunc("/stats", h.Admin.HandleStats).Methods(http.MethodGet)

	// Everything below requires a bearer token
	authed := api.NewRoute().Subrouter()
	authed.Use(middleware.Auth(userSvc))

	authed.HandleFunc("/users/me", h.Users.HandleMe).Methods(http.MethodGet)
	authed.HandleFunc("/users/device-tokens", h.Users.HandleRegisterDeviceToken).Methods(http.MethodPost)

	authed.HandleFunc("/login", h.LoginBonus.HandleLogin).Methods(http.MethodPost)
	authed.HandleFunc("/login/status", h.LoginBonus.HandleStatus).Methods(http.MethodGet)
	authed.HandleFunc("/login/bonus/claim", h.LoginBonus.HandleClaim).Methods(http.MethodPost)
	authed.HandleFunc("/login/bonus/history", h.LoginBonus.HandleHistory).Methods(http.MethodGet)

	authed.HandleFunc("/characters", h.Characters.HandleCreate).Methods(http.MethodPost)
	authed.HandleFunc("/characters", h.Characters.HandleList).Methods(http.MethodGet)
	authed.HandleFunc("/characters/{id:[0-9]+}", h.Characters.HandleUpdate).Methods(http.MethodPatch)
	authed.HandleFunc("/characters/{id:[0-9]+}/activate", h.Characters.HandleSetActive).Methods(http.MethodPost)
	authed.HandleFunc("/characters/{id:[0-9]+}/intimacy", h.Intimacy.HandleGetIntimacy).Methods(http.MethodGet)

	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(cfg.CORSAllowedOrigins),
		gorillahandlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Admin-Token"}),
	)

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      cors(r),
			ReadTimeout:  cfg.HTTPReadTimeout,
			WriteTimeout: cfg.HTTPWriteTimeout,
		},
		limiter: limiter,
		cfg:     cfg,
	}
}

// Run blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	log.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server, including the
// rate limiter's janitor goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.httpServer.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
