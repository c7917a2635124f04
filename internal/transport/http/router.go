package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/storefront-gate/internal/config"
	"github.com/storefront-gate/internal/transport/http/handler"
	appmiddleware "github.com/storefront-gate/internal/transport/http/middleware"
	"github.com/storefront-gate/internal/transport/http/proxy"
)

const (
	SendOTPPath   = "/api/send-otp"
	VerifyOTPPath = "/api/verify-otp"
)

// NewRouter builds and returns the application router. Dispatch order:
// gate endpoints, proxy prefixes, static files, application shell.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	healthH := handler.NewHealthHandler(cfg.StaticDir)
	otpH := handler.NewOTPHandler(deps.OTPService, logger)
	spaH := handler.NewSPAHandler(cfg.StaticDir)

	r.Get("/health-check/{action}", healthH.Ping)

	// ── Admin gate ───────────────────────────────────────────────────────
	// Mounted for every method so these paths never reach the /api proxy.
	// CORS is scoped here; proxied responses carry the upstream's own headers.
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
		r.Use(appmiddleware.NoStore, appmiddleware.AllowMethods(http.MethodPost))
		r.Handle(SendOTPPath, http.HandlerFunc(otpH.Send))
		r.Handle(VerifyOTPPath, http.HandlerFunc(otpH.Verify))
	})

	// ── Upstream proxies ─────────────────────────────────────────────────
	for _, route := range deps.Routes {
		p := proxy.New(route, proxy.Options{
			Timeout:            cfg.Upstreams.Timeout,
			InsecureSkipVerify: cfg.Upstreams.InsecureSkipVerify,
			Logger:             logger,
		})
		for _, pattern := range route.Patterns() {
			r.Handle(pattern, p)
		}
	}

	// ── Static assets and application shell ──────────────────────────────
	r.NotFound(spaH.ServeHTTP)
	r.MethodNotAllowed(spaH.ServeHTTP)

	return r
}
