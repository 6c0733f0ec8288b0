package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hugh/lawconnect/internal/ai"
	"github.com/hugh/lawconnect/internal/api/handlers"
	"github.com/hugh/lawconnect/internal/api/middleware"
	"github.com/hugh/lawconnect/internal/audit"
	"github.com/hugh/lawconnect/internal/auth"
	"github.com/hugh/lawconnect/internal/cases"
	"github.com/hugh/lawconnect/internal/database/models"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Logger      *slog.Logger
	Tokens      auth.TokenValidator
	AuthService auth.Authenticator
	Ledger      *auth.Ledger
	Proxy       *ai.Proxy
	Recorder    *audit.Recorder
	Cases       *cases.Service

	// Queue delivers reset notices; nil disables delivery.
	Queue handlers.TaskEnqueuer
	// Limiter is applied to every request when set.
	Limiter        middleware.Limiter
	AllowedOrigins []string
	// Production hides error details and reset links from responses.
	Production bool
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()
	rs := handlers.NewResponder(cfg.Logger, !cfg.Production)

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recovery(cfg.Logger, !cfg.Production))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.Limiter != nil {
		r.Use(middleware.RateLimit(cfg.Limiter, cfg.Logger))
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis, rs)
	authHandler := handlers.NewAuthHandler(cfg.AuthService, cfg.Ledger, cfg.Queue, rs, !cfg.Production)
	aiHandler := handlers.NewAIHandler(cfg.Proxy, cfg.Recorder, cfg.Cases, rs)
	adminHandler := handlers.NewAdminHandler(cfg.Ledger, rs)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	requireAuth := middleware.Auth(cfg.Tokens, cfg.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authHandler.Me)
				r.Put("/profile", authHandler.UpdateProfile)
				r.Put("/change-password", authHandler.ChangePassword)
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Route("/ai", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/chat", aiHandler.Chat)
			r.Post("/legal-advice", aiHandler.LegalAdvice)
			r.Post("/predict-case", aiHandler.PredictCase)
			r.Post("/analyze-document", aiHandler.AnalyzeDocument)
			r.Get("/history", aiHandler.History)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(middleware.RequireRole(models.RoleAdmin))
			r.Post("/maintenance/reset-sweep", adminHandler.SweepResetTokens)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rs.Fail(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rs.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return &Router{r}
}
