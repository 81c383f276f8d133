package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bloodconnect/bloodconnect-service/internal/adapters/middleware"
	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
)

type RouterConfig struct {
	Auth         *AuthHandler
	Registration *RegistrationHandler
	Directory    *DirectoryHandler
	Stock        *StockHandler
	Admin        *AdminHandler
	Health       *HealthHandler

	AuthMiddleware *middleware.AuthMiddleware
	Observer       middleware.RequestObserver
	MetricsHandler http.Handler
	AllowedOrigins []string
	Logger         *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger, cfg.Observer))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	// Health endpoints (OpenShift compatible)
	r.Get("/health", cfg.Health.Health)
	r.Get("/health/ready", cfg.Health.Ready)
	r.Get("/health/live", cfg.Health.Live)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Get("/", cfg.Directory.Home)
	r.Post("/register", cfg.Registration.RegisterBloodBank)
	r.Post("/login", cfg.Auth.Login)
	r.Post("/donors", cfg.Registration.RegisterDonor)
	r.Get("/donors", cfg.Directory.SearchDonors)
	r.Post("/sos", cfg.Registration.CreateSOSRequest)
	r.Get("/sos", cfg.Directory.ActiveSOSRequests)
	r.Get("/banks", cfg.Directory.SearchBanks)
	r.Get("/banks/{id}", cfg.Directory.BankDetail)
	r.Get("/api/blood-banks", cfg.Directory.MapBanks)

	auth := cfg.AuthMiddleware
	r.With(auth.RequireRole(domain.RoleBank, domain.RoleAdmin)).Post("/logout", cfg.Auth.Logout)

	r.Route("/dashboard", func(r chi.Router) {
		r.Use(auth.RequireRole(domain.RoleBank))
		r.Get("/stocks", cfg.Stock.Dashboard)
		r.Put("/stocks", cfg.Stock.UpdateStocks)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireRole(domain.RoleAdmin))
		r.Get("/banks/pending", cfg.Admin.PendingBanks)
		r.Post("/banks/{id}/verify", cfg.Admin.VerifyBank)
	})

	return r
}
