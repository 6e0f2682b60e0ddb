package http

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"partyreg/internal/delivery/http/controllers"
	"partyreg/internal/delivery/http/middleware"
	"partyreg/internal/domain"
)

// RouterConfig carries everything NewRouter mounts.
type RouterConfig struct {
	Logger                 *slog.Logger
	Verifier               domain.TokenVerifier
	CORSOrigins            []string
	RegistrationController *controllers.RegistrationController
	DashboardController    *controllers.DashboardController
	AuthController         *controllers.AuthController
	HealthController       *controllers.HealthController
	// MetricsHandler serves /metrics; nil uses the default Prometheus registry.
	MetricsHandler http.Handler
}

// NewRouter initializes the HTTP router with all application routes and wraps
// it with CORS, request ID and request logging.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)

	// Public registration form
	mux.HandleFunc("GET /forms/{slug}", cfg.RegistrationController.GetForm)
	mux.HandleFunc("POST /forms/{slug}/registrations", cfg.RegistrationController.Register)

	// Auth
	mux.HandleFunc("POST /auth/login", cfg.AuthController.Login)
	mux.HandleFunc("POST /auth/login-code", cfg.AuthController.RequestLoginCode)
	mux.HandleFunc("POST /auth/login-code/verify", cfg.AuthController.VerifyLoginCode)

	// Admin dashboard
	dash := cfg.DashboardController
	mux.HandleFunc("GET /admin/me", auth(cfg.AuthController.GetMe))
	mux.HandleFunc("GET /admin/overview", auth(dash.Overview))
	mux.HandleFunc("GET /admin/parties", auth(dash.ListParties))
	mux.HandleFunc("POST /admin/parties", auth(dash.CreateParty))
	mux.HandleFunc("GET /admin/events", auth(dash.ListEvents))
	mux.HandleFunc("GET /admin/registrations", auth(dash.ListRegistrations))
	mux.HandleFunc("GET /admin/registrations/counts", auth(dash.EventCounts))
	mux.HandleFunc("PATCH /admin/registrations/{id}", auth(dash.UpdateRegistration))
	mux.HandleFunc("PUT /admin/registrations/{id}/redeem", auth(dash.SetRedeemTicket))
	mux.HandleFunc("DELETE /admin/registrations/{id}", auth(dash.DeleteRegistration))

	// Ops
	mux.HandleFunc("GET /health", cfg.HealthController.Health)
	metrics := cfg.MetricsHandler
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	mux.Handle("GET /metrics", metrics)
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(cfg.Logger, handler)
	handler = middleware.RequestID(handler)
	handler = middleware.CORS(cfg.CORSOrigins, handler)
	return handler
}
