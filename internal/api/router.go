package api

import (
	_ "loan-servicing/docs"
	"loan-servicing/internal/api/graphql"
	"loan-servicing/internal/api/handler"
	mw "loan-servicing/internal/api/middleware"
	"loan-servicing/internal/config"
	"loan-servicing/internal/domain/loan"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const welcomeMessage = "Welcome to the Loan Application API"

func SetupRouter(
	rateLimiter *mw.RateLimiterMiddleware,
	loanService loan.LoanService,
	paymentService loan.PaymentService,
	cfg *config.Config,
	logger *slog.Logger,
) (*chi.Mux, error) {
	router := chi.NewRouter()

	setupMiddleware(router, rateLimiter, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(welcomeMessage))
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	setupAPIRoutes(router, loanService, paymentService, logger)
	if err := setupGraphQLEndpoint(router, loanService, logger); err != nil {
		return nil, err
	}
	setupSwaggerEndpoint(router, logger)

	return router, nil
}

func setupMiddleware(router *chi.Mux, rateLimiter *mw.RateLimiterMiddleware, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mw.StructuredLogger(logger))
	router.Use(mw.Recoverer(logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	router.Use(middleware.Timeout(60 * time.Second))
	if rateLimiter != nil {
		router.Use(rateLimiter.Middleware)
	}
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAPIRoutes(router *chi.Mux, loanService loan.LoanService, paymentService loan.PaymentService, logger *slog.Logger) {
	loanHandler := handler.NewLoanHandler(loanService, logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, logger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/payments", paymentHandler.CreatePayment)
		r.Get("/loans", loanHandler.ListLoans)
		r.Get("/loans/{loanID}", loanHandler.GetLoan)
	})
}

func setupGraphQLEndpoint(router *chi.Mux, loanService loan.LoanService, logger *slog.Logger) error {
	gqlHandler, err := graphql.NewHandler(loanService, logger)
	if err != nil {
		return err
	}
	logger.Info("Setting up GraphQL endpoint", "path", "/graphql/v1")
	router.Handle("/graphql/v1", gqlHandler)
	return nil
}
