package api

import (
	"io"
	mw "loan-servicing/internal/api/middleware"
	"loan-servicing/internal/config"
	"loan-servicing/internal/domain/loan"
	"loan-servicing/internal/infrastructure/memory"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{
			CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		},
		Metrics: config.MetricsConfig{Path: "/metrics"},
	}
	store := memory.NewSeededPaymentStore(logger)
	rateLimiter := mw.NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: false}, logger)

	router, err := SetupRouter(
		rateLimiter,
		loan.NewLoanService(store, logger),
		loan.NewPaymentService(store, nil, logger),
		cfg,
		logger,
	)
	require.NoError(t, err)
	return router
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHomeAndHealth(t *testing.T) {
	router := newTestRouter(t)

	home := serve(router, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, home.Code)
	assert.Equal(t, "Welcome to the Loan Application API", home.Body.String())

	health := serve(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.JSONEq(t, `{"status":"ok"}`, health.Body.String())
}

func TestPaymentThenLoanEndToEnd(t *testing.T) {
	router := newTestRouter(t)

	created := serve(router, http.MethodPost, "/api/v1/payments",
		`{"loan_id": 4, "payment_amount": 1500.0, "payment_date": "2025-03-10"}`)
	require.Equal(t, http.StatusCreated, created.Code)

	details := serve(router, http.MethodGet, "/api/v1/loans/4", "")
	require.Equal(t, http.StatusOK, details.Code)
	assert.Contains(t, details.Body.String(), `"status":"Late"`)

	graph := serve(router, http.MethodPost, "/graphql/v1", `{"query":"{ loan(id: 4) { status } }"}`)
	require.Equal(t, http.StatusOK, graph.Code)
	assert.Contains(t, graph.Body.String(), `"Late"`)

	again := serve(router, http.MethodPost, "/api/v1/payments",
		`{"loan_id": 4, "payment_amount": 1500.0, "payment_date": "2025-03-10"}`)
	assert.Equal(t, http.StatusBadRequest, again.Code)
	assert.JSONEq(t, `{"error":"Loan payment with id 4 already submitted"}`, again.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/payments", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	other := httptest.NewRequest(http.MethodOptions, "/api/v1/payments", nil)
	other.Header.Set("Origin", "http://evil.example")
	other.Header.Set("Access-Control-Request-Method", http.MethodPost)
	otherRec := httptest.NewRecorder()
	router.ServeHTTP(otherRec, other)

	assert.Empty(t, otherRec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	serve(router, http.MethodGet, "/health", "")

	rec := serve(router, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestSwaggerRedirect(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/swagger", "")

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/swagger/index.html", rec.Header().Get("Location"))
}
