package handler

import (
	"context"
	"errors"
	"loan-servicing/internal/domain/loan"
	"loan-servicing/internal/infrastructure/memory"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) ListLoans(ctx context.Context) ([]loan.LoanDetails, error) {
	args := m.Called(ctx)
	if loans, ok := args.Get(0).([]loan.LoanDetails); ok {
		return loans, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) GetLoan(ctx context.Context, loanID int64) (*loan.LoanDetails, error) {
	args := m.Called(ctx, loanID)
	if l, ok := args.Get(0).(*loan.LoanDetails); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func newLoanRouter(svc loan.LoanService) http.Handler {
	h := NewLoanHandler(svc, logger)
	r := chi.NewRouter()
	r.Get("/api/v1/loans", h.ListLoans)
	r.Get("/api/v1/loans/{loanID}", h.GetLoan)
	return r
}

func seededLoanRouter() http.Handler {
	return newLoanRouter(loan.NewLoanService(memory.NewSeededPaymentStore(logger), logger))
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGetLoan(t *testing.T) {
	rec := get(seededLoanRouter(), "/api/v1/loans/1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"id": 1,
		"name": "Tom's Loan",
		"interest_rate": 5,
		"principal": 10000,
		"due_date": "2025-03-01",
		"status": "On Time",
		"loan_payments": [
			{"id": 1, "loan_id": 1, "payment_amount": 1000, "payment_date": "2025-03-04", "status": "On Time"}
		]
	}`, rec.Body.String())
}

func TestGetLoanUnpaid(t *testing.T) {
	rec := get(seededLoanRouter(), "/api/v1/loans/4")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Unpaid"`)
	assert.Contains(t, rec.Body.String(), `"loan_payments":[]`)
}

func TestGetLoanErrors(t *testing.T) {
	router := seededLoanRouter()

	notFound := get(router, "/api/v1/loans/999")
	assert.Equal(t, http.StatusNotFound, notFound.Code)
	assert.JSONEq(t, `{"error": "Loan with id 999 not found"}`, notFound.Body.String())

	badID := get(router, "/api/v1/loans/abc")
	assert.Equal(t, http.StatusBadRequest, badID.Code)
	assert.Contains(t, badID.Body.String(), "loanID must be an integer")
}

func TestListLoans(t *testing.T) {
	rec := get(seededLoanRouter(), "/api/v1/loans")

	require.Equal(t, http.StatusOK, rec.Code)
	for _, status := range []string{"On Time", "Late", "Defaulted", "Unpaid"} {
		assert.Contains(t, rec.Body.String(), `"status":"`+status+`"`)
	}
}

func TestListLoansInternalError(t *testing.T) {
	mockSvc := new(MockLoanService)
	mockSvc.On("ListLoans", mock.Anything).Return(nil, errors.New("boom"))

	rec := get(newLoanRouter(mockSvc), "/api/v1/loans")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "Internal server error"}`, rec.Body.String())
}
