package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"loan-servicing/internal/domain/loan"
	"loan-servicing/internal/infrastructure/memory"
	"loan-servicing/internal/pkg/apperrors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gql "github.com/graphql-go/graphql"
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
	if details, ok := args.Get(0).(*loan.LoanDetails); ok {
		return details, args.Error(1)
	}
	return nil, args.Error(1)
}

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func seededService() loan.LoanService {
	return loan.NewLoanService(memory.NewSeededPaymentStore(logger), logger)
}

func execute(t *testing.T, query string) *gql.Result {
	t.Helper()
	schema, err := NewSchema(seededService())
	require.NoError(t, err)
	return gql.Do(gql.Params{Schema: schema, RequestString: query, Context: context.Background()})
}

func TestLoansQuery(t *testing.T) {
	result := execute(t, `{ loans { id name dueDate status loanPayments { id loanId paymentDate status } } }`)
	require.Empty(t, result.Errors)

	raw, err := json.Marshal(result.Data)
	require.NoError(t, err)

	var data struct {
		Loans []struct {
			ID           int    `json:"id"`
			Name         string `json:"name"`
			DueDate      string `json:"dueDate"`
			Status       string `json:"status"`
			LoanPayments []struct {
				ID          int     `json:"id"`
				LoanID      int     `json:"loanId"`
				PaymentDate *string `json:"paymentDate"`
				Status      string  `json:"status"`
			} `json:"loanPayments"`
		} `json:"loans"`
	}
	require.NoError(t, json.Unmarshal(raw, &data))
	require.Len(t, data.Loans, 4)

	assert.Equal(t, "Tom's Loan", data.Loans[0].Name)
	assert.Equal(t, "2025-03-01", data.Loans[0].DueDate)

	statuses := make([]string, 0, len(data.Loans))
	for _, l := range data.Loans {
		statuses = append(statuses, l.Status)
	}
	assert.Equal(t, []string{"On Time", "Late", "Defaulted", "Unpaid"}, statuses)

	require.Len(t, data.Loans[2].LoanPayments, 1)
	assert.Equal(t, "2025-04-05", *data.Loans[2].LoanPayments[0].PaymentDate)
	assert.Equal(t, "Defaulted", data.Loans[2].LoanPayments[0].Status)
	assert.Empty(t, data.Loans[3].LoanPayments)
}

func TestLoanQuery(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		result := execute(t, `{ loan(id: 2) { name interestRate principal status } }`)
		require.Empty(t, result.Errors)

		raw, err := json.Marshal(result.Data)
		require.NoError(t, err)
		assert.JSONEq(t, `{"loan":{"name":"Chris Wailaka","interestRate":3.5,"principal":500000,"status":"Late"}}`, string(raw))
	})

	t.Run("missing", func(t *testing.T) {
		result := execute(t, `{ loan(id: 999) { name } }`)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "Loan with id 999 not found", result.Errors[0].Message)
	})
}

func TestResolverFailuresAreOpaque(t *testing.T) {
	mockSvc := new(MockLoanService)
	mockSvc.On("ListLoans", mock.Anything).Return(nil, errors.New("dial tcp 10.0.0.5:5432: connection refused"))
	mockSvc.On("GetLoan", mock.Anything, int64(1)).Return(nil, apperrors.WrapDatabaseError(errors.New("connection refused"), "failed to query loans"))

	schema, err := NewSchema(mockSvc)
	require.NoError(t, err)

	for _, query := range []string{`{ loans { id } }`, `{ loan(id: 1) { id } }`} {
		t.Run(query, func(t *testing.T) {
			result := gql.Do(gql.Params{Schema: schema, RequestString: query, Context: context.Background()})

			require.Len(t, result.Errors, 1)
			assert.Equal(t, "Internal server error", result.Errors[0].Message)
		})
	}
	mockSvc.AssertExpectations(t)
}

func TestHandlerServesPost(t *testing.T) {
	h, err := NewHandler(seededService(), logger)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql/v1", strings.NewReader(`{"query":"{ loans { id status } }"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status": "Defaulted"`)
}

func TestPublicErrorHidesInternals(t *testing.T) {
	assert.EqualError(t, publicError(assert.AnError), "Internal server error")
}
