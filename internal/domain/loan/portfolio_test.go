package loan_test

import (
	"context"
	"io"
	"loan-servicing/internal/domain/loan"
	"loan-servicing/internal/infrastructure/memory"
	"loan-servicing/internal/pkg/apperrors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPortfolio(t *testing.T) (loan.LoanService, loan.PaymentService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewSeededPaymentStore(logger)
	return loan.NewLoanService(store, logger), loan.NewPaymentService(store, nil, logger)
}

func request(loanID int64, amount float64, date string) loan.PaymentRequest {
	return loan.PaymentRequest{LoanID: &loanID, PaymentAmount: &amount, PaymentDate: &date}
}

func TestSeededPortfolioStatuses(t *testing.T) {
	loans, _ := newPortfolio(t)

	details, err := loans.ListLoans(context.Background())
	require.NoError(t, err)
	require.Len(t, details, 4)

	statuses := map[int64]loan.PaymentStatus{}
	for _, d := range details {
		statuses[d.ID] = d.Status
	}
	assert.Equal(t, map[int64]loan.PaymentStatus{
		1: loan.StatusOnTime,
		2: loan.StatusLate,
		3: loan.StatusDefaulted,
		4: loan.StatusUnpaid,
	}, statuses)
}

func TestRecordPaymentAgainstSeededPortfolio(t *testing.T) {
	ctx := context.Background()
	loans, payments := newPortfolio(t)

	created, err := payments.RecordPayment(ctx, request(4, 1500.0, "2025-03-10"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
	assert.Equal(t, int64(4), created.LoanID)

	details, err := loans.GetLoan(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, loan.StatusLate, details.Status)
	require.Len(t, details.Payments, 1)
	assert.Equal(t, "2025-03-10", loan.FormatDate(*details.Payments[0].PaymentDate))

	_, err = payments.RecordPayment(ctx, request(4, 200, "2025-03-11"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = payments.RecordPayment(ctx, request(1, 500, "2025-03-02"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = payments.RecordPayment(ctx, request(999, 500, "2025-03-02"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = payments.RecordPayment(ctx, request(4, 0, "2025-03-10"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = payments.RecordPayment(ctx, request(4, 10, "2025-13-45"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestConcurrentPaymentsForOneLoan(t *testing.T) {
	ctx := context.Background()
	_, payments := newPortfolio(t)

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := payments.RecordPayment(ctx, request(4, 100, "2025-03-03"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, apperrors.ErrConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)
}
