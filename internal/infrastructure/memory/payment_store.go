package memory

import (
	"context"
	"fmt"
	"loan-servicing/internal/domain/loan"
	"loan-servicing/internal/pkg/apperrors"
	"log/slog"
	"sync"
)

// PaymentStore keeps loans and payments in process memory. Payments are append-only.
type PaymentStore struct {
	mu       sync.RWMutex
	loans    []loan.Loan
	payments []loan.Payment
	logger   *slog.Logger
}

var _ loan.Repository = (*PaymentStore)(nil)

func NewPaymentStore(loans []loan.Loan, payments []loan.Payment, logger *slog.Logger) *PaymentStore {
	s := &PaymentStore{
		loans:    make([]loan.Loan, len(loans)),
		payments: make([]loan.Payment, 0, len(payments)),
		logger:   logger.With("component", "MemoryPaymentStore"),
	}
	copy(s.loans, loans)
	for _, p := range payments {
		s.payments = append(s.payments, clonePayment(p))
	}
	return s
}

func clonePayment(p loan.Payment) loan.Payment {
	if p.PaymentDate != nil {
		d := *p.PaymentDate
		p.PaymentDate = &d
	}
	return p
}

func (s *PaymentStore) ListLoans(ctx context.Context) ([]loan.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loans := make([]loan.Loan, len(s.loans))
	copy(loans, s.loans)
	return loans, nil
}

func (s *PaymentStore) FindLoan(ctx context.Context, loanID int64) (*loan.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.loans {
		if l.ID == loanID {
			found := l
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *PaymentStore) ListPaymentsByLoan(ctx context.Context, loanID int64) ([]loan.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.paymentsFor(loanID), nil
}

func (s *PaymentStore) paymentsFor(loanID int64) []loan.Payment {
	matched := make([]loan.Payment, 0)
	for _, p := range s.payments {
		if p.LoanID == loanID {
			matched = append(matched, clonePayment(p))
		}
	}
	return matched
}

func (s *PaymentStore) FindPaymentForLoan(ctx context.Context, loanID int64) (*loan.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := loan.FirstPayment(s.paymentsFor(loanID))
	if p == nil {
		return nil, apperrors.ErrNotFound
	}
	return p, nil
}

func (s *PaymentStore) CountPayments(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.payments)), nil
}

func (s *PaymentStore) AppendPayment(ctx context.Context, payment loan.Payment) (*loan.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if payment.HasDate() {
		if existing := loan.FirstPayment(s.paymentsFor(payment.LoanID)); existing.HasDate() {
			s.logger.WarnContext(ctx, "Rejecting second dated payment", "loanID", payment.LoanID, "existingPaymentID", existing.ID)
			return nil, fmt.Errorf("%w: loan %d already has a dated payment", apperrors.ErrConflict, payment.LoanID)
		}
	}

	stored := clonePayment(payment)
	s.payments = append(s.payments, stored)
	s.logger.DebugContext(ctx, "Payment appended", "paymentID", stored.ID, "loanID", stored.LoanID)

	created := clonePayment(stored)
	return &created, nil
}

// Reset drops every payment, so the next appended payment gets id 1 again.
func (s *PaymentStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.payments = s.payments[:0]
}
