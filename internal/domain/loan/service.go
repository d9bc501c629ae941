package loan

import (
	"context"
	"errors"
	"fmt"
	"loan-servicing/internal/pkg/apperrors"
	"log/slog"
)

type LoanService interface {
	ListLoans(ctx context.Context) ([]LoanDetails, error)

	GetLoan(ctx context.Context, loanID int64) (*LoanDetails, error)
}

type loanServiceImpl struct {
	repo   Repository
	logger *slog.Logger
}

func NewLoanService(r Repository, logger *slog.Logger) LoanService {
	return &loanServiceImpl{repo: r, logger: logger.With("component", "LoanService")}
}

func loanNotFound(loanID int64) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("Loan with id %d not found", loanID))
}

func (s *loanServiceImpl) ListLoans(ctx context.Context) ([]LoanDetails, error) {
	s.logger.DebugContext(ctx, "Listing loans")
	loans, err := s.repo.ListLoans(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list loans", "error", err)
		return nil, fmt.Errorf("%w: failed to list loans: %v", apperrors.ErrInternalServer, err)
	}

	details := make([]LoanDetails, 0, len(loans))
	for _, l := range loans {
		d, err := s.describe(ctx, l)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID int64) (*LoanDetails, error) {
	s.logger.DebugContext(ctx, "Getting loan details", "loanID", loanID)
	l, err := s.repo.FindLoan(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Loan not found", "loanID", loanID)
			return nil, loanNotFound(loanID)
		}
		s.logger.ErrorContext(ctx, "Failed to get loan", "loanID", loanID, "error", err)
		return nil, fmt.Errorf("%w: failed to get loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}
	return s.describe(ctx, *l)
}

// describe derives statuses on every read; nothing computed here is stored.
func (s *loanServiceImpl) describe(ctx context.Context, l Loan) (*LoanDetails, error) {
	payments, err := s.repo.ListPaymentsByLoan(ctx, l.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list loan payments", "loanID", l.ID, "error", err)
		return nil, fmt.Errorf("%w: failed to list payments for loan %d: %v", apperrors.ErrInternalServer, l.ID, err)
	}

	details := &LoanDetails{
		Loan:     l,
		Status:   StatusOf(l, FirstPayment(payments)),
		Payments: make([]PaymentDetails, 0, len(payments)),
	}
	for _, p := range payments {
		details.Payments = append(details.Payments, PaymentDetails{
			Payment: p,
			Status:  Classify(l.DueDate, p.PaymentDate),
		})
	}
	return details, nil
}
