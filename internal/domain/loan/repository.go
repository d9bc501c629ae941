package loan

import (
	"context"
)

// Repository is the payment store. Lookups that find nothing return apperrors.ErrNotFound.
type Repository interface {
	ListLoans(ctx context.Context) ([]Loan, error)

	FindLoan(ctx context.Context, loanID int64) (*Loan, error)

	ListPaymentsByLoan(ctx context.Context, loanID int64) ([]Payment, error)

	// FindPaymentForLoan follows the FirstPayment rule.
	FindPaymentForLoan(ctx context.Context, loanID int64) (*Payment, error)

	CountPayments(ctx context.Context) (int64, error)

	// AppendPayment stores the payment as given. A dated payment for a loan that already has one
	// is rejected with apperrors.ErrConflict by stores able to detect it.
	AppendPayment(ctx context.Context, payment Payment) (*Payment, error)
}
