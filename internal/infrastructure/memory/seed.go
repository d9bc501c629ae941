package memory

import (
	"loan-servicing/internal/domain/loan"
	"log/slog"
	"time"
)

func SeedLoans() []loan.Loan {
	due := loan.NewDate(2025, time.March, 1)
	return []loan.Loan{
		{ID: 1, Name: "Tom's Loan", InterestRate: 5.0, Principal: 10000, DueDate: due},
		{ID: 2, Name: "Chris Wailaka", InterestRate: 3.5, Principal: 500000, DueDate: due},
		{ID: 3, Name: "NP Mobile Money", InterestRate: 4.5, Principal: 30000, DueDate: due},
		{ID: 4, Name: "Esther's Autoparts", InterestRate: 1.5, Principal: 40000, DueDate: due},
	}
}

func SeedPayments() []loan.Payment {
	date := func(y int, m time.Month, d int) *time.Time {
		t := loan.NewDate(y, m, d)
		return &t
	}
	return []loan.Payment{
		{ID: 1, LoanID: 1, PaymentAmount: 1000, PaymentDate: date(2025, time.March, 4)},
		{ID: 2, LoanID: 2, PaymentAmount: 5000, PaymentDate: date(2025, time.March, 15)},
		{ID: 3, LoanID: 3, PaymentAmount: 2000, PaymentDate: date(2025, time.April, 5)},
	}
}

// NewSeededPaymentStore returns a store holding the demo portfolio.
func NewSeededPaymentStore(logger *slog.Logger) *PaymentStore {
	return NewPaymentStore(SeedLoans(), SeedPayments(), logger)
}
