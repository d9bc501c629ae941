package loan

import (
	"context"
	"loan-servicing/internal/event"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListLoans(ctx context.Context) ([]Loan, error) {
	args := m.Called(ctx)
	if loans, ok := args.Get(0).([]Loan); ok {
		return loans, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) FindLoan(ctx context.Context, loanID int64) (*Loan, error) {
	args := m.Called(ctx, loanID)
	if l, ok := args.Get(0).(*Loan); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListPaymentsByLoan(ctx context.Context, loanID int64) ([]Payment, error) {
	args := m.Called(ctx, loanID)
	if payments, ok := args.Get(0).([]Payment); ok {
		return payments, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) FindPaymentForLoan(ctx context.Context, loanID int64) (*Payment, error) {
	args := m.Called(ctx, loanID)
	if p, ok := args.Get(0).(*Payment); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) CountPayments(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) AppendPayment(ctx context.Context, payment Payment) (*Payment, error) {
	args := m.Called(ctx, payment)
	switch v := args.Get(0).(type) {
	case func(context.Context, Payment) *Payment:
		return v(ctx, payment), args.Error(1)
	case *Payment:
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishPaymentRecorded(ctx context.Context, evt event.PaymentRecordedEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}
