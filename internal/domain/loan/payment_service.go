package loan

import (
	"context"
	"errors"
	"fmt"
	"loan-servicing/internal/event"
	"loan-servicing/internal/infrastructure/monitoring"
	"loan-servicing/internal/pkg/apperrors"
	"log/slog"
	"math"
	"sync"
	"time"
)

const (
	msgLoanIDRequired    = "loan_id required"
	msgAmountNotPositive = "payment_amount must be greater than 0"
	msgInvalidDate       = "Invalid date format"
)

// PaymentRequest is an unvalidated command. Nil fields were absent or of the wrong type.
type PaymentRequest struct {
	LoanID        *int64
	PaymentAmount *float64
	PaymentDate   *string
}

type PaymentService interface {
	RecordPayment(ctx context.Context, req PaymentRequest) (*Payment, error)
}

type paymentServiceImpl struct {
	repo      Repository
	publisher event.EventPublisher
	logger    *slog.Logger

	// mu makes the duplicate check and the append one step.
	mu sync.Mutex
}

func NewPaymentService(r Repository, publisher event.EventPublisher, logger *slog.Logger) PaymentService {
	if publisher == nil {
		publisher = event.NoopPublisher{Logger: logger}
	}
	return &paymentServiceImpl{
		repo:      r,
		publisher: publisher,
		logger:    logger.With("component", "PaymentService"),
	}
}

type validPayment struct {
	loanID int64
	amount float64
	date   time.Time
}

func validatePaymentRequest(req PaymentRequest) (*validPayment, error) {
	if req.LoanID == nil {
		return nil, apperrors.NewValidationError("loan_id", msgLoanIDRequired)
	}
	if req.PaymentAmount == nil || !isPositiveAmount(*req.PaymentAmount) {
		return nil, apperrors.NewValidationError("payment_amount", msgAmountNotPositive)
	}
	if req.PaymentDate == nil {
		return nil, apperrors.NewValidationError("payment_date", msgInvalidDate)
	}
	date, err := ParseDate(*req.PaymentDate)
	if err != nil {
		return nil, apperrors.NewValidationError("payment_date", msgInvalidDate)
	}
	return &validPayment{loanID: *req.LoanID, amount: *req.PaymentAmount, date: date}, nil
}

// isPositiveAmount rejects NaN and infinities, which cannot be stored or rendered as JSON.
func isPositiveAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, apperrors.ErrValidation):
		return "validation"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}

func (s *paymentServiceImpl) RecordPayment(ctx context.Context, req PaymentRequest) (payment *Payment, err error) {
	defer func() {
		monitoring.RecordPayment(outcomeOf(err))
	}()

	valid, err := validatePaymentRequest(req)
	if err != nil {
		s.logger.WarnContext(ctx, "Payment request rejected", "error", err)
		return nil, err
	}
	logCtx := s.logger.With("loanID", valid.loanID)

	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.repo.FindLoan(ctx, valid.loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Loan not found")
			return nil, loanNotFound(valid.loanID)
		}
		logCtx.ErrorContext(ctx, "Failed to look up loan", "error", err)
		return nil, fmt.Errorf("%w: failed to look up loan %d: %v", apperrors.ErrInternalServer, valid.loanID, err)
	}

	existing, err := s.repo.FindPaymentForLoan(ctx, l.ID)
	switch {
	case err == nil && existing.HasDate():
		logCtx.WarnContext(ctx, "Loan already has a dated payment", "paymentID", existing.ID)
		return nil, alreadySubmitted(l.ID)
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		logCtx.ErrorContext(ctx, "Failed to check existing payments", "error", err)
		return nil, fmt.Errorf("%w: failed to check payments for loan %d: %v", apperrors.ErrInternalServer, l.ID, err)
	}

	count, err := s.repo.CountPayments(ctx)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to count payments", "error", err)
		return nil, fmt.Errorf("%w: failed to count payments: %v", apperrors.ErrInternalServer, err)
	}

	date := valid.date
	created, err := s.repo.AppendPayment(ctx, Payment{
		ID:            count + 1,
		LoanID:        l.ID,
		PaymentAmount: valid.amount,
		PaymentDate:   &date,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logCtx.WarnContext(ctx, "Store rejected duplicate payment", "error", err)
			return nil, alreadySubmitted(l.ID)
		}
		logCtx.ErrorContext(ctx, "Failed to append payment", "error", err)
		return nil, fmt.Errorf("%w: failed to append payment: %v", apperrors.ErrInternalServer, err)
	}

	logCtx.InfoContext(ctx, "Payment recorded", "paymentID", created.ID, "amount", created.PaymentAmount)
	s.publishRecorded(ctx, *l, *created)
	return created, nil
}

func alreadySubmitted(loanID int64) error {
	return apperrors.NewConflictError(fmt.Sprintf("Loan payment with id %d already submitted", loanID))
}

// publishRecorded never fails the request: the payment is already stored.
func (s *paymentServiceImpl) publishRecorded(ctx context.Context, l Loan, p Payment) {
	evt := event.NewPaymentRecordedEvent(
		p.ID,
		p.LoanID,
		p.PaymentAmount,
		FormatDate(*p.PaymentDate),
		string(Classify(l.DueDate, p.PaymentDate)),
	)
	if err := s.publisher.PublishPaymentRecorded(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Payment recorded, but FAILED to publish event", "paymentID", p.ID, "error", err)
	}
}
