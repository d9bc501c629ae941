package event

import (
	"time"

	"github.com/google/uuid"
)

type PaymentRecordedEvent struct {
	EventID       string    `json:"eventId"`
	PaymentID     int64     `json:"paymentId"`
	LoanID        int64     `json:"loanId"`
	PaymentAmount float64   `json:"paymentAmount"`
	PaymentDate   string    `json:"paymentDate"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewPaymentRecordedEvent(paymentID, loanID int64, amount float64, paymentDate, status string) PaymentRecordedEvent {
	return PaymentRecordedEvent{
		EventID:       uuid.NewString(),
		PaymentID:     paymentID,
		LoanID:        loanID,
		PaymentAmount: amount,
		PaymentDate:   paymentDate,
		Status:        status,
		Timestamp:     time.Now().UTC(),
	}
}
