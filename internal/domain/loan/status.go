package loan

import "time"

type PaymentStatus string

const (
	StatusUnpaid    PaymentStatus = "Unpaid"
	StatusOnTime    PaymentStatus = "On Time"
	StatusLate      PaymentStatus = "Late"
	StatusDefaulted PaymentStatus = "Defaulted"
)

const (
	onTimeGraceDays = 5
	lateLimitDays   = 30
)

// AllStatuses lists every status in display order.
func AllStatuses() []PaymentStatus {
	return []PaymentStatus{StatusUnpaid, StatusOnTime, StatusLate, StatusDefaulted}
}

// Classify derives the repayment status of a loan from its due date and the date it was paid.
// A nil payment date means nothing was paid.
func Classify(dueDate time.Time, paymentDate *time.Time) PaymentStatus {
	if paymentDate == nil {
		return StatusUnpaid
	}

	daysLate := DaysBetween(dueDate, *paymentDate)

	switch {
	case daysLate <= onTimeGraceDays:
		return StatusOnTime
	case daysLate <= lateLimitDays:
		return StatusLate
	default:
		return StatusDefaulted
	}
}

// StatusOf classifies a loan against an optional payment record.
func StatusOf(l Loan, p *Payment) PaymentStatus {
	if p == nil {
		return Classify(l.DueDate, nil)
	}
	return Classify(l.DueDate, p.PaymentDate)
}
