package loan

import (
	"time"
)

// DateLayout is the wire format for every calendar date the service accepts or renders.
const DateLayout = "2006-01-02"

type Loan struct {
	ID           int64
	Name         string
	InterestRate float64
	Principal    int64
	DueDate      time.Time
}

type Payment struct {
	ID            int64
	LoanID        int64
	PaymentAmount float64
	PaymentDate   *time.Time
}

// HasDate reports whether the payment counts as submitted.
func (p *Payment) HasDate() bool {
	return p != nil && p.PaymentDate != nil
}

// LoanDetails is the read model: a loan, its payments and the status derived from them.
type LoanDetails struct {
	Loan
	Status   PaymentStatus
	Payments []PaymentDetails
}

type PaymentDetails struct {
	Payment
	Status PaymentStatus
}

// NewDate returns the calendar date as midnight UTC.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts only YYYY-MM-DD with real calendar values.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FirstPayment picks the payment that represents a loan: the first one carrying a date,
// otherwise the first record at all. It returns nil for an empty slice.
func FirstPayment(payments []Payment) *Payment {
	for i := range payments {
		if payments[i].HasDate() {
			return &payments[i]
		}
	}
	if len(payments) > 0 {
		return &payments[0]
	}
	return nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// DaysBetween is the signed number of calendar days from 'from' to 'to'.
func DaysBetween(from, to time.Time) int {
	return int(truncateToDate(to).Sub(truncateToDate(from)) / (24 * time.Hour))
}
