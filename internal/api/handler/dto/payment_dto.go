package dto

import (
	"encoding/json"
	"loan-servicing/internal/domain/loan"
	"math"

	"github.com/shopspring/decimal"
)

// CreatePaymentRequest keeps the raw JSON values so type mismatches surface as the
// matching field's validation error instead of a decode failure.
type CreatePaymentRequest struct {
	LoanID        any `json:"loan_id" swaggertype:"integer" example:"4"`
	PaymentAmount any `json:"payment_amount" swaggertype:"number" example:"1500.0"`
	PaymentDate   any `json:"payment_date" swaggertype:"string" example:"2025-03-10"`
}

// ToDomain converts what was sent into a recorder command. Fields of the wrong JSON type
// become nil; the recorder decides which one is reported.
func (r CreatePaymentRequest) ToDomain() loan.PaymentRequest {
	var req loan.PaymentRequest

	if n, ok := r.LoanID.(json.Number); ok {
		if id, err := n.Int64(); err == nil {
			req.LoanID = &id
		}
	}

	if n, ok := r.PaymentAmount.(json.Number); ok {
		if amount, err := decimal.NewFromString(n.String()); err == nil {
			// Amounts beyond float64 range are treated as absent.
			if f := amount.InexactFloat64(); !math.IsInf(f, 0) {
				req.PaymentAmount = &f
			}
		}
	}

	if s, ok := r.PaymentDate.(string); ok {
		req.PaymentDate = &s
	}

	return req
}

type PaymentResponse struct {
	ID            int64   `json:"id" example:"4"`
	LoanID        int64   `json:"loan_id" example:"4"`
	PaymentDate   *string `json:"payment_date" example:"2025-03-10"`
	PaymentAmount float64 `json:"payment_amount" example:"1500"`
}

type CreatePaymentResponse struct {
	Message string          `json:"message" example:"Payment added successfully"`
	Payment PaymentResponse `json:"payment"`
}

func NewPaymentResponse(p *loan.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:            p.ID,
		LoanID:        p.LoanID,
		PaymentAmount: p.PaymentAmount,
	}
	if p.PaymentDate != nil {
		date := loan.FormatDate(*p.PaymentDate)
		resp.PaymentDate = &date
	}
	return resp
}
