package dto

import (
	"loan-servicing/internal/domain/loan"

	"github.com/shopspring/decimal"
)

type LoanPaymentResponse struct {
	ID            int64   `json:"id" example:"1"`
	LoanID        int64   `json:"loan_id" example:"1"`
	PaymentAmount float64 `json:"payment_amount" example:"1000"`
	PaymentDate   *string `json:"payment_date" example:"2025-03-04"`
	Status        string  `json:"status" example:"On Time"`
}

type LoanResponse struct {
	ID           int64                 `json:"id" example:"1"`
	Name         string                `json:"name" example:"Tom's Loan"`
	InterestRate float64               `json:"interest_rate" example:"5"`
	Principal    int64                 `json:"principal" example:"10000"`
	DueDate      string                `json:"due_date" example:"2025-03-01"`
	Status       string                `json:"status" example:"On Time"`
	Payments     []LoanPaymentResponse `json:"loan_payments"`
}

type LoansResponse struct {
	Loans []LoanResponse `json:"loans"`
}

// ErrorResponse carries either a message or, for validation failures, a field to message map.
type ErrorResponse struct {
	Error any `json:"error" swaggertype:"string" example:"Loan with id 999 not found"`
}

type MessageResponse struct {
	Status string `json:"status" example:"ok"`
}

func roundRate(rate float64) float64 {
	return decimal.NewFromFloat(rate).Round(4).InexactFloat64()
}

func NewLoanResponse(details *loan.LoanDetails) LoanResponse {
	resp := LoanResponse{
		ID:           details.ID,
		Name:         details.Name,
		InterestRate: roundRate(details.InterestRate),
		Principal:    details.Principal,
		DueDate:      loan.FormatDate(details.DueDate),
		Status:       string(details.Status),
		Payments:     make([]LoanPaymentResponse, 0, len(details.Payments)),
	}
	for _, p := range details.Payments {
		payment := LoanPaymentResponse{
			ID:            p.ID,
			LoanID:        p.LoanID,
			PaymentAmount: p.PaymentAmount,
			Status:        string(p.Status),
		}
		if p.PaymentDate != nil {
			date := loan.FormatDate(*p.PaymentDate)
			payment.PaymentDate = &date
		}
		resp.Payments = append(resp.Payments, payment)
	}
	return resp
}

func NewLoansResponse(details []loan.LoanDetails) LoansResponse {
	resp := LoansResponse{Loans: make([]LoanResponse, 0, len(details))}
	for i := range details {
		resp.Loans = append(resp.Loans, NewLoanResponse(&details[i]))
	}
	return resp
}
