package handler

import (
	"bytes"
	"encoding/json"
	"loan-servicing/internal/api/handler/dto"
	"loan-servicing/internal/domain/loan"
	"loan-servicing/internal/pkg/apperrors"
	"log/slog"
	"net/http"
)

const (
	msgPaymentAdded     = "Payment added successfully"
	msgInvalidInputType = "Invalid input type"
	maxRequestBodyBytes = 1 << 20
)

type PaymentHandler struct {
	service loan.PaymentService
	logger  *slog.Logger
}

func NewPaymentHandler(s loan.PaymentService, l *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: s,
		logger:  l.With("component", "PaymentHandler"),
	}
}

// decodePaymentRequest accepts any JSON object. Numbers stay as json.Number so integer
// and decimal checks see exactly what the client sent.
func decodePaymentRequest(w http.ResponseWriter, r *http.Request) (dto.CreatePaymentRequest, error) {
	var req dto.CreatePaymentRequest
	invalid := apperrors.NewValidationError("_schema", msgInvalidInputType)

	if r.Body == nil {
		return req, invalid
	}
	defer r.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)); err != nil {
		return req, invalid
	}

	trimmed := bytes.TrimSpace(buf.Bytes())
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return req, invalid
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		return req, invalid
	}
	return req, nil
}

// CreatePayment records the single repayment of a loan.
//
// @Summary Record a loan payment
// @Description Records the repayment of a loan. A loan accepts one dated payment; later attempts are rejected.
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body dto.CreatePaymentRequest true "Payment to record"
// @Success 201 {object} dto.CreatePaymentResponse "Payment recorded"
// @Failure 400 {object} dto.ErrorResponse "Validation error or payment already submitted"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/payments [post]
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	req, err := decodePaymentRequest(w, r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Rejected unreadable payment body")
		respondError(w, h.logger, err)
		return
	}

	payment, err := h.service.RecordPayment(r.Context(), req.ToDomain())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.CreatePaymentResponse{
		Message: msgPaymentAdded,
		Payment: dto.NewPaymentResponse(payment),
	})
}
