package handler

import (
	"fmt"
	"loan-servicing/internal/api/handler/dto"
	"loan-servicing/internal/domain/loan"
	"loan-servicing/internal/pkg/apperrors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type LoanHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, l *slog.Logger) *LoanHandler {
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

func getLoanIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "loanID")
	if idStr == "" {
		return 0, fmt.Errorf("loanID not found in URL path")
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// ListLoans returns every loan with its payments and derived status.
//
// @Summary List loans
// @Description Lists all loans with their payments. Status is derived from the due date and the payment date on every read.
// @Tags Loans
// @Produce json
// @Success 200 {object} dto.LoansResponse "Loans"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/loans [get]
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.ListLoans(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoansResponse(loans))
}

// GetLoan returns one loan.
//
// @Summary Retrieve loan details
// @Description Retrieves a loan by its ID together with its payments and derived status.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Success 200 {object} dto.LoanResponse "Loan details"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/v1/loans/{loanID} [get]
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: loanID must be an integer", apperrors.ErrInvalidArgument))
		return
	}

	details, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanResponse(details))
}
