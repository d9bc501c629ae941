package handler

import (
	"encoding/json"
	"errors"
	"loan-servicing/internal/api/handler/dto"
	"loan-servicing/internal/pkg/apperrors"
	"log/slog"
	"net/http"
)

const msgInternalServerError = "Internal server error"

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// respondError maps domain errors onto status codes. Validation failures report a
// field to message object; unknown errors never leak their text.
func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.As(err, &validationError):
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error: map[string]string{validationError.Field: validationError.Message},
		})
	case errors.Is(err, apperrors.ErrNotFound) && errors.As(err, &appErr):
		respondJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: appErr.Message})
	case errors.Is(err, apperrors.ErrConflict) && errors.As(err, &appErr):
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: appErr.Message})
	case errors.Is(err, apperrors.ErrInvalidArgument):
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Unhandled internal error", "error", err)
		respondJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternalServerError})
	}
}
