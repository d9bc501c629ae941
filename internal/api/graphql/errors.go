package graphql

import (
	"errors"
	"loan-servicing/internal/pkg/apperrors"
)

// publicError passes through not-found and conflict messages and hides everything else.
func publicError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && (errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrConflict)) {
		return errors.New(appErr.Message)
	}
	return errors.New("Internal server error")
}
