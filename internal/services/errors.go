package services

import (
	"errors"

	"storerate/internal/apperr"
	"storerate/internal/repositories"
)

// notFoundOr maps repositories.ErrNotFound to a NotFound error with message
// and anything else to Internal.
func notFoundOr(err error, message string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NotFound(message)
	}
	return apperr.Internal(err)
}

// duplicateOr maps repositories.ErrDuplicate to a Duplicate error with message
// and anything else to Internal.
func duplicateOr(err error, message string) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return apperr.Duplicate(message)
	}
	return apperr.Internal(err)
}
