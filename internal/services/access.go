package services

import (
	"storerate/internal/apperr"
	"storerate/internal/models"
)

// CheckAccess admits user when it is authenticated and, if allowed is not
// empty, holds one of the allowed roles.
func CheckAccess(user *models.User, allowed ...models.Role) error {
	if user == nil {
		return apperr.Unauthenticated("Authentication required")
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, role := range allowed {
		if user.Role == role {
			return nil
		}
	}
	return apperr.Forbidden("Access not allowed.")
}
