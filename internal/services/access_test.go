package services

import (
	"testing"

	"storerate/internal/apperr"
	"storerate/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCheckAccess(t *testing.T) {
	admin := &models.User{ID: "a", Role: models.RoleAdmin}
	owner := &models.User{ID: "o", Role: models.RoleStoreOwner}

	assert.True(t, apperr.Is(CheckAccess(nil), apperr.KindUnauthenticated))
	assert.True(t, apperr.Is(CheckAccess(nil, models.RoleAdmin), apperr.KindUnauthenticated))
	assert.NoError(t, CheckAccess(owner))
	assert.NoError(t, CheckAccess(admin, models.RoleAdmin))
	assert.NoError(t, CheckAccess(owner, models.RoleAdmin, models.RoleStoreOwner))

	err := CheckAccess(owner, models.RoleAdmin)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.Equal(t, "Access not allowed.", err.Error())
}
