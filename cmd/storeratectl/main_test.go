package main

import (
	"bytes"
	"testing"

	"storerate/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAdminFlags(t *testing.T) {
	in, err := parseAdminFlags([]string{"--name", " Site Admin ", "--email", "Admin@Example.com", "-p", "Secret#123", "--address", "HQ"})
	require.NoError(t, err)
	assert.Equal(t, "Site Admin", in.Name)
	assert.Equal(t, "admin@example.com", in.Email)
	assert.Equal(t, models.RoleAdmin, in.Role)

	_, err = parseAdminFlags([]string{"--name", "Site Admin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--email")
	assert.Contains(t, err.Error(), "--password")
}

func TestParseAdminFlagsAppliesAccountRules(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		field string
	}{
		{"bad email", []string{"--name", "Site Admin", "--email", "not-an-email", "-p", "Secret#123", "--address", "HQ"}, "--email"},
		{"short name", []string{"--name", "Al", "--email", "admin@example.com", "-p", "Secret#123", "--address", "HQ"}, "--name"},
		{"weak password", []string{"--name", "Site Admin", "--email", "admin@example.com", "-p", "password123", "--address", "HQ"}, "--password"},
		{"short password", []string{"--name", "Site Admin", "--email", "admin@example.com", "-p", "Se#1", "--address", "HQ"}, "--password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAdminFlags(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid flags")
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestRunCommands(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_jwt_secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	require.NoError(t, run([]string{"migrate"}, &out))
	assert.Contains(t, out.String(), "migration complete")

	out.Reset()
	require.NoError(t, run([]string{"create-admin", "--name", "Site Admin", "--email", "admin@example.com", "--password", "Secret#123", "--address", "HQ"}, &out))
	assert.Contains(t, out.String(), "created admin admin@example.com")

	assert.Error(t, run([]string{"frobnicate"}, &out))
	assert.Error(t, run(nil, &out))
}
