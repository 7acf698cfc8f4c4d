package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storerate/internal/config"
	"storerate/internal/database"
	"storerate/internal/handlers"
	"storerate/internal/logging"
	"storerate/internal/services"
)

type nopNotifier struct{}

func (nopNotifier) NotifyPasswordReset(context.Context, services.PasswordReset) error { return nil }

func newTestApp(t *testing.T, checks map[string]handlers.Pinger) *App {
	t.Helper()
	cfg := &config.Config{
		DBDriver:       "sqlite",
		DatabaseDSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		JWTSecret:      "test_jwt_secret",
		JWTExpires:     time.Hour,
		ResetTokenTTL:  time.Hour,
		BcryptCost:     4,
		FrontendURL:    "http://localhost:5173",
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	}
	log := logging.Discard()

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN, log)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	return NewApp(cfg, db, log, nopNotifier{}, checks)
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t, nil)

	resp, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "API is running", body["message"])
}

func TestReadinessReportsFailingDependency(t *testing.T) {
	app := newTestApp(t, map[string]handlers.Pinger{
		"rabbitmq": func(context.Context) error { return errors.New("connection closed") },
	})

	resp, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Data["database"])
	assert.Equal(t, "connection closed", body.Data["rabbitmq"])
}

func TestUnauthenticatedAccess(t *testing.T) {
	app := newTestApp(t, nil)

	for _, path := range []string{"/api/users", "/api/ratings/my-ratings", "/api/dashboard/admin-stats"} {
		resp, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	// Store browsing is public.
	resp, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/api/stores", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t, nil)

	resp, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t, nil)

	_, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	resp, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
