package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/config"
)

func memoryConfig() *config.Config {
	return &config.Config{
		AppEnv:             "dev",
		HTTPAddr:           ":0",
		StoreDriver:        "memory",
		JWTSecret:          "test",
		BcryptCost:         4,
		VerifyTokenTTL:     time.Hour,
		ResetTokenTTL:      time.Hour,
		MirrorPollInterval: 10 * time.Millisecond,
		MirrorGrace:        time.Second,
		MirrorMaxAttempts:  3,
		HTTPReadTimeout:    time.Second,
		HTTPWriteTimeout:   time.Second,
		HTTPIdleTimeout:    time.Second,
	}
}

func TestNewApp_MemoryDriver(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig())
	require.NoError(t, err)
	require.NotNil(t, app.Relay)

	rr := httptest.NewRecorder()
	app.Server.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	app.Server.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, app.Shutdown(ctx))
}

func TestNewApp_UnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.StoreDriver = "cassandra"
	_, err := NewApp(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewApp_BadPostgresURL(t *testing.T) {
	cfg := memoryConfig()
	cfg.DatabaseURL = "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1"
	_, err := NewApp(context.Background(), cfg)
	assert.Error(t, err)
}
