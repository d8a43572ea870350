package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "HTTP_ADDR", "STORE_DRIVER", "MONGO_URI", "MONGO_DB", "DATABASE_URL",
		"JWT_SECRET", "JWT_ISSUER", "RABBIT_URL", "RABBIT_EXCHANGE", "BCRYPT_COST",
		"RL_ENABLED", "MIRROR_MAX_ATTEMPTS", "HTTP_READ_TIMEOUT", "PASSWORD_RESET_BASE_URL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("should_return_error_if_jwt_secret_is_missing", func(t *testing.T) {
		baseEnv(t)
		cfg, err := Load()
		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.Equal(t, "missing JWT_SECRET", err.Error())
	})

	t.Run("should_require_mongo_uri_for_mongo_driver", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("JWT_SECRET", "s")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MONGO_URI")
	})

	t.Run("should_reject_unknown_driver", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("STORE_DRIVER", "cassandra")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("should_require_rabbit_outside_dev", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("STORE_DRIVER", "memory")
		t.Setenv("APP_ENV", "prod")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RABBIT_URL")
	})

	t.Run("should_load_defaults", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("JWT_SECRET", "super-secret")
		t.Setenv("STORE_DRIVER", "memory")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "dev", cfg.AppEnv)
		assert.Equal(t, "community.events", cfg.RabbitExchange)
		assert.Equal(t, "community", cfg.MongoDB)
		assert.True(t, cfg.RLEnabled)
		assert.Equal(t, 12, cfg.MirrorMaxAttempts)
		assert.Equal(t, 24*time.Hour, cfg.VerifyTokenTTL)
		assert.Contains(t, cfg.PasswordResetBaseURL, "token=")
	})

	t.Run("should_parse_overrides", func(t *testing.T) {
		baseEnv(t)
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("STORE_DRIVER", "mongo")
		t.Setenv("MONGO_URI", "mongodb://localhost:27017")
		t.Setenv("RL_ENABLED", "false")
		t.Setenv("HTTP_READ_TIMEOUT", "3s")
		t.Setenv("BCRYPT_COST", "bogus")

		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.RLEnabled)
		assert.Equal(t, 3*time.Second, cfg.HTTPReadTimeout)
		assert.Equal(t, 12, cfg.BcryptCost, "unparsable values fall back to the default")
	})
}
