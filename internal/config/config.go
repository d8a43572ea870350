package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string

	HTTPAddr string

	// StoreDriver selects the document store: "mongo" or "memory".
	StoreDriver string
	MongoURI    string
	MongoDB     string

	// Contact messages live in postgres; empty keeps them in memory.
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RabbitURL      string
	RabbitExchange string

	JWTSecret string
	JWTIssuer string

	BcryptCost     int
	VerifyTokenTTL time.Duration
	ResetTokenTTL  time.Duration

	// Prefixes of the links in account emails; the raw token is appended.
	VerifyEmailBaseURL   string
	PasswordResetBaseURL string

	// Rate Limiting
	RLEnabled         bool
	RLLimit           int
	RLWindow          time.Duration
	RLSensitiveLimit  int
	RLSensitiveWindow time.Duration

	// Registration index relay
	MirrorPollInterval time.Duration
	MirrorGrace        time.Duration
	MirrorMaxAttempts  int

	LogLevel  string
	LogFormat string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	cfg.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", "mongo"))
	cfg.MongoURI = getEnv("MONGO_URI", "")
	cfg.MongoDB = getEnv("MONGO_DB", "community")
	cfg.DatabaseURL = getEnv("DATABASE_URL", "")

	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB = getIntEnv("REDIS_DB", 0)

	cfg.RabbitURL = getEnv("RABBIT_URL", "")
	cfg.RabbitExchange = getEnv("RABBIT_EXCHANGE", "community.events")

	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "")

	cfg.BcryptCost = getIntEnv("BCRYPT_COST", 12)
	cfg.VerifyTokenTTL = getDuration("VERIFY_TOKEN_TTL", 24*time.Hour)
	cfg.ResetTokenTTL = getDuration("RESET_TOKEN_TTL", 30*time.Minute)
	cfg.VerifyEmailBaseURL = getEnv("VERIFY_EMAIL_BASE_URL", "http://localhost:5173/verify-email?token=")
	cfg.PasswordResetBaseURL = getEnv("PASSWORD_RESET_BASE_URL", "http://localhost:5173/reset-password?token=")

	cfg.RLEnabled = getBoolEnv("RL_ENABLED", true)
	cfg.RLLimit = getIntEnv("RL_IP_LIMIT", 100)
	cfg.RLWindow = getDuration("RL_IP_WINDOW", time.Minute)
	cfg.RLSensitiveLimit = getIntEnv("RL_SENSITIVE_LIMIT", 5)
	cfg.RLSensitiveWindow = getDuration("RL_SENSITIVE_WINDOW", 15*time.Minute)

	cfg.MirrorPollInterval = getDuration("MIRROR_POLL_INTERVAL", time.Second)
	cfg.MirrorGrace = getDuration("MIRROR_GRACE", 30*time.Second)
	cfg.MirrorMaxAttempts = getIntEnv("MIRROR_MAX_ATTEMPTS", 12)

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "console")

	cfg.HTTPReadTimeout = getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	cfg.HTTPWriteTimeout = getDuration("HTTP_WRITE_TIMEOUT", 20*time.Second)
	cfg.HTTPIdleTimeout = getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second)

	// validation
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing JWT_SECRET")
	}
	switch cfg.StoreDriver {
	case "mongo":
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("missing MONGO_URI (required when STORE_DRIVER=mongo)")
		}
	case "memory":
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q (want mongo or memory)", cfg.StoreDriver)
	}
	if cfg.AppEnv != "dev" && cfg.RabbitURL == "" {
		return nil, fmt.Errorf("missing RABBIT_URL (required when APP_ENV != dev)")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, fmt.Errorf("invalid BCRYPT_COST %d", cfg.BcryptCost)
	}
	if cfg.MirrorMaxAttempts < 1 {
		return nil, fmt.Errorf("invalid MIRROR_MAX_ATTEMPTS %d", cfg.MirrorMaxAttempts)
	}

	return cfg, nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getIntEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getBoolEnv(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
