package account

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

type Config struct {
	VerifyTokenTTL       time.Duration
	ResetTokenTTL        time.Duration
	VerifyEmailBaseURL   string
	PasswordResetBaseURL string
}

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	ott    OneTimeTokenStore
	pub    EmailPublisher
	clock  Clock
	cfg    Config
}

func New(users UserRepo, hasher PasswordHasher, ott OneTimeTokenStore, pub EmailPublisher, clock Clock, cfg Config) *Service {
	if cfg.VerifyTokenTTL <= 0 {
		cfg.VerifyTokenTTL = 24 * time.Hour
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = 30 * time.Minute
	}
	return &Service{users: users, hasher: hasher, ott: ott, pub: pub, clock: clock, cfg: cfg}
}

func newOpaqueToken(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		bytesLen = 32
	}
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// validatePassword: 8..72 bytes (bcrypt limit), at least one letter and one digit.
func validatePassword(pw string) error {
	if len(pw) < 8 || len(pw) > 72 {
		return domain.ErrValidationMeta("invalid password", map[string]string{"password": "must be 8-72 characters"})
	}
	var letter, digit bool
	for _, r := range pw {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			letter = true
		}
	}
	if !letter || !digit {
		return domain.ErrValidationMeta("invalid password", map[string]string{"password": "must contain a letter and a digit"})
	}
	return nil
}
