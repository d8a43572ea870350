package account

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type TokenKind string

const (
	TokenVerifyEmail   TokenKind = "verify_email"
	TokenPasswordReset TokenKind = "password_reset"
)

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	MarkEmailVerified(ctx context.Context, userID string) error
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

type OneTimeTokenStore interface {
	Save(ctx context.Context, kind TokenKind, token string, userID string, ttl time.Duration) error
	Consume(ctx context.Context, kind TokenKind, token string) (string, error)
	Peek(ctx context.Context, kind TokenKind, token string) (string, error)
}

type EmailPublisher interface {
	PublishEvent(ctx context.Context, routingKey string, payload any) error
}

const (
	RKVerifyEmailRequested   = "email.verify_requested"
	RKPasswordResetRequested = "email.password_reset_requested"
)

// EmailRequest is handed to the mail pipeline; rendering and delivery happen elsewhere.
type EmailRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	URL    string `json:"url"`
}
