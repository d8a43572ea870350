package registration

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type EventRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	// Save writes e only if the stored version equals expectedVersion, then sets
	// e.Version to expectedVersion+1. A mismatch yields domain.ErrVersionConflict.
	Save(ctx context.Context, e *domain.Event, expectedVersion int64) error
	IncrementViews(ctx context.Context, id string) error
	ListByParticipant(ctx context.Context, userID string) ([]*domain.Event, error)
}

type UserRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetMany(ctx context.Context, ids []string) (map[string]*domain.User, error)

	// SetRegisteredEvent upserts the index entry for ref.EventID.
	SetRegisteredEvent(ctx context.Context, userID string, ref domain.RegisteredEvent) error
	RemoveRegisteredEvent(ctx context.Context, userID, eventID string) error
	ReplaceRegisteredEvents(ctx context.Context, userID string, refs []domain.RegisteredEvent) error
}

type MirrorOutbox interface {
	Enqueue(ctx context.Context, op *domain.MirrorOp) error
	// ClaimDue returns pending ops due at now and pushes their next_retry_at
	// forward by lease so that a concurrent relay skips them.
	ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]*domain.MirrorOp, error)
	MarkDone(ctx context.Context, id string, now time.Time) error
	MarkRetry(ctx context.Context, id string, attempts int, next time.Time, lastErr string, now time.Time) error
	MarkDead(ctx context.Context, id string, attempts int, lastErr string, now time.Time) error
}

type Publisher interface {
	PublishEvent(ctx context.Context, routingKey string, payload any) error
}
