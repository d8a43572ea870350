package event

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type EventRepo interface {
	Create(ctx context.Context, e *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	Save(ctx context.Context, e *domain.Event, expectedVersion int64) error

	ListPublished(ctx context.Context, category string, limit int) ([]*domain.Event, error)
	ListByOrganizer(ctx context.Context, organizerID string, limit int) ([]*domain.Event, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey string, payload any) error
}
