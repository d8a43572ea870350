package registration

import (
	"context"
	"errors"
	"time"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/metrics"
)

const maxCASAttempts = 3

type Service struct {
	events EventRepo
	users  UserRepo
	outbox MirrorOutbox
	pub    Publisher
	clock  Clock

	// grace delays relay pickup of a freshly enqueued op so the inline sync
	// normally gets there first.
	grace time.Duration
}

func New(events EventRepo, users UserRepo, outbox MirrorOutbox, pub Publisher, clock Clock, grace time.Duration) *Service {
	if pub == nil {
		pub = NoopPublisher{}
	}
	if grace <= 0 {
		grace = 30 * time.Second
	}
	return &Service{
		events: events,
		users:  users,
		outbox: outbox,
		pub:    pub,
		clock:  clock,
		grace:  grace,
	}
}

func isAdmin(role string) bool { return role == string(domain.RoleAdmin) }

// canManage: organizer of the event or admin.
func canManage(actorID, actorRole string, e *domain.Event) bool {
	return isAdmin(actorRole) || e.IsOrganizer(actorID)
}

// mutate loads the event, applies fn and saves with a version check. On a
// version conflict the whole load-check-apply cycle runs again, so admission
// rules are always evaluated against the state being written over.
func (s *Service) mutate(ctx context.Context, eventID string, fn func(e *domain.Event, now time.Time) error) (*domain.Event, error) {
	for attempt := 1; attempt <= maxCASAttempts; attempt++ {
		e, err := s.events.GetByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		now := s.clock.Now()
		expected := e.Version

		if err := fn(e, now); err != nil {
			return nil, err
		}

		err = s.events.Save(ctx, e, expected)
		if err == nil {
			return e, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, &unconfirmedWriteError{err: err}
		}
		metrics.RecordCASConflict("event")
		logger.WithCtx(ctx).Debug().
			Str("event_id", eventID).
			Int("attempt", attempt).
			Msg("event version conflict, retrying")
	}
	return nil, domain.ErrConflict("event was modified concurrently, please retry")
}

// unconfirmedWriteError wraps a save failure whose outcome is unknown: the
// store may have applied the write before the error surfaced.
type unconfirmedWriteError struct{ err error }

func (e *unconfirmedWriteError) Error() string { return e.err.Error() }
func (e *unconfirmedWriteError) Unwrap() error { return e.err }

func isUnconfirmedWrite(err error) bool {
	var uw *unconfirmedWriteError
	return errors.As(err, &uw)
}

func (s *Service) publish(ctx context.Context, routingKey string, payload RegistrationEvent) {
	if err := s.pub.PublishEvent(ctx, routingKey, payload); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).
			Str("routing_key", routingKey).
			Str("event_id", payload.EventID).
			Msg("publish registration event failed")
	}
}
