package registration

import (
	"context"
	"strings"
	"time"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/metrics"
	appCtx "github.com/baechuer/real-time-ressys/services/community-service/internal/pkg/context"
)

// Unregister removes the user from the event roster.
func (s *Service) Unregister(ctx context.Context, eventID, userID string) (*domain.Event, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthorized("missing user")
	}

	op, err := s.enqueueMirror(ctx, userID, eventID, domain.MirrorUnregistered)
	if err != nil {
		return nil, err
	}

	var at time.Time
	e, err := s.mutate(ctx, eventID, func(e *domain.Event, now time.Time) error {
		at = now
		return e.RemoveParticipant(userID, now)
	})
	if err != nil {
		s.discard(ctx, op, err)
		metrics.RecordRegistrationOp("unregister", "rejected")
		return nil, err
	}

	metrics.RecordRegistrationOp("unregister", "ok")
	logger.WithCtx(ctx).Info().
		Str("event_id", e.ID).
		Str("user_id", userID).
		Int("current_participants", e.Registration.CurrentParticipants).
		Msg("user unregistered")

	s.settle(ctx, op)
	s.publish(ctx, RKRegistrationCancelled, RegistrationEvent{
		EventID:    e.ID,
		UserID:     userID,
		ActorID:    userID,
		OccurredAt: at.UTC(),
		RequestID:  appCtx.GetRequestID(ctx),
	})
	return e, nil
}
