package registration

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/metrics"
	appCtx "github.com/baechuer/real-time-ressys/services/community-service/internal/pkg/context"
)

type StatusCmd struct {
	ActorID       string
	ActorRole     string
	EventID       string
	ParticipantID string
	Status        domain.ParticipantStatus
}

// SetParticipantStatus overwrites one participant's status. There is no
// transition table: organizers use it to correct mistakes in any direction.
func (s *Service) SetParticipantStatus(ctx context.Context, cmd StatusCmd) (domain.Participant, error) {
	if !cmd.Status.Valid() {
		metrics.RecordRegistrationOp("status", "rejected")
		return domain.Participant{}, domain.ErrBusinessRule("Invalid status. Must be one of: registered, confirmed, attended, cancelled")
	}

	var (
		op      *domain.MirrorOp
		updated domain.Participant
	)
	_, err := s.mutate(ctx, cmd.EventID, func(e *domain.Event, now time.Time) error {
		if !canManage(cmd.ActorID, cmd.ActorRole, e) {
			return domain.ErrForbidden("only the organizer or an admin can change participant status")
		}
		target := e.ParticipantByID(cmd.ParticipantID)
		if target == nil {
			return domain.ErrNotFound("participant not found")
		}
		if op == nil {
			var err error
			op, err = s.enqueueMirror(ctx, target.UserID, e.ID, domain.MirrorStatusChanged)
			if err != nil {
				return err
			}
		}
		var err error
		updated, err = e.SetParticipantStatus(cmd.ParticipantID, cmd.Status, now)
		return err
	})
	if err != nil {
		s.discard(ctx, op, err)
		metrics.RecordRegistrationOp("status", "rejected")
		return domain.Participant{}, err
	}

	metrics.RecordRegistrationOp("status", "ok")
	logger.WithCtx(ctx).Info().
		Str("event_id", cmd.EventID).
		Str("participant_id", updated.ID).
		Str("status", string(updated.Status)).
		Msg("participant status changed")

	s.settle(ctx, op)
	s.publish(ctx, RKStatusChanged, RegistrationEvent{
		EventID:       cmd.EventID,
		UserID:        updated.UserID,
		ParticipantID: updated.ID,
		Status:        string(updated.Status),
		ActorID:       cmd.ActorID,
		OccurredAt:    s.clock.Now().UTC(),
		RequestID:     appCtx.GetRequestID(ctx),
	})
	return updated, nil
}
