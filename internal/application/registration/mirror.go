package registration

import (
	"context"
	"fmt"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/metrics"
	appCtx "github.com/baechuer/real-time-ressys/services/community-service/internal/pkg/context"
)

// A mirror op is enqueued before the event save and only becomes due after the
// grace period. Applying it re-reads the event, so whether the save committed,
// failed or raced, the user's index ends up matching the participant list.

func (s *Service) enqueueMirror(ctx context.Context, userID, eventID string, reason domain.MirrorReason) (*domain.MirrorOp, error) {
	now := s.clock.Now()
	op := domain.NewMirrorOp(userID, eventID, reason, appCtx.GetRequestID(ctx), now.Add(s.grace), now)
	if err := s.outbox.Enqueue(ctx, op); err != nil {
		return nil, fmt.Errorf("enqueue mirror op: %w", err)
	}
	return op, nil
}

// discard closes an op whose mutation was rejected before anything was written.
// When the save outcome is unknown the op stays pending and the relay resyncs it.
func (s *Service) discard(ctx context.Context, op *domain.MirrorOp, cause error) {
	if op == nil {
		return
	}
	if isUnconfirmedWrite(cause) {
		metrics.RecordMirror("deferred")
		logger.WithCtx(ctx).Warn().Err(cause).
			Str("op_id", op.ID).
			Str("event_id", op.EventID).
			Msg("event save outcome unknown, mirror op left to relay")
		return
	}
	if err := s.outbox.MarkDone(ctx, op.ID, s.clock.Now()); err != nil {
		logger.WithCtx(ctx).Debug().Err(err).Str("op_id", op.ID).Msg("discard mirror op failed")
	}
}

// settle applies op right after the event commit. Failures are left to the relay.
func (s *Service) settle(ctx context.Context, op *domain.MirrorOp) {
	log := logger.WithCtx(ctx)
	now := s.clock.Now()

	if err := s.applyMirror(ctx, op); err != nil {
		metrics.RecordMirror("retry")
		next := now.Add(computeNextRetry(1))
		if merr := s.outbox.MarkRetry(ctx, op.ID, 1, next, err.Error(), now); merr != nil {
			// op keeps its grace deadline, the relay still picks it up
			log.Warn().Err(merr).Str("op_id", op.ID).Msg("mark mirror retry failed")
		}
		log.Warn().Err(err).
			Str("op_id", op.ID).
			Str("user_id", op.UserID).
			Str("event_id", op.EventID).
			Msg("inline mirror sync failed, deferred to relay")
		return
	}

	metrics.RecordMirror("done")
	if err := s.outbox.MarkDone(ctx, op.ID, now); err != nil {
		log.Warn().Err(err).Str("op_id", op.ID).Msg("mark mirror done failed")
	}
}

// applyMirror resyncs one (user, event) index entry from the event's participant list.
func (s *Service) applyMirror(ctx context.Context, op *domain.MirrorOp) error {
	e, err := s.events.GetByID(ctx, op.EventID)
	if err != nil {
		if domain.IsCode(err, domain.CodeNotFound) {
			return s.dropEntry(ctx, op)
		}
		return fmt.Errorf("load event: %w", err)
	}

	p := e.ParticipantByUser(op.UserID)
	if p == nil {
		return s.dropEntry(ctx, op)
	}

	err = s.users.SetRegisteredEvent(ctx, op.UserID, domain.RegisteredEvent{EventID: e.ID, Status: p.Status})
	if domain.IsCode(err, domain.CodeNotFound) {
		logger.WithCtx(ctx).Warn().Str("user_id", op.UserID).Msg("mirror target user missing, skipping")
		return nil
	}
	return err
}

func (s *Service) dropEntry(ctx context.Context, op *domain.MirrorOp) error {
	err := s.users.RemoveRegisteredEvent(ctx, op.UserID, op.EventID)
	if domain.IsCode(err, domain.CodeNotFound) {
		return nil
	}
	return err
}

// RebuildIndex recomputes a user's whole registration index from the events
// that currently list the user.
func (s *Service) RebuildIndex(ctx context.Context, actorRole, userID string) ([]domain.RegisteredEvent, error) {
	if !isAdmin(actorRole) {
		return nil, domain.ErrForbidden("admin only")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	events, err := s.events.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}
	refs := domain.IndexFromEvents(userID, events)
	if err := s.users.ReplaceRegisteredEvents(ctx, userID, refs); err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info().
		Str("user_id", userID).
		Int("entries", len(refs)).
		Msg("registration index rebuilt")
	return refs, nil
}
