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

type RegisterCmd struct {
	EventID string
	UserID  string
	Form    domain.RegistrationForm
}

type AdminRegisterCmd struct {
	ActorID   string
	ActorRole string
	EventID   string
	UserID    string
	Form      domain.RegistrationForm
}

// Eligibility answers the admission question without changing anything.
// Drafts stay invisible to callers who cannot manage the event.
func (s *Service) Eligibility(ctx context.Context, eventID, userID, userRole string) (domain.Admission, error) {
	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return domain.Admission{}, err
	}
	if e.Status == domain.StatusDraft && !canManage(userID, userRole, e) {
		return domain.Admission{}, domain.ErrNotFound("event not found")
	}
	if !e.Status.AcceptsRegistrations() {
		return domain.Admission{Reason: domain.ReasonRegistrationShut}, nil
	}
	return e.CanRegister(userID, s.clock.Now()), nil
}

// Register signs the user up for the event with status registered.
func (s *Service) Register(ctx context.Context, cmd RegisterCmd) (domain.Participant, error) {
	if strings.TrimSpace(cmd.UserID) == "" {
		return domain.Participant{}, domain.ErrUnauthorized("missing user")
	}

	op, err := s.enqueueMirror(ctx, cmd.UserID, cmd.EventID, domain.MirrorRegistered)
	if err != nil {
		return domain.Participant{}, err
	}

	var p domain.Participant
	e, err := s.mutate(ctx, cmd.EventID, func(e *domain.Event, now time.Time) error {
		if !e.Status.AcceptsRegistrations() {
			return domain.ErrBusinessRule(domain.ReasonRegistrationShut)
		}
		if adm := e.CanRegister(cmd.UserID, now); !adm.Allowed {
			return domain.ErrBusinessRule(adm.Reason)
		}
		p = e.AddParticipant(cmd.UserID, domain.ParticipantRegistered, cmd.Form, now)
		return nil
	})
	if err != nil {
		s.discard(ctx, op, err)
		metrics.RecordRegistrationOp("self", "rejected")
		return domain.Participant{}, err
	}

	metrics.RecordRegistrationOp("self", "ok")
	logger.WithCtx(ctx).Info().
		Str("event_id", e.ID).
		Str("user_id", cmd.UserID).
		Int("current_participants", e.Registration.CurrentParticipants).
		Msg("user registered")

	s.settle(ctx, op)
	s.publish(ctx, RKRegistrationCreated, RegistrationEvent{
		EventID:       e.ID,
		UserID:        cmd.UserID,
		ParticipantID: p.ID,
		Status:        string(p.Status),
		ActorID:       cmd.UserID,
		OccurredAt:    p.RegisteredAt,
		RequestID:     appCtx.GetRequestID(ctx),
	})
	return p, nil
}

// AdminRegister adds a user on their behalf. The deadline does not apply, the
// duplicate check does, and the participant starts out confirmed.
func (s *Service) AdminRegister(ctx context.Context, cmd AdminRegisterCmd) (domain.Participant, error) {
	if strings.TrimSpace(cmd.UserID) == "" {
		return domain.Participant{}, domain.ErrValidationMeta("invalid body", map[string]string{"user_id": "required"})
	}
	if _, err := s.users.GetByID(ctx, cmd.UserID); err != nil {
		return domain.Participant{}, err
	}

	op, err := s.enqueueMirror(ctx, cmd.UserID, cmd.EventID, domain.MirrorAdminRegistered)
	if err != nil {
		return domain.Participant{}, err
	}

	var p domain.Participant
	e, err := s.mutate(ctx, cmd.EventID, func(e *domain.Event, now time.Time) error {
		if !canManage(cmd.ActorID, cmd.ActorRole, e) {
			return domain.ErrForbidden("only the organizer or an admin can register users")
		}
		if e.Status == domain.StatusCancelled || e.Status == domain.StatusCompleted {
			return domain.ErrBusinessRule(domain.ReasonRegistrationShut)
		}
		if e.ParticipantByUser(cmd.UserID) != nil {
			return domain.ErrBusinessRule(domain.ReasonAlreadyRegistered)
		}
		p = e.AddParticipant(cmd.UserID, domain.ParticipantConfirmed, cmd.Form, now)
		return nil
	})
	if err != nil {
		s.discard(ctx, op, err)
		metrics.RecordRegistrationOp("admin", "rejected")
		return domain.Participant{}, err
	}

	metrics.RecordRegistrationOp("admin", "ok")
	logger.WithCtx(ctx).Info().
		Str("event_id", e.ID).
		Str("user_id", cmd.UserID).
		Str("actor_id", cmd.ActorID).
		Msg("user registered by organizer")

	s.settle(ctx, op)
	s.publish(ctx, RKRegistrationCreated, RegistrationEvent{
		EventID:       e.ID,
		UserID:        cmd.UserID,
		ParticipantID: p.ID,
		Status:        string(p.Status),
		ActorID:       cmd.ActorID,
		OccurredAt:    p.RegisteredAt,
		RequestID:     appCtx.GetRequestID(ctx),
	})
	return p, nil
}
