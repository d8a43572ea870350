package registration

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/logger"
)

type ParticipantView struct {
	domain.Participant
	Profile *domain.Profile
}

// EventView is an event as seen by one viewer. Participants is nil unless the
// viewer is the organizer or an admin.
type EventView struct {
	Event            *domain.Event
	ParticipantCount int
	Participants     []ParticipantView
}

func (v *EventView) Privileged() bool { return v.Participants != nil }

// Present loads one event for viewerID and counts the read.
func (s *Service) Present(ctx context.Context, eventID, viewerID, viewerRole string) (*EventView, error) {
	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	privileged := canManage(viewerID, viewerRole, e)
	if e.Status == domain.StatusDraft && !privileged {
		return nil, domain.ErrNotFound("event not found")
	}

	if err := s.events.IncrementViews(ctx, e.ID); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Str("event_id", e.ID).Msg("increment views failed")
	} else {
		e.Views++
	}

	view := &EventView{Event: e, ParticipantCount: len(e.Participants)}
	if privileged {
		view.Participants, err = s.expand(ctx, e.Participants)
		if err != nil {
			return nil, err
		}
	}
	return view, nil
}

// ListParticipants returns the roster with profiles, optionally filtered by status.
func (s *Service) ListParticipants(ctx context.Context, eventID, actorID, actorRole string, status domain.ParticipantStatus) ([]ParticipantView, error) {
	if status != "" && !status.Valid() {
		return nil, domain.ErrValidationMeta("invalid query param", map[string]string{
			"status": "must be one of: registered, confirmed, attended, cancelled",
		})
	}
	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !canManage(actorID, actorRole, e) {
		return nil, domain.ErrForbidden("only the organizer or an admin can view participants")
	}

	selected := make([]domain.Participant, 0, len(e.Participants))
	for _, p := range e.Participants {
		if status == "" || p.Status == status {
			selected = append(selected, p)
		}
	}
	return s.expand(ctx, selected)
}

func (s *Service) expand(ctx context.Context, ps []domain.Participant) ([]ParticipantView, error) {
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.UserID)
	}
	users, err := s.users.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ParticipantView, 0, len(ps))
	for _, p := range ps {
		v := ParticipantView{Participant: p}
		if u, ok := users[p.UserID]; ok {
			prof := u.Profile()
			v.Profile = &prof
		}
		out = append(out, v)
	}
	return out, nil
}
