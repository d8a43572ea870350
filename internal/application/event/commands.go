package event

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

type CreateCmd struct {
	ActorID   string
	ActorRole string
	Draft     domain.EventDraft
}

// UpdateCmd carries a partial update; nil fields are left unchanged.
type UpdateCmd struct {
	ActorID   string
	ActorRole string
	EventID   string

	Title           *string
	Description     *string
	Category        *string
	Location        *string
	Tags            *[]string
	StartDate       *time.Time
	EndDate         *time.Time
	Deadline        *time.Time
	MaxParticipants *int
	TeamSize        *domain.TeamSize
}

func (s *Service) Create(ctx context.Context, cmd CreateCmd) (*domain.Event, error) {
	if !canCreate(cmd.ActorRole) {
		return nil, domain.ErrForbidden("only organizers can create events")
	}
	e, err := domain.NewDraft(cmd.ActorID, cmd.Draft, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	zlog.Info().Str("event_id", e.ID).Str("organizer_id", e.OrganizerID).Msg("event created")
	return e, nil
}

func (s *Service) Update(ctx context.Context, cmd UpdateCmd) (*domain.Event, error) {
	return s.modify(ctx, cmd.EventID, cmd.ActorID, cmd.ActorRole, func(e *domain.Event, now time.Time) error {
		d := e.Draft()
		if cmd.Title != nil {
			d.Title = *cmd.Title
		}
		if cmd.Description != nil {
			d.Description = *cmd.Description
		}
		if cmd.Category != nil {
			d.Category = *cmd.Category
		}
		if cmd.Location != nil {
			d.Location = *cmd.Location
		}
		if cmd.Tags != nil {
			d.Tags = *cmd.Tags
		}
		if cmd.StartDate != nil {
			d.StartDate = *cmd.StartDate
		}
		if cmd.EndDate != nil {
			d.EndDate = *cmd.EndDate
		}
		if cmd.Deadline != nil {
			d.Deadline = *cmd.Deadline
		}
		if cmd.MaxParticipants != nil {
			d.MaxParticipants = cmd.MaxParticipants
		}
		if cmd.TeamSize != nil {
			d.TeamSize = *cmd.TeamSize
		}
		return e.ApplyUpdate(d, now)
	})
}

func (s *Service) Publish(ctx context.Context, id, actorID, actorRole string) (*domain.Event, error) {
	e, err := s.modify(ctx, id, actorID, actorRole, func(e *domain.Event, now time.Time) error {
		return e.Publish(now)
	})
	if err != nil {
		return nil, err
	}
	s.announce(ctx, "event.published", e)
	return e, nil
}

func (s *Service) Cancel(ctx context.Context, id, actorID, actorRole string) (*domain.Event, error) {
	e, err := s.modify(ctx, id, actorID, actorRole, func(e *domain.Event, now time.Time) error {
		return e.Cancel(now)
	})
	if err != nil {
		return nil, err
	}
	s.announce(ctx, "event.cancelled", e)
	return e, nil
}

func (s *Service) ListPublished(ctx context.Context, category string) ([]*domain.Event, error) {
	return s.repo.ListPublished(ctx, category, listCap)
}

func (s *Service) ListMine(ctx context.Context, actorID string) ([]*domain.Event, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthorized("missing user")
	}
	return s.repo.ListByOrganizer(ctx, actorID, listCap)
}
