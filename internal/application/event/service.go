package event

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/metrics"
	zlog "github.com/rs/zerolog/log"
)

// listCap bounds every listing; listings are not paginated.
const listCap = 100

type Service struct {
	repo  EventRepo
	pub   EventPublisher
	clock Clock
}

func New(repo EventRepo, clock Clock, pub EventPublisher) *Service {
	if pub == nil {
		pub = NoopPublisher{}
	}
	return &Service{repo: repo, pub: pub, clock: clock}
}

func isAdmin(role string) bool     { return role == string(domain.RoleAdmin) }
func isOrganizer(role string) bool { return role == string(domain.RoleOrganizer) }

func canCreate(role string) bool {
	return isOrganizer(role) || isAdmin(role)
}

func canManage(actorID, actorRole, organizerID string) bool {
	if isAdmin(actorRole) {
		return true
	}
	return strings.TrimSpace(actorID) != "" && actorID == organizerID
}

// modify runs the load-check-apply-save cycle under the event's version guard.
func (s *Service) modify(ctx context.Context, id, actorID, actorRole string, fn func(e *domain.Event, now time.Time) error) (*domain.Event, error) {
	for attempt := 0; attempt < 3; attempt++ {
		e, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !canManage(actorID, actorRole, e.OrganizerID) {
			return nil, domain.ErrForbidden("not allowed")
		}
		expected := e.Version
		if err := fn(e, s.clock.Now()); err != nil {
			return nil, err
		}
		err = s.repo.Save(ctx, e, expected)
		if err == nil {
			return e, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, err
		}
		metrics.RecordCASConflict("event")
	}
	return nil, domain.ErrConflict("event was modified concurrently, please retry")
}

type lifecyclePayload struct {
	EventID      string    `json:"event_id"`
	OrganizerID  string    `json:"organizer_id"`
	Title        string    `json:"title"`
	Status       string    `json:"status"`
	Participants []string  `json:"participant_user_ids,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (s *Service) announce(ctx context.Context, routingKey string, e *domain.Event) {
	p := lifecyclePayload{
		EventID:     e.ID,
		OrganizerID: e.OrganizerID,
		Title:       e.Title,
		Status:      string(e.Status),
		OccurredAt:  s.clock.Now().UTC(),
	}
	if e.Status == domain.StatusCancelled {
		for _, pt := range e.Participants {
			p.Participants = append(p.Participants, pt.UserID)
		}
	}
	if err := s.pub.PublishEvent(ctx, routingKey, p); err != nil {
		zlog.Warn().Err(err).Str("routing_key", routingKey).Str("event_id", e.ID).Msg("publish event lifecycle failed")
	}
}
