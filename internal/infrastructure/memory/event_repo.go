package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

type EventRepo struct {
	mu   sync.RWMutex
	byID map[string]*domain.Event
}

func NewEventRepo() *EventRepo {
	return &EventRepo{byID: make(map[string]*domain.Event)}
}

func (r *EventRepo) Create(ctx context.Context, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[e.ID]; exists {
		return domain.ErrConflict("event already exists")
	}
	r.byID[e.ID] = cloneEvent(e)
	return nil
}

func (r *EventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound("event not found")
	}
	return cloneEvent(e), nil
}

func (r *EventRepo) Save(ctx context.Context, e *domain.Event, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[e.ID]
	if !ok {
		return domain.ErrNotFound("event not found")
	}
	if cur.Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	e.Version = expectedVersion + 1
	stored := cloneEvent(e)
	// views are owned by IncrementViews, a save never rolls them back
	stored.Views = cur.Views
	r.byID[e.ID] = stored
	return nil
}

func (r *EventRepo) IncrementViews(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound("event not found")
	}
	e.Views++
	return nil
}

func (r *EventRepo) ListPublished(ctx context.Context, category string, limit int) ([]*domain.Event, error) {
	return r.list(limit, func(e *domain.Event) bool {
		if e.Status != domain.StatusPublished && e.Status != domain.StatusOngoing {
			return false
		}
		return category == "" || e.Category == category
	}), nil
}

func (r *EventRepo) ListByOrganizer(ctx context.Context, organizerID string, limit int) ([]*domain.Event, error) {
	return r.list(limit, func(e *domain.Event) bool { return e.OrganizerID == organizerID }), nil
}

func (r *EventRepo) ListByParticipant(ctx context.Context, userID string) ([]*domain.Event, error) {
	return r.list(0, func(e *domain.Event) bool { return e.ParticipantByUser(userID) != nil }), nil
}

// list returns matches sorted by start date, newest first.
func (r *EventRepo) list(limit int, match func(*domain.Event) bool) []*domain.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Event, 0)
	for _, e := range r.byID {
		if match(e) {
			out = append(out, cloneEvent(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartDate.After(out[j].StartDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
