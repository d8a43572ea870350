package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

type ContactRepo struct {
	mu   sync.RWMutex
	byID map[string]domain.ContactMessage
}

func NewContactRepo() *ContactRepo {
	return &ContactRepo{byID: make(map[string]domain.ContactMessage)}
}

func (r *ContactRepo) Create(ctx context.Context, m *domain.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[m.ID] = *m
	return nil
}

func (r *ContactRepo) GetByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound("message not found")
	}
	return &m, nil
}

func (r *ContactRepo) Update(ctx context.Context, m *domain.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[m.ID]; !ok {
		return domain.ErrNotFound("message not found")
	}
	r.byID[m.ID] = *m
	return nil
}

func (r *ContactRepo) List(ctx context.Context, status domain.ContactStatus, limit int) ([]*domain.ContactMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.ContactMessage, 0)
	for _, m := range r.byID {
		if status == "" || m.Status == status {
			m := m
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
