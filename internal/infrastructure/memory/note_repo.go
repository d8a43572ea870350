package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

type NoteRepo struct {
	mu   sync.RWMutex
	byID map[string]*domain.Note
}

func NewNoteRepo() *NoteRepo {
	return &NoteRepo{byID: make(map[string]*domain.Note)}
}

func (r *NoteRepo) Create(ctx context.Context, n *domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[n.ID] = cloneNote(n)
	return nil
}

func (r *NoteRepo) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound("note not found")
	}
	return cloneNote(n), nil
}

func (r *NoteRepo) Save(ctx context.Context, n *domain.Note, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[n.ID]
	if !ok {
		return domain.ErrNotFound("note not found")
	}
	if cur.Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	n.Version = expectedVersion + 1
	r.byID[n.ID] = cloneNote(n)
	return nil
}

func (r *NoteRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound("note not found")
	}
	delete(r.byID, id)
	return nil
}

func (r *NoteRepo) List(ctx context.Context, subject string, limit int) ([]*domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Note, 0)
	for _, n := range r.byID {
		if subject == "" || n.Subject == subject {
			out = append(out, cloneNote(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
