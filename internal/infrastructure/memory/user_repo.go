package memory

import (
	"context"
	"sync"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

type UserRepo struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string // email -> userID
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[u.Email]; exists {
		return domain.ErrConflict("email already registered")
	}
	r.byID[u.ID] = cloneUser(u)
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound("user not found")
	}
	return cloneUser(u), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound("user not found")
	}
	return cloneUser(r.byID[id]), nil
}

func (r *UserRepo) GetMany(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

func (r *UserRepo) SetRegisteredEvent(ctx context.Context, userID string, ref domain.RegisteredEvent) error {
	return r.update(userID, func(u *domain.User) {
		for i := range u.RegisteredEvents {
			if u.RegisteredEvents[i].EventID == ref.EventID {
				u.RegisteredEvents[i].Status = ref.Status
				return
			}
		}
		u.RegisteredEvents = append(u.RegisteredEvents, ref)
	})
}

func (r *UserRepo) RemoveRegisteredEvent(ctx context.Context, userID, eventID string) error {
	return r.update(userID, func(u *domain.User) {
		kept := u.RegisteredEvents[:0]
		for _, ref := range u.RegisteredEvents {
			if ref.EventID != eventID {
				kept = append(kept, ref)
			}
		}
		u.RegisteredEvents = kept
	})
}

func (r *UserRepo) ReplaceRegisteredEvents(ctx context.Context, userID string, refs []domain.RegisteredEvent) error {
	return r.update(userID, func(u *domain.User) {
		u.RegisteredEvents = append([]domain.RegisteredEvent(nil), refs...)
	})
}

func (r *UserRepo) MarkEmailVerified(ctx context.Context, userID string) error {
	return r.update(userID, func(u *domain.User) { u.EmailVerified = true })
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	return r.update(userID, func(u *domain.User) { u.PasswordHash = hash })
}

func (r *UserRepo) update(userID string, fn func(u *domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrNotFound("user not found")
	}
	fn(u)
	return nil
}
