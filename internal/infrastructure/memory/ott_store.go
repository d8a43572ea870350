package memory

import (
	"context"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/application/account"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

type ottEntry struct {
	userID    string
	expiresAt time.Time
}

type OneTimeTokenStore struct {
	mu sync.Mutex
	// kind|token -> entry
	data map[string]ottEntry
	now  func() time.Time
}

func NewOneTimeTokenStore() *OneTimeTokenStore {
	return &OneTimeTokenStore{data: make(map[string]ottEntry), now: time.Now}
}

func key(kind account.TokenKind, token string) string { return string(kind) + "|" + token }

func (s *OneTimeTokenStore) Save(ctx context.Context, kind account.TokenKind, token string, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key(kind, token)] = ottEntry{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *OneTimeTokenStore) Consume(ctx context.Context, kind account.TokenKind, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(kind, token)
	e, ok := s.data[k]
	if !ok || !s.now().Before(e.expiresAt) {
		delete(s.data, k)
		return "", domain.ErrTokenInvalid()
	}
	delete(s.data, k)
	return e.userID, nil
}

func (s *OneTimeTokenStore) Peek(ctx context.Context, kind account.TokenKind, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key(kind, token)]
	if !ok || !s.now().Before(e.expiresAt) {
		return "", domain.ErrTokenInvalid()
	}
	return e.userID, nil
}
