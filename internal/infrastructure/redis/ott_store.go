package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/application/account"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

var errNotConfigured = errors.New("redis one-time-token store not configured")

// OneTimeTokenStore keeps verify/reset tokens as "ott:<kind>:<token>" -> user id.
type OneTimeTokenStore struct {
	rdb    *goredis.Client
	prefix string
}

func NewOneTimeTokenStore(c *Client) *OneTimeTokenStore {
	var rdb *goredis.Client
	if c != nil {
		rdb = c.rdb
	}
	return &OneTimeTokenStore{rdb: rdb, prefix: "ott:"}
}

func (s *OneTimeTokenStore) Save(ctx context.Context, kind account.TokenKind, token, userID string, ttl time.Duration) error {
	token = strings.TrimSpace(token)
	userID = strings.TrimSpace(userID)
	switch {
	case token == "":
		return domain.ErrValidationMeta("token is required", map[string]string{"field": "token"})
	case userID == "":
		return domain.ErrValidationMeta("user_id is required", map[string]string{"field": "user_id"})
	case ttl <= 0:
		return domain.ErrValidationMeta("ttl must be positive", map[string]string{"field": "ttl"})
	case s.rdb == nil:
		return errNotConfigured
	}
	return s.rdb.Set(ctx, s.key(kind, token), userID, ttl).Err()
}

const consumeLua = `
local v = redis.call("GET", KEYS[1])
if not v then
  return nil
end
redis.call("DEL", KEYS[1])
return v
`

func (s *OneTimeTokenStore) Consume(ctx context.Context, kind account.TokenKind, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrTokenInvalid()
	}
	if s.rdb == nil {
		return "", errNotConfigured
	}

	res, err := s.rdb.Eval(ctx, consumeLua, []string{s.key(kind, token)}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", domain.ErrTokenInvalid()
		}
		return "", fmt.Errorf("ott consume: %w", err)
	}
	uid, ok := res.(string)
	if !ok || strings.TrimSpace(uid) == "" {
		return "", domain.ErrTokenInvalid()
	}
	return uid, nil
}

func (s *OneTimeTokenStore) Peek(ctx context.Context, kind account.TokenKind, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrTokenInvalid()
	}
	if s.rdb == nil {
		return "", errNotConfigured
	}

	uid, err := s.rdb.Get(ctx, s.key(kind, token)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", domain.ErrTokenInvalid()
		}
		return "", fmt.Errorf("ott peek: %w", err)
	}
	if strings.TrimSpace(uid) == "" {
		return "", domain.ErrTokenInvalid()
	}
	return uid, nil
}

func (s *OneTimeTokenStore) key(kind account.TokenKind, token string) string {
	return s.prefix + string(kind) + ":" + token
}
