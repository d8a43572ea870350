package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/application/account"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClient_Ping(t *testing.T) {
	c, mr := newTestClient(t)
	assert.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}

func TestOTT_ConsumeIsSingleUse(t *testing.T) {
	c, _ := newTestClient(t)
	s := NewOneTimeTokenStore(c)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, account.TokenVerifyEmail, "tok", "u-1", time.Hour))

	uid, err := s.Peek(ctx, account.TokenVerifyEmail, "tok")
	require.NoError(t, err)
	assert.Equal(t, "u-1", uid)

	uid, err = s.Consume(ctx, account.TokenVerifyEmail, "tok")
	require.NoError(t, err)
	assert.Equal(t, "u-1", uid)

	_, err = s.Consume(ctx, account.TokenVerifyEmail, "tok")
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestOTT_KindsDoNotCollide(t *testing.T) {
	c, _ := newTestClient(t)
	s := NewOneTimeTokenStore(c)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, account.TokenVerifyEmail, "tok", "u-1", time.Hour))
	_, err := s.Peek(ctx, account.TokenPasswordReset, "tok")
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestOTT_Expires(t *testing.T) {
	c, mr := newTestClient(t)
	s := NewOneTimeTokenStore(c)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, account.TokenPasswordReset, "tok", "u-1", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := s.Consume(ctx, account.TokenPasswordReset, "tok")
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestOTT_Validation(t *testing.T) {
	s := NewOneTimeTokenStore(nil)
	ctx := context.Background()

	assert.True(t, domain.IsCode(s.Save(ctx, account.TokenVerifyEmail, "", "u", time.Minute), domain.CodeValidation))
	assert.True(t, domain.IsCode(s.Save(ctx, account.TokenVerifyEmail, "t", " ", time.Minute), domain.CodeValidation))
	assert.True(t, domain.IsCode(s.Save(ctx, account.TokenVerifyEmail, "t", "u", 0), domain.CodeValidation))
	assert.ErrorIs(t, s.Save(ctx, account.TokenVerifyEmail, "t", "u", time.Minute), errNotConfigured)
}

func TestFixedWindowLimiter(t *testing.T) {
	c, mr := newTestClient(t)
	l := NewFixedWindowLimiter(c)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := l.Allow(ctx, "rl:login:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 3-i, d.Remaining)
	}

	d, err := l.Allow(ctx, "rl:login:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Greater(t, d.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, d.RetryAfter, time.Minute)

	mr.FastForward(61 * time.Second)
	d, err = l.Allow(ctx, "rl:login:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestFixedWindowLimiter_FailsOpen(t *testing.T) {
	l := NewFixedWindowLimiter(nil)
	d, err := l.Allow(context.Background(), "k", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 5, d.Remaining)
}
