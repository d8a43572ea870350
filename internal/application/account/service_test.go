package account_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/application/account"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/infrastructure/memory"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/infrastructure/security"
)

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishEvent(ctx context.Context, routingKey string, payload any) error {
	return m.Called(ctx, routingKey, payload).Error(0)
}

type env struct {
	svc   *account.Service
	users *memory.UserRepo
	pub   *mockPublisher
	sent  []account.EmailRequest
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{users: memory.NewUserRepo(), pub: &mockPublisher{}}
	e.pub.On("PublishEvent", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { e.sent = append(e.sent, args.Get(2).(account.EmailRequest)) }).
		Return(nil)

	e.svc = account.New(
		e.users,
		security.NewBcryptHasher(bcrypt.MinCost),
		memory.NewOneTimeTokenStore(),
		e.pub,
		fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		account.Config{
			VerifyEmailBaseURL:   "https://app.test/verify?token=",
			PasswordResetBaseURL: "https://app.test/reset?token=",
		},
	)
	return e
}

func tokenFrom(t *testing.T, req account.EmailRequest) string {
	t.Helper()
	i := strings.Index(req.URL, "token=")
	require.GreaterOrEqual(t, i, 0)
	return req.URL[i+len("token="):]
}

func TestSignup(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.svc.Signup(ctx, account.SignupCmd{Name: "Ann", Email: "Ann@Example.com", Password: "s3cretpass"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.NotEqual(t, "s3cretpass", u.PasswordHash)

	t.Run("duplicate_email", func(t *testing.T) {
		_, err := e.svc.Signup(ctx, account.SignupCmd{Name: "Ann2", Email: "ann@example.com", Password: "s3cretpass"})
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
	})

	t.Run("weak_password", func(t *testing.T) {
		_, err := e.svc.Signup(ctx, account.SignupCmd{Name: "Bo", Email: "bo@example.com", Password: "password"})
		assert.True(t, domain.IsCode(err, domain.CodeValidation))
	})
}

func TestEmailVerification(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u, err := e.svc.Signup(ctx, account.SignupCmd{Name: "Ann", Email: "ann@example.com", Password: "s3cretpass"})
	require.NoError(t, err)

	require.NoError(t, e.svc.RequestEmailVerification(ctx, u.ID))
	require.Len(t, e.sent, 1)
	e.pub.AssertCalled(t, "PublishEvent", mock.Anything, account.RKVerifyEmailRequested, mock.Anything)

	token := tokenFrom(t, e.sent[0])
	require.NoError(t, e.svc.ConfirmEmailVerification(ctx, token))

	got, err := e.svc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)

	t.Run("token_is_single_use", func(t *testing.T) {
		assert.Error(t, e.svc.ConfirmEmailVerification(ctx, token))
	})

	t.Run("already_verified", func(t *testing.T) {
		err := e.svc.RequestEmailVerification(ctx, u.ID)
		assert.True(t, domain.IsCode(err, domain.CodeBusinessRule))
	})
}

func TestPasswordReset(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u, err := e.svc.Signup(ctx, account.SignupCmd{Name: "Ann", Email: "ann@example.com", Password: "s3cretpass"})
	require.NoError(t, err)

	t.Run("unknown_email_is_silent", func(t *testing.T) {
		require.NoError(t, e.svc.RequestPasswordReset(ctx, "nobody@example.com"))
		assert.Empty(t, e.sent)
	})

	require.NoError(t, e.svc.RequestPasswordReset(ctx, " ANN@example.com"))
	require.Len(t, e.sent, 1)
	token := tokenFrom(t, e.sent[0])

	t.Run("weak_password_keeps_token", func(t *testing.T) {
		err := e.svc.ConfirmPasswordReset(ctx, token, "short")
		assert.True(t, domain.IsCode(err, domain.CodeValidation))
	})

	require.NoError(t, e.svc.ConfirmPasswordReset(ctx, token, "n3wpassword"))
	stored, err := e.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("n3wpassword")))

	assert.Error(t, e.svc.ConfirmPasswordReset(ctx, token, "an0therpass"))
}

func TestMyRegistrations(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u, err := e.svc.Signup(ctx, account.SignupCmd{Name: "Ann", Email: "ann@example.com", Password: "s3cretpass"})
	require.NoError(t, err)
	require.NoError(t, e.users.SetRegisteredEvent(ctx, u.ID, domain.RegisteredEvent{EventID: "e1", Status: domain.ParticipantConfirmed}))

	refs, err := e.svc.MyRegistrations(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.RegisteredEvent{{EventID: "e1", Status: domain.ParticipantConfirmed}}, refs)

	_, err = e.svc.MyRegistrations(ctx, "")
	assert.True(t, domain.IsCode(err, domain.CodeUnauthorized))
}
