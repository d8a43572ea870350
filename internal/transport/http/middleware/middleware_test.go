package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	appCtx "github.com/baechuer/real-time-ressys/services/community-service/internal/pkg/context"
)

const (
	testSecret = "test-secret"
	testIssuer = "test-issuer"
)

func sign(t *testing.T, uid, role, iss, secret string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		UserID: uid,
		Role:   role,
		Ver:    1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    iss,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)
	return ss
}

func TestAuth_Require(t *testing.T) {
	auth := NewAuth(testSecret, testIssuer)
	later := time.Now().Add(time.Hour)

	t.Run("valid_token_sets_identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, "user-123", "admin", testIssuer, testSecret, later))
		rr := httptest.NewRecorder()

		auth.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "user-123", UserID(r))
			assert.Equal(t, "admin", Role(r))
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	cases := map[string]string{
		"expired":      sign(t, "u", "user", testIssuer, testSecret, time.Now().Add(-time.Hour)),
		"wrong_secret": sign(t, "u", "user", testIssuer, "other", later),
		"wrong_issuer": sign(t, "u", "user", "elsewhere", testSecret, later),
		"missing_uid":  sign(t, "", "user", testIssuer, testSecret, later),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+tok)
			rr := httptest.NewRecorder()
			auth.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not run")
			})).ServeHTTP(rr, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}

	t.Run("no_header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		auth.Require(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAuth_Optional(t *testing.T) {
	auth := NewAuth(testSecret, "")

	t.Run("anonymous_passes", func(t *testing.T) {
		rr := httptest.NewRecorder()
		auth.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, UserID(r))
			w.WriteHeader(http.StatusNoContent)
		})).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("garbage_token_rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rr := httptest.NewRecorder()
		auth.Optional(http.NotFoundHandler()).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing_role_defaults_to_user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, "u-1", "", "", testSecret, time.Now().Add(time.Hour)))
		rr := httptest.NewRecorder()
		auth.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "user", Role(r))
		})).ServeHTTP(rr, req)
	})
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req.WithContext(withIdentity(req.Context(), "u", "organizer")))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req.WithContext(withIdentity(req.Context(), "u", "admin")))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = appCtx.GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "abc")
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rr.Header().Get(HeaderXRequestID))

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
}

func TestAccessLogAndSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	h := SecurityHeaders(AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	})))
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test-path", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "hello", rr.Body.String())
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

type stubLimiter struct {
	decision domain.RateDecision
	err      error
	keys     []string
}

func (s *stubLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (domain.RateDecision, error) {
	s.keys = append(s.keys, key)
	return s.decision, s.err
}

func TestSensitive(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("blocks_when_denied", func(t *testing.T) {
		l := &stubLimiter{decision: domain.RateDecision{Allowed: false, Limit: 5, RetryAfter: 90 * time.Second}}
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		Sensitive(l, 5, time.Minute)(ok).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		assert.Equal(t, "90", rr.Header().Get("Retry-After"))
		assert.Equal(t, []string{"rl:/api/v1/contact:10.0.0.1"}, l.keys)
	})

	t.Run("fails_open_on_error", func(t *testing.T) {
		l := &stubLimiter{err: errors.New("redis down")}
		rr := httptest.NewRecorder()
		Sensitive(l, 5, time.Minute)(ok).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/x", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("nil_limiter_passes", func(t *testing.T) {
		rr := httptest.NewRecorder()
		Sensitive(nil, 5, time.Minute)(ok).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/x", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
