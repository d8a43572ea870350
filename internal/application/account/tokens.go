package account

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

// RequestEmailVerification issues a verify token for the signed-in user.
func (s *Service) RequestEmailVerification(ctx context.Context, userID string) error {
	u, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if u.EmailVerified {
		return domain.ErrBusinessRule("email already verified")
	}

	token, err := newOpaqueToken(32)
	if err != nil {
		return err
	}
	if err := s.ott.Save(ctx, TokenVerifyEmail, token, u.ID, s.cfg.VerifyTokenTTL); err != nil {
		return err
	}
	return s.pub.PublishEvent(ctx, RKVerifyEmailRequested, EmailRequest{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		URL:    s.cfg.VerifyEmailBaseURL + token,
	})
}

func (s *Service) ConfirmEmailVerification(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrValidationMeta("invalid body", map[string]string{"token": "required"})
	}
	userID, err := s.ott.Consume(ctx, TokenVerifyEmail, token)
	if err != nil {
		return err
	}
	return s.users.MarkEmailVerified(ctx, userID)
}

// RequestPasswordReset never reveals whether the email belongs to an account.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.ErrValidationMeta("invalid body", map[string]string{"email": "required"})
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsCode(err, domain.CodeNotFound) {
			return nil
		}
		return err
	}

	token, err := newOpaqueToken(32)
	if err != nil {
		return err
	}
	if err := s.ott.Save(ctx, TokenPasswordReset, token, u.ID, s.cfg.ResetTokenTTL); err != nil {
		return err
	}
	if err := s.pub.PublishEvent(ctx, RKPasswordResetRequested, EmailRequest{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		URL:    s.cfg.PasswordResetBaseURL + token,
	}); err != nil {
		// the caller gets the same answer either way
		zlog.Error().Err(err).Str("user_id", u.ID).Msg("publish password reset failed")
	}
	return nil
}

// ConfirmPasswordReset checks the new password before burning the token so a
// weak password does not cost the user their link.
func (s *Service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrValidationMeta("invalid body", map[string]string{"token": "required"})
	}
	if _, err := s.ott.Peek(ctx, TokenPasswordReset, token); err != nil {
		return err
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	userID, err := s.ott.Consume(ctx, TokenPasswordReset, token)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, userID, hash)
}
