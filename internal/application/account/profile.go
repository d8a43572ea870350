package account

import (
	"context"
	"fmt"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

type SignupCmd struct {
	Name     string
	Email    string
	Password string
}

func (s *Service) Signup(ctx context.Context, cmd SignupCmd) (*domain.User, error) {
	if err := validatePassword(cmd.Password); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := domain.NewUser(cmd.Name, cmd.Email, hash, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	zlog.Info().Str("user_id", u.ID).Msg("user signed up")
	return u, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized("missing user")
	}
	return s.users.GetByID(ctx, userID)
}

// MyRegistrations reads the user's registration index, which may briefly lag
// the event rosters while a sync is pending.
func (s *Service) MyRegistrations(ctx context.Context, userID string) ([]domain.RegisteredEvent, error) {
	u, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.RegisteredEvents, nil
}
