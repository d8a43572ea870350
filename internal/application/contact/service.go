package contact

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

const listCap = 200

type Clock interface{ Now() time.Time }

type Repo interface {
	Create(ctx context.Context, m *domain.ContactMessage) error
	GetByID(ctx context.Context, id string) (*domain.ContactMessage, error)
	Update(ctx context.Context, m *domain.ContactMessage) error
	List(ctx context.Context, status domain.ContactStatus, limit int) ([]*domain.ContactMessage, error)
}

type Service struct {
	repo  Repo
	clock Clock
}

func New(repo Repo, clock Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

type SubmitCmd struct {
	Name    string
	Email   string
	Subject string
	Message string
}

func (s *Service) Submit(ctx context.Context, cmd SubmitCmd) (*domain.ContactMessage, error) {
	m, err := domain.NewContactMessage(cmd.Name, cmd.Email, cmd.Subject, cmd.Message, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	zlog.Info().Str("message_id", m.ID).Msg("contact message received")
	return m, nil
}

func (s *Service) List(ctx context.Context, actorRole string, status domain.ContactStatus) ([]*domain.ContactMessage, error) {
	if actorRole != string(domain.RoleAdmin) {
		return nil, domain.ErrForbidden("admin only")
	}
	if status != "" && status != domain.ContactNew && status != domain.ContactResolved {
		return nil, domain.ErrValidationMeta("invalid query param", map[string]string{"status": "must be one of: new, resolved"})
	}
	return s.repo.List(ctx, status, listCap)
}

func (s *Service) Resolve(ctx context.Context, actorRole, id string) (*domain.ContactMessage, error) {
	if actorRole != string(domain.RoleAdmin) {
		return nil, domain.ErrForbidden("admin only")
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.Resolve(s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
