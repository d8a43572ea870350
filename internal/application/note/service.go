package note

import (
	"context"
	"errors"
	"time"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/metrics"
	zlog "github.com/rs/zerolog/log"
)

const (
	listCap        = 100
	maxCASAttempts = 5
)

type Clock interface{ Now() time.Time }

type NoteRepo interface {
	Create(ctx context.Context, n *domain.Note) error
	GetByID(ctx context.Context, id string) (*domain.Note, error)
	Save(ctx context.Context, n *domain.Note, expectedVersion int64) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, subject string, limit int) ([]*domain.Note, error)
}

type Service struct {
	repo  NoteRepo
	clock Clock
}

func New(repo NoteRepo, clock Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

type CreateCmd struct {
	AuthorID string
	Title    string
	Content  string
	Subject  string
	Tags     []string
}

func (s *Service) Create(ctx context.Context, cmd CreateCmd) (*domain.Note, error) {
	n, err := domain.NewNote(cmd.AuthorID, cmd.Title, cmd.Content, cmd.Subject, cmd.Tags, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Note, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, subject string) ([]*domain.Note, error) {
	return s.repo.List(ctx, subject, listCap)
}

func (s *Service) Delete(ctx context.Context, id, actorID, actorRole string) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if actorRole != string(domain.RoleAdmin) && (actorID == "" || actorID != n.AuthorID) {
		return domain.ErrForbidden("only the author or an admin can delete a note")
	}
	return s.repo.Delete(ctx, id)
}

// Rate records userID's rating and returns the note with the recomputed aggregate.
func (s *Service) Rate(ctx context.Context, noteID, userID string, value int) (*domain.Note, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized("missing user")
	}
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		n, err := s.repo.GetByID(ctx, noteID)
		if err != nil {
			return nil, err
		}
		expected := n.Version
		if err := n.Rate(userID, value, s.clock.Now()); err != nil {
			return nil, err
		}
		err = s.repo.Save(ctx, n, expected)
		if err == nil {
			metrics.RecordRating()
			zlog.Debug().Str("note_id", n.ID).Float64("rating", n.Rating).Int("rating_count", n.RatingCount).Msg("note rated")
			return n, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, err
		}
		metrics.RecordCASConflict("note")
	}
	return nil, domain.ErrConflict("note was modified concurrently, please retry")
}
