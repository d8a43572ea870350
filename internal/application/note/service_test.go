package note

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/infrastructure/memory"
)

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

// conflictOnce makes the first save lose against a concurrent rating.
type conflictOnce struct {
	*memory.NoteRepo
	armed bool
}

func (r *conflictOnce) Save(ctx context.Context, n *domain.Note, expected int64) error {
	if r.armed {
		r.armed = false
		cur, _ := r.NoteRepo.GetByID(ctx, n.ID)
		_ = cur.Rate("racer", 1, time.Now())
		if err := r.NoteRepo.Save(ctx, cur, cur.Version); err != nil {
			return err
		}
	}
	return r.NoteRepo.Save(ctx, n, expected)
}

func newSvc(t *testing.T) (*Service, *conflictOnce, *domain.Note) {
	t.Helper()
	repo := &conflictOnce{NoteRepo: memory.NewNoteRepo()}
	svc := New(repo, fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)})
	n, err := svc.Create(context.Background(), CreateCmd{AuthorID: "author", Title: "Graphs", Content: "BFS vs DFS", Subject: "cs"})
	require.NoError(t, err)
	return svc, repo, n
}

func TestRate_Aggregation(t *testing.T) {
	svc, _, n := newSvc(t)
	ctx := context.Background()

	for user, v := range map[string]int{"a": 5, "b": 3, "c": 4} {
		_, err := svc.Rate(ctx, n.ID, user, v)
		require.NoError(t, err)
	}
	got, err := svc.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.Rating)
	assert.Equal(t, 3, got.RatingCount)

	got, err = svc.Rate(ctx, n.ID, "a", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, got.RatingCount)
	assert.Equal(t, 2.7, got.Rating)

	_, err = svc.Rate(ctx, n.ID, "d", 9)
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestRate_RetriesOnConflict(t *testing.T) {
	svc, repo, n := newSvc(t)
	repo.armed = true

	got, err := svc.Rate(context.Background(), n.ID, "a", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RatingCount, "the concurrent rating is kept")
	assert.Equal(t, 3.0, got.Rating)
}

func TestDelete(t *testing.T) {
	svc, _, n := newSvc(t)
	ctx := context.Background()

	assert.True(t, domain.IsCode(svc.Delete(ctx, n.ID, "someone", "user"), domain.CodeForbidden))
	require.NoError(t, svc.Delete(ctx, n.ID, "author", "user"))
	_, err := svc.Get(ctx, n.ID)
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
}

func TestList(t *testing.T) {
	svc, _, _ := newSvc(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, CreateCmd{AuthorID: "x", Title: "Poems", Content: "...", Subject: "lit"})
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cs, err := svc.List(ctx, "cs")
	require.NoError(t, err)
	assert.Len(t, cs, 1)
}
