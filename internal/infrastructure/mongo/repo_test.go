package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func asD(t *testing.T, v any) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var d bson.D
	require.NoError(t, bson.Unmarshal(raw, &d))
	return d
}

func sampleEvent() *domain.Event {
	return &domain.Event{
		ID:          "evt-1",
		OrganizerID: "org-1",
		Title:       "Go meetup",
		Category:    "tech",
		Tags:        []string{"go"},
		StartDate:   t0.Add(72 * time.Hour),
		EndDate:     t0.Add(75 * time.Hour),
		Registration: domain.Registration{
			Deadline:            t0.Add(48 * time.Hour),
			CurrentParticipants: 1,
			TeamSize:            domain.TeamSize{Min: 1, Max: 1},
		},
		Participants: []domain.Participant{
			{ID: "p-1", UserID: "u-1", RegisteredAt: t0, Status: domain.ParticipantRegistered},
		},
		Status:    domain.StatusPublished,
		Version:   3,
		CreatedAt: t0,
		UpdatedAt: t0,
	}
}

func ok(n int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

func countReply(ns string, n int) bson.D {
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: n}})
}

func TestEventRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("get decodes the stored document", func(mt *mtest.T) {
		repo := NewEventRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "community.events", mtest.FirstBatch, asD(t, toEventDoc(sampleEvent()))))

		e, err := repo.GetByID(ctx, "evt-1")
		require.NoError(t, err)
		assert.Equal(t, "Go meetup", e.Title)
		assert.Equal(t, int64(3), e.Version)
		require.Len(t, e.Participants, 1)
		assert.Equal(t, "u-1", e.Participants[0].UserID)
		assert.Equal(t, t0.Add(48*time.Hour), e.Registration.Deadline)
	})

	mt.Run("get on missing id is not found", func(mt *mtest.T) {
		repo := NewEventRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "community.events", mtest.FirstBatch))

		_, err := repo.GetByID(ctx, "nope")
		assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	})

	mt.Run("save bumps version on match", func(mt *mtest.T) {
		repo := NewEventRepo(mt.DB)
		mt.AddMockResponses(ok(1))

		e := sampleEvent()
		require.NoError(t, repo.Save(ctx, e, 3))
		assert.Equal(t, int64(4), e.Version)
	})

	mt.Run("save with stale version is a conflict", func(mt *mtest.T) {
		repo := NewEventRepo(mt.DB)
		mt.AddMockResponses(ok(0), countReply("community.events", 1))

		e := sampleEvent()
		err := repo.Save(ctx, e, 2)
		assert.True(t, errors.Is(err, domain.ErrVersionConflict))
		assert.Equal(t, int64(3), e.Version)
	})

	mt.Run("save on deleted event is not found", func(mt *mtest.T) {
		repo := NewEventRepo(mt.DB)
		mt.AddMockResponses(ok(0), countReply("community.events", 0))

		err := repo.Save(ctx, sampleEvent(), 3)
		assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	})

	mt.Run("list by participant", func(mt *mtest.T) {
		repo := NewEventRepo(mt.DB)
		other := sampleEvent()
		other.ID = "evt-2"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "community.events", mtest.FirstBatch,
			asD(t, toEventDoc(sampleEvent())), asD(t, toEventDoc(other))))

		evs, err := repo.ListByParticipant(ctx, "u-1")
		require.NoError(t, err)
		require.Len(t, evs, 2)
		assert.Equal(t, "evt-2", evs[1].ID)
	})
}

func TestUserRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("duplicate email is a conflict", func(mt *mtest.T) {
		repo := NewUserRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		err := repo.Create(ctx, &domain.User{ID: "u-1", Email: "a@b.c", Role: domain.RoleUser})
		assert.True(t, domain.IsCode(err, domain.CodeConflict))
	})

	mt.Run("set registered event updates existing entry", func(mt *mtest.T) {
		repo := NewUserRepo(mt.DB)
		mt.AddMockResponses(ok(1))

		err := repo.SetRegisteredEvent(ctx, "u-1", domain.RegisteredEvent{EventID: "evt-1", Status: domain.ParticipantConfirmed})
		assert.NoError(t, err)
	})

	mt.Run("set registered event pushes when absent", func(mt *mtest.T) {
		repo := NewUserRepo(mt.DB)
		mt.AddMockResponses(ok(0), ok(1))

		err := repo.SetRegisteredEvent(ctx, "u-1", domain.RegisteredEvent{EventID: "evt-1", Status: domain.ParticipantRegistered})
		assert.NoError(t, err)
	})

	mt.Run("set registered event on missing user", func(mt *mtest.T) {
		repo := NewUserRepo(mt.DB)
		mt.AddMockResponses(ok(0), ok(0), countReply("community.users", 0))

		err := repo.SetRegisteredEvent(ctx, "ghost", domain.RegisteredEvent{EventID: "evt-1", Status: domain.ParticipantRegistered})
		assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	})

	mt.Run("get many keys by id", func(mt *mtest.T) {
		repo := NewUserRepo(mt.DB)
		a := toUserDoc(&domain.User{ID: "u-1", Name: "Alice", Email: "alice@x.io", Role: domain.RoleUser})
		b := toUserDoc(&domain.User{ID: "u-2", Name: "Bob", Email: "bob@x.io", Role: domain.RoleOrganizer})
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "community.users", mtest.FirstBatch, asD(t, a), asD(t, b)))

		got, err := repo.GetMany(ctx, []string{"u-1", "u-2", "u-3"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, "Bob", got["u-2"].Name)
		assert.Equal(t, domain.RoleOrganizer, got["u-2"].Role)
	})

	mt.Run("get many with no ids skips the round trip", func(mt *mtest.T) {
		repo := NewUserRepo(mt.DB)
		got, err := repo.GetMany(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	mt.Run("remove registered event on missing user", func(mt *mtest.T) {
		repo := NewUserRepo(mt.DB)
		mt.AddMockResponses(ok(0))

		err := repo.RemoveRegisteredEvent(ctx, "ghost", "evt-1")
		assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	})
}

func TestNoteRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("save stale version", func(mt *mtest.T) {
		repo := NewNoteRepo(mt.DB)
		mt.AddMockResponses(ok(0), countReply("community.notes", 1))

		n := &domain.Note{ID: "n-1", AuthorID: "u-1", Title: "t", Version: 2}
		err := repo.Save(ctx, n, 1)
		assert.True(t, errors.Is(err, domain.ErrVersionConflict))
	})

	mt.Run("save bumps version", func(mt *mtest.T) {
		repo := NewNoteRepo(mt.DB)
		mt.AddMockResponses(ok(1))

		n := &domain.Note{ID: "n-1", AuthorID: "u-1", Title: "t", Version: 2}
		require.NoError(t, repo.Save(ctx, n, 2))
		assert.Equal(t, int64(3), n.Version)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := NewNoteRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(ctx, "n-x")
		assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	})
}

func TestMirrorOutbox(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("claim stops when nothing is due", func(mt *mtest.T) {
		o := NewMirrorOutbox(mt.DB)
		op := domain.NewMirrorOp("u-1", "evt-1", domain.MirrorRegistered, "req-1", t0, t0)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: asD(t, toMirrorOpDoc(op))}),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
		)

		ops, err := o.ClaimDue(ctx, t0.Add(time.Minute), time.Minute, 10)
		require.NoError(t, err)
		require.Len(t, ops, 1)
		assert.Equal(t, op.ID, ops[0].ID)
		assert.Equal(t, domain.MirrorRegistered, ops[0].Reason)
	})

	mt.Run("claim honors the batch limit", func(mt *mtest.T) {
		o := NewMirrorOutbox(mt.DB)
		a := domain.NewMirrorOp("u-1", "evt-1", domain.MirrorRegistered, "", t0, t0)
		b := domain.NewMirrorOp("u-2", "evt-1", domain.MirrorUnregistered, "", t0, t0)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: asD(t, toMirrorOpDoc(a))}),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: asD(t, toMirrorOpDoc(b))}),
		)

		ops, err := o.ClaimDue(ctx, t0, time.Minute, 2)
		require.NoError(t, err)
		assert.Len(t, ops, 2)
	})

	mt.Run("retry and dead stamp the caller's clock", func(mt *mtest.T) {
		o := NewMirrorOutbox(mt.DB)
		now := t0.Add(90 * time.Minute)
		updatedAt := func() time.Time {
			evt := mt.GetStartedEvent()
			require.NotNil(t, evt)
			return evt.Command.Lookup("updates", "0", "u", "$set", "updated_at").Time()
		}

		mt.AddMockResponses(ok(1))
		require.NoError(t, o.MarkRetry(ctx, "op-1", 2, now.Add(time.Minute), "boom", now))
		assert.True(t, updatedAt().Equal(now))

		mt.AddMockResponses(ok(1))
		require.NoError(t, o.MarkDead(ctx, "op-1", 12, "boom", now))
		assert.True(t, updatedAt().Equal(now))
	})

	mt.Run("mark done on unknown op", func(mt *mtest.T) {
		o := NewMirrorOutbox(mt.DB)
		mt.AddMockResponses(ok(0))

		err := o.MarkDone(ctx, "missing", t0)
		assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	})
}
