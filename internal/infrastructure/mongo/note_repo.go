package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

type NoteRepo struct {
	coll *mongodrv.Collection
}

func NewNoteRepo(db *mongodrv.Database) *NoteRepo {
	return &NoteRepo{coll: db.Collection(collNotes)}
}

func (r *NoteRepo) Create(ctx context.Context, n *domain.Note) error {
	if _, err := r.coll.InsertOne(ctx, toNoteDoc(n)); err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (r *NoteRepo) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	var d noteDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return nil, domain.ErrNotFound("note not found")
		}
		return nil, fmt.Errorf("find note: %w", err)
	}
	return d.toDomain(), nil
}

func (r *NoteRepo) Save(ctx context.Context, n *domain.Note, expectedVersion int64) error {
	d := toNoteDoc(n)
	d.Version = expectedVersion + 1

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": n.ID, "version": expectedVersion}, d)
	if err != nil {
		return fmt.Errorf("save note: %w", err)
	}
	if res.MatchedCount == 0 {
		cnt, err := r.coll.CountDocuments(ctx, bson.M{"_id": n.ID})
		if err != nil {
			return fmt.Errorf("count note: %w", err)
		}
		if cnt == 0 {
			return domain.ErrNotFound("note not found")
		}
		return domain.ErrVersionConflict
	}
	n.Version = d.Version
	return nil
}

func (r *NoteRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound("note not found")
	}
	return nil
}

func (r *NoteRepo) List(ctx context.Context, subject string, limit int) ([]*domain.Note, error) {
	filter := bson.M{}
	if subject != "" {
		filter["subject"] = subject
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find notes: %w", err)
	}
	var docs []noteDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	out := make([]*domain.Note, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
