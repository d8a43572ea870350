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

type EventRepo struct {
	coll *mongodrv.Collection
}

func NewEventRepo(db *mongodrv.Database) *EventRepo {
	return &EventRepo{coll: db.Collection(collEvents)}
}

func (r *EventRepo) Create(ctx context.Context, e *domain.Event) error {
	if _, err := r.coll.InsertOne(ctx, toEventDoc(e)); err != nil {
		if mongodrv.IsDuplicateKeyError(err) {
			return domain.ErrConflict("event already exists")
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	var d eventDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return nil, domain.ErrNotFound("event not found")
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return d.toDomain(), nil
}

// Save is a single-document compare-and-swap on version.
func (r *EventRepo) Save(ctx context.Context, e *domain.Event, expectedVersion int64) error {
	d := toEventDoc(e)
	d.Version = expectedVersion + 1

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": e.ID, "version": expectedVersion},
		bson.M{"$set": d.setFields()},
	)
	if err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missOrConflict(ctx, e.ID)
	}
	e.Version = d.Version
	return nil
}

func (r *EventRepo) missOrConflict(ctx context.Context, id string) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("count event: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound("event not found")
	}
	return domain.ErrVersionConflict
}

func (r *EventRepo) IncrementViews(ctx context.Context, id string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound("event not found")
	}
	return nil
}

func (r *EventRepo) ListPublished(ctx context.Context, category string, limit int) ([]*domain.Event, error) {
	filter := bson.M{"status": bson.M{"$in": bson.A{string(domain.StatusPublished), string(domain.StatusOngoing)}}}
	if category != "" {
		filter["category"] = category
	}
	return r.find(ctx, filter, limit)
}

func (r *EventRepo) ListByOrganizer(ctx context.Context, organizerID string, limit int) ([]*domain.Event, error) {
	return r.find(ctx, bson.M{"organizer_id": organizerID}, limit)
}

func (r *EventRepo) ListByParticipant(ctx context.Context, userID string) ([]*domain.Event, error) {
	return r.find(ctx, bson.M{"participants.user_id": userID}, 0)
}

func (r *EventRepo) find(ctx context.Context, filter bson.M, limit int) ([]*domain.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	var docs []eventDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	out := make([]*domain.Event, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
