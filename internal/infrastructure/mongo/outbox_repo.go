package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

type MirrorOutbox struct {
	coll *mongodrv.Collection
}

func NewMirrorOutbox(db *mongodrv.Database) *MirrorOutbox {
	return &MirrorOutbox{coll: db.Collection(collOutbox)}
}

func (o *MirrorOutbox) Enqueue(ctx context.Context, op *domain.MirrorOp) error {
	if _, err := o.coll.InsertOne(ctx, toMirrorOpDoc(op)); err != nil {
		return fmt.Errorf("insert mirror op: %w", err)
	}
	return nil
}

// ClaimDue leases ops one at a time with findOneAndUpdate, so two relays never
// pick the same op inside one lease window.
func (o *MirrorOutbox) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]*domain.MirrorOp, error) {
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "next_retry_at", Value: 1}}).
		SetReturnDocument(options.After)

	out := make([]*domain.MirrorOp, 0, limit)
	for len(out) < limit {
		var d mirrorOpDoc
		err := o.coll.FindOneAndUpdate(ctx,
			bson.M{"status": string(domain.OutboxPending), "next_retry_at": bson.M{"$lte": now}},
			bson.M{"$set": bson.M{"next_retry_at": now.Add(lease), "updated_at": now}},
			opts,
		).Decode(&d)
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			break
		}
		if err != nil {
			return out, fmt.Errorf("claim mirror op: %w", err)
		}
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (o *MirrorOutbox) MarkDone(ctx context.Context, id string, now time.Time) error {
	return o.set(ctx, id, bson.M{"status": string(domain.OutboxDone), "updated_at": now})
}

func (o *MirrorOutbox) MarkRetry(ctx context.Context, id string, attempts int, next time.Time, lastErr string, now time.Time) error {
	return o.set(ctx, id, bson.M{
		"attempts":      attempts,
		"next_retry_at": next,
		"last_error":    lastErr,
		"updated_at":    now,
	})
}

func (o *MirrorOutbox) MarkDead(ctx context.Context, id string, attempts int, lastErr string, now time.Time) error {
	return o.set(ctx, id, bson.M{
		"status":     string(domain.OutboxDead),
		"attempts":   attempts,
		"last_error": lastErr,
		"updated_at": now,
	})
}

func (o *MirrorOutbox) set(ctx context.Context, id string, fields bson.M) error {
	res, err := o.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update mirror op: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound("mirror op not found")
	}
	return nil
}
