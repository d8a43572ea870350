package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

type UserRepo struct {
	coll *mongodrv.Collection
}

func NewUserRepo(db *mongodrv.Database) *UserRepo {
	return &UserRepo{coll: db.Collection(collUsers)}
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if _, err := r.coll.InsertOne(ctx, toUserDoc(u)); err != nil {
		if mongodrv.IsDuplicateKeyError(err) {
			return domain.ErrConflict("email already registered")
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var d userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return nil, domain.ErrNotFound("user not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return d.toDomain(), nil
}

func (r *UserRepo) GetMany(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	out := make(map[string]*domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	for _, d := range docs {
		out[d.ID] = d.toDomain()
	}
	return out, nil
}

// SetRegisteredEvent updates the matching array element in place, or pushes a
// new one when the user has no entry for the event yet.
func (r *UserRepo) SetRegisteredEvent(ctx context.Context, userID string, ref domain.RegisteredEvent) error {
	for i := 0; i < 2; i++ {
		res, err := r.coll.UpdateOne(ctx,
			bson.M{"_id": userID, "registered_events.event_id": ref.EventID},
			bson.M{"$set": bson.M{"registered_events.$.status": string(ref.Status)}},
		)
		if err != nil {
			return fmt.Errorf("set registered event: %w", err)
		}
		if res.MatchedCount > 0 {
			return nil
		}

		res, err = r.coll.UpdateOne(ctx,
			bson.M{"_id": userID, "registered_events.event_id": bson.M{"$ne": ref.EventID}},
			bson.M{"$push": bson.M{"registered_events": registeredEventDoc{EventID: ref.EventID, Status: string(ref.Status)}}},
		)
		if err != nil {
			return fmt.Errorf("push registered event: %w", err)
		}
		if res.MatchedCount > 0 {
			return nil
		}

		n, err := r.coll.CountDocuments(ctx, bson.M{"_id": userID})
		if err != nil {
			return fmt.Errorf("count user: %w", err)
		}
		if n == 0 {
			return domain.ErrNotFound("user not found")
		}
		// an entry appeared between the two updates; go around once more
	}
	return fmt.Errorf("set registered event: lost race for user %s", userID)
}

func (r *UserRepo) RemoveRegisteredEvent(ctx context.Context, userID, eventID string) error {
	return r.update(ctx, userID, bson.M{"$pull": bson.M{"registered_events": bson.M{"event_id": eventID}}})
}

func (r *UserRepo) ReplaceRegisteredEvents(ctx context.Context, userID string, refs []domain.RegisteredEvent) error {
	return r.update(ctx, userID, bson.M{"$set": bson.M{"registered_events": toRegisteredEventDocs(refs)}})
}

func (r *UserRepo) MarkEmailVerified(ctx context.Context, userID string) error {
	return r.update(ctx, userID, bson.M{"$set": bson.M{"email_verified": true}})
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	return r.update(ctx, userID, bson.M{"$set": bson.M{"password_hash": hash}})
}

func (r *UserRepo) update(ctx context.Context, userID string, upd bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": userID}, upd)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound("user not found")
	}
	return nil
}
