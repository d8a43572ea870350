package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	collEvents = "events"
	collUsers  = "users"
	collNotes  = "notes"
	collOutbox = "mirror_outbox"
)

type Client struct {
	client *mongodrv.Client
	db     *mongodrv.Database
}

func Connect(ctx context.Context, uri, dbName string) (*Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)

	c, err := mongodrv.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := c.Ping(ctx, readpref.Primary()); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Client{client: c, db: c.Database(dbName)}, nil
}

func (c *Client) DB() *mongodrv.Database { return c.db }

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the repositories rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongodrv.Database) error {
	indexes := map[string][]mongodrv.IndexModel{
		collUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collEvents: {
			{Keys: bson.D{{Key: "participants.user_id", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "start_date", Value: -1}}},
			{Keys: bson.D{{Key: "organizer_id", Value: 1}, {Key: "start_date", Value: -1}}},
		},
		collNotes: {
			{Keys: bson.D{{Key: "subject", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		collOutbox: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "next_retry_at", Value: 1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
