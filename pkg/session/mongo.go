package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	// URI is the connection string, e.g. mongodb://localhost:27017.
	URI string
	// Database defaults to "spiralstair".
	Database string
	// Collection defaults to "sessions".
	Collection string
}

// MongoStore keeps sessions in a MongoDB collection, one document per
// session keyed by its ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo URI is required")
	}
	if cfg.Database == "" {
		cfg.Database = "spiralstair"
	}
	if cfg.Collection == "" {
		cfg.Collection = "sessions"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (m *MongoStore) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if s.IsExpired() {
		m.coll.DeleteOne(ctx, bson.M{"_id": id})
		return nil, nil
	}
	return &s, nil
}

func (m *MongoStore) Set(ctx context.Context, s *Session) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := m.coll.ReplaceOne(ctx, bson.M{"_id": s.ID}, s, opts); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (m *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (m *MongoStore) Cleanup(ctx context.Context) error {
	if _, err := m.coll.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": time.Now()}}); err != nil {
		return fmt.Errorf("cleanup sessions: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
