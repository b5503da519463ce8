package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore writes one document per replay to a MongoDB collection
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	ctx    context.Context
}

// NewMongo connects to MongoDB and verifies the connection
func NewMongo(ctx context.Context, uri, database, collection string, opts ...*options.ClientOptions) (*MongoStore, error) {
	clientOpts := options.Client().ApplyURI(uri)
	for _, opt := range opts {
		clientOpts = options.MergeClientOptions(clientOpts, opt)
	}

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
		ctx:    ctx,
	}, nil
}

// Close closes the connection to MongoDB
func (s *MongoStore) Close() error {
	if s.client != nil {
		return s.client.Disconnect(s.ctx)
	}
	return nil
}

// Save inserts the record
func (s *MongoStore) Save(ctx context.Context, rec *Record) (*Result, error) {
	startTime := time.Now()

	doc := bson.D{
		{Key: "path", Value: rec.Path},
		{Key: "names", Value: rec.Names},
		{Key: "recorded_at", Value: rec.RecordedAt},
		{Key: "duel_flags", Value: int64(rec.DuelFlags)},
		{Key: "blocks", Value: rec.Blocks},
		{Key: "has_legacy", Value: rec.HasLegacy},
		{Key: "replay", Value: rec.Document},
	}
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert replay: %w", err)
	}

	id := fmt.Sprint(res.InsertedID)
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		id = oid.Hex()
	}
	return &Result{ID: id, Duration: time.Since(startTime)}, nil
}

// Count returns the number of stored replays
func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.D{})
}

// Drop removes the collection
func (s *MongoStore) Drop(ctx context.Context) error {
	return s.coll.Drop(ctx)
}
