package audit

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// LogsCollection holds audit records inside the configured database.
const LogsCollection = "logs"

type inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// MongoStore writes records to <database>.logs.
type MongoStore struct {
	client *mongo.Client
	logs   inserter
}

// NewMongoStore connects to uri and verifies the primary is reachable.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoStore{
		client: client,
		logs:   client.Database(database).Collection(LogsCollection),
	}, nil
}

// Log inserts rec as one document.
func (s *MongoStore) Log(ctx context.Context, rec LogRecord) error {
	if _, err := s.logs.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert audit log request_id=%s: %w", rec.RequestID, err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
