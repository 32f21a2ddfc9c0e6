package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names
const (
	RequestsCollection = "service_requests"
	WorkersCollection  = "workers"
)

// ConnectMongo connects to MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes the workflow relies on. The unique
// mobile number index backs the duplicate check on roster adds.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	workers := []mongo.IndexModel{
		{Keys: bson.D{{Key: "mobile_number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "mechanic_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := database.Collection(WorkersCollection).Indexes().CreateMany(ctx, workers); err != nil {
		return fmt.Errorf("create worker indexes: %w", err)
	}

	requests := []mongo.IndexModel{
		{Keys: bson.D{{Key: "mechanic_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := database.Collection(RequestsCollection).Indexes().CreateMany(ctx, requests); err != nil {
		return fmt.Errorf("create request indexes: %w", err)
	}
	return nil
}

// MongoTransactor runs functions inside a multi-document transaction.
// Requires a replica set or sharded deployment.
type MongoTransactor struct {
	Client *mongo.Client
}

// WithTransaction starts a session and commits fn's writes atomically.
// fn receives the session context and must pass it to every store call.
func (t *MongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.Client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// MongoHealth reports whether the primary is reachable.
type MongoHealth struct {
	Client *mongo.Client
}

// Ping checks the connection to the primary.
func (h *MongoHealth) Ping(ctx context.Context) error {
	return h.Client.Ping(ctx, readpref.Primary())
}
