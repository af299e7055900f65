// server/internal/database/mongo.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pharmacy-refill-dispatch/config"
)

// Connect opens the mongo connection and verifies it with a ping.
func Connect(cfg config.MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return client.Database(cfg.DBName), nil
}

// EnsureIndexes creates the index the claim query depends on. Safe to call
// on every start; mongo treats an existing identical index as a no-op.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := db.Collection("refill_requests")

	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// Claim filter + sort: pending requests for a store, oldest first.
			Keys: bson.D{
				{Key: "storeID", Value: 1},
				{Key: "status", Value: 1},
				{Key: "createdAt", Value: 1},
			},
		},
		{
			Keys:    bson.D{{Key: "requestID", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Mongo indexes ensured.")
	return nil
}
