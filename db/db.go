package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect opens a MongoDB client and verifies the connection with a timeout.
func Connect(uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(25).
		SetConnectTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		if discErr := client.Disconnect(context.Background()); discErr != nil {
			return nil, fmt.Errorf("failed to ping mongo within %v: %w (disconnect also failed: %v)", timeout, err, discErr)
		}
		return nil, fmt.Errorf("failed to ping mongo within %v: %w", timeout, err)
	}

	return client, nil
}
