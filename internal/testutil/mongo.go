// Package testutil connects integration tests to a real MongoDB replica set.
// Tests using it are skipped when TEST_MONGO_URI is unset or the server is
// unreachable, so the regular test run needs no database.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongoMigration "roombook/internal/migrations/mongo"
	"roombook/pkg/client"
	"roombook/pkg/config"
	"roombook/pkg/logger"
)

const (
	EnvMongoURI       = "TEST_MONGO_URI"
	ConnectionTimeout = 5 * time.Second
)

// NewMongoConfig returns a Config bound to a fresh, migrated database that is
// dropped when the test ends. Transactions need a replica set, so a
// standalone server also skips the test.
func NewMongoConfig(t *testing.T) *config.Config {
	t.Helper()

	uri := os.Getenv(EnvMongoURI)
	if uri == "" {
		t.Skipf("%s not set, skipping MongoDB integration test", EnvMongoURI)
	}

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("failed to connect to MongoDB: %v", err)
	}
	if err := mc.Ping(ctx, nil); err != nil {
		_ = mc.Disconnect(context.Background())
		t.Skipf("failed to ping MongoDB: %v", err)
	}

	var hello bson.M
	if err := mc.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil || hello["setName"] == nil {
		_ = mc.Disconnect(context.Background())
		t.Skip("MongoDB is not a replica set, transactions are unavailable")
	}

	dbName := fmt.Sprintf("roombook_test_%d", time.Now().UnixNano())
	log := logger.Discard()
	if err := mongoMigration.RunMigration(ctx, mc.Database(dbName), log); err != nil {
		_ = mc.Disconnect(context.Background())
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
		defer cancel()
		if err := mc.Database(dbName).Drop(ctx); err != nil {
			t.Logf("warning: failed to drop %s: %v", dbName, err)
		}
		_ = mc.Disconnect(ctx)
	})

	return &config.Config{
		MongoURI:           uri,
		MongoDatabaseName:  dbName,
		ReadTimeout:        ConnectionTimeout,
		WriteTimeout:       ConnectionTimeout,
		TransactionTimeout: 10 * time.Second,
		Log:                log,
		Client:             &client.Client{Mongo: mc},
	}
}
