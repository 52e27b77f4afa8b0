package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"queendoctor/pkg/client"
	"queendoctor/pkg/logger"
)

const (
	EnvTestMongoURI   = "QUEENDOCTOR_TEST_MONGO_URI"
	ConnectionTimeout = 10 * time.Second
)

// NewMongo connects to the test deployment named by QUEENDOCTOR_TEST_MONGO_URI
// and hands out a throwaway database that is dropped when the test ends.
// The test is skipped when the variable is unset.
func NewMongo(t *testing.T) *client.Mongo {
	t.Helper()

	uri := os.Getenv(EnvTestMongoURI)
	if uri == "" {
		t.Skipf("%s not set; skipping MongoDB integration test", EnvTestMongoURI)
	}

	dbName := fmt.Sprintf("queendoctor_test_%d", time.Now().UnixNano())
	mongo, err := client.ConnectMongo(context.Background(), client.MongoConfig{
		URI:         uri,
		Database:    dbName,
		ConnTimeout: ConnectionTimeout,
	}, logger.Discard())
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
		defer cancel()
		if err := mongo.Database.Drop(ctx); err != nil {
			t.Logf("warning: failed to drop %s: %v", dbName, err)
		}
		if err := mongo.Close(ctx); err != nil {
			t.Logf("warning: failed to disconnect from MongoDB: %v", err)
		}
	})

	return mongo
}

// Insert seeds a collection directly, bypassing the API.
func Insert(t *testing.T, mongo *client.Mongo, collection string, docs ...any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := mongo.Database.Collection(collection).InsertMany(ctx, docs); err != nil {
		t.Fatalf("failed to seed %s: %v", collection, err)
	}
}
