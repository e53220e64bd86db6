package store

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const skipIntegrationTests = "CATALOG_SKIP_INTEGRATION_TESTS"

// MongoStoreSuite runs the store contract against a MongoDB container.
type MongoStoreSuite struct {
	storeContractSuite
	container *mongodb.MongoDBContainer // MongoDB container for integration tests
	client    *mongo.Client
	coll      *mongo.Collection
	logger    *slog.Logger
}

// SetupSuite starts a MongoDB container, connects to it and creates the indexes.
func (s *MongoStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	var err error

	// 1. Start a MongoDB container.
	s.container, err = mongodb.Run(s.ctx, "mongo:7.0")
	require.NoError(s.T(), err, "Failed to run MongoDB container")

	// 2. Get the connection string from the container
	uri, err := s.container.ConnectionString(s.ctx)
	require.NoError(s.T(), err, "Failed to get connection string from container")

	// 3. Connect and ping
	s.client, err = mongo.Connect(s.ctx, options.Client().ApplyURI(uri))
	require.NoError(s.T(), err, "Failed to connect to MongoDB")
	for i := range 10 {
		s.logger.Info("Pinging MongoDB", "attempt", i+1)
		err = s.client.Ping(s.ctx, nil)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(s.T(), err, "Failed to ping MongoDB after retries")

	// 4. Indexes
	s.coll = s.client.Database("catalog").Collection("shoes")
	require.NoError(s.T(), EnsureIndexes(s.ctx, s.coll))

	s.store = NewMongoStore(s.coll)
	s.logger.Info("Initialization complete for MongoStoreSuite")
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *MongoStoreSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Disconnect(s.ctx)
	}
	if s.container != nil {
		if err := s.container.Terminate(s.ctx); err != nil {
			s.logger.Warn("failed to terminate MongoDB container", "error", err)
		}
	}
}

// SetupTest empties the collection, keeping its indexes.
func (s *MongoStoreSuite) SetupTest() {
	_, err := s.coll.DeleteMany(s.ctx, bson.M{})
	require.NoError(s.T(), err, "Failed to empty collection")
}

func (s *MongoStoreSuite) TestEnsureIndexes_Idempotent() {
	require.NoError(s.T(), EnsureIndexes(s.ctx, s.coll))
}

func (s *MongoStoreSuite) TestEnsureIndexes_ReusesExistingNameIndex() {
	// given
	legacy := s.client.Database("catalog").Collection("legacy_shoes")
	s.T().Cleanup(func() { _ = legacy.Drop(s.ctx) })
	_, err := legacy.Indexes().CreateOne(s.ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	require.NoError(s.T(), err)

	// when
	err = EnsureIndexes(s.ctx, legacy)

	// then
	require.NoError(s.T(), err)
	var indexes []bson.M
	cursor, err := legacy.Indexes().List(s.ctx)
	require.NoError(s.T(), err)
	require.NoError(s.T(), cursor.All(s.ctx, &indexes))
	var names []string
	for _, idx := range indexes {
		names = append(names, idx["name"].(string))
	}
	assert.Contains(s.T(), names, NameIndex)
	assert.Len(s.T(), names, 5)
}

// TestMongoStoreIntegration runs the ItemStore integration tests.
func TestMongoStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(MongoStoreSuite))
}
