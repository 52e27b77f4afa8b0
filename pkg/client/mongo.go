package client

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"queendoctor/pkg/logger"
)

type MongoConfig struct {
	URI         string
	Database    string
	ConnTimeout time.Duration
	StableAPI   bool
}

// Mongo owns the process-wide connection pool. It is created once in main,
// handed to the repositories and closed on shutdown.
type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
	log      *logger.Logger
}

func ConnectMongo(ctx context.Context, cfg MongoConfig, log *logger.Logger) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("Successfully connected to MongoDB", "database", cfg.Database, "stable_api", cfg.StableAPI)
	return &Mongo{
		Client:   client,
		Database: client.Database(cfg.Database),
		log:      log,
	}, nil
}

func clientOptions(cfg MongoConfig) *options.ClientOptions {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	if cfg.StableAPI {
		opts.SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1).
			SetStrict(true).
			SetDeprecationErrors(true))
	}
	return opts
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	if err := m.Client.Disconnect(ctx); err != nil {
		m.log.Error("Failed to disconnect from MongoDB", "error", err)
		return err
	}
	m.log.Info("Disconnected from MongoDB")
	return nil
}
