package main

import (
	"context"
	"time"

	mongoMigration "queendoctor/internal/migrations/mongo"
	"queendoctor/pkg/client"
	"queendoctor/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.Log.Info("Starting Mongo migration job")

	mongo, err := client.ConnectMongo(ctx, cfg.MongoConfig(), cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer func() {
		_ = mongo.Close(context.Background())
	}()

	if err := mongoMigration.RunMigration(ctx, mongo.Database, cfg.Log); err != nil {
		_ = mongo.Close(context.Background())
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}
