package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingsrepo "queendoctor/internal/bookings/repository"
	servicesrepo "queendoctor/internal/services/repository"
	"queendoctor/pkg/logger"
)

type collectionDef struct {
	Name    string
	Indexes []mongo.IndexModel
}

var (
	BookingsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_1"),
		},
	}

	// Documents are schema-less, so collections are created without validators.
	Collections = []collectionDef{
		{Name: servicesrepo.CollectionName},
		{Name: bookingsrepo.CollectionName, Indexes: BookingsIndexes},
	}
)

// RunMigration creates any missing collection and ensures its indexes. It is
// safe to run repeatedly.
func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for _, def := range Collections {
		if err := ensureCollection(ctx, db, def.Name, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
		if err := ensureIndexes(ctx, db, def.Name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) > 0 {
		log.Info("Collection already exists", "collection", name)
		return nil
	}

	log.Info("Creating collection", "collection", name)
	if err := db.CreateCollection(ctx, name); err != nil {
		return fmt.Errorf("failed creating %s: %w", name, err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}

	created, err := db.Collection(name).Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "indexes", created)
	return nil
}
