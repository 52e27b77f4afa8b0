package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	serviceserrors "queendoctor/internal/services/errors"
	mongoutil "queendoctor/pkg/db/mongo"
	"queendoctor/pkg/model"
)

const (
	CollectionName = "services"
)

type ServiceRepository interface {
	FindAll(ctx context.Context) ([]model.Service, error)
	FindByID(ctx context.Context, id string) (model.Service, error)
}

type mongoServiceRepository struct {
	collection *mongo.Collection
	timeouts   mongoutil.Timeouts
}

func NewMongoServiceRepository(db *mongo.Database, timeouts mongoutil.Timeouts) ServiceRepository {
	return &mongoServiceRepository{
		collection: db.Collection(CollectionName),
		timeouts:   timeouts,
	}
}

func (r *mongoServiceRepository) FindAll(ctx context.Context) ([]model.Service, error) {
	ctx, cancel := mongoutil.WithTimeout(ctx, r.timeouts.Read)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to find services: %w", err)
	}
	defer cursor.Close(ctx)

	services := make([]model.Service, 0)
	if err = cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}

	return services, nil
}

// FindByID returns only the summary fields of a service, plus its _id.
func (r *mongoServiceRepository) FindByID(ctx context.Context, id string) (model.Service, error) {
	ctx, cancel := mongoutil.WithTimeout(ctx, r.timeouts.Read)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", serviceserrors.ErrInvalidID, id)
	}

	projection := bson.D{}
	for _, field := range model.ServiceSummaryFields {
		projection = append(projection, bson.E{Key: field, Value: 1})
	}

	var service model.Service
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}, options.FindOne().SetProjection(projection)).Decode(&service)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, serviceserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find service: %w", err)
	}

	return service, nil
}
