package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "queendoctor/internal/bookings/errors"
	mongoutil "queendoctor/pkg/db/mongo"
	"queendoctor/pkg/model"
)

const (
	CollectionName = "bookings"
)

// BookingRepository maps every booking endpoint onto exactly one driver call.
type BookingRepository interface {
	FindAll(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error)
	Create(ctx context.Context, booking model.Booking) (*model.InsertResult, error)
	UpdateStatus(ctx context.Context, id string, update model.StatusUpdate) (*model.UpdateResult, error)
	Delete(ctx context.Context, id string) (*model.DeleteResult, error)
}

type mongoBookingRepository struct {
	collection *mongo.Collection
	timeouts   mongoutil.Timeouts
}

func NewMongoBookingRepository(db *mongo.Database, timeouts mongoutil.Timeouts) BookingRepository {
	return &mongoBookingRepository{
		collection: db.Collection(CollectionName),
		timeouts:   timeouts,
	}
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error) {
	ctx, cancel := mongoutil.WithTimeout(ctx, r.timeouts.Read)
	defer cancel()

	query := bson.M{}
	if filter.Scoped() {
		query["email"] = filter.Email
	}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]model.Booking, 0)
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking model.Booking) (*model.InsertResult, error) {
	ctx, cancel := mongoutil.WithTimeout(ctx, r.timeouts.Write)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if errors.Is(err, mongo.ErrUnacknowledgedWrite) {
			return &model.InsertResult{Acknowledged: false}, nil
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return &model.InsertResult{
		Acknowledged: true,
		InsertedID:   result.InsertedID,
	}, nil
}

// UpdateStatus overwrites status whether or not it existed before. A missing
// document is reported through MatchedCount, not as an error.
func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, update model.StatusUpdate) (*model.UpdateResult, error) {
	ctx, cancel := mongoutil.WithTimeout(ctx, r.timeouts.Write)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	set := bson.M{"$set": bson.M{"status": update.Status}}

	result, err := r.collection.UpdateOne(ctx, filter, set)
	if err != nil {
		if errors.Is(err, mongo.ErrUnacknowledgedWrite) {
			return &model.UpdateResult{Acknowledged: false}, nil
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	return &model.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.ModifiedCount,
		UpsertedCount: result.UpsertedCount,
		UpsertedID:    result.UpsertedID,
	}, nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) (*model.DeleteResult, error) {
	ctx, cancel := mongoutil.WithTimeout(ctx, r.timeouts.Write)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		if errors.Is(err, mongo.ErrUnacknowledgedWrite) {
			return &model.DeleteResult{Acknowledged: false}, nil
		}
		return nil, fmt.Errorf("failed to delete booking: %w", err)
	}

	return &model.DeleteResult{
		Acknowledged: true,
		DeletedCount: result.DeletedCount,
	}, nil
}
