package service

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"queendoctor/internal/auth"
	bookingserrors "queendoctor/internal/bookings/errors"
	"queendoctor/internal/bookings/events"
	"queendoctor/internal/bookings/repository"
	apperrors "queendoctor/pkg/errors"
	"queendoctor/pkg/logger"
	"queendoctor/pkg/model"
	"queendoctor/pkg/validator"
)

type BookingService interface {
	List(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error)
	Create(ctx context.Context, booking model.Booking) (*model.InsertResult, error)
	UpdateStatus(ctx context.Context, id string, update model.StatusUpdate) (*model.UpdateResult, error)
	Delete(ctx context.Context, id string) (*model.DeleteResult, error)
}

type Options struct {
	// AllowUnscopedList lets a verified caller list every booking by leaving
	// out the email parameter.
	AllowUnscopedList bool
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.Validator
	publisher events.Publisher
	opts      Options
	log       *logger.Logger
}

func NewBookingService(
	repo repository.BookingRepository,
	v *validator.Validator,
	publisher events.Publisher,
	opts Options,
	log *logger.Logger,
) BookingService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &bookingService{
		repo:      repo,
		validator: v,
		publisher: publisher,
		opts:      opts,
		log:       log,
	}
}

// List returns the bookings of the verified caller. The identity must already
// be in ctx; the email filter has to name the same address it carries.
func (s *bookingService) List(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	if !filter.Scoped() {
		if !s.opts.AllowUnscopedList {
			s.log.Ctx(ctx).Warn("Unscoped booking listing refused", "identity_email", identity.Email())
			return nil, apperrors.Forbidden(auth.ForbiddenMessage)
		}
	} else if filter.Email != identity.Email() || filter.Email == "" {
		s.log.Ctx(ctx).Warn("Booking listing email mismatch",
			"identity_email", identity.Email(),
			"requested_email", filter.Email,
		)
		return nil, apperrors.Forbidden(auth.ForbiddenMessage)
	}

	bookings, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.log.Ctx(ctx).Error("Failed to list bookings", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) Create(ctx context.Context, booking model.Booking) (*model.InsertResult, error) {
	if booking == nil {
		return nil, apperrors.BadRequest("Request body must be a JSON object")
	}

	result, err := s.repo.Create(ctx, booking)
	if err != nil {
		s.log.Ctx(ctx).Error("Failed to create booking", "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	id := idString(result.InsertedID)
	s.log.Ctx(ctx).Info("Booking created", "booking_id", id)

	data := maps.Clone(booking)
	if result.InsertedID != nil {
		data["_id"] = result.InsertedID
	}
	s.publisher.Publish(ctx, events.Event{
		Type:      events.BookingCreated,
		BookingID: id,
		Data:      data,
	})

	return result, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id string, update model.StatusUpdate) (*model.UpdateResult, error) {
	if err := s.validateID(id); err != nil {
		return nil, err
	}

	result, err := s.repo.UpdateStatus(ctx, id, update)
	if err != nil {
		return nil, s.translate(ctx, err, id, "Failed to update booking")
	}

	if result.MatchedCount > 0 {
		s.publisher.Publish(ctx, events.Event{
			Type:      events.BookingStatusUpdated,
			BookingID: id,
			Data:      map[string]any{"status": update.Status},
		})
	}

	return result, nil
}

func (s *bookingService) Delete(ctx context.Context, id string) (*model.DeleteResult, error) {
	if err := s.validateID(id); err != nil {
		return nil, err
	}

	result, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, s.translate(ctx, err, id, "Failed to delete booking")
	}

	if result.DeletedCount > 0 {
		s.publisher.Publish(ctx, events.Event{
			Type:      events.BookingDeleted,
			BookingID: id,
		})
	}

	return result, nil
}

func (s *bookingService) validateID(id string) error {
	if err := s.validator.ObjectID(id); err != nil {
		return invalidID(id)
	}
	return nil
}

func (s *bookingService) translate(ctx context.Context, err error, id, message string) error {
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return invalidID(id)
	}
	s.log.Ctx(ctx).Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}

func invalidID(id string) *apperrors.AppError {
	return apperrors.InvalidInput("Invalid booking ID format").WithDetails(map[string]any{"id": id})
}

func idString(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
