package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"queendoctor/internal/auth"
	bookingserrors "queendoctor/internal/bookings/errors"
	"queendoctor/internal/bookings/events"
	apperrors "queendoctor/pkg/errors"
	"queendoctor/pkg/logger"
	"queendoctor/pkg/model"
	"queendoctor/pkg/validator"
)

type mockBookingRepository struct {
	findAllFunc      func(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error)
	createFunc       func(ctx context.Context, booking model.Booking) (*model.InsertResult, error)
	updateStatusFunc func(ctx context.Context, id string, update model.StatusUpdate) (*model.UpdateResult, error)
	deleteFunc       func(ctx context.Context, id string) (*model.DeleteResult, error)
	calls            int
}

func (m *mockBookingRepository) FindAll(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error) {
	m.calls++
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, filter)
	}
	return []model.Booking{}, nil
}

func (m *mockBookingRepository) Create(ctx context.Context, booking model.Booking) (*model.InsertResult, error) {
	m.calls++
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	return &model.InsertResult{Acknowledged: true, InsertedID: primitive.NewObjectID()}, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, update model.StatusUpdate) (*model.UpdateResult, error) {
	m.calls++
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, update)
	}
	return &model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) (*model.DeleteResult, error) {
	m.calls++
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return &model.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) {
	p.events = append(p.events, event)
}

const (
	validID     = "65a1f0c2e4b0a1b2c3d4e5f6"
	callerEmail = "patient@example.com"
)

func newTestService(repo *mockBookingRepository, pub events.Publisher, opts Options) BookingService {
	return NewBookingService(repo, validator.New(), pub, opts, logger.Discard())
}

func callerContext(email string) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{"email": email})
}

func requireAppError(t *testing.T, err error, status int, code string) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperrors.IsAppError(err), "expected AppError, got %T", err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, status, appErr.StatusCode())
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func TestList(t *testing.T) {
	tests := []struct {
		name       string
		ctx        context.Context
		filter     model.BookingFilter
		opts       Options
		wantStatus int
		wantCode   string
		wantCalled bool
	}{
		{
			name:       "own email",
			ctx:        callerContext(callerEmail),
			filter:     model.BookingFilter{Email: callerEmail},
			wantCalled: true,
		},
		{
			name:       "someone else's email",
			ctx:        callerContext(callerEmail),
			filter:     model.BookingFilter{Email: "other@example.com"},
			wantStatus: http.StatusForbidden,
			wantCode:   apperrors.CodeForbidden,
		},
		{
			name:       "email differs only by case",
			ctx:        callerContext(callerEmail),
			filter:     model.BookingFilter{Email: "Patient@example.com"},
			wantStatus: http.StatusForbidden,
			wantCode:   apperrors.CodeForbidden,
		},
		{
			name:       "empty email parameter",
			ctx:        callerContext(callerEmail),
			filter:     model.BookingFilter{Email: ""},
			wantStatus: http.StatusForbidden,
			wantCode:   apperrors.CodeForbidden,
		},
		{
			name:       "unscoped refused by default",
			ctx:        callerContext(callerEmail),
			filter:     model.BookingFilter{Unscoped: true},
			wantStatus: http.StatusForbidden,
			wantCode:   apperrors.CodeForbidden,
		},
		{
			name:       "unscoped allowed when enabled",
			ctx:        callerContext(callerEmail),
			filter:     model.BookingFilter{Unscoped: true},
			opts:       Options{AllowUnscopedList: true},
			wantCalled: true,
		},
		{
			name:       "no identity in context",
			ctx:        context.Background(),
			filter:     model.BookingFilter{Email: callerEmail},
			wantStatus: http.StatusUnauthorized,
			wantCode:   apperrors.CodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got model.BookingFilter
			repo := &mockBookingRepository{
				findAllFunc: func(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error) {
					got = filter
					return []model.Booking{{"email": callerEmail}}, nil
				},
			}

			bookings, err := newTestService(repo, nil, tt.opts).List(tt.ctx, tt.filter)
			if tt.wantStatus != 0 {
				appErr := requireAppError(t, err, tt.wantStatus, tt.wantCode)
				if tt.wantStatus == http.StatusForbidden {
					assert.Equal(t, auth.ForbiddenMessage, appErr.Message)
				}
			} else {
				require.NoError(t, err)
				assert.Len(t, bookings, 1)
				assert.Equal(t, tt.filter, got)
			}
			assert.Equal(t, tt.wantCalled, repo.calls == 1)
		})
	}
}

func TestList_RepositoryFailure(t *testing.T) {
	repo := &mockBookingRepository{
		findAllFunc: func(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error) {
			return nil, errors.New("server selection timeout")
		},
	}

	_, err := newTestService(repo, nil, Options{}).List(callerContext(callerEmail), model.BookingFilter{Email: callerEmail})
	requireAppError(t, err, http.StatusInternalServerError, apperrors.CodeInternal)
}

func TestCreate(t *testing.T) {
	insertedID := primitive.NewObjectID()
	var stored model.Booking
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking model.Booking) (*model.InsertResult, error) {
			stored = booking
			return &model.InsertResult{Acknowledged: true, InsertedID: insertedID}, nil
		},
	}
	pub := &recordingPublisher{}
	booking := model.Booking{"email": callerEmail, "service": "Teeth Orthodontics", "unknownField": true}

	result, err := newTestService(repo, pub, Options{}).Create(context.Background(), booking)
	require.NoError(t, err)
	assert.Equal(t, &model.InsertResult{Acknowledged: true, InsertedID: insertedID}, result)
	assert.Equal(t, booking, stored)
	assert.NotContains(t, booking, "_id")

	require.Len(t, pub.events, 1)
	event := pub.events[0]
	assert.Equal(t, events.BookingCreated, event.Type)
	assert.Equal(t, insertedID.Hex(), event.BookingID)
	data, ok := event.Data.(model.Booking)
	require.True(t, ok)
	assert.Equal(t, insertedID, data["_id"])
	assert.Equal(t, true, data["unknownField"])
}

func TestCreate_Failures(t *testing.T) {
	t.Run("nil body", func(t *testing.T) {
		repo := &mockBookingRepository{}
		_, err := newTestService(repo, nil, Options{}).Create(context.Background(), nil)
		requireAppError(t, err, http.StatusBadRequest, apperrors.CodeBadRequest)
		assert.Zero(t, repo.calls)
	})

	t.Run("repository error publishes nothing", func(t *testing.T) {
		repo := &mockBookingRepository{
			createFunc: func(ctx context.Context, booking model.Booking) (*model.InsertResult, error) {
				return nil, errors.New("write concern error")
			},
		}
		pub := &recordingPublisher{}
		_, err := newTestService(repo, pub, Options{}).Create(context.Background(), model.Booking{"a": 1})
		requireAppError(t, err, http.StatusInternalServerError, apperrors.CodeInternal)
		assert.Empty(t, pub.events)
	})
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		result     *model.UpdateResult
		repoErr    error
		wantStatus int
		wantCode   string
		wantCalled bool
		wantEvents int
	}{
		{
			name:       "matched",
			id:         validID,
			result:     &model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1},
			wantCalled: true,
			wantEvents: 1,
		},
		{
			name:       "same status again",
			id:         validID,
			result:     &model.UpdateResult{Acknowledged: true, MatchedCount: 1},
			wantCalled: true,
			wantEvents: 1,
		},
		{
			name:       "no match",
			id:         validID,
			result:     &model.UpdateResult{Acknowledged: true},
			wantCalled: true,
		},
		{
			name:       "malformed id",
			id:         "not-an-id",
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeInvalidInput,
		},
		{
			name:       "repository rejects id",
			id:         validID,
			repoErr:    fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, validID),
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeInvalidInput,
			wantCalled: true,
		},
		{
			name:       "database failure",
			id:         validID,
			repoErr:    errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   apperrors.CodeInternal,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockBookingRepository{
				updateStatusFunc: func(ctx context.Context, id string, update model.StatusUpdate) (*model.UpdateResult, error) {
					assert.Equal(t, "confirmed", update.Status)
					return tt.result, tt.repoErr
				},
			}
			pub := &recordingPublisher{}

			result, err := newTestService(repo, pub, Options{}).UpdateStatus(context.Background(), tt.id, model.StatusUpdate{Status: "confirmed"})
			if tt.wantStatus != 0 {
				requireAppError(t, err, tt.wantStatus, tt.wantCode)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
			assert.Equal(t, tt.wantCalled, repo.calls == 1)
			require.Len(t, pub.events, tt.wantEvents)
			if tt.wantEvents > 0 {
				assert.Equal(t, events.BookingStatusUpdated, pub.events[0].Type)
				assert.Equal(t, tt.id, pub.events[0].BookingID)
				assert.Equal(t, map[string]any{"status": "confirmed"}, pub.events[0].Data)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		pub := &recordingPublisher{}
		result, err := newTestService(&mockBookingRepository{}, pub, Options{}).Delete(context.Background(), validID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.DeletedCount)
		require.Len(t, pub.events, 1)
		assert.Equal(t, events.BookingDeleted, pub.events[0].Type)
		assert.Equal(t, validID, pub.events[0].BookingID)
	})

	t.Run("already gone", func(t *testing.T) {
		repo := &mockBookingRepository{
			deleteFunc: func(ctx context.Context, id string) (*model.DeleteResult, error) {
				return &model.DeleteResult{Acknowledged: true}, nil
			},
		}
		pub := &recordingPublisher{}
		result, err := newTestService(repo, pub, Options{}).Delete(context.Background(), validID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.DeletedCount)
		assert.Empty(t, pub.events)
	})

	t.Run("malformed id", func(t *testing.T) {
		repo := &mockBookingRepository{}
		_, err := newTestService(repo, nil, Options{}).Delete(context.Background(), "12345")
		appErr := requireAppError(t, err, http.StatusBadRequest, apperrors.CodeInvalidInput)
		assert.Equal(t, "12345", appErr.Details["id"])
		assert.Zero(t, repo.calls)
	})

	t.Run("database failure", func(t *testing.T) {
		repo := &mockBookingRepository{
			deleteFunc: func(ctx context.Context, id string) (*model.DeleteResult, error) {
				return nil, errors.New("not primary")
			},
		}
		_, err := newTestService(repo, nil, Options{}).Delete(context.Background(), validID)
		requireAppError(t, err, http.StatusInternalServerError, apperrors.CodeInternal)
	})
}
