package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	serviceserrors "queendoctor/internal/services/errors"
	apperrors "queendoctor/pkg/errors"
	"queendoctor/pkg/logger"
	"queendoctor/pkg/model"
	"queendoctor/pkg/validator"
)

type mockServiceRepository struct {
	findAllFunc  func(ctx context.Context) ([]model.Service, error)
	findByIDFunc func(ctx context.Context, id string) (model.Service, error)
}

func (m *mockServiceRepository) FindAll(ctx context.Context) ([]model.Service, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []model.Service{}, nil
}

func (m *mockServiceRepository) FindByID(ctx context.Context, id string) (model.Service, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, serviceserrors.ErrNotFound
}

const validID = "65a1f0c2e4b0a1b2c3d4e5f6"

func newTestService(repo *mockServiceRepository) CatalogService {
	return NewCatalogService(repo, validator.New(), logger.Discard())
}

func TestGetAll(t *testing.T) {
	repo := &mockServiceRepository{
		findAllFunc: func(ctx context.Context) ([]model.Service, error) {
			return []model.Service{{"title": "Teeth Orthodontics"}}, nil
		},
	}

	services, err := newTestService(repo).GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Service{{"title": "Teeth Orthodontics"}}, services)
}

func TestGetAll_RepositoryFailure(t *testing.T) {
	repo := &mockServiceRepository{
		findAllFunc: func(ctx context.Context) ([]model.Service, error) {
			return nil, errors.New("connection reset")
		},
	}

	_, err := newTestService(repo).GetAll(context.Background())
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode())
	assert.Equal(t, apperrors.CodeInternal, appErr.Code)
}

func TestGetByID(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		repoResult model.Service
		repoErr    error
		wantStatus int
		wantCalled bool
	}{
		{
			name:       "found",
			id:         validID,
			repoResult: bson.M{"title": "Teeth Orthodontics", "price": 200},
			wantCalled: true,
		},
		{
			name:       "not found",
			id:         validID,
			repoErr:    serviceserrors.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCalled: true,
		},
		{
			name:       "malformed id",
			id:         "123",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "uppercase hex accepted",
			id:         "65A1F0C2E4B0A1B2C3D4E5F6",
			repoResult: bson.M{"title": "Teeth Orthodontics", "price": 200},
			wantCalled: true,
		},
		{
			name:       "database failure",
			id:         validID,
			repoErr:    errors.New("timeout"),
			wantStatus: http.StatusInternalServerError,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			repo := &mockServiceRepository{
				findByIDFunc: func(ctx context.Context, id string) (model.Service, error) {
					called = true
					assert.Equal(t, tt.id, id)
					return tt.repoResult, tt.repoErr
				},
			}

			service, err := newTestService(repo).GetByID(context.Background(), tt.id)

			assert.Equal(t, tt.wantCalled, called)
			if tt.wantStatus == 0 {
				require.NoError(t, err)
				assert.Equal(t, tt.repoResult, service)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantStatus, apperrors.AsAppError(err).StatusCode())
		})
	}
}
