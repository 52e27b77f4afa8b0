package service

import (
	"context"
	"errors"

	serviceserrors "queendoctor/internal/services/errors"
	"queendoctor/internal/services/repository"
	apperrors "queendoctor/pkg/errors"
	"queendoctor/pkg/logger"
	"queendoctor/pkg/model"
	"queendoctor/pkg/validator"
)

// CatalogService serves the read-only services catalogue.
type CatalogService interface {
	GetAll(ctx context.Context) ([]model.Service, error)
	GetByID(ctx context.Context, id string) (model.Service, error)
}

type catalogService struct {
	repo      repository.ServiceRepository
	validator *validator.Validator
	log       *logger.Logger
}

func NewCatalogService(repo repository.ServiceRepository, v *validator.Validator, log *logger.Logger) CatalogService {
	return &catalogService{
		repo:      repo,
		validator: v,
		log:       log,
	}
}

func (s *catalogService) GetAll(ctx context.Context) ([]model.Service, error) {
	services, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Ctx(ctx).Error("Failed to list services", "error", err)
		return nil, apperrors.Internal("Failed to retrieve services", err)
	}
	return services, nil
}

func (s *catalogService) GetByID(ctx context.Context, id string) (model.Service, error) {
	if err := s.validator.ObjectID(id); err != nil {
		return nil, apperrors.InvalidInput("Invalid service ID format").WithDetails(map[string]any{"id": id})
	}

	service, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Service", id)
		}
		if errors.Is(err, serviceserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid service ID format").WithDetails(map[string]any{"id": id})
		}
		s.log.Ctx(ctx).Error("Failed to retrieve service", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve service", err)
	}

	return service, nil
}
