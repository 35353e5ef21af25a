package services

import (
	"encoding/json"
	"fmt"

	"devcraft_backend/internal/models"
	"devcraft_backend/internal/repositories"
	"devcraft_backend/internal/services/dto"
	"devcraft_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// CatalogService - CMS каталога услуг. Позиции живут своим циклом
// active/inactive и в жизненный цикл заказа не входят.
type CatalogService interface {
	Create(db *gorm.DB, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error)
	Update(db *gorm.DB, id string, req *dto.UpdateServiceRequest) (*dto.ServiceResponse, error)
	UpdateStatus(db *gorm.DB, id string, status models.ServiceStatus) error
	Delete(db *gorm.DB, id string) error
	GetByID(db *gorm.DB, id string) (*dto.ServiceResponse, error)
	// ListPublic - публичная витрина, только active
	ListPublic(db *gorm.DB, category string) ([]dto.ServiceResponse, error)
	// ListAll - админский список без фильтра по статусу
	ListAll(db *gorm.DB) ([]dto.ServiceResponse, error)
}

type CatalogServiceImpl struct {
	serviceRepo repositories.ServiceRepository
}

func NewCatalogService(serviceRepo repositories.ServiceRepository) CatalogService {
	return &CatalogServiceImpl{serviceRepo: serviceRepo}
}

func (s *CatalogServiceImpl) Create(db *gorm.DB, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	features, err := json.Marshal(req.Features)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal features: %w", err)
	}

	service := &models.Service{
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Features:    features,
		Image:       req.Image,
		Status:      models.ServiceStatusActive,
	}

	if err := s.serviceRepo.Create(db, service); err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "catalog", "Failed to create service")
	}

	resp := dto.ServiceToDTO(service)
	return &resp, nil
}

func (s *CatalogServiceImpl) Update(db *gorm.DB, id string, req *dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	service, err := s.serviceRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrServiceNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrRemoteFailure(err, "catalog", "Failed to load service")
	}

	if req.Category != nil {
		service.Category = *req.Category
	}
	if req.Title != nil {
		service.Title = *req.Title
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, apperrors.NewBadRequestError("Price must be positive")
		}
		service.Price = *req.Price
	}
	if req.Features != nil {
		features, err := json.Marshal(req.Features)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal features: %w", err)
		}
		service.Features = features
	}
	if req.Image != nil {
		service.Image = *req.Image
	}

	if err := s.serviceRepo.Update(db, service); err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "catalog", "Failed to update service")
	}

	resp := dto.ServiceToDTO(service)
	return &resp, nil
}

func (s *CatalogServiceImpl) UpdateStatus(db *gorm.DB, id string, status models.ServiceStatus) error {
	if err := s.serviceRepo.UpdateStatus(db, id, status); err != nil {
		if apperrors.Is(err, repositories.ErrServiceNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.ErrRemoteFailure(err, "catalog", "Failed to update service status")
	}
	return nil
}

func (s *CatalogServiceImpl) Delete(db *gorm.DB, id string) error {
	if _, err := s.serviceRepo.FindByID(db, id); err != nil {
		if apperrors.Is(err, repositories.ErrServiceNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.ErrRemoteFailure(err, "catalog", "Failed to load service")
	}
	return s.serviceRepo.Delete(db, id)
}

func (s *CatalogServiceImpl) GetByID(db *gorm.DB, id string) (*dto.ServiceResponse, error) {
	service, err := s.serviceRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrServiceNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrRemoteFailure(err, "catalog", "Failed to load service")
	}
	resp := dto.ServiceToDTO(service)
	return &resp, nil
}

func (s *CatalogServiceImpl) ListPublic(db *gorm.DB, category string) ([]dto.ServiceResponse, error) {
	services, err := s.serviceRepo.FindAll(db, repositories.ServiceFilter{
		Category:   category,
		OnlyActive: true,
	})
	if err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "catalog", "Failed to list services")
	}
	return servicesToDTO(services), nil
}

func (s *CatalogServiceImpl) ListAll(db *gorm.DB) ([]dto.ServiceResponse, error) {
	services, err := s.serviceRepo.FindAll(db, repositories.ServiceFilter{})
	if err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "catalog", "Failed to list services")
	}
	return servicesToDTO(services), nil
}

func servicesToDTO(services []models.Service) []dto.ServiceResponse {
	out := make([]dto.ServiceResponse, 0, len(services))
	for i := range services {
		out = append(out, dto.ServiceToDTO(&services[i]))
	}
	return out
}
