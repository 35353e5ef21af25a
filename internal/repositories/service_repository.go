package repositories

import (
	"errors"

	"devcraft_backend/internal/models"

	"gorm.io/gorm"
)

var ErrServiceNotFound = errors.New("service not found")

// ServiceFilter - критерии выборки каталога
type ServiceFilter struct {
	Category   string
	Status     models.ServiceStatus
	OnlyActive bool
}

type ServiceRepository interface {
	Create(db *gorm.DB, service *models.Service) error
	FindByID(db *gorm.DB, id string) (*models.Service, error)
	FindAll(db *gorm.DB, filter ServiceFilter) ([]models.Service, error)
	Update(db *gorm.DB, service *models.Service) error
	UpdateStatus(db *gorm.DB, id string, status models.ServiceStatus) error
	Delete(db *gorm.DB, id string) error
}

type ServiceRepositoryImpl struct{}

func NewServiceRepository() ServiceRepository {
	return &ServiceRepositoryImpl{}
}

func (r *ServiceRepositoryImpl) Create(db *gorm.DB, service *models.Service) error {
	return db.Create(service).Error
}

func (r *ServiceRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Service, error) {
	var service models.Service
	if err := db.First(&service, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return &service, nil
}

func (r *ServiceRepositoryImpl) FindAll(db *gorm.DB, filter ServiceFilter) ([]models.Service, error) {
	query := db.Model(&models.Service{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OnlyActive {
		query = query.Where("status = ?", models.ServiceStatusActive)
	}

	var services []models.Service
	err := query.Order("created_at DESC").Find(&services).Error
	return services, err
}

func (r *ServiceRepositoryImpl) Update(db *gorm.DB, service *models.Service) error {
	return db.Save(service).Error
}

func (r *ServiceRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.ServiceStatus) error {
	result := db.Model(&models.Service{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func (r *ServiceRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Delete(&models.Service{}, "id = ?", id).Error
}
