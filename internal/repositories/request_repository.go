package repositories

import (
	"errors"
	"strings"

	"devcraft_backend/internal/models"

	"gorm.io/gorm"
)

var ErrRequestNotFound = errors.New("custom request not found")

// RequestFilter - критерии выборки заявок (админский список)
type RequestFilter struct {
	Status models.RequestStatus
	Search string // По имени, email или категории
	UserID string // Список "мои заявки" клиента
}

type RequestRepository interface {
	Create(db *gorm.DB, req *models.CustomRequest) error
	FindByID(db *gorm.DB, id string) (*models.CustomRequest, error)
	FindAll(db *gorm.DB, filter RequestFilter) ([]models.CustomRequest, error)
	// Save пишет заявку целиком; переходы считает lifecycle-политика,
	// репозиторий их не перепроверяет
	Save(db *gorm.DB, req *models.CustomRequest) error
	CountByStatus(db *gorm.DB) (map[models.RequestStatus]int64, error)
	// FindApprovedWithoutBacklink - approved-заявки, на которые уже ссылается
	// проект (converted_from_request_id), но обратная ссылка не записана.
	// Их чинит reconcile worker.
	FindApprovedWithoutBacklink(db *gorm.DB) ([]models.CustomRequest, error)
}

type RequestRepositoryImpl struct{}

func NewRequestRepository() RequestRepository {
	return &RequestRepositoryImpl{}
}

func (r *RequestRepositoryImpl) Create(db *gorm.DB, req *models.CustomRequest) error {
	return db.Create(req).Error
}

func (r *RequestRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.CustomRequest, error) {
	var req models.CustomRequest
	if err := db.First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepositoryImpl) FindAll(db *gorm.DB, filter RequestFilter) ([]models.CustomRequest, error) {
	query := db.Model(&models.CustomRequest{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(category) LIKE ?",
			like, like, like,
		)
	}

	var requests []models.CustomRequest
	err := query.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *RequestRepositoryImpl) Save(db *gorm.DB, req *models.CustomRequest) error {
	return db.Save(req).Error
}

func (r *RequestRepositoryImpl) CountByStatus(db *gorm.DB) (map[models.RequestStatus]int64, error) {
	type row struct {
		Status models.RequestStatus
		Count  int64
	}
	var rows []row
	err := db.Model(&models.CustomRequest{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.RequestStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (r *RequestRepositoryImpl) FindApprovedWithoutBacklink(db *gorm.DB) ([]models.CustomRequest, error) {
	var requests []models.CustomRequest
	err := db.
		Joins("JOIN projects ON projects.converted_from_request_id = custom_requests.id").
		Where("custom_requests.status = ?", models.RequestStatusApproved).
		Where("custom_requests.converted_project_id IS NULL").
		Find(&requests).Error
	return requests, err
}
