package repositories

import (
	"errors"
	"time"

	"devcraft_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

// FinanceStats - сводка для админской страницы финансов
type FinanceStats struct {
	TotalRevenue   float64 `json:"total_revenue"`   // Сумма завершенных проектов
	PendingRevenue float64 `json:"pending_revenue"` // Сумма незавершенных
	ProjectCount   int64   `json:"project_count"`
	CompletedCount int64   `json:"completed_count"`
}

type ProjectRepository interface {
	Create(db *gorm.DB, project *models.Project) error
	FindByID(db *gorm.DB, id string) (*models.Project, error)
	FindByClient(db *gorm.DB, clientID string) ([]models.Project, error)
	FindAll(db *gorm.DB) ([]models.Project, error)
	Save(db *gorm.DB, project *models.Project) error
	// FindByRequestID ищет проект по ключу идемпотентности конверсии
	FindByRequestID(db *gorm.DB, requestID string) (*models.Project, error)
	GetFinanceStats(db *gorm.DB, from, to *time.Time) (*FinanceStats, error)
}

type ProjectRepositoryImpl struct{}

func NewProjectRepository() ProjectRepository {
	return &ProjectRepositoryImpl{}
}

func (r *ProjectRepositoryImpl) Create(db *gorm.DB, project *models.Project) error {
	return db.Create(project).Error
}

func (r *ProjectRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Project, error) {
	var project models.Project
	if err := db.First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) FindByClient(db *gorm.DB, clientID string) ([]models.Project, error) {
	var projects []models.Project
	err := db.Where("client_id = ?", clientID).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (r *ProjectRepositoryImpl) FindAll(db *gorm.DB) ([]models.Project, error) {
	var projects []models.Project
	err := db.Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (r *ProjectRepositoryImpl) Save(db *gorm.DB, project *models.Project) error {
	return db.Save(project).Error
}

func (r *ProjectRepositoryImpl) FindByRequestID(db *gorm.DB, requestID string) (*models.Project, error) {
	var project models.Project
	if err := db.First(&project, "converted_from_request_id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) GetFinanceStats(db *gorm.DB, from, to *time.Time) (*FinanceStats, error) {
	query := db.Model(&models.Project{})
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var stats FinanceStats

	err := query.Session(&gorm.Session{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", models.ProjectStatusCompleted).
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	err = query.Session(&gorm.Session{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status <> ?", models.ProjectStatusCompleted).
		Scan(&stats.PendingRevenue).Error
	if err != nil {
		return nil, err
	}

	if err := query.Session(&gorm.Session{}).Count(&stats.ProjectCount).Error; err != nil {
		return nil, err
	}

	err = query.Session(&gorm.Session{}).
		Where("status = ?", models.ProjectStatusCompleted).
		Count(&stats.CompletedCount).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
