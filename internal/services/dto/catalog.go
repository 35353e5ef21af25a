package dto

import (
	"time"

	"devcraft_backend/internal/models"

	"gorm.io/datatypes"
)

// CreateServiceRequest - создание позиции каталога (админ CMS)
type CreateServiceRequest struct {
	Category    string   `json:"category" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Features    []string `json:"features"`
	Image       string   `json:"image"`
}

// UpdateServiceRequest - частичное обновление позиции каталога
type UpdateServiceRequest struct {
	Category    *string  `json:"category"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Features    []string `json:"features"`
	Image       *string  `json:"image"`
}

// UpdateServiceStatusRequest - переключение active/inactive
type UpdateServiceStatusRequest struct {
	Status models.ServiceStatus `json:"status" binding:"required,oneof=active inactive"`
}

// ServiceListQuery - фильтры публичного каталога
type ServiceListQuery struct {
	Category string `form:"category"`
}

// ServiceResponse - позиция каталога в ответе API
type ServiceResponse struct {
	ID          string               `json:"id"`
	Category    string               `json:"category"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Price       float64              `json:"price"`
	Features    datatypes.JSON       `json:"features"`
	Image       string               `json:"image"`
	Status      models.ServiceStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
}

func ServiceToDTO(s *models.Service) ServiceResponse {
	return ServiceResponse{
		ID:          s.ID,
		Category:    s.Category,
		Title:       s.Title,
		Description: s.Description,
		Price:       s.Price,
		Features:    s.Features,
		Image:       s.Image,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
	}
}
