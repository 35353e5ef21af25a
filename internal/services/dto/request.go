package dto

import (
	"time"

	"devcraft_backend/internal/models"
)

// SubmitRequestRequest - публичная форма заявки. UserID не принимается
// с клиента: авторизованному отправителю его проставляет хендлер.
type SubmitRequestRequest struct {
	Category string  `json:"category" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Details  *string `json:"details"`
	Budget   *string `json:"budget"`
	Timeline *string `json:"timeline"`
}

// UpdateRequestStatusRequest - админ-переход статуса заявки.
// Price обязателен при переходе в approved.
type UpdateRequestStatusRequest struct {
	Status models.RequestStatus `json:"status" binding:"required" validate:"is-request-status"`
	Price  *float64             `json:"price"`
}

// ApproveRequestRequest - одобрение с ценой одним действием
type ApproveRequestRequest struct {
	Price float64 `json:"price" binding:"required,gt=0"`
}

// RequestListQuery - фильтры админского списка заявок
type RequestListQuery struct {
	Status string `form:"status" validate:"is-request-status"`
	Search string `form:"search"`
}

// RequestResponse - заявка в ответе API
type RequestResponse struct {
	ID                 string               `json:"id"`
	UserID             *string              `json:"user_id,omitempty"`
	Category           string               `json:"category"`
	CategoryLabel      string               `json:"category_label"`
	Name               string               `json:"name"`
	Email              string               `json:"email"`
	Details            *string              `json:"details,omitempty"`
	Budget             *string              `json:"budget,omitempty"`
	Timeline           *string              `json:"timeline,omitempty"`
	AttachmentName     *string              `json:"attachment_name,omitempty"`
	AttachmentURL      *string              `json:"attachment_url,omitempty"`
	Status             models.RequestStatus `json:"status"`
	ApprovedPrice      *float64             `json:"approved_price,omitempty"`
	ConvertedProjectID *string              `json:"converted_project_id,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
}

func RequestToDTO(r *models.CustomRequest) RequestResponse {
	return RequestResponse{
		ID:                 r.ID,
		UserID:             r.UserID,
		Category:           r.Category,
		CategoryLabel:      models.CategoryLabel(r.Category),
		Name:               r.Name,
		Email:              r.Email,
		Details:            r.Details,
		Budget:             r.Budget,
		Timeline:           r.Timeline,
		AttachmentName:     r.AttachmentName,
		Status:             r.Status,
		ApprovedPrice:      r.ApprovedPrice,
		ConvertedProjectID: r.ConvertedProjectID,
		CreatedAt:          r.CreatedAt,
	}
}

// RequestStatsResponse - счетчики заявок по статусам (админ-дашборд)
type RequestStatsResponse struct {
	Counts map[models.RequestStatus]int64 `json:"counts"`
	Total  int64                          `json:"total"`
}
