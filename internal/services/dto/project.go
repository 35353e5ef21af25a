package dto

import (
	"time"

	"devcraft_backend/internal/models"
	"devcraft_backend/internal/repositories"
)

// ProjectResponse - проект в ответе API
type ProjectResponse struct {
	ID                     string               `json:"id"`
	ClientID               string               `json:"client_id"`
	ServiceID              *string              `json:"service_id,omitempty"`
	Title                  string               `json:"title"`
	Description            string               `json:"description"`
	Amount                 float64              `json:"amount"`
	Status                 models.ProjectStatus `json:"status"`
	ConvertedFromRequestID *string              `json:"converted_from_request_id,omitempty"`
	CreatedAt              time.Time            `json:"created_at"`
	UpdatedAt              time.Time            `json:"updated_at"`
}

func ProjectToDTO(p *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:                     p.ID,
		ClientID:               p.ClientID,
		ServiceID:              p.ServiceID,
		Title:                  p.Title,
		Description:            p.Description,
		Amount:                 p.Amount,
		Status:                 p.Status,
		ConvertedFromRequestID: p.ConvertedFromRequestID,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}

// AdvanceProjectRequest - перенос карточки на следующую колонку
type AdvanceProjectRequest struct {
	Status models.ProjectStatus `json:"status" binding:"required" validate:"is-project-status"`
}

// BoardColumn - колонка канбана
type BoardColumn struct {
	Status   models.ProjectStatus `json:"status"`
	Projects []ProjectResponse    `json:"projects"`
}

// BoardResponse - доска целиком, колонки в порядке конвейера
type BoardResponse struct {
	Columns []BoardColumn `json:"columns"`
}

// FinanceResponse - сводка для админской страницы финансов
type FinanceResponse struct {
	Stats              repositories.FinanceStats `json:"stats"`
	RecentTransactions []TransactionResponse     `json:"recent_transactions"`
}
