package dto

import (
	"time"

	"devcraft_backend/internal/models"
)

// SendMessageRequest - новое сообщение в тред. Ровно одно из
// project_id/request_id обязано быть заполнено.
type SendMessageRequest struct {
	ProjectID *string `json:"project_id"`
	RequestID *string `json:"request_id"`
	Text      string  `json:"text" binding:"required"`
}

// ThreadQuery - адресация треда в query-параметрах
type ThreadQuery struct {
	ProjectID *string `form:"project_id"`
	RequestID *string `form:"request_id"`
}

// MessageResponse - сообщение в ответе API
type MessageResponse struct {
	ID         string            `json:"id"`
	ProjectID  *string           `json:"project_id,omitempty"`
	RequestID  *string           `json:"request_id,omitempty"`
	SenderID   string            `json:"sender_id"`
	SenderType models.SenderType `json:"sender_type"`
	Text       string            `json:"text"`
	Read       bool              `json:"read"`
	CreatedAt  time.Time         `json:"created_at"`
}

func MessageToDTO(m *models.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		ProjectID:  m.ProjectID,
		RequestID:  m.RequestID,
		SenderID:   m.SenderID,
		SenderType: m.SenderType,
		Text:       m.Text,
		Read:       m.Read,
		CreatedAt:  m.CreatedAt,
	}
}

// ThreadResponse - тред целиком плюс счетчик непрочитанного
type ThreadResponse struct {
	Messages []MessageResponse `json:"messages"`
	Unread   int64             `json:"unread"`
}
