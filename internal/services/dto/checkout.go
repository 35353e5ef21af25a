package dto

import (
	"time"

	"devcraft_backend/internal/models"
)

// CheckoutRequest - запрос оплаты. Kind явно выбирает ветку union:
// catalog требует service_id, custom_request требует request_id.
type CheckoutRequest struct {
	Kind      models.PurchaseKind `json:"kind" binding:"required" validate:"is-purchase-kind"`
	ServiceID *string             `json:"service_id"`
	RequestID *string             `json:"request_id"`
}

// CheckoutResponse - результат успешного чекаута
type CheckoutResponse struct {
	Project     ProjectResponse     `json:"project"`
	Transaction TransactionResponse `json:"transaction"`
}

// TransactionResponse - запись журнала платежей в ответе API
type TransactionResponse struct {
	ID        string               `json:"id"`
	Amount    float64              `json:"amount"`
	Currency  string               `json:"currency"`
	Kind      models.PurchaseKind  `json:"kind"`
	Reference string               `json:"reference"`
	Status    models.PaymentStatus `json:"status"`
	PaidAt    *time.Time           `json:"paid_at,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

func TransactionToDTO(t *models.PaymentTransaction) TransactionResponse {
	return TransactionResponse{
		ID:        t.ID,
		Amount:    t.Amount,
		Currency:  t.Currency,
		Kind:      t.Kind,
		Reference: t.Reference,
		Status:    t.Status,
		PaidAt:    t.PaidAt,
		CreatedAt: t.CreatedAt,
	}
}
