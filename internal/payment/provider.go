package payment

import "context"

// ChargeRequest - запрос на списание средств
type ChargeRequest struct {
	UserID   string
	Amount   float64
	Currency string
	// Reference - id оплачиваемой сущности (услуга каталога или заявка)
	Reference string
}

// ChargeResult - результат обработки платежа провайдером
type ChargeResult struct {
	ProviderTxID string
	Succeeded    bool
}

// Provider определяет интерфейс платежного провайдера.
// Реальной интеграции нет: боевая реализация симулирует обработку
// с настраиваемой задержкой.
type Provider interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
