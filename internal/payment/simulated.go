package payment

import (
	"context"
	"time"

	"devcraft_backend/internal/logger"

	"github.com/google/uuid"
)

// SimulatedProvider имитирует платежный шлюз: задержка и успешный ответ.
// Задержка настраивается через config (payment.delay_ms), в тестах ставится 0.
type SimulatedProvider struct {
	delay time.Duration
}

func NewSimulatedProvider(delayMS int) *SimulatedProvider {
	return &SimulatedProvider{delay: time.Duration(delayMS) * time.Millisecond}
}

func (p *SimulatedProvider) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	result := &ChargeResult{
		ProviderTxID: "sim_" + uuid.NewString(),
		Succeeded:    true,
	}

	logger.Debug("Симулированный платеж обработан",
		"user_id", req.UserID,
		"amount", req.Amount,
		"currency", req.Currency,
		"reference", req.Reference,
		"provider_tx_id", result.ProviderTxID,
	)

	return result, nil
}
