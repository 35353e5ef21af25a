package payment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimulatedProvider_Charge(t *testing.T) {
	provider := NewSimulatedProvider(0)

	result, err := provider.Charge(context.Background(), ChargeRequest{
		UserID:    "user-1",
		Amount:    1500,
		Currency:  "USD",
		Reference: "request:abc",
	})

	assert.NoError(t, err)
	assert.True(t, result.Succeeded)
	assert.True(t, strings.HasPrefix(result.ProviderTxID, "sim_"))
}

func TestSimulatedProvider_ContextCancelled(t *testing.T) {
	provider := NewSimulatedProvider(5000)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	result, err := provider.Charge(ctx, ChargeRequest{UserID: "user-1", Amount: 100, Currency: "USD"})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSimulatedProvider_UniqueTxIDs(t *testing.T) {
	provider := NewSimulatedProvider(0)

	first, err := provider.Charge(context.Background(), ChargeRequest{UserID: "u", Amount: 1, Currency: "USD"})
	assert.NoError(t, err)
	second, err := provider.Charge(context.Background(), ChargeRequest{UserID: "u", Amount: 1, Currency: "USD"})
	assert.NoError(t, err)

	assert.NotEqual(t, first.ProviderTxID, second.ProviderTxID)
}
