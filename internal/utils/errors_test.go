package utils

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Message: "test error message",
	}

	assert.Equal(t, "test error message", err.Error())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("validation failed")

	assert.Error(t, err)
	assert.Equal(t, "validation failed", err.Error())

	validationErr, ok := err.(*ValidationError)
	assert.True(t, ok)
	assert.Equal(t, "validation failed", validationErr.Message)
}

func TestNewValidationErrorf(t *testing.T) {
	err := NewValidationErrorf("limit must be between %d and %d", 30, 1000)

	assert.Equal(t, "limit must be between 30 and 1000", err.Error())
}

func TestNewFieldError(t *testing.T) {
	err := NewFieldError("market", "is required")

	assert.Equal(t, "market: is required", err.Error())
	assert.True(t, IsValidationError(err))
	assert.True(t, IsValidationError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsValidationError(fmt.Errorf("plain")))
}

func TestValidateMarket(t *testing.T) {
	for _, market := range []string{"BTCUSDT", "BTC/USDT", "eth-usdt", "SOL_USDC"} {
		assert.NoError(t, ValidateMarket(market), market)
	}
	for _, market := range []string{"", "  ", "B", "BTC USDT", "BTC/USDT/EUR", "'; DROP TABLE"} {
		assert.Error(t, ValidateMarket(market), market)
	}
}

func TestValidateWalletAddress(t *testing.T) {
	assert.NoError(t, ValidateWalletAddress("0x52908400098527886E0F7030069857D2E4169EE7"))
	assert.NoError(t, ValidateWalletAddress("7EcDhSYGxXyscszYEp35KHN8vvw3svAuLKTzXwCFLtV"))
	assert.Error(t, ValidateWalletAddress(""))
	assert.Error(t, ValidateWalletAddress("0x123"))
	assert.Error(t, ValidateWalletAddress("0x5290 8400098527886E0F7030069857D2E4169EE7"))
}
