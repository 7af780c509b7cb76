package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ValidationError represents an error occurring during request validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message string.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NewValidationError creates a new ValidationError with a specific message.
func NewValidationError(message string) error {
	return &ValidationError{
		Message: message,
	}
}

// NewValidationErrorf creates a new ValidationError with a formatted message.
func NewValidationErrorf(format string, args ...interface{}) error {
	return &ValidationError{
		Message: fmt.Sprintf(format, args...),
	}
}

// NewFieldError creates a ValidationError bound to a request field.
func NewFieldError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

var (
	marketPattern = regexp.MustCompile(`^[A-Za-z0-9]{2,12}([/_-]?[A-Za-z0-9]{2,12})?$`)
	walletPattern = regexp.MustCompile(`^[A-Za-z0-9]{16,128}$`)
)

// ValidateMarket checks a trading pair such as BTCUSDT or BTC/USDT.
func ValidateMarket(market string) error {
	market = strings.TrimSpace(market)
	if market == "" {
		return NewFieldError("market", "is required")
	}
	if !marketPattern.MatchString(market) {
		return NewFieldError("market", fmt.Sprintf("%q is not a valid trading pair", market))
	}
	return nil
}

// ValidateWalletAddress accepts hex (0x...) and base58 style addresses.
func ValidateWalletAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return NewFieldError("wallet_address", "is required")
	}
	if !walletPattern.MatchString(address) {
		return NewFieldError("wallet_address", "is not a valid wallet address")
	}
	return nil
}
