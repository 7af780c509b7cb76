package models

import "time"

// UserCredits represents the analysis credit balance of a wallet
type UserCredits struct {
	WalletAddress string    `json:"wallet_address" db:"wallet_address"`
	Credits       int       `json:"credits" db:"credits"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// RateLimitStatus represents the remaining quota of a rate-limited key
type RateLimitStatus struct {
	Key       string    `json:"key"`
	Allowed   bool      `json:"allowed"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}
