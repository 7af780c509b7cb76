package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/irfndi/paragon-ai-go/internal/models"
)

// ErrInsufficientCredits is returned when a wallet cannot pay for an analysis.
var ErrInsufficientCredits = errors.New("insufficient analysis credits")

const createCreditsTable = `
	CREATE TABLE IF NOT EXISTS analysis_credits (
		wallet_address TEXT PRIMARY KEY,
		credits INTEGER NOT NULL DEFAULT 0 CHECK (credits >= 0),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// CreditRepository handles the per-wallet analysis credit ledger.
type CreditRepository struct {
	pool DatabasePool
}

func NewCreditRepository(pool DatabasePool) *CreditRepository {
	return &CreditRepository{pool: pool}
}

// EnsureSchema creates the ledger table when missing.
func (r *CreditRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createCreditsTable); err != nil {
		return fmt.Errorf("failed to create analysis_credits table: %w", err)
	}
	return nil
}

// GetCredits returns the balance for wallet. Unknown wallets have zero credits.
func (r *CreditRepository) GetCredits(ctx context.Context, wallet string) (*models.UserCredits, error) {
	wallet = NormalizeWallet(wallet)
	query := `SELECT wallet_address, credits, updated_at FROM analysis_credits WHERE wallet_address = $1`

	var credits models.UserCredits
	err := r.pool.QueryRow(ctx, query, wallet).Scan(&credits.WalletAddress, &credits.Credits, &credits.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &models.UserCredits{WalletAddress: wallet}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credits: %w", err)
	}
	return &credits, nil
}

// AddCredits tops up wallet by amount, creating the row on first use.
func (r *CreditRepository) AddCredits(ctx context.Context, wallet string, amount int) (*models.UserCredits, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive, got %d", amount)
	}
	wallet = NormalizeWallet(wallet)
	query := `
		INSERT INTO analysis_credits (wallet_address, credits, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (wallet_address)
		DO UPDATE SET credits = analysis_credits.credits + EXCLUDED.credits, updated_at = NOW()
		RETURNING wallet_address, credits, updated_at
	`

	var credits models.UserCredits
	err := r.pool.QueryRow(ctx, query, wallet, amount).Scan(&credits.WalletAddress, &credits.Credits, &credits.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add credits: %w", err)
	}
	return &credits, nil
}

// ConsumeCredit atomically deducts cost and returns the remaining balance.
// The balance never goes below zero.
func (r *CreditRepository) ConsumeCredit(ctx context.Context, wallet string, cost int) (int, error) {
	wallet = NormalizeWallet(wallet)
	query := `
		UPDATE analysis_credits
		SET credits = credits - $2, updated_at = NOW()
		WHERE wallet_address = $1 AND credits >= $2
		RETURNING credits
	`

	var remaining int
	err := r.pool.QueryRow(ctx, query, wallet, cost).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrInsufficientCredits
	}
	if err != nil {
		return 0, fmt.Errorf("failed to consume credit: %w", err)
	}
	return remaining, nil
}

// RefundCredit returns cost to a wallet after a failed analysis.
func (r *CreditRepository) RefundCredit(ctx context.Context, wallet string, cost int) error {
	wallet = NormalizeWallet(wallet)
	query := `
		UPDATE analysis_credits
		SET credits = credits + $2, updated_at = NOW()
		WHERE wallet_address = $1
	`

	tag, err := r.pool.Exec(ctx, query, wallet, cost)
	if err != nil {
		return fmt.Errorf("failed to refund credit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to refund credit: wallet %s not found", wallet)
	}
	return nil
}

// NormalizeWallet lowercases and trims a wallet address.
func NormalizeWallet(wallet string) string {
	return strings.ToLower(strings.TrimSpace(wallet))
}
