package marketdata

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/irfndi/paragon-ai-go/internal/models"
)

// FallbackProvider asks primary first and secondary when primary fails.
type FallbackProvider struct {
	primary   Provider
	secondary Provider
	logger    *logrus.Logger
}

func NewFallbackProvider(primary, secondary Provider, logger *logrus.Logger) *FallbackProvider {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FallbackProvider{primary: primary, secondary: secondary, logger: logger}
}

func (p *FallbackProvider) Name() string {
	return p.primary.Name() + "+" + p.secondary.Name()
}

func (p *FallbackProvider) Snapshot(ctx context.Context, symbol string) (models.MarketSnapshot, error) {
	snapshot, err := p.primary.Snapshot(ctx, symbol)
	if err == nil || !p.shouldFailover(ctx, "snapshot", symbol, err) {
		return snapshot, err
	}
	snapshot, secondaryErr := p.secondary.Snapshot(ctx, symbol)
	if secondaryErr != nil {
		return models.MarketSnapshot{}, joinProviderErrors(err, secondaryErr)
	}
	return snapshot, nil
}

func (p *FallbackProvider) Bars(ctx context.Context, symbol, interval string, limit int) ([]models.PriceBar, error) {
	bars, err := p.primary.Bars(ctx, symbol, interval, limit)
	if err == nil || !p.shouldFailover(ctx, "bars", symbol, err) {
		return bars, err
	}
	bars, secondaryErr := p.secondary.Bars(ctx, symbol, interval, limit)
	if secondaryErr != nil {
		return nil, joinProviderErrors(err, secondaryErr)
	}
	return bars, nil
}

func (p *FallbackProvider) shouldFailover(ctx context.Context, op, symbol string, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	p.logger.WithError(err).WithFields(logrus.Fields{
		"operation": op,
		"symbol":    symbol,
		"primary":   p.primary.Name(),
		"secondary": p.secondary.Name(),
	}).Warn("Primary market data provider failed, falling back")
	return true
}

// joinProviderErrors keeps ErrSymbolNotFound matchable only when both sides agree.
func joinProviderErrors(primaryErr, secondaryErr error) error {
	if errors.Is(primaryErr, ErrSymbolNotFound) && errors.Is(secondaryErr, ErrSymbolNotFound) {
		return fmt.Errorf("all providers: %w", secondaryErr)
	}
	return fmt.Errorf("all providers failed: primary: %v; secondary: %v", primaryErr, secondaryErr)
}
