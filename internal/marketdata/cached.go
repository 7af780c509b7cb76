package marketdata

import (
	"context"

	"github.com/irfndi/paragon-ai-go/internal/models"
)

// MarketCache is the storage used by CachedProvider.
type MarketCache interface {
	GetSnapshot(ctx context.Context, symbol string) (models.MarketSnapshot, bool)
	SetSnapshot(ctx context.Context, symbol string, snapshot models.MarketSnapshot)
	GetBars(ctx context.Context, symbol, interval string, limit int) ([]models.PriceBar, bool)
	SetBars(ctx context.Context, symbol, interval string, limit int, bars []models.PriceBar)
}

// CachedProvider serves from cache and fills it from next on a miss.
type CachedProvider struct {
	next  Provider
	cache MarketCache
}

func NewCachedProvider(next Provider, cache MarketCache) *CachedProvider {
	return &CachedProvider{next: next, cache: cache}
}

func (p *CachedProvider) Name() string { return "cached:" + p.next.Name() }

func (p *CachedProvider) Snapshot(ctx context.Context, symbol string) (models.MarketSnapshot, error) {
	symbol = NormalizeSymbol(symbol)
	if snapshot, ok := p.cache.GetSnapshot(ctx, symbol); ok {
		return snapshot, nil
	}
	snapshot, err := p.next.Snapshot(ctx, symbol)
	if err != nil {
		return models.MarketSnapshot{}, err
	}
	p.cache.SetSnapshot(ctx, symbol, snapshot)
	return snapshot, nil
}

func (p *CachedProvider) Bars(ctx context.Context, symbol, interval string, limit int) ([]models.PriceBar, error) {
	symbol = NormalizeSymbol(symbol)
	if bars, ok := p.cache.GetBars(ctx, symbol, interval, limit); ok {
		return bars, nil
	}
	bars, err := p.next.Bars(ctx, symbol, interval, limit)
	if err != nil {
		return nil, err
	}
	p.cache.SetBars(ctx, symbol, interval, limit, bars)
	return bars, nil
}
