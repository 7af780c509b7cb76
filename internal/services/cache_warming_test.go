package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/irfndi/paragon-ai-go/internal/metrics"
	"github.com/irfndi/paragon-ai-go/internal/models"
)

func TestCacheWarmer_WarmOnce(t *testing.T) {
	provider := &MockProvider{}
	provider.On("Snapshot", mock.Anything, "BTCUSDT").Return(models.MarketSnapshot{Symbol: "BTCUSDT"}, nil)
	provider.On("Bars", mock.Anything, "BTCUSDT", "15m", 200).Return(testBars(5), nil)
	provider.On("Snapshot", mock.Anything, "DOGEUSDT").Return(models.MarketSnapshot{}, errors.New("timeout"))
	provider.On("Snapshot", mock.Anything, "ETHUSDT").Return(models.MarketSnapshot{Symbol: "ETHUSDT"}, nil)
	provider.On("Bars", mock.Anything, "ETHUSDT", "15m", 200).Return(testBars(5), nil)

	warmer := NewCacheWarmer(provider, CacheWarmerConfig{
		Symbols:  []string{"BTCUSDT", "DOGEUSDT", "ETHUSDT"},
		Interval: "15m",
		Limit:    200,
	}, metrics.NewMetrics(), quietLogger())

	report := warmer.WarmOnce(context.Background())

	assert.Equal(t, 2, report.Warmed)
	assert.Equal(t, 1, report.Failed)
	provider.AssertNotCalled(t, "Bars", mock.Anything, "DOGEUSDT", mock.Anything, mock.Anything)
}

func TestCacheWarmer_StopsOnCancelledContext(t *testing.T) {
	provider := &MockProvider{}
	warmer := NewCacheWarmer(provider, CacheWarmerConfig{Symbols: []string{"BTCUSDT"}}, nil, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := warmer.WarmOnce(ctx)

	assert.Zero(t, report.Warmed)
	provider.AssertNotCalled(t, "Snapshot", mock.Anything, mock.Anything)
}

func TestCacheWarmer_Start(t *testing.T) {
	provider := &MockProvider{}
	done := make(chan struct{}, 1)
	provider.On("Snapshot", mock.Anything, "BTCUSDT").Return(models.MarketSnapshot{}, nil)
	provider.On("Bars", mock.Anything, "BTCUSDT", "1m", 50).Return(testBars(5), nil).Run(func(mock.Arguments) {
		select {
		case done <- struct{}{}:
		default:
		}
	})

	warmer := NewCacheWarmer(provider, CacheWarmerConfig{
		Symbols:  []string{"BTCUSDT"},
		Interval: "1m",
		Limit:    50,
		Schedule: "@every 1s",
	}, nil, quietLogger())

	require.NoError(t, warmer.Start(context.Background()))
	defer warmer.Stop()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("cache warmer did not run")
	}
}

func TestCacheWarmer_InvalidSchedule(t *testing.T) {
	warmer := NewCacheWarmer(&MockProvider{}, CacheWarmerConfig{
		Symbols:  []string{"BTCUSDT"},
		Schedule: "every minute",
	}, nil, quietLogger())

	assert.Error(t, warmer.Start(context.Background()))
}

func TestCacheWarmer_NoSymbols(t *testing.T) {
	warmer := NewCacheWarmer(&MockProvider{}, CacheWarmerConfig{}, nil, quietLogger())

	assert.NoError(t, warmer.Start(context.Background()))
	warmer.Stop()
}
