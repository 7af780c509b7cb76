package marketdata

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/irfndi/paragon-ai-go/internal/models"
)

// MockProvider is a testify mock of Provider
type MockProvider struct {
	mock.Mock
	name string
}

func (m *MockProvider) Name() string { return m.name }

func (m *MockProvider) Snapshot(ctx context.Context, symbol string) (models.MarketSnapshot, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(models.MarketSnapshot), args.Error(1)
}

func (m *MockProvider) Bars(ctx context.Context, symbol, interval string, limit int) ([]models.PriceBar, error) {
	args := m.Called(ctx, symbol, interval, limit)
	bars, _ := args.Get(0).([]models.PriceBar)
	return bars, args.Error(1)
}
