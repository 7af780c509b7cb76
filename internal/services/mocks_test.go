package services

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/irfndi/paragon-ai-go/internal/models"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Snapshot(ctx context.Context, symbol string) (models.MarketSnapshot, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(models.MarketSnapshot), args.Error(1)
}

func (m *MockProvider) Bars(ctx context.Context, symbol, interval string, limit int) ([]models.PriceBar, error) {
	args := m.Called(ctx, symbol, interval, limit)
	bars, _ := args.Get(0).([]models.PriceBar)
	return bars, args.Error(1)
}

type MockReasoner struct {
	mock.Mock
}

func (m *MockReasoner) Analyze(ctx context.Context, ind models.IndicatorSet, market models.MarketSnapshot, symbol string) (models.AnalysisVerdict, error) {
	args := m.Called(ctx, ind, market, symbol)
	return args.Get(0).(models.AnalysisVerdict), args.Error(1)
}

type MockCreditStore struct {
	mock.Mock
}

func (m *MockCreditStore) ConsumeCredit(ctx context.Context, wallet string, cost int) (int, error) {
	args := m.Called(ctx, wallet, cost)
	return args.Int(0), args.Error(1)
}

func (m *MockCreditStore) RefundCredit(ctx context.Context, wallet string, cost int) error {
	args := m.Called(ctx, wallet, cost)
	return args.Error(0)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// testBars builds n chronological 15m bars oscillating around an uptrend.
func testBars(n int) []models.PriceBar {
	bars := make([]models.PriceBar, n)
	for i := range bars {
		c := 100 + float64(i)*0.5 + 3*math.Sin(float64(i)/3)
		bars[i] = models.PriceBar{
			Timestamp: int64(i) * 900000,
			Open:      c - 0.2,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000 + float64(i%7)*100,
		}
	}
	return bars
}
