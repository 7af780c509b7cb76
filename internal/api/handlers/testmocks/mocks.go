// Package testmocks holds testify mocks for the handler dependencies.
package testmocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/irfndi/paragon-ai-go/internal/models"
	"github.com/irfndi/paragon-ai-go/internal/ratelimit"
	"github.com/irfndi/paragon-ai-go/internal/services"
)

// MockAnalyzer implements handlers.Analyzer for testing
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, req services.AnalyzeRequest) (*models.AnalysisResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*models.AnalysisResult)
	return result, args.Error(1)
}

func (m *MockAnalyzer) Indicators(ctx context.Context, symbol, interval string, limit int) (*models.IndicatorReport, error) {
	args := m.Called(ctx, symbol, interval, limit)
	report, _ := args.Get(0).(*models.IndicatorReport)
	return report, args.Error(1)
}

// MockLimiter implements ratelimit.Limiter for testing
type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(ctx context.Context, key string) (ratelimit.Result, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(ratelimit.Result), args.Error(1)
}

func (m *MockLimiter) Status(ctx context.Context, key string) (ratelimit.Result, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(ratelimit.Result), args.Error(1)
}

// MockCreditLedger implements handlers.CreditLedger for testing
type MockCreditLedger struct {
	mock.Mock
}

func (m *MockCreditLedger) GetCredits(ctx context.Context, wallet string) (*models.UserCredits, error) {
	args := m.Called(ctx, wallet)
	credits, _ := args.Get(0).(*models.UserCredits)
	return credits, args.Error(1)
}

func (m *MockCreditLedger) AddCredits(ctx context.Context, wallet string, amount int) (*models.UserCredits, error) {
	args := m.Called(ctx, wallet, amount)
	credits, _ := args.Get(0).(*models.UserCredits)
	return credits, args.Error(1)
}

// MockHealthChecker implements handlers.HealthChecker for testing
type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
