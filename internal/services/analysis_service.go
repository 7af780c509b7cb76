package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/irfndi/paragon-ai-go/internal/analytics"
	"github.com/irfndi/paragon-ai-go/internal/database"
	"github.com/irfndi/paragon-ai-go/internal/marketdata"
	"github.com/irfndi/paragon-ai-go/internal/metrics"
	"github.com/irfndi/paragon-ai-go/internal/models"
	"github.com/irfndi/paragon-ai-go/internal/reasoning"
	"github.com/irfndi/paragon-ai-go/internal/telemetry"
	"github.com/irfndi/paragon-ai-go/internal/utils"
)

const (
	minBarLimit = 30
	maxBarLimit = 1000
)

var (
	// ErrInsufficientCredits is returned when the wallet cannot pay for an analysis.
	ErrInsufficientCredits = database.ErrInsufficientCredits
	// ErrMarketData wraps every failure to obtain bars or a ticker.
	ErrMarketData = errors.New("market data unavailable")
)

// CreditStore charges and refunds analysis credits.
type CreditStore interface {
	ConsumeCredit(ctx context.Context, wallet string, cost int) (int, error)
	RefundCredit(ctx context.Context, wallet string, cost int) error
}

// AnalyzeRequest identifies the market to analyse and the paying wallet.
type AnalyzeRequest struct {
	Symbol string
	Wallet string
}

// AnalysisConfig holds the knobs AnalysisService reads on every call.
type AnalysisConfig struct {
	Interval       string
	Limit          int
	Params         analytics.Params
	CreditsEnabled bool
	CreditCost     int
}

// AnalysisService fetches market data, computes indicators and produces a
// verdict, preferring the reasoning service and falling back to the
// rule-based classifier.
type AnalysisService struct {
	provider marketdata.Provider
	reasoner reasoning.Client
	breaker  *CircuitBreaker
	credits  CreditStore
	metrics  *metrics.Metrics
	tracer   *telemetry.BusinessTracer
	logger   *logrus.Logger
	config   AnalysisConfig
	now      func() time.Time
}

// NewAnalysisService creates the service. reasoner and breaker may be nil,
// in which case every verdict comes from the classifier. credits may be nil
// when credits are disabled.
func NewAnalysisService(
	provider marketdata.Provider,
	reasoner reasoning.Client,
	breaker *CircuitBreaker,
	credits CreditStore,
	m *metrics.Metrics,
	tracer *telemetry.BusinessTracer,
	logger *logrus.Logger,
	config AnalysisConfig,
) *AnalysisService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if tracer == nil {
		tracer = telemetry.NewBusinessTracer(nil)
	}
	if m == nil {
		m = metrics.NewMetrics()
	}
	if config.Interval == "" {
		config.Interval = "15m"
	}
	if config.Limit <= 0 {
		config.Limit = 200
	}
	if config.CreditCost <= 0 {
		config.CreditCost = 1
	}

	return &AnalysisService{
		provider: provider,
		reasoner: reasoner,
		breaker:  breaker,
		credits:  credits,
		metrics:  m,
		tracer:   tracer,
		logger:   logger,
		config:   config,
		now:      time.Now,
	}
}

// Analyze runs one paid analysis. The credit is refunded if anything after
// the charge fails.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalyzeRequest) (result *models.AnalysisResult, err error) {
	if err := utils.ValidateMarket(req.Symbol); err != nil {
		return nil, err
	}
	if err := utils.ValidateWalletAddress(req.Wallet); err != nil {
		return nil, err
	}

	symbol := marketdata.NormalizeSymbol(req.Symbol)
	wallet := database.NormalizeWallet(req.Wallet)

	ctx, span := s.tracer.TraceAnalysis(ctx, symbol, wallet)
	defer span.End()

	if s.chargesCredits() {
		if _, err := s.credits.ConsumeCredit(ctx, wallet, s.config.CreditCost); err != nil {
			telemetry.RecordError(span, err, "credit charge failed")
			if errors.Is(err, ErrInsufficientCredits) {
				return nil, ErrInsufficientCredits
			}
			return nil, fmt.Errorf("failed to consume credit: %w", err)
		}
		defer func() {
			if err != nil {
				s.refund(ctx, wallet)
			}
		}()
	}

	snapshot, bars, err := s.fetch(ctx, symbol, s.config.Interval, s.config.Limit)
	if err != nil {
		telemetry.RecordError(span, err, "market data fetch failed")
		return nil, err
	}

	indicators := s.compute(ctx, symbol, bars)
	verdict := s.verdict(ctx, symbol, indicators, snapshot)
	s.tracer.RecordVerdict(span, verdict)
	s.metrics.RecordAnalysis(string(verdict.Source), string(verdict.Tendency))

	s.logger.WithFields(logrus.Fields{
		"symbol":   symbol,
		"tendency": verdict.Tendency,
		"risk":     verdict.Risk,
		"source":   verdict.Source,
	}).Info("Analysis completed")

	return &models.AnalysisResult{
		ID:                 uuid.NewString(),
		Symbol:             symbol,
		Verdict:            verdict,
		Indicators:         analytics.Summarize(indicators, snapshot),
		DetailedIndicators: indicators,
		MarketData:         snapshot,
		Timestamp:          s.now().UTC(),
	}, nil
}

// Indicators computes the indicator set for a symbol without charging credits.
// Empty interval and zero limit fall back to the configured defaults.
func (s *AnalysisService) Indicators(ctx context.Context, symbol, interval string, limit int) (*models.IndicatorReport, error) {
	if err := utils.ValidateMarket(symbol); err != nil {
		return nil, err
	}
	if interval == "" {
		interval = s.config.Interval
	}
	if !marketdata.ValidInterval(interval) {
		return nil, utils.NewFieldError("interval", fmt.Sprintf("%q is not a supported interval", interval))
	}
	if limit == 0 {
		limit = s.config.Limit
	}
	if limit < minBarLimit || limit > maxBarLimit {
		return nil, utils.NewFieldError("limit", fmt.Sprintf("must be between %d and %d", minBarLimit, maxBarLimit))
	}

	symbol = marketdata.NormalizeSymbol(symbol)
	snapshot, bars, err := s.fetch(ctx, symbol, interval, limit)
	if err != nil {
		return nil, err
	}

	return &models.IndicatorReport{
		Symbol:     symbol,
		Interval:   interval,
		Bars:       len(bars),
		Indicators: s.compute(ctx, symbol, bars),
		MarketData: snapshot,
		Timestamp:  s.now().UTC(),
	}, nil
}

func (s *AnalysisService) chargesCredits() bool {
	return s.config.CreditsEnabled && s.credits != nil
}

func (s *AnalysisService) refund(ctx context.Context, wallet string) {
	refundCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.credits.RefundCredit(refundCtx, wallet, s.config.CreditCost); err != nil {
		s.logger.WithError(err).WithField("wallet_address", wallet).Error("Failed to refund analysis credit")
		return
	}
	s.logger.WithField("wallet_address", wallet).Info("Refunded analysis credit")
}

// fetch loads the ticker and the bars concurrently.
func (s *AnalysisService) fetch(ctx context.Context, symbol, interval string, limit int) (models.MarketSnapshot, []models.PriceBar, error) {
	ctx, span := s.tracer.TraceMarketDataFetch(ctx, s.provider.Name(), symbol, interval, limit)
	defer span.End()

	var (
		snapshot models.MarketSnapshot
		bars     []models.PriceBar
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshot, err = s.provider.Snapshot(gctx, symbol)
		if err != nil {
			s.metrics.RecordMarketDataError("snapshot")
		}
		return err
	})
	g.Go(func() error {
		var err error
		bars, err = s.provider.Bars(gctx, symbol, interval, limit)
		if err != nil {
			s.metrics.RecordMarketDataError("bars")
		}
		return err
	})

	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err, "market data fetch failed")
		if errors.Is(err, marketdata.ErrSymbolNotFound) {
			return models.MarketSnapshot{}, nil, err
		}
		return models.MarketSnapshot{}, nil, fmt.Errorf("%w: %w", ErrMarketData, err)
	}
	if len(bars) == 0 {
		return models.MarketSnapshot{}, nil, fmt.Errorf("%w: no bars returned for %s", ErrMarketData, symbol)
	}
	return snapshot, bars, nil
}

func (s *AnalysisService) compute(ctx context.Context, symbol string, bars []models.PriceBar) models.IndicatorSet {
	_, span := s.tracer.TraceIndicatorComputation(ctx, symbol, len(bars))
	defer span.End()

	start := time.Now()
	indicators := analytics.ComputeIndicators(bars, s.config.Params)
	s.metrics.ObserveIndicatorCompute(time.Since(start))

	s.tracer.RecordIndicators(span, indicators)
	return indicators
}

// verdict asks the reasoning service and falls back to the classifier on
// any error, an open breaker or an invalid reply.
func (s *AnalysisService) verdict(ctx context.Context, symbol string, ind models.IndicatorSet, market models.MarketSnapshot) models.Verdict {
	if s.reasoner == nil {
		return models.NewEngineVerdict(analytics.Classify(ind, market))
	}

	ctx, span := s.tracer.TraceReasoning(ctx, symbol)
	defer span.End()

	var reply models.AnalysisVerdict
	call := func(ctx context.Context) error {
		var err error
		reply, err = s.reasoner.Analyze(ctx, ind, market, symbol)
		return err
	}

	var err error
	if s.breaker != nil {
		err = s.breaker.Execute(ctx, call)
	} else {
		err = call(ctx)
	}

	var verdict models.Verdict
	if err == nil {
		verdict, err = models.NewReasoningVerdict(reply)
		if err != nil {
			err = fmt.Errorf("%w: %v", reasoning.ErrInvalidVerdict, err)
		}
	}
	if err == nil {
		return verdict
	}

	reason := fallbackReason(err)
	telemetry.RecordError(span, err, "reasoning fallback: "+reason)
	s.metrics.RecordReasoningFallback(reason)
	s.logger.WithError(err).WithFields(logrus.Fields{
		"symbol": symbol,
		"reason": reason,
	}).Warn("Reasoning service unavailable, using rule-based classifier")

	return models.NewEngineVerdict(analytics.Classify(ind, market))
}

func fallbackReason(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, reasoning.ErrInvalidVerdict):
		return "invalid_verdict"
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "error"
	}
}
