package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/irfndi/paragon-ai-go/internal/marketdata"
	"github.com/irfndi/paragon-ai-go/internal/metrics"
)

// WarmReport summarises one warming run.
type WarmReport struct {
	Warmed   int
	Failed   int
	Duration time.Duration
}

// CacheWarmer periodically pre-fetches market data for popular symbols so
// the first analysis of a cache window does not pay the upstream latency.
type CacheWarmer struct {
	cron     *cron.Cron
	provider marketdata.Provider
	symbols  []string
	interval string
	limit    int
	schedule string
	timeout  time.Duration
	metrics  *metrics.Metrics
	logger   *logrus.Logger

	mu      sync.Mutex
	running bool
}

// CacheWarmerConfig configures CacheWarmer.
type CacheWarmerConfig struct {
	Symbols  []string
	Interval string
	Limit    int
	Schedule string
	Timeout  time.Duration
}

// NewCacheWarmer creates a warmer that fetches through provider, which
// should be the cached provider used by AnalysisService.
func NewCacheWarmer(provider marketdata.Provider, config CacheWarmerConfig, m *metrics.Metrics, logger *logrus.Logger) *CacheWarmer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if config.Schedule == "" {
		config.Schedule = "@every 1m"
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}

	return &CacheWarmer{
		cron:     cron.New(),
		provider: provider,
		symbols:  config.Symbols,
		interval: config.Interval,
		limit:    config.Limit,
		schedule: config.Schedule,
		timeout:  config.Timeout,
		metrics:  m,
		logger:   logger,
	}
}

// Start registers the warming job and starts the scheduler. The job stops
// doing work once ctx is cancelled.
func (w *CacheWarmer) Start(ctx context.Context) error {
	if len(w.symbols) == 0 {
		w.logger.Info("No warm symbols configured, cache warmer disabled")
		return nil
	}
	if _, err := w.cron.AddFunc(w.schedule, func() {
		if ctx.Err() != nil {
			return
		}
		w.WarmOnce(ctx)
	}); err != nil {
		return fmt.Errorf("register cache warming job %q: %w", w.schedule, err)
	}

	w.cron.Start()
	w.logger.WithFields(logrus.Fields{
		"schedule": w.schedule,
		"symbols":  w.symbols,
	}).Info("Cache warmer started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (w *CacheWarmer) Stop() {
	<-w.cron.Stop().Done()
	w.logger.Info("Cache warmer stopped")
}

// WarmOnce fetches snapshot and bars for every symbol. A failing symbol is
// logged and skipped. Overlapping runs are dropped.
func (w *CacheWarmer) WarmOnce(ctx context.Context) WarmReport {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		w.logger.Debug("Cache warming already in progress, skipping run")
		return WarmReport{}
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	start := time.Now()
	var report WarmReport
	for _, symbol := range w.symbols {
		if ctx.Err() != nil {
			break
		}
		if err := w.warmSymbol(ctx, symbol); err != nil {
			report.Failed++
			w.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to warm market data cache")
			continue
		}
		report.Warmed++
	}
	report.Duration = time.Since(start)

	if w.metrics != nil {
		w.metrics.ObserveCacheWarm(report.Duration)
	}
	w.logger.WithFields(logrus.Fields{
		"warmed":      report.Warmed,
		"failed":      report.Failed,
		"duration_ms": report.Duration.Milliseconds(),
	}).Debug("Cache warming run finished")
	return report
}

func (w *CacheWarmer) warmSymbol(ctx context.Context, symbol string) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if _, err := w.provider.Snapshot(ctx, symbol); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if _, err := w.provider.Bars(ctx, symbol, w.interval, w.limit); err != nil {
		return fmt.Errorf("bars: %w", err)
	}
	return nil
}
