package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	first := NewMetrics()
	second := NewMetrics()

	first.RecordRateLimited()

	assert.Equal(t, 1.0, testutil.ToFloat64(first.RateLimitedTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.RateLimitedTotal))
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.RecordAnalysis("engine", "Bullish")
	m.RecordAnalysis("engine", "Bullish")
	m.RecordAnalysis("reasoning_service", "Bearish")
	m.RecordReasoningFallback("invalid_verdict")
	m.RecordMarketDataError("bars")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("engine", "Bullish")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("reasoning_service", "Bearish")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReasoningFallbacks.WithLabelValues("invalid_verdict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MarketDataErrors.WithLabelValues("bars")))
}

func TestMetrics_Histograms(t *testing.T) {
	m := NewMetrics()

	m.ObserveIndicatorCompute(2 * time.Millisecond)
	m.ObserveCacheWarm(time.Second)

	assert.Equal(t, 1, testutil.CollectAndCount(m.IndicatorComputeDur))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CacheWarmDur))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.RecordAnalysis("engine", "Neutral")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `paragon_analyses_total{source="engine",tendency="Neutral"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
