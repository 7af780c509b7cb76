package analytics

import "github.com/irfndi/paragon-ai-go/internal/models"

const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// MACD computes the MACD line, signal and histogram. The fast and slow
// series are built by running EMA over every growing prefix of closes and
// aligned by slow-fast. Fewer than slow+signalPeriod closes yields zeros.
func MACD(closes []float64, fast, slow, signalPeriod int) models.MACDValue {
	if !validMACDInput(closes, fast, slow, signalPeriod) {
		return models.MACDValue{}
	}

	fastSeries := make([]float64, 0, len(closes)-fast+1)
	for i := fast; i <= len(closes); i++ {
		fastSeries = append(fastSeries, EMA(closes[:i], fast))
	}
	slowSeries := make([]float64, 0, len(closes)-slow+1)
	for i := slow; i <= len(closes); i++ {
		slowSeries = append(slowSeries, EMA(closes[:i], slow))
	}

	return finishMACD(alignMACD(fastSeries, slowSeries, slow-fast), signalPeriod)
}

// MACDIncremental returns the same result as MACD in O(n) by advancing one
// running EMA per series instead of recomputing every prefix.
func MACDIncremental(closes []float64, fast, slow, signalPeriod int) models.MACDValue {
	if !validMACDInput(closes, fast, slow, signalPeriod) {
		return models.MACDValue{}
	}

	fastEMA := newEMAState(fast)
	slowEMA := newEMAState(slow)
	fastSeries := make([]float64, 0, len(closes)-fast+1)
	slowSeries := make([]float64, 0, len(closes)-slow+1)
	for _, c := range closes {
		if v, ok := fastEMA.update(c); ok {
			fastSeries = append(fastSeries, round2(v))
		}
		if v, ok := slowEMA.update(c); ok {
			slowSeries = append(slowSeries, round2(v))
		}
	}

	return finishMACD(alignMACD(fastSeries, slowSeries, slow-fast), signalPeriod)
}

func validMACDInput(closes []float64, fast, slow, signalPeriod int) bool {
	if fast <= 0 || slow <= 0 || signalPeriod <= 0 {
		return false
	}
	return len(closes) >= slow+signalPeriod && len(closes) >= fast
}

func alignMACD(fastSeries, slowSeries []float64, offset int) []float64 {
	out := make([]float64, 0, len(slowSeries))
	for i, slowValue := range slowSeries {
		fi := offset + i
		if fi < 0 || fi >= len(fastSeries) {
			continue
		}
		out = append(out, fastSeries[fi]-slowValue)
	}
	return out
}

func finishMACD(series []float64, signalPeriod int) models.MACDValue {
	var value float64
	if len(series) > 0 {
		value = series[len(series)-1]
	}

	var signal float64
	switch {
	case len(series) >= signalPeriod:
		signal = EMA(series, signalPeriod)
	case len(series) > 0:
		signal = mean(series)
	default:
		signal = value
	}

	return models.MACDValue{
		Value:     round2(value),
		Signal:    round2(signal),
		Histogram: round2(value - signal),
	}
}
