// Package analytics implements the technical-indicator and liquidation-zone
// engine. Every function here is pure: no I/O, no shared state, and defined
// outputs for short or degenerate input instead of errors.
package analytics

import (
	"math"

	"github.com/irfndi/paragon-ai-go/internal/models"
)

// PriceSeries is an ordered view over OHLCV bars.
type PriceSeries struct {
	bars []models.PriceBar
}

// NewPriceSeries copies bars into a new series. The input is never mutated.
func NewPriceSeries(bars []models.PriceBar) PriceSeries {
	cp := make([]models.PriceBar, len(bars))
	copy(cp, bars)
	return PriceSeries{bars: cp}
}

// Len returns the number of bars.
func (s PriceSeries) Len() int { return len(s.bars) }

// Bars returns a copy of the underlying bars.
func (s PriceSeries) Bars() []models.PriceBar {
	cp := make([]models.PriceBar, len(s.bars))
	copy(cp, s.bars)
	return cp
}

// IsChronological reports whether the first bar is not newer than the last.
// Empty and single-bar series are chronological.
func (s PriceSeries) IsChronological() bool {
	if len(s.bars) < 2 {
		return true
	}
	return s.bars[0].Timestamp <= s.bars[len(s.bars)-1].Timestamp
}

// Chronological returns the series oldest-first, reversing a newest-first copy.
func (s PriceSeries) Chronological() PriceSeries {
	if s.IsChronological() {
		return s
	}
	reversed := make([]models.PriceBar, len(s.bars))
	for i, bar := range s.bars {
		reversed[len(s.bars)-1-i] = bar
	}
	return PriceSeries{bars: reversed}
}

func (s PriceSeries) Closes() []float64 {
	return s.extract(func(b models.PriceBar) float64 { return b.Close })
}

func (s PriceSeries) Highs() []float64 {
	return s.extract(func(b models.PriceBar) float64 { return b.High })
}

func (s PriceSeries) Lows() []float64 {
	return s.extract(func(b models.PriceBar) float64 { return b.Low })
}

func (s PriceSeries) Volumes() []float64 {
	return s.extract(func(b models.PriceBar) float64 { return b.Volume })
}

func (s PriceSeries) extract(field func(models.PriceBar) float64) []float64 {
	out := make([]float64, len(s.bars))
	for i, bar := range s.bars {
		out[i] = field(bar)
	}
	return out
}

// round2 rounds half-up to two decimals, so -1.005 style halves move toward +Inf.
func round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
