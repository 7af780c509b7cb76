package analytics

import (
	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/volatility"
)

// DefaultATRPeriod is the Average True Range lookback.
const DefaultATRPeriod = 14

// ATR returns the latest Average True Range rounded to two decimals, or 0
// when the inputs are misaligned or shorter than period+1 bars.
func ATR(highs, lows, closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 || len(highs) != len(closes) || len(lows) != len(closes) {
		return 0
	}

	atr := volatility.NewAtrWithPeriod[float64](period)
	values := helper.ChanToSlice(atr.Compute(
		helper.SliceToChan(highs),
		helper.SliceToChan(lows),
		helper.SliceToChan(closes),
	))
	if len(values) == 0 {
		return 0
	}
	return round2(values[len(values)-1])
}
