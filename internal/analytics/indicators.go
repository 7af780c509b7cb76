package analytics

import "github.com/irfndi/paragon-ai-go/internal/models"

// DefaultEMAPeriods are the EMA lookbacks computed for every analysis.
var DefaultEMAPeriods = []int{13, 50, 200, 800}

// Params configures ComputeIndicators.
type Params struct {
	RSIPeriod            int
	MACDFast             int
	MACDSlow             int
	MACDSignal           int
	EMAPeriods           []int
	VolumeSpikeThreshold float64
	ATRPeriod            int
	// IncrementalMACD selects the O(n) MACD variant.
	IncrementalMACD bool
}

// DefaultParams returns the standard indicator configuration.
func DefaultParams() Params {
	periods := make([]int, len(DefaultEMAPeriods))
	copy(periods, DefaultEMAPeriods)
	return Params{
		RSIPeriod:            DefaultRSIPeriod,
		MACDFast:             DefaultMACDFast,
		MACDSlow:             DefaultMACDSlow,
		MACDSignal:           DefaultMACDSignal,
		EMAPeriods:           periods,
		VolumeSpikeThreshold: DefaultVolumeSpikeThreshold,
		ATRPeriod:            DefaultATRPeriod,
	}
}

// ComputeIndicators assembles a full IndicatorSet from bars. Newest-first
// input is reversed into a copy before any indicator runs.
func ComputeIndicators(bars []models.PriceBar, p Params) models.IndicatorSet {
	series := NewPriceSeries(bars).Chronological()
	closes := series.Closes()
	highs := series.Highs()
	lows := series.Lows()
	volumes := series.Volumes()

	macd := MACD
	if p.IncrementalMACD {
		macd = MACDIncremental
	}

	ema := make(map[int]float64, len(p.EMAPeriods))
	for _, period := range p.EMAPeriods {
		ema[period] = EMA(closes, period)
	}

	return models.IndicatorSet{
		RSI:              RSI(closes, p.RSIPeriod),
		MACD:             macd(closes, p.MACDFast, p.MACDSlow, p.MACDSignal),
		EMA:              ema,
		Volume:           Volume(volumes, p.VolumeSpikeThreshold),
		LiquidationZones: LiquidationZones(closes, volumes, highs, lows),
		ATR:              ATR(highs, lows, closes, p.ATRPeriod),
	}
}
