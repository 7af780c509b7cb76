package models

// MACDValue holds the MACD line, its signal line and the histogram.
type MACDValue struct {
	Value     float64 `json:"value"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// VolumeStats summarises the latest volume against the preceding bars
type VolumeStats struct {
	Current float64 `json:"current"`
	Average float64 `json:"average"`
	Spike   bool    `json:"spike"`
	Ratio   float64 `json:"ratio"`
}

// ZoneType identifies which side of the book a liquidation zone would flush
type ZoneType string

const (
	ZoneLong  ZoneType = "long"
	ZoneShort ZoneType = "short"
)

// LiquidationZone is a heuristic price level where leveraged positions are
// likely clustered. Long zones sit below the current price, short zones above.
type LiquidationZone struct {
	Price             float64  `json:"price"`
	Intensity         float64  `json:"intensity"`
	Type              ZoneType `json:"type"`
	LiquidationAmount float64  `json:"liquidation_amount"`
}

// IndicatorSet is the full set of values computed for one analysis call.
type IndicatorSet struct {
	RSI              float64           `json:"rsi"`
	MACD             MACDValue         `json:"macd"`
	EMA              map[int]float64   `json:"ema"`
	Volume           VolumeStats       `json:"volume"`
	LiquidationZones []LiquidationZone `json:"liquidation_zones"`
	ATR              float64           `json:"atr"`
}

// EMAValue returns the EMA for period, or 0 when it was not computed.
func (s IndicatorSet) EMAValue(period int) float64 {
	return s.EMA[period]
}

// IndicatorSummary is the short human-facing digest shown next to a verdict
type IndicatorSummary struct {
	RSI  float64 `json:"rsi"`
	MACD string  `json:"macd"`
	EMA  string  `json:"ema"`
}
