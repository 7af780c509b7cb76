package models

// PriceBar is one OHLCV candle. Timestamp is milliseconds since the epoch.
type PriceBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// MarketSnapshot represents the current 24h ticker state of a market
type MarketSnapshot struct {
	Symbol    string  `json:"symbol,omitempty"`
	Price     float64 `json:"price"`
	Change24h float64 `json:"change_24h"`
	Volume24h float64 `json:"volume_24h"`
	High24h   float64 `json:"high_24h"`
	Low24h    float64 `json:"low_24h"`
}
