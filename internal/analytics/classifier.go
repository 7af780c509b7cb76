package analytics

import (
	"fmt"
	"math"
	"strings"

	"github.com/irfndi/paragon-ai-go/internal/models"
)

const (
	rsiOverboughtLevel = 70.0
	rsiMidLevel        = 50.0
	rsiOversoldLevel   = 30.0

	trendFastEMA = 50
	trendSlowEMA = 200

	minBullishVotes = 3
	minBearishVotes = 2

	// zones closer than this fraction of the price escalate risk
	nearbyZoneFraction = 0.02
)

// Signals holds the boolean votes derived from an IndicatorSet.
type Signals struct {
	RSIBullish    bool
	RSIBearish    bool
	RSIOverbought bool
	RSIOversold   bool
	MACDBullish   bool
	MACDBearish   bool
	EMABullish    bool
	EMABearish    bool
	// Volume only ever votes bullish; there is no bearish volume signal.
	VolumeBullish bool
}

// EvaluateSignals derives the classifier votes from indicators and market context.
func EvaluateSignals(ind models.IndicatorSet, market models.MarketSnapshot) Signals {
	ema50, ema200 := ind.EMAValue(trendFastEMA), ind.EMAValue(trendSlowEMA)
	return Signals{
		RSIBullish:    ind.RSI > rsiMidLevel && ind.RSI < rsiOverboughtLevel,
		RSIBearish:    ind.RSI > rsiOversoldLevel && ind.RSI < rsiMidLevel,
		RSIOverbought: ind.RSI > rsiOverboughtLevel,
		RSIOversold:   ind.RSI < rsiOversoldLevel,
		MACDBullish:   ind.MACD.Value > ind.MACD.Signal && ind.MACD.Histogram > 0,
		MACDBearish:   ind.MACD.Value < ind.MACD.Signal && ind.MACD.Histogram < 0,
		EMABullish:    ema50 > ema200,
		EMABearish:    ema50 < ema200,
		VolumeBullish: ind.Volume.Spike && market.Change24h > 0,
	}
}

// BullishCount counts the bullish votes.
func (s Signals) BullishCount() int {
	return countTrue(s.RSIBullish, s.MACDBullish, s.EMABullish, s.VolumeBullish)
}

// BearishCount counts the bearish votes.
func (s Signals) BearishCount() int {
	return countTrue(s.RSIBearish, s.MACDBearish, s.EMABearish)
}

// Tendency applies the decision table: three bullish votes win first, then
// two bearish votes, otherwise the market is neutral.
func (s Signals) Tendency() models.Tendency {
	switch {
	case s.BullishCount() >= minBullishVotes:
		return models.TendencyBullish
	case s.BearishCount() >= minBearishVotes:
		return models.TendencyBearish
	default:
		return models.TendencyNeutral
	}
}

// Classify turns indicators and market context into a verdict. It is the
// deterministic fallback used when no reasoning service answers.
func Classify(ind models.IndicatorSet, market models.MarketSnapshot) models.AnalysisVerdict {
	signals := EvaluateSignals(ind, market)
	tendency := signals.Tendency()

	risk := models.RiskMedium
	switch {
	case tendency == models.TendencyBullish && signals.RSIOverbought:
		risk = models.RiskHigh
	case tendency == models.TendencyBearish && signals.RSIOversold:
		risk = models.RiskLow
	}

	reasoning := baseReasoning(tendency, signals, ind.RSI)
	if zone, ok := ReinforcingZone(ind.LiquidationZones, tendency, market.Price); ok {
		risk = models.RiskHigh
		reasoning += fmt.Sprintf(" A %s liquidation cluster of about %s sits at %.2f, within 2%% of the current price.",
			zone.Type, formatAmount(zone.LiquidationAmount), zone.Price)
	}

	return models.AnalysisVerdict{
		Tendency:  tendency,
		Risk:      risk,
		Reasoning: reasoning,
	}
}

// ReinforcingZone returns the largest zone within 2% of price whose breach
// would push price further in the direction of tendency: short zones above
// price for Bullish, long zones below price for Bearish. Neutral never matches.
func ReinforcingZone(zones []models.LiquidationZone, tendency models.Tendency, price float64) (models.LiquidationZone, bool) {
	var want models.ZoneType
	switch tendency {
	case models.TendencyBullish:
		want = models.ZoneShort
	case models.TendencyBearish:
		want = models.ZoneLong
	default:
		return models.LiquidationZone{}, false
	}
	if price <= 0 {
		return models.LiquidationZone{}, false
	}

	for _, zone := range zones {
		if zone.Type != want {
			continue
		}
		if math.Abs(zone.Price-price) <= price*nearbyZoneFraction {
			return zone, true
		}
	}
	return models.LiquidationZone{}, false
}

// Summarize renders the short indicator digest attached to analysis results.
func Summarize(ind models.IndicatorSet, market models.MarketSnapshot) models.IndicatorSummary {
	signals := EvaluateSignals(ind, market)
	summary := models.IndicatorSummary{RSI: ind.RSI, MACD: "Negative", EMA: "Below EMA 50 & 200"}
	if signals.MACDBullish {
		summary.MACD = "Positive"
	}
	if signals.EMABullish {
		summary.EMA = "Above EMA 50 & 200"
	}
	return summary
}

func baseReasoning(tendency models.Tendency, s Signals, rsi float64) string {
	var confirmations []string
	switch tendency {
	case models.TendencyBullish:
		if s.MACDBullish {
			confirmations = append(confirmations, "a positive MACD")
		}
		if s.EMABullish {
			confirmations = append(confirmations, "EMA 50 above EMA 200")
		}
		if s.VolumeBullish {
			confirmations = append(confirmations, "a volume spike")
		}
		return fmt.Sprintf("Strong upward tendency: RSI at %.1f%s.", rsi, confirmedBy(confirmations))
	case models.TendencyBearish:
		if s.MACDBearish {
			confirmations = append(confirmations, "a negative MACD")
		}
		if s.EMABearish {
			confirmations = append(confirmations, "EMA 50 below EMA 200")
		}
		return fmt.Sprintf("Downward tendency: RSI at %.1f%s.", rsi, confirmedBy(confirmations))
	default:
		return fmt.Sprintf("Mixed signals: RSI at %.1f with no clear confirmation from MACD, EMA trend or volume. Waiting for a clearer direction.", rsi)
	}
}

func confirmedBy(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return ", confirmed by " + items[0]
	default:
		return ", confirmed by " + strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

// formatAmount renders a USD magnitude as $1.2M, $350.0K or $900.
func formatAmount(amount float64) string {
	switch {
	case amount >= 1e9:
		return fmt.Sprintf("$%.1fB", amount/1e9)
	case amount >= 1e6:
		return fmt.Sprintf("$%.1fM", amount/1e6)
	case amount >= 1e3:
		return fmt.Sprintf("$%.1fK", amount/1e3)
	default:
		return fmt.Sprintf("$%.0f", amount)
	}
}

func countTrue(values ...bool) int {
	n := 0
	for _, v := range values {
		if v {
			n++
		}
	}
	return n
}
