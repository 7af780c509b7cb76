package reasoning

import (
	"fmt"
	"strings"

	"github.com/irfndi/paragon-ai-go/internal/models"
)

const maxPromptZones = 5

// SystemPrompt fixes the role and the reply format.
const SystemPrompt = "You are a professional crypto chart analyst. Always answer with a single JSON object."

// BuildPrompt renders the market context for one symbol.
func BuildPrompt(ind models.IndicatorSet, market models.MarketSnapshot, symbol string) string {
	var b strings.Builder

	b.WriteString("Analyse the following market data.\n\n")
	fmt.Fprintf(&b, "Symbol: %s\n", symbol)
	fmt.Fprintf(&b, "Price: $%.2f\n", market.Price)
	fmt.Fprintf(&b, "24h change: %.2f%%\n", market.Change24h)
	fmt.Fprintf(&b, "24h volume: %.2f\n\n", market.Volume24h)

	b.WriteString("Technical indicators:\n")
	fmt.Fprintf(&b, "- RSI: %.2f\n", ind.RSI)
	fmt.Fprintf(&b, "- MACD: %.2f (signal: %.2f, histogram: %.2f)\n", ind.MACD.Value, ind.MACD.Signal, ind.MACD.Histogram)
	fmt.Fprintf(&b, "- EMA 50: %.2f\n", ind.EMAValue(50))
	fmt.Fprintf(&b, "- EMA 200: %.2f\n", ind.EMAValue(200))
	fmt.Fprintf(&b, "- Volume spike: %s\n", yesNo(ind.Volume.Spike))
	if ind.ATR > 0 {
		fmt.Fprintf(&b, "- ATR: %.2f\n", ind.ATR)
	}

	if len(ind.LiquidationZones) > 0 {
		b.WriteString("\nEstimated liquidation zones:\n")
		for i, z := range ind.LiquidationZones {
			if i == maxPromptZones {
				break
			}
			fmt.Fprintf(&b, "- %s at %.2f (intensity %.2f, about $%.0f)\n", z.Type, z.Price, z.Intensity, z.LiquidationAmount)
		}
	}

	b.WriteString("\nGive a short, precise assessment with:\n")
	b.WriteString("1. tendency: Bullish, Neutral or Bearish\n")
	b.WriteString("2. risk: low, medium or high\n")
	b.WriteString("3. reasoning: 2-3 sentences in English\n\n")
	b.WriteString(`Reply as JSON: {"tendency": "Bullish|Neutral|Bearish", "risk": "low|medium|high", "reasoning": "..."}`)

	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
