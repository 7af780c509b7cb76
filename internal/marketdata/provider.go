// Package marketdata supplies OHLCV bars and 24h ticker snapshots to the
// analysis service from Binance, a CCXT service, or a Redis cache in front
// of either.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/irfndi/paragon-ai-go/internal/models"
)

// ErrSymbolNotFound is returned when the upstream does not know a symbol.
var ErrSymbolNotFound = errors.New("symbol not found")

// Provider fetches market data for a symbol.
type Provider interface {
	Name() string
	Snapshot(ctx context.Context, symbol string) (models.MarketSnapshot, error)
	Bars(ctx context.Context, symbol, interval string, limit int) ([]models.PriceBar, error)
}

var validIntervals = map[string]bool{
	"1m": true, "3m": true, "5m": true, "15m": true, "30m": true,
	"1h": true, "2h": true, "4h": true, "6h": true, "8h": true, "12h": true,
	"1d": true, "3d": true, "1w": true, "1M": true,
}

// ValidInterval reports whether interval is a supported candle size.
func ValidInterval(interval string) bool {
	return validIntervals[interval]
}

// quoteAssets are tried longest first when splitting a concatenated symbol.
var quoteAssets = []string{"FDUSD", "USDT", "USDC", "BUSD", "TUSD", "USD", "EUR", "BTC", "ETH", "BNB"}

// NormalizeSymbol converts BTC/USDT, btc-usdt or btc_usdt to BTCUSDT.
func NormalizeSymbol(symbol string) string {
	replacer := strings.NewReplacer("/", "", "-", "", "_", "", " ", "")
	return strings.ToUpper(replacer.Replace(symbol))
}

// UnifiedSymbol converts BTCUSDT to the BASE/QUOTE form used by CCXT.
// Symbols with an unknown quote are returned normalised but unsplit.
func UnifiedSymbol(symbol string) string {
	if strings.Contains(symbol, "/") {
		return strings.ToUpper(strings.TrimSpace(symbol))
	}
	normalized := NormalizeSymbol(symbol)
	for _, quote := range quoteAssets {
		if strings.HasSuffix(normalized, quote) && len(normalized) > len(quote) {
			return normalized[:len(normalized)-len(quote)] + "/" + quote
		}
	}
	return normalized
}

func parseDecimal(field, value string) (float64, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	return d.InexactFloat64(), nil
}
