package marketdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "BTCUSDT", NormalizeSymbol("BTC/USDT"))
	assert.Equal(t, "BTCUSDT", NormalizeSymbol("btc-usdt"))
	assert.Equal(t, "ETHBTC", NormalizeSymbol(" eth_btc "))
}

func TestUnifiedSymbol(t *testing.T) {
	tests := map[string]string{
		"BTCUSDT":  "BTC/USDT",
		"btcusdt":  "BTC/USDT",
		"ETHBTC":   "ETH/BTC",
		"SOLFDUSD": "SOL/FDUSD",
		"BTC/USDT": "BTC/USDT",
		"USDT":     "USDT",
		"FOOBAR":   "FOOBAR",
	}
	for in, want := range tests {
		assert.Equal(t, want, UnifiedSymbol(in), in)
	}
}

func TestValidInterval(t *testing.T) {
	assert.True(t, ValidInterval("15m"))
	assert.True(t, ValidInterval("1M"))
	assert.False(t, ValidInterval("7m"))
	assert.False(t, ValidInterval(""))
}

func TestParseDecimal(t *testing.T) {
	v, err := parseDecimal("price", "64000.12")
	assert.NoError(t, err)
	assert.Equal(t, 64000.12, v)

	_, err = parseDecimal("price", "abc")
	assert.Error(t, err)
}
