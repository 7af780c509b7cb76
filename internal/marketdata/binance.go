package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"

	"github.com/irfndi/paragon-ai-go/internal/models"
)

// binance answers -1121 for unknown symbols
const binanceInvalidSymbol = -1121

// BinanceProvider reads public spot market data from Binance.
type BinanceProvider struct {
	client *binance.Client
}

// NewBinanceProvider creates a provider for the public Binance API. A
// non-empty baseURL overrides the default endpoint. timeout bounds every
// request; zero falls back to 15s.
func NewBinanceProvider(baseURL string, timeout time.Duration) *BinanceProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := binance.NewClient("", "")
	client.HTTPClient = &http.Client{Timeout: timeout}
	if baseURL != "" {
		client.BaseURL = baseURL
	}
	return &BinanceProvider{client: client}
}

func (p *BinanceProvider) Name() string { return "binance" }

func (p *BinanceProvider) Snapshot(ctx context.Context, symbol string) (models.MarketSnapshot, error) {
	symbol = NormalizeSymbol(symbol)
	stats, err := p.client.NewListPriceChangeStatsService().Symbol(symbol).Do(ctx)
	if err != nil {
		return models.MarketSnapshot{}, wrapBinanceError("fetch 24h ticker", symbol, err)
	}
	if len(stats) == 0 || stats[0] == nil {
		return models.MarketSnapshot{}, fmt.Errorf("binance ticker %s: %w", symbol, ErrSymbolNotFound)
	}

	s := stats[0]
	snapshot := models.MarketSnapshot{Symbol: symbol}
	fields := []struct {
		name  string
		value string
		dest  *float64
	}{
		{"lastPrice", s.LastPrice, &snapshot.Price},
		{"priceChangePercent", s.PriceChangePercent, &snapshot.Change24h},
		{"volume", s.Volume, &snapshot.Volume24h},
		{"highPrice", s.HighPrice, &snapshot.High24h},
		{"lowPrice", s.LowPrice, &snapshot.Low24h},
	}
	for _, f := range fields {
		v, err := parseDecimal(f.name, f.value)
		if err != nil {
			return models.MarketSnapshot{}, fmt.Errorf("binance ticker %s: %w", symbol, err)
		}
		*f.dest = v
	}
	return snapshot, nil
}

func (p *BinanceProvider) Bars(ctx context.Context, symbol, interval string, limit int) ([]models.PriceBar, error) {
	symbol = NormalizeSymbol(symbol)
	klines, err := p.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, wrapBinanceError("fetch klines", symbol, err)
	}
	return convertBinanceKlines(klines)
}

func convertBinanceKlines(klines []*binance.Kline) ([]models.PriceBar, error) {
	bars := make([]models.PriceBar, 0, len(klines))
	for _, k := range klines {
		if k == nil {
			continue
		}
		bar := models.PriceBar{Timestamp: k.OpenTime}
		fields := []struct {
			name  string
			value string
			dest  *float64
		}{
			{"open", k.Open, &bar.Open},
			{"high", k.High, &bar.High},
			{"low", k.Low, &bar.Low},
			{"close", k.Close, &bar.Close},
			{"volume", k.Volume, &bar.Volume},
		}
		for _, f := range fields {
			v, err := parseDecimal(f.name, f.value)
			if err != nil {
				return nil, fmt.Errorf("kline at %d: %w", k.OpenTime, err)
			}
			*f.dest = v
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func wrapBinanceError(op, symbol string, err error) error {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) && apiErr.Code == binanceInvalidSymbol {
		return fmt.Errorf("binance %s %s: %w", op, symbol, ErrSymbolNotFound)
	}
	return fmt.Errorf("binance %s %s: %w", op, symbol, err)
}
