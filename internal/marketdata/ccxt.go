package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irfndi/paragon-ai-go/internal/models"
	"github.com/irfndi/paragon-ai-go/pkg/ccxt"
)

// CCXTProvider reads market data through a CCXT service for one exchange.
type CCXTProvider struct {
	client   *ccxt.Client
	exchange string
}

func NewCCXTProvider(client *ccxt.Client, exchange string) *CCXTProvider {
	return &CCXTProvider{client: client, exchange: exchange}
}

func (p *CCXTProvider) Name() string { return "ccxt:" + p.exchange }

func (p *CCXTProvider) Snapshot(ctx context.Context, symbol string) (models.MarketSnapshot, error) {
	resp, err := p.client.GetTicker(ctx, p.exchange, UnifiedSymbol(symbol))
	if err != nil {
		return models.MarketSnapshot{}, wrapCCXTError("fetch ticker", symbol, err)
	}

	t := resp.Ticker
	return models.MarketSnapshot{
		Symbol:    NormalizeSymbol(symbol),
		Price:     t.Last.InexactFloat64(),
		Change24h: t.Percentage.InexactFloat64(),
		Volume24h: t.Volume.InexactFloat64(),
		High24h:   t.High.InexactFloat64(),
		Low24h:    t.Low.InexactFloat64(),
	}, nil
}

func (p *CCXTProvider) Bars(ctx context.Context, symbol, interval string, limit int) ([]models.PriceBar, error) {
	resp, err := p.client.GetOHLCV(ctx, p.exchange, UnifiedSymbol(symbol), interval, limit)
	if err != nil {
		return nil, wrapCCXTError("fetch ohlcv", symbol, err)
	}

	bars := make([]models.PriceBar, 0, len(resp.OHLCV))
	for _, c := range resp.OHLCV {
		bars = append(bars, models.PriceBar{
			Timestamp: c.Timestamp.UnixMilli(),
			Open:      c.Open.InexactFloat64(),
			High:      c.High.InexactFloat64(),
			Low:       c.Low.InexactFloat64(),
			Close:     c.Close.InexactFloat64(),
			Volume:    c.Volume.InexactFloat64(),
		})
	}
	return bars, nil
}

func wrapCCXTError(op, symbol string, err error) error {
	var statusErr *ccxt.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("ccxt %s %s: %w", op, symbol, ErrSymbolNotFound)
	}
	return fmt.Errorf("ccxt %s %s: %w", op, symbol, err)
}
