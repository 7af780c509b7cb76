package ccxt

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:3001/", 0)

	assert.Equal(t, "http://localhost:3001", client.BaseURL)
	assert.Equal(t, 30*time.Second, client.timeout)
	assert.Equal(t, 30*time.Second, client.HTTPClient.Timeout)
}

func TestClient_GetTicker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ticker/binance/BTC%2FUSDT", r.URL.EscapedPath())
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"exchange":"binance","symbol":"BTC/USDT","ticker":{"symbol":"BTC/USDT","last":"64000.5","high":65000,"low":63000,"volume":1234.5,"percentage":1.25}}`))
	}))
	defer server.Close()

	resp, err := NewClient(server.URL, time.Second).GetTicker(context.Background(), "binance", "BTC/USDT")

	require.NoError(t, err)
	assert.Equal(t, "binance", resp.Exchange)
	assert.True(t, decimal.RequireFromString("64000.5").Equal(resp.Ticker.Last))
	assert.True(t, decimal.RequireFromString("1.25").Equal(resp.Ticker.Percentage))
}

func TestClient_GetOHLCV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "15m", r.URL.Query().Get("timeframe"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"exchange":"binance","symbol":"BTC/USDT","timeframe":"15m","count":2,"ohlcv":[
			{"timestamp":"2026-01-01T00:00:00Z","open":1,"high":2,"low":0.5,"close":1.5,"volume":10},
			{"timestamp":"2026-01-01T00:15:00Z","open":1.5,"high":2.5,"low":1,"close":2,"volume":12}]}`))
	}))
	defer server.Close()

	resp, err := NewClient(server.URL, time.Second).GetOHLCV(context.Background(), "binance", "BTC/USDT", "15m", 2)

	require.NoError(t, err)
	require.Len(t, resp.OHLCV, 2)
	assert.Equal(t, 2, resp.Count)
	assert.True(t, decimal.NewFromInt(2).Equal(resp.OHLCV[1].Close))
}

func TestClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"symbol not found"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).GetTicker(context.Background(), "binance", "NOPE/USDT")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "CCXT service error (404): symbol not found", err.Error())
}

func TestClient_PlainErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).HealthCheck(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestClient_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ok","version":"1.2.0"}`))
	}))
	defer server.Close()

	resp, err := NewClient(server.URL, time.Second).HealthCheck(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
}
