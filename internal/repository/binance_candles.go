package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"CoinScan/internal/domain/models"
	domrepo "CoinScan/internal/domain/repository"
	"CoinScan/internal/service/ratelimit"
	apphttp "CoinScan/pkg/http"
)

const klinesRateKey = "binance:klines"

// BinanceCandleSource fetches OHLCV windows from the Binance klines
// endpoint, throttled by a shared token bucket.
type BinanceCandleSource struct {
	client         *apphttp.Client
	baseURL        string
	limiter        *ratelimit.Limiter
	requestsPerSec float64
}

func NewBinanceCandleSource(client *apphttp.Client, baseURL string, limiter *ratelimit.Limiter, requestsPerSec float64) *BinanceCandleSource {
	if requestsPerSec <= 0 {
		requestsPerSec = 10
	}
	return &BinanceCandleSource{
		client:         client,
		baseURL:        strings.TrimRight(baseURL, "/"),
		limiter:        limiter,
		requestsPerSec: requestsPerSec,
	}
}

// Klines returns up to limit candles for symbol, oldest first.
func (s *BinanceCandleSource) Klines(ctx context.Context, symbol string, interval domrepo.Interval, limit int) ([]models.Candle, error) {
	if err := s.limiter.Wait(ctx, klinesRateKey, s.requestsPerSec, s.requestsPerSec); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	// Each kline is a mixed-type JSON array:
	// [openTime, "open", "high", "low", "close", "volume", closeTime, ...]
	var raw [][]json.RawMessage
	url := s.baseURL + "/api/v3/klines"
	query := map[string][]string{
		"symbol":   {symbol},
		"interval": {string(interval)},
		"limit":    {strconv.Itoa(limit)},
	}
	if err := s.client.GetJSON(ctx, url, query, &raw); err != nil {
		return nil, fmt.Errorf("fetch klines %s: %w", symbol, err)
	}

	candles := make([]models.Candle, 0, len(raw))
	for i, k := range raw {
		c, err := parseKline(symbol, k)
		if err != nil {
			return nil, fmt.Errorf("parse kline %s[%d]: %w", symbol, i, err)
		}
		candles = append(candles, c)
	}
	return candles, nil
}

func parseKline(symbol string, k []json.RawMessage) (models.Candle, error) {
	if len(k) < 6 {
		return models.Candle{}, fmt.Errorf("short kline: %d fields", len(k))
	}

	var openTimeMs int64
	if err := json.Unmarshal(k[0], &openTimeMs); err != nil {
		return models.Candle{}, fmt.Errorf("open time: %w", err)
	}

	fields := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		var s string
		if err := json.Unmarshal(k[i], &s); err != nil {
			return models.Candle{}, fmt.Errorf("field %d: %w", i, err)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return models.Candle{}, fmt.Errorf("field %d: %w", i, err)
		}
		fields[i-1] = v
	}

	return models.Candle{
		Symbol:   symbol,
		OpenTime: time.UnixMilli(openTimeMs).UTC(),
		Open:     fields[0],
		High:     fields[1],
		Low:      fields[2],
		Close:    fields[3],
		Volume:   fields[4],
	}, nil
}
