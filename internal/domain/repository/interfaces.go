package repository

import (
	"context"

	"CoinScan/internal/domain/models"
)

// PairSource supplies the tradable symbols for one scan cycle, ordered by
// 24h quote volume, stablecoin bases excluded.
type PairSource interface {
	TopPairs(ctx context.Context, limit int) ([]string, error)
}

// CandleSource supplies a time-ordered (oldest first) OHLCV window for one
// symbol at a fixed interval.
type CandleSource interface {
	Klines(ctx context.Context, symbol string, interval Interval, limit int) ([]models.Candle, error)
}

// PriceStream is a live last-price feed from the exchange.
type PriceStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Ticker, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Metrics records operational counters for scans and fetches.
type Metrics interface {
	RecordScan(scored, skipped int)
	RecordSkip(reason string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordTopScore(score float64)
	RecordLatency(op string, seconds float64)
}
