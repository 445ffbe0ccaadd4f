package repository

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"CoinScan/internal/domain/models"
	domrepo "CoinScan/internal/domain/repository"
)

// referencePrices anchors the synthetic walk per symbol. Unknown symbols
// get a generic anchor.
var referencePrices = map[string]float64{
	"BTCUSDT": 50000, "ETHUSDT": 3000, "BNBUSDT": 400, "SOLUSDT": 120,
	"XRPUSDT": 0.6, "ADAUSDT": 0.5, "DOGEUSDT": 0.08, "DOTUSDT": 7,
	"MATICUSDT": 0.8, "AVAXUSDT": 35, "LINKUSDT": 15, "UNIUSDT": 6,
	"LTCUSDT": 70, "ATOMUSDT": 10, "ETCUSDT": 20, "XLMUSDT": 0.12,
	"ALGOUSDT": 0.15, "VETUSDT": 0.03, "ICPUSDT": 12, "FILUSDT": 5,
	"TRXUSDT": 0.10, "EOSUSDT": 0.8, "AAVEUSDT": 80, "THETAUSDT": 1,
	"SANDUSDT": 0.5, "MANAUSDT": 0.4, "AXSUSDT": 6, "NEARUSDT": 3,
	"FTMUSDT": 0.3, "GRTUSDT": 0.15, "HBARUSDT": 0.08, "EGLDUSDT": 40,
	"ZECUSDT": 25, "CHZUSDT": 0.10, "ENJUSDT": 0.3, "BATUSDT": 0.25,
	"ZILUSDT": 0.02, "IOTAUSDT": 0.2, "ONTUSDT": 0.3, "QTUMUSDT": 3,
	"WAVESUSDT": 2, "OMGUSDT": 0.8, "SNXUSDT": 3, "MKRUSDT": 2000,
	"COMPUSDT": 50, "YFIUSDT": 5000, "SUSHIUSDT": 1, "CRVUSDT": 0.5,
	"1INCHUSDT": 0.4, "RENUSDT": 0.1,
}

const defaultReferencePrice = 10.0

// SyntheticCandleSource generates plausible OHLCV windows without any
// network access, for demos and offline development. The walk is seeded
// from the symbol and the current hour, so a cycle sees stable data but
// successive cycles drift.
type SyntheticCandleSource struct {
	now func() time.Time
}

func NewSyntheticCandleSource() *SyntheticCandleSource {
	return &SyntheticCandleSource{now: time.Now}
}

func (s *SyntheticCandleSource) Klines(ctx context.Context, symbol string, interval domrepo.Interval, limit int) ([]models.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, ok := referencePrices[symbol]
	if !ok {
		base = defaultReferencePrice
	}

	now := s.now().UTC().Truncate(time.Hour)
	rng := rand.New(rand.NewSource(seedFor(symbol, now)))

	step := intervalDuration(interval)
	trend := rng.Float64()*0.001 - 0.0005
	volatility := 0.02
	if base > 100 {
		volatility = 0.015
	}

	closes := make([]float64, limit)
	price := base
	for i := 0; i < limit; i++ {
		change := rng.NormFloat64() * volatility
		price = price * (1 + change + trend)
		// keep the walk within ±30% of the anchor
		price = math.Max(base*0.7, math.Min(base*1.3, price))
		closes[i] = price
	}

	candles := make([]models.Candle, limit)
	start := now.Add(-time.Duration(limit-1) * step)
	for i := 0; i < limit; i++ {
		c := closes[i]
		var open float64
		if i == 0 {
			open = c * (0.995 + rng.Float64()*0.01)
		} else {
			open = closes[i-1] * (0.998 + rng.Float64()*0.004)
		}
		spread := c * (0.005 + rng.Float64()*0.015)
		high := math.Max(open, c) + spread*(0.3+rng.Float64()*0.4)
		low := math.Min(open, c) - spread*(0.3+rng.Float64()*0.4)

		volume := (500 + rng.Float64()*1500) * math.Sqrt(base)
		if i == limit-1 && rng.Float64() < 0.2 {
			volume *= 2 // occasional closing-bar spike
		}

		candles[i] = models.Candle{
			Symbol:   symbol,
			OpenTime: start.Add(time.Duration(i) * step),
			Open:     open,
			High:     high,
			Low:      low,
			Close:    c,
			Volume:   volume,
		}
	}
	return candles, nil
}

// StaticPairSource serves a fixed pair universe. Used in synthetic mode
// where there is no exchange to discover pairs from.
type StaticPairSource struct {
	symbols []string
}

func NewStaticPairSource(symbols []string) *StaticPairSource {
	if len(symbols) == 0 {
		symbols = fallbackPairs
	}
	return &StaticPairSource{symbols: symbols}
}

func (s *StaticPairSource) TopPairs(ctx context.Context, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := s.symbols
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return append([]string(nil), out...), nil
}

func seedFor(symbol string, hour time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return int64(h.Sum64()) ^ hour.Unix()
}

func intervalDuration(iv domrepo.Interval) time.Duration {
	switch iv {
	case domrepo.IV15m:
		return 15 * time.Minute
	case domrepo.IV4h:
		return 4 * time.Hour
	case domrepo.IV1d:
		return 24 * time.Hour
	default:
		return time.Hour
	}
}
