package repository

import (
	"context"
	"errors"
	"time"

	"CoinScan/internal/domain/models"
	domrepo "CoinScan/internal/domain/repository"
	"CoinScan/pkg/cache"
	applogger "CoinScan/pkg/logger"
)

// CachedCandleSource decorates a CandleSource with a cycle-scoped cache.
// The TTL matches the scan interval so every cycle sees one consistent
// window per symbol and repeated reads within a cycle skip the network.
type CachedCandleSource struct {
	next   domrepo.CandleSource
	cache  cache.Service
	ttl    time.Duration
	logger *applogger.Logger
}

func NewCachedCandleSource(next domrepo.CandleSource, c cache.Service, ttl time.Duration, logger *applogger.Logger) *CachedCandleSource {
	return &CachedCandleSource{next: next, cache: c, ttl: ttl, logger: logger}
}

func (s *CachedCandleSource) Klines(ctx context.Context, symbol string, interval domrepo.Interval, limit int) ([]models.Candle, error) {
	key := cache.GenerateKeyWithParams("klines", symbol, string(interval), limit)

	var cached []models.Candle
	err := s.cache.Get(ctx, key, &cached)
	if err == nil && len(cached) > 0 {
		return cached, nil
	}
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("candle cache: read failed", applogger.String("key", key), applogger.Error(err))
	}

	candles, err := s.next.Klines(ctx, symbol, interval, limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, candles, s.ttl); err != nil {
		s.logger.Warn("candle cache: write failed", applogger.String("key", key), applogger.Error(err))
	}
	return candles, nil
}
