package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"CoinScan/internal/domain/models"
	domrepo "CoinScan/internal/domain/repository"
	"CoinScan/internal/services/indicators"
	applogger "CoinScan/pkg/logger"
)

// Skip reasons recorded on metrics when a symbol is dropped from a cycle.
const (
	SkipInsufficientData = "insufficient_data"
	SkipFetchFailure     = "fetch_failure"
)

// ScannerConfig holds the per-cycle parameters of the scan pipeline.
type ScannerConfig struct {
	CandleInterval  domrepo.Interval
	CandleLimit     int
	PairLimit       int
	TopN            int
	Indicators      indicators.Params
	SupportLookback int
}

// Scanner runs one full market scan: pair discovery, candle fetch,
// indicator computation, scoring, and ranking.
type Scanner struct {
	pairs   domrepo.PairSource
	candles domrepo.CandleSource
	scorer  *Scorer
	metrics domrepo.Metrics
	logger  *applogger.Logger
	cfg     ScannerConfig
}

func NewScanner(
	pairs domrepo.PairSource,
	candles domrepo.CandleSource,
	scorer *Scorer,
	metrics domrepo.Metrics,
	logger *applogger.Logger,
	cfg ScannerConfig,
) *Scanner {
	return &Scanner{
		pairs:   pairs,
		candles: candles,
		scorer:  scorer,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// Scan executes one cycle. A failure to list pairs fails the whole cycle;
// any per-symbol failure only skips that symbol.
func (s *Scanner) Scan(ctx context.Context) (*models.ScanReport, error) {
	start := time.Now()

	symbols, err := s.pairs.TopPairs(ctx, s.cfg.PairLimit)
	if err != nil {
		s.metrics.RecordError("pair_discovery")
		return nil, fmt.Errorf("list top pairs: %w", err)
	}

	results := make([]models.ScoreResult, 0, len(symbols))
	skipped := 0

	for _, symbol := range symbols {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		res, err := s.scanSymbol(ctx, symbol)
		if err != nil {
			skipped++
			reason := SkipFetchFailure
			if errors.Is(err, indicators.ErrInsufficientData) {
				reason = SkipInsufficientData
			}
			s.metrics.RecordSkip(reason)
			s.logger.Warn("scan: symbol skipped",
				applogger.String("symbol", symbol),
				applogger.String("reason", reason),
				applogger.Error(err),
			)
			continue
		}
		results = append(results, res)
	}

	// Deterministic ranking: score descending, then symbol ascending.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Symbol < results[j].Symbol
	})
	if s.cfg.TopN > 0 && len(results) > s.cfg.TopN {
		results = results[:s.cfg.TopN]
	}

	report := &models.ScanReport{
		GeneratedAt: time.Now().UTC(),
		Interval:    string(s.cfg.CandleInterval),
		Scanned:     len(symbols),
		Skipped:     skipped,
		Results:     results,
	}

	s.metrics.RecordScan(len(results), skipped)
	if len(results) > 0 {
		s.metrics.RecordTopScore(float64(results[0].Score))
	}
	s.metrics.RecordLatency("scan", time.Since(start).Seconds())

	s.logger.Info("scan: cycle finished",
		applogger.Int("symbols", len(symbols)),
		applogger.Int("scored", len(results)),
		applogger.Int("skipped", skipped),
		applogger.Duration("elapsed_ms", time.Since(start)),
	)

	return report, nil
}

func (s *Scanner) scanSymbol(ctx context.Context, symbol string) (models.ScoreResult, error) {
	candles, err := s.candles.Klines(ctx, symbol, s.cfg.CandleInterval, s.cfg.CandleLimit)
	if err != nil {
		return models.ScoreResult{}, fmt.Errorf("fetch klines: %w", err)
	}

	ind, err := indicators.Compute(candles, s.cfg.Indicators)
	if err != nil {
		return models.ScoreResult{}, fmt.Errorf("compute indicators for %s: %w", symbol, err)
	}

	sup, err := indicators.Support(candles, s.cfg.SupportLookback)
	if err != nil {
		return models.ScoreResult{}, fmt.Errorf("find support for %s: %w", symbol, err)
	}

	return s.scorer.Score(symbol, ind, sup), nil
}
