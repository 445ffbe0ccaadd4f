package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"CoinScan/internal/domain/models"
	domrepo "CoinScan/internal/domain/repository"
	"CoinScan/internal/services/indicators"
	applogger "CoinScan/pkg/logger"
)

type fakePairSource struct {
	symbols []string
	err     error
}

func (f *fakePairSource) TopPairs(ctx context.Context, limit int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.symbols) > limit {
		return f.symbols[:limit], nil
	}
	return f.symbols, nil
}

type fakeCandleSource struct {
	bySymbol map[string][]models.Candle
	errs     map[string]error
}

func (f *fakeCandleSource) Klines(ctx context.Context, symbol string, interval domrepo.Interval, limit int) ([]models.Candle, error) {
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	return f.bySymbol[symbol], nil
}

type fakeMetrics struct {
	scans   int
	scored  int
	skipped int
	skips   map[string]int
	errs    map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{skips: map[string]int{}, errs: map[string]int{}}
}

func (m *fakeMetrics) RecordScan(scored, skipped int) {
	m.scans++
	m.scored = scored
	m.skipped = skipped
}
func (m *fakeMetrics) RecordSkip(reason string)                   { m.skips[reason]++ }
func (m *fakeMetrics) RecordError(kind string)                    { m.errs[kind]++ }
func (m *fakeMetrics) RecordLastPrice(symbol string, p float64)   {}
func (m *fakeMetrics) RecordTopScore(score float64)               {}
func (m *fakeMetrics) RecordLatency(op string, seconds float64)   {}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func testScannerConfig() ScannerConfig {
	return ScannerConfig{
		CandleInterval:  domrepo.IV1h,
		CandleLimit:     5,
		PairLimit:       10,
		TopN:            10,
		Indicators:      indicators.Params{SMAShort: 2, SMALong: 3, RSIPeriod: 2, VolumeWindow: 2},
		SupportLookback: 5,
	}
}

func seriesCandles(symbol string, closes []float64, lastVolume float64) []models.Candle {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		vol := 100.0
		if i == len(closes)-1 {
			vol = lastVolume
		}
		out[i] = models.Candle{
			Symbol:   symbol,
			OpenTime: base.Add(time.Duration(i) * time.Hour),
			Open:     c,
			High:     c * 1.01,
			Low:      c * 0.99,
			Close:    c,
			Volume:   vol,
		}
	}
	return out
}

// Uptrend with a volume spike: scores trend + volume.
func bullishSeries(symbol string) []models.Candle {
	return seriesCandles(symbol, []float64{100, 102, 104, 106, 108}, 400)
}

// Downtrend, flat volume: scores support only (close sits just above min low).
func bearishSeries(symbol string) []models.Candle {
	return seriesCandles(symbol, []float64{108, 106, 104, 102, 100}, 100)
}

func newTestScanner(t *testing.T, pairs *fakePairSource, candles *fakeCandleSource, m *fakeMetrics) *Scanner {
	t.Helper()
	return NewScanner(pairs, candles, NewScorer(defaultRules()), m, testLogger(t), testScannerConfig())
}

func TestScanRanksByScoreDescending(t *testing.T) {
	pairs := &fakePairSource{symbols: []string{"WEAKUSDT", "STRONGUSDT"}}
	candles := &fakeCandleSource{bySymbol: map[string][]models.Candle{
		"STRONGUSDT": bullishSeries("STRONGUSDT"),
		"WEAKUSDT":   bearishSeries("WEAKUSDT"),
	}}
	m := newFakeMetrics()

	report, err := newTestScanner(t, pairs, candles, m).Scan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
	if report.Results[0].Symbol != "STRONGUSDT" {
		t.Fatalf("expected STRONGUSDT first, got %s", report.Results[0].Symbol)
	}
	if report.Results[0].Score <= report.Results[1].Score {
		t.Fatalf("results not sorted by score: %d <= %d", report.Results[0].Score, report.Results[1].Score)
	}
}

func TestScanTieBreaksBySymbol(t *testing.T) {
	pairs := &fakePairSource{symbols: []string{"BBBUSDT", "AAAUSDT"}}
	candles := &fakeCandleSource{bySymbol: map[string][]models.Candle{
		"BBBUSDT": bearishSeries("BBBUSDT"),
		"AAAUSDT": bearishSeries("AAAUSDT"),
	}}
	m := newFakeMetrics()

	report, err := newTestScanner(t, pairs, candles, m).Scan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
	if report.Results[0].Score != report.Results[1].Score {
		t.Fatalf("expected equal scores, got %d and %d", report.Results[0].Score, report.Results[1].Score)
	}
	if report.Results[0].Symbol != "AAAUSDT" {
		t.Fatalf("equal scores must order by symbol, got %s first", report.Results[0].Symbol)
	}
}

func TestScanSkipsFetchFailures(t *testing.T) {
	pairs := &fakePairSource{symbols: []string{"GOODUSDT", "BADUSDT"}}
	candles := &fakeCandleSource{
		bySymbol: map[string][]models.Candle{"GOODUSDT": bullishSeries("GOODUSDT")},
		errs:     map[string]error{"BADUSDT": errors.New("binance: 502")},
	}
	m := newFakeMetrics()

	report, err := newTestScanner(t, pairs, candles, m).Scan(context.Background())
	if err != nil {
		t.Fatalf("one failing symbol must not fail the cycle: %v", err)
	}
	if len(report.Results) != 1 || report.Results[0].Symbol != "GOODUSDT" {
		t.Fatalf("unexpected results: %+v", report.Results)
	}
	if report.Skipped != 1 {
		t.Fatalf("expected 1 skipped, got %d", report.Skipped)
	}
	if m.skips[SkipFetchFailure] != 1 {
		t.Fatalf("expected fetch_failure skip recorded, got %v", m.skips)
	}
}

func TestScanSkipsInsufficientData(t *testing.T) {
	pairs := &fakePairSource{symbols: []string{"NEWUSDT", "GOODUSDT"}}
	candles := &fakeCandleSource{bySymbol: map[string][]models.Candle{
		"NEWUSDT":  seriesCandles("NEWUSDT", []float64{100, 101}, 100),
		"GOODUSDT": bullishSeries("GOODUSDT"),
	}}
	m := newFakeMetrics()

	report, err := newTestScanner(t, pairs, candles, m).Scan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Skipped != 1 {
		t.Fatalf("expected 1 skipped, got %d", report.Skipped)
	}
	if m.skips[SkipInsufficientData] != 1 {
		t.Fatalf("expected insufficient_data skip recorded, got %v", m.skips)
	}
}

func TestScanPairDiscoveryFailureFailsCycle(t *testing.T) {
	pairs := &fakePairSource{err: errors.New("binance: timeout")}
	m := newFakeMetrics()

	_, err := newTestScanner(t, pairs, &fakeCandleSource{}, m).Scan(context.Background())
	if err == nil {
		t.Fatalf("expected error when pair discovery fails")
	}
	if m.errs["pair_discovery"] != 1 {
		t.Fatalf("expected pair_discovery error recorded, got %v", m.errs)
	}
}

func TestScanTruncatesToTopN(t *testing.T) {
	symbols := []string{"AUSDT", "BUSDT", "CUSDT", "DUSDT"}
	bySymbol := map[string][]models.Candle{}
	for _, s := range symbols {
		bySymbol[s] = bullishSeries(s)
	}
	pairs := &fakePairSource{symbols: symbols}
	m := newFakeMetrics()

	cfg := testScannerConfig()
	cfg.TopN = 2
	sc := NewScanner(pairs, &fakeCandleSource{bySymbol: bySymbol}, NewScorer(defaultRules()), m, testLogger(t), cfg)

	report, err := sc.Scan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
	if report.Scanned != 4 {
		t.Fatalf("expected scanned 4, got %d", report.Scanned)
	}
}

func TestScanCancelledContext(t *testing.T) {
	pairs := &fakePairSource{symbols: []string{"AUSDT"}}
	candles := &fakeCandleSource{bySymbol: map[string][]models.Candle{"AUSDT": bullishSeries("AUSDT")}}
	m := newFakeMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestScanner(t, pairs, candles, m).Scan(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
