package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validYAML = `
environment: test
server:
  port: 8080
  read_timeout: 10s
  write_timeout: 10s
  shutdown_timeout: 10s
log:
  level: info
  format: json
  output: stdout
scanner:
  interval: 1h
  candle_interval: 1h
  candle_limit: 200
  pair_limit: 50
  top_n: 10
  fetch_timeout: 10s
exchange:
  base_url: https://api.binance.com
  quote_asset: USDT
  stablecoins: [USDC, DAI]
  requests_per_sec: 10
candles:
  source: binance
  cache:
    enabled: true
    backend: memory
scoring:
  sma_short_period: 20
  sma_long_period: 50
  rsi_period: 14
  volume_window: 20
  support_lookback: 30
  rsi_low: 35
  rsi_high: 50
  support_max_distance_pct: 2.0
  volume_spike_ratio: 1.5
  weights:
    trend: 30
    momentum: 25
    support: 25
    volume: 20
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Scanner.Interval != time.Hour {
		t.Fatalf("expected 1h interval, got %v", cfg.Scanner.Interval)
	}
	if cfg.Scanner.CandleLimit != 200 {
		t.Fatalf("expected candle_limit 200, got %d", cfg.Scanner.CandleLimit)
	}
	if cfg.Scoring.Weights.Trend != 30 {
		t.Fatalf("expected trend weight 30, got %d", cfg.Scoring.Weights.Trend)
	}
}

func TestValidateRejectsWeightsNotSummingTo100(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.Scoring.Weights.Volume = 25
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected weights-sum validation error")
	}
}

func TestValidateRejectsShortAboveLong(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.Scoring.SMAShortPeriod = 60
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected sma period validation error")
	}
}

func TestValidateRejectsSmallCandleLimit(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.Scanner.CandleLimit = 30
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected candle_limit validation error")
	}
}

func TestValidateRejectsUnknownSource(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.Candles.Source = "kraken"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected source validation error")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SCAN_INTERVAL", "30m")
	t.Setenv("CANDLE_SOURCE", "synthetic")
	t.Setenv("STABLECOINS", "USDC,DAI,FDUSD")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port override, got %d", cfg.Server.Port)
	}
	if cfg.Scanner.Interval != 30*time.Minute {
		t.Fatalf("expected interval override, got %v", cfg.Scanner.Interval)
	}
	if cfg.Candles.Source != "synthetic" {
		t.Fatalf("expected source override, got %s", cfg.Candles.Source)
	}
	if len(cfg.Exchange.Stablecoins) != 3 {
		t.Fatalf("expected 3 stablecoins, got %v", cfg.Exchange.Stablecoins)
	}
}

func TestLoadWithEnvIgnoresInvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("invalid PORT should keep file value, got %d", cfg.Server.Port)
	}
}
