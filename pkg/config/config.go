package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"CoinScan/pkg/util"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Scanner struct {
		Interval       time.Duration `yaml:"interval"`
		CandleInterval string        `yaml:"candle_interval"`
		CandleLimit    int           `yaml:"candle_limit"`
		PairLimit      int           `yaml:"pair_limit"`
		TopN           int           `yaml:"top_n"`
		FetchTimeout   time.Duration `yaml:"fetch_timeout"`
	} `yaml:"scanner"`
	Exchange struct {
		BaseURL        string   `yaml:"base_url"`
		QuoteAsset     string   `yaml:"quote_asset"`
		Stablecoins    []string `yaml:"stablecoins"`
		RequestsPerSec float64  `yaml:"requests_per_sec"`
	} `yaml:"exchange"`
	Candles struct {
		Source string `yaml:"source"` // binance or synthetic
		Cache  struct {
			Enabled bool   `yaml:"enabled"`
			Backend string `yaml:"backend"` // memory or redis
			Redis   struct {
				Host     string `yaml:"host"`
				Port     int    `yaml:"port"`
				Password string `yaml:"password"`
				DB       int    `yaml:"db"`
			} `yaml:"redis"`
		} `yaml:"cache"`
	} `yaml:"candles"`
	Scoring struct {
		SMAShortPeriod     int     `yaml:"sma_short_period"`
		SMALongPeriod      int     `yaml:"sma_long_period"`
		RSIPeriod          int     `yaml:"rsi_period"`
		VolumeWindow       int     `yaml:"volume_window"`
		SupportLookback    int     `yaml:"support_lookback"`
		RSILow             float64 `yaml:"rsi_low"`
		RSIHigh            float64 `yaml:"rsi_high"`
		SupportMaxDistance float64 `yaml:"support_max_distance_pct"`
		VolumeSpikeRatio   float64 `yaml:"volume_spike_ratio"`
		Weights            struct {
			Trend    int `yaml:"trend"`
			Momentum int `yaml:"momentum"`
			Support  int `yaml:"support"`
			Volume   int `yaml:"volume"`
		} `yaml:"weights"`
	} `yaml:"scoring"`
	Stream struct {
		Enabled        bool          `yaml:"enabled"`
		URL            string        `yaml:"url"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
	} `yaml:"stream"`
	Report struct {
		Title      string `yaml:"title"`
		OutputPath string `yaml:"output_path"`
	} `yaml:"report"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("SCAN_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Scanner.Interval = d
		}
	}
	if v := os.Getenv("CANDLE_SOURCE"); v != "" {
		c.Candles.Source = v
	}
	if v := os.Getenv("EXCHANGE_BASE_URL"); v != "" {
		c.Exchange.BaseURL = v
	}
	if v := os.Getenv("STABLECOINS"); v != "" {
		c.Exchange.Stablecoins = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Candles.Cache.Redis.Host = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Scanner.Interval <= 0 {
		return fmt.Errorf("scanner.interval must be positive")
	}
	if c.Scanner.CandleLimit < c.Scoring.SMALongPeriod {
		return fmt.Errorf("scanner.candle_limit %d is below sma_long_period %d",
			c.Scanner.CandleLimit, c.Scoring.SMALongPeriod)
	}
	if c.Candles.Source != "binance" && c.Candles.Source != "synthetic" {
		return fmt.Errorf("candles.source must be 'binance' or 'synthetic', got '%s'", c.Candles.Source)
	}
	if b := c.Candles.Cache.Backend; c.Candles.Cache.Enabled && b != "memory" && b != "redis" {
		return fmt.Errorf("candles.cache.backend must be 'memory' or 'redis', got '%s'", b)
	}
	if c.Scoring.SMAShortPeriod >= c.Scoring.SMALongPeriod {
		return fmt.Errorf("scoring.sma_short_period must be below sma_long_period")
	}
	if c.Scoring.RSILow > c.Scoring.RSIHigh {
		return fmt.Errorf("scoring.rsi_low must not exceed rsi_high")
	}
	w := c.Scoring.Weights
	if w.Trend < 0 || w.Momentum < 0 || w.Support < 0 || w.Volume < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}
	if sum := w.Trend + w.Momentum + w.Support + w.Volume; sum != 100 {
		return fmt.Errorf("scoring weights must sum to 100, got %d", sum)
	}
	return nil
}
