package di

import (
	"fmt"

	domrepo "CoinScan/internal/domain/repository"
	"CoinScan/internal/handler/api"
	"CoinScan/internal/report"
	internalrepo "CoinScan/internal/repository"
	"CoinScan/internal/service/ratelimit"
	"CoinScan/internal/services/indicators"
	"CoinScan/internal/usecase"
	"CoinScan/pkg/cache"
	"CoinScan/pkg/config"
	xhttp "CoinScan/pkg/http"
	applogger "CoinScan/pkg/logger"
	"CoinScan/pkg/metrics"
	"CoinScan/pkg/scheduler"
	"CoinScan/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideHTTPClient creates the exchange HTTP client.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.Scanner.FetchTimeout))
}

// ProvideRateLimiter creates the shared token-bucket limiter.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideCache creates the candle cache backend, or nil when disabled.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Candles.Cache.Enabled {
		return nil, nil
	}
	switch cfg.Candles.Cache.Backend {
	case "redis":
		r := cfg.Candles.Cache.Redis
		svc, err := cache.NewRedisCache(
			cache.WithRedisHost(r.Host),
			cache.WithRedisPort(r.Port),
			cache.WithRedisPassword(r.Password),
			cache.WithRedisDB(r.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return svc, nil
	default:
		return cache.NewMemoryCache(), nil
	}
}

// ProvidePairSource selects the pair universe source for the configured
// candle backend.
func ProvidePairSource(cfg *config.Config, client *xhttp.Client, logger *applogger.Logger) domrepo.PairSource {
	if cfg.Candles.Source == "synthetic" {
		return internalrepo.NewStaticPairSource(nil)
	}
	return internalrepo.NewBinancePairSource(
		client,
		cfg.Exchange.BaseURL,
		cfg.Exchange.QuoteAsset,
		cfg.Exchange.Stablecoins,
		logger,
	)
}

// ProvideCandleSource builds the candle source, wrapped with the cycle
// cache when enabled.
func ProvideCandleSource(
	cfg *config.Config,
	client *xhttp.Client,
	limiter *ratelimit.Limiter,
	cacheSvc cache.Service,
	logger *applogger.Logger,
) domrepo.CandleSource {
	var src domrepo.CandleSource
	if cfg.Candles.Source == "synthetic" {
		src = internalrepo.NewSyntheticCandleSource()
	} else {
		src = internalrepo.NewBinanceCandleSource(client, cfg.Exchange.BaseURL, limiter, cfg.Exchange.RequestsPerSec)
	}
	if cacheSvc != nil {
		src = internalrepo.NewCachedCandleSource(src, cacheSvc, cfg.Scanner.Interval, logger)
	}
	return src
}

// ProvideScorer builds the rule-table scorer from config thresholds.
func ProvideScorer(cfg *config.Config) *usecase.Scorer {
	s := cfg.Scoring
	return usecase.NewScorer(usecase.ScoringRules{
		RSILow:             s.RSILow,
		RSIHigh:            s.RSIHigh,
		SupportMaxDistance: s.SupportMaxDistance,
		VolumeSpikeRatio:   s.VolumeSpikeRatio,
		TrendWeight:        s.Weights.Trend,
		MomentumWeight:     s.Weights.Momentum,
		SupportWeight:      s.Weights.Support,
		VolumeWeight:       s.Weights.Volume,
	})
}

// ProvideScanner creates the scan pipeline use case.
func ProvideScanner(
	pairs domrepo.PairSource,
	candles domrepo.CandleSource,
	scorer *usecase.Scorer,
	m domrepo.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.Scanner {
	return usecase.NewScanner(pairs, candles, scorer, m, logger, usecase.ScannerConfig{
		CandleInterval: domrepo.NormalizeInterval(cfg.Scanner.CandleInterval),
		CandleLimit:    cfg.Scanner.CandleLimit,
		PairLimit:      cfg.Scanner.PairLimit,
		TopN:           cfg.Scanner.TopN,
		Indicators: indicators.Params{
			SMAShort:     cfg.Scoring.SMAShortPeriod,
			SMALong:      cfg.Scoring.SMALongPeriod,
			RSIPeriod:    cfg.Scoring.RSIPeriod,
			VolumeWindow: cfg.Scoring.VolumeWindow,
		},
		SupportLookback: cfg.Scoring.SupportLookback,
	})
}

// ProvideRenderer creates the dashboard renderer.
func ProvideRenderer(cfg *config.Config) (*report.Renderer, error) {
	return report.NewRenderer(cfg.Report.Title)
}

// ProvideReportProcessor creates the report processor use case.
func ProvideReportProcessor(
	renderer *report.Renderer,
	m domrepo.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.ReportProcessor {
	return usecase.NewReportProcessor(renderer, m, logger, cfg.Report.OutputPath)
}

// ProvidePriceCollector creates the live price collector, or nil when the
// stream is disabled.
func ProvidePriceCollector(cfg *config.Config, m domrepo.Metrics, logger *applogger.Logger) *usecase.PriceCollector {
	if !cfg.Stream.Enabled {
		return nil
	}
	stream := internalrepo.NewBinanceTickerStream(
		cfg.Stream.URL,
		internalrepo.DefaultPairs(cfg.Scanner.PairLimit),
		cfg.Stream.ReconnectDelay,
		cfg.Stream.PingInterval,
		logger,
	)
	return usecase.NewPriceCollector(stream, m, logger)
}

// ProvideScheduler creates the job scheduler.
func ProvideScheduler(logger *applogger.Logger) *scheduler.Scheduler {
	return scheduler.New(logger)
}

// ProvideHandler creates the HTTP handler for the dashboard and API.
func ProvideHandler(
	logger *applogger.Logger,
	proc *usecase.ReportProcessor,
	collector *usecase.PriceCollector,
	renderer *report.Renderer,
) xhttp.Handler {
	return api.NewOpportunitiesEchoHandler(logger, proc, collector, renderer)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	scanner *usecase.Scanner,
	proc *usecase.ReportProcessor,
	collector *usecase.PriceCollector,
	sched *scheduler.Scheduler,
	cacheSvc cache.Service,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, logger, scanner, proc, collector, sched, cacheSvc, handler)
}
