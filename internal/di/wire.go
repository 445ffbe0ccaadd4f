//go:build wireinject
// +build wireinject

package di

import (
	"CoinScan/pkg/config"
	"CoinScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideMetrics,
		ProvideHTTPClient,
		ProvideRateLimiter,
		ProvideCache,

		// Data sources
		ProvidePairSource,
		ProvideCandleSource,

		// Use cases
		ProvideScorer,
		ProvideScanner,
		ProvideRenderer,
		ProvideReportProcessor,
		ProvidePriceCollector,

		// Transport and lifecycle
		ProvideScheduler,
		ProvideHandler,
		ProvideApp,
	)
	return nil, nil
}
