package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"CoinScan/internal/usecase"
	"CoinScan/pkg/cache"
	"CoinScan/pkg/config"
	xhttp "CoinScan/pkg/http"
	applogger "CoinScan/pkg/logger"
	"CoinScan/pkg/scheduler"
)

// App encapsulates the entire application lifecycle: the scan scheduler,
// the optional live price stream, and the HTTP server.
type App struct {
	cfg       *config.Config
	logger    *applogger.Logger
	scanner   *usecase.Scanner
	proc      *usecase.ReportProcessor
	collector *usecase.PriceCollector // nil when the stream is disabled
	sched     *scheduler.Scheduler
	cache     cache.Service // nil when caching is disabled

	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	scanner *usecase.Scanner,
	proc *usecase.ReportProcessor,
	collector *usecase.PriceCollector,
	sched *scheduler.Scheduler,
	cacheSvc cache.Service,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:         cfg,
		logger:      logger,
		scanner:     scanner,
		proc:        proc,
		collector:   collector,
		sched:       sched,
		cache:       cacheSvc,
		httpHandler: handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)

	// The scan job runs once at startup, then on the configured interval.
	a.sched.Register(&scheduler.Job{
		Name:        "market-scan",
		Description: "fetch pairs, compute indicators, score and publish the report",
		Schedule:    scheduler.Every(a.cfg.Scanner.Interval),
		RunAtStart:  true,
		Timeout:     a.cfg.Scanner.Interval,
		Handler:     a.runScan,
	})
	a.sched.Start()

	if a.collector != nil {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				a.logger.Error("price collector start error", applogger.Error(err))
			}
		}()
		a.logger.Info("price collector started")
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("app started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Duration("scan_interval_ms", a.cfg.Scanner.Interval),
	)

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

func (a *App) runScan(ctx context.Context) error {
	report, err := a.scanner.Scan(ctx)
	if err != nil {
		return err
	}
	return a.proc.Process(ctx, report)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	// Stop scheduling new scans and wait for the running one.
	a.sched.Stop()

	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			a.logger.Warn("price collector stop error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
