package usecase

import (
	"context"
	"sync"
	"time"

	"CoinScan/internal/domain/models"
	domrepo "CoinScan/internal/domain/repository"
	applogger "CoinScan/pkg/logger"
)

// PriceCollector consumes the live ticker stream and keeps the latest
// price per symbol. The scan pipeline does not depend on it; the report
// layer uses it to decorate results with fresher prices when available.
type PriceCollector struct {
	stream  domrepo.PriceStream
	metrics domrepo.Metrics
	logger  *applogger.Logger

	mu     sync.RWMutex
	prices map[string]float64
}

func NewPriceCollector(stream domrepo.PriceStream, metrics domrepo.Metrics, logger *applogger.Logger) *PriceCollector {
	return &PriceCollector{
		stream:  stream,
		metrics: metrics,
		logger:  logger,
		prices:  make(map[string]float64),
	}
}

// IsConnected reports whether the underlying stream is connected.
func (c *PriceCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *PriceCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	tkCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, tkCh, errCh)
	return nil
}

// consume drains the stream channels. The read loop closes both channels
// when it stops, so a closed channel (or an error) means the whole loop
// must be reopened on a fresh connection, not just reconnected.
func (c *PriceCollector) consume(ctx context.Context, tkCh <-chan *models.Ticker, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			if !ok || err == nil {
				errCh = nil // closed or spurious; wait for the tick channel to close
				continue
			}
			c.metrics.RecordError("stream")
			c.logger.Warn("price collector: stream error, reconnecting", applogger.Error(err))
			if tkCh, errCh = c.reopen(ctx); tkCh == nil {
				return
			}
		case t, ok := <-tkCh:
			if !ok {
				if tkCh, errCh = c.reopen(ctx); tkCh == nil {
					return
				}
				continue
			}
			if t == nil {
				continue
			}
			c.mu.Lock()
			c.prices[t.Symbol] = t.Price
			c.mu.Unlock()
			c.metrics.RecordLastPrice(t.Symbol, t.Price)
		}
	}
}

// reopen reconnects and starts a fresh read loop, retrying until it
// succeeds. Returns nil channels once the context ends.
func (c *PriceCollector) reopen(ctx context.Context) (<-chan *models.Ticker, <-chan error) {
	for {
		if ctx.Err() != nil {
			return nil, nil
		}
		if err := c.stream.Reconnect(ctx); err != nil {
			c.metrics.RecordError("stream")
			c.logger.Warn("price collector: reconnect failed", applogger.Error(err))
			select {
			case <-ctx.Done():
				return nil, nil
			case <-time.After(time.Second):
			}
			continue
		}
		return c.stream.Read(ctx)
	}
}

// LastPrice returns the most recent streamed price for a symbol.
func (c *PriceCollector) LastPrice(symbol string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.prices[symbol]
	return p, ok
}

// Prices returns a copy of all known last prices.
func (c *PriceCollector) Prices() map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]float64, len(c.prices))
	for k, v := range c.prices {
		out[k] = v
	}
	return out
}

// Shutdown closes the stream.
func (c *PriceCollector) Shutdown(ctx context.Context) error {
	return c.stream.Close()
}
