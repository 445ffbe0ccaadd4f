package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"CoinScan/internal/domain/models"
	domrepo "CoinScan/internal/domain/repository"
	applogger "CoinScan/pkg/logger"

	"github.com/gorilla/websocket"
)

// BinanceTickerStream implements PriceStream over the Binance miniTicker
// WebSocket feed.
type BinanceTickerStream struct {
	url            string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	logger         *applogger.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
}

func NewBinanceTickerStream(url string, symbols []string, reconnectDelay, pingInterval time.Duration, logger *applogger.Logger) domrepo.PriceStream {
	return &BinanceTickerStream{
		url:            url,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		logger:         logger,
	}
}

// Connect establishes the WebSocket connection.
func (c *BinanceTickerStream) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("binance stream connect: %w", err)
	}
	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
	c.logger.Info("binance stream: connected", applogger.String("url", c.url))
	return nil
}

// Subscribe subscribes to the miniTicker channel for all configured symbols.
func (c *BinanceTickerStream) Subscribe(ctx context.Context) error {
	c.mu.Lock()
	conn, connected := c.conn, c.connected
	c.mu.Unlock()
	if conn == nil || !connected {
		return fmt.Errorf("binance stream not connected")
	}

	params := make([]string, 0, len(c.symbols))
	for _, s := range c.symbols {
		params = append(params, strings.ToLower(s)+"@miniTicker")
	}
	msg := map[string]interface{}{
		"method": "SUBSCRIBE",
		"params": params,
		"id":     1,
	}
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("subscribe miniTicker: %w", err)
	}
	c.logger.Info("binance stream: subscribed", applogger.Int("symbols", len(params)))
	return nil
}

type miniTickerEvent struct {
	Event  string `json:"e"`
	TimeMs int64  `json:"E"`
	Symbol string `json:"s"`
	Close  string `json:"c"`
}

// Read streams Ticker events and errors.
func (c *BinanceTickerStream) Read(ctx context.Context) (<-chan *models.Ticker, <-chan error) {
	ticks := make(chan *models.Ticker, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.mu.Lock()
				conn := c.conn
				c.mu.Unlock()
				if conn != nil {
					_ = conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(ticks)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				c.mu.Lock()
				conn := c.conn
				c.mu.Unlock()
				if conn == nil {
					errs <- fmt.Errorf("binance stream conn nil")
					return
				}
				_, b, err := conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("binance stream read: %w", err)
					return
				}
				var ev miniTickerEvent
				if err := json.Unmarshal(b, &ev); err != nil {
					// ignore subscription acks and other frames
					continue
				}
				if ev.Event != "24hrMiniTicker" {
					continue
				}
				price, err := strconv.ParseFloat(ev.Close, 64)
				if err != nil {
					continue
				}
				tick := &models.Ticker{Symbol: ev.Symbol, Price: price, Timestamp: ev.TimeMs / 1000}
				select {
				case ticks <- tick:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return ticks, errs
}

// Reconnect closes and reconnects.
func (c *BinanceTickerStream) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *BinanceTickerStream) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected reports the current connection state.
func (c *BinanceTickerStream) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
