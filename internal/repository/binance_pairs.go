package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	apphttp "CoinScan/pkg/http"
	applogger "CoinScan/pkg/logger"
)

// fallbackPairs is served when the 24h ticker endpoint is unreachable, so
// a scan cycle can still run on a well-known universe.
var fallbackPairs = []string{
	"BTCUSDT", "ETHUSDT", "BNBUSDT", "SOLUSDT", "XRPUSDT",
	"ADAUSDT", "DOGEUSDT", "DOTUSDT", "MATICUSDT", "AVAXUSDT",
	"LINKUSDT", "UNIUSDT", "LTCUSDT", "ATOMUSDT", "ETCUSDT",
	"XLMUSDT", "ALGOUSDT", "VETUSDT", "ICPUSDT", "FILUSDT",
	"TRXUSDT", "EOSUSDT", "AAVEUSDT", "THETAUSDT", "SANDUSDT",
	"MANAUSDT", "AXSUSDT", "NEARUSDT", "FTMUSDT", "GRTUSDT",
	"HBARUSDT", "EGLDUSDT", "ZECUSDT", "CHZUSDT", "ENJUSDT",
	"BATUSDT", "ZILUSDT", "IOTAUSDT", "ONTUSDT", "QTUMUSDT",
	"WAVESUSDT", "OMGUSDT", "SNXUSDT", "MKRUSDT", "COMPUSDT",
	"YFIUSDT", "SUSHIUSDT", "CRVUSDT", "1INCHUSDT", "RENUSDT",
}

// DefaultPairs returns a copy of the static popular pair list, capped to
// limit when limit is positive. Used for stream subscriptions and the
// synthetic universe.
func DefaultPairs(limit int) []string {
	out := append([]string(nil), fallbackPairs...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// BinancePairSource discovers the top quote-volume pairs from the Binance
// 24h ticker endpoint.
type BinancePairSource struct {
	client      *apphttp.Client
	baseURL     string
	quoteAsset  string
	stablecoins map[string]struct{}
	logger      *applogger.Logger
}

func NewBinancePairSource(client *apphttp.Client, baseURL, quoteAsset string, stablecoins []string, logger *applogger.Logger) *BinancePairSource {
	set := make(map[string]struct{}, len(stablecoins))
	for _, s := range stablecoins {
		set[strings.ToUpper(s)] = struct{}{}
	}
	return &BinancePairSource{
		client:      client,
		baseURL:     strings.TrimRight(baseURL, "/"),
		quoteAsset:  strings.ToUpper(quoteAsset),
		stablecoins: set,
		logger:      logger,
	}
}

type ticker24h struct {
	Symbol      string `json:"symbol"`
	QuoteVolume string `json:"quoteVolume"`
}

// TopPairs returns up to limit symbols quoted in the configured asset,
// stablecoin bases excluded, sorted by 24h quote volume descending. When
// the exchange is unreachable it falls back to a static popular list.
func (s *BinancePairSource) TopPairs(ctx context.Context, limit int) ([]string, error) {
	var tickers []ticker24h
	url := s.baseURL + "/api/v3/ticker/24hr"
	if err := s.client.GetJSON(ctx, url, nil, &tickers); err != nil {
		s.logger.Warn("binance pairs: ticker fetch failed, using fallback list", applogger.Error(err))
		return s.fallback(limit), nil
	}

	type pairVolume struct {
		symbol string
		volume float64
	}
	pairs := make([]pairVolume, 0, len(tickers))
	for _, t := range tickers {
		base, ok := s.baseAsset(t.Symbol)
		if !ok {
			continue
		}
		if _, stable := s.stablecoins[base]; stable {
			continue
		}
		vol, err := strconv.ParseFloat(t.QuoteVolume, 64)
		if err != nil {
			continue
		}
		pairs = append(pairs, pairVolume{symbol: t.Symbol, volume: vol})
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("no %s pairs in ticker response", s.quoteAsset)
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].volume != pairs[j].volume {
			return pairs[i].volume > pairs[j].volume
		}
		return pairs[i].symbol < pairs[j].symbol
	})

	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.symbol
	}
	return out, nil
}

func (s *BinancePairSource) baseAsset(symbol string) (string, bool) {
	if !strings.HasSuffix(symbol, s.quoteAsset) || len(symbol) <= len(s.quoteAsset) {
		return "", false
	}
	return strings.TrimSuffix(symbol, s.quoteAsset), true
}

func (s *BinancePairSource) fallback(limit int) []string {
	out := make([]string, 0, len(fallbackPairs))
	for _, sym := range fallbackPairs {
		base, ok := s.baseAsset(sym)
		if !ok {
			continue
		}
		if _, stable := s.stablecoins[base]; stable {
			continue
		}
		out = append(out, sym)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
