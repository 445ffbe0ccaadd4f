package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "CoinScan/pkg/http"
	applogger "CoinScan/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

var testStablecoins = []string{"USDC", "BUSD", "TUSD", "USDP", "USDD", "DAI", "FDUSD", "PYUSD"}

func TestTopPairsFiltersAndSorts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/ticker/24hr" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"symbol":"BTCUSDT","quoteVolume":"900000"},
			{"symbol":"ETHUSDT","quoteVolume":"1200000"},
			{"symbol":"USDCUSDT","quoteVolume":"5000000"},
			{"symbol":"FDUSDUSDT","quoteVolume":"4000000"},
			{"symbol":"BTCEUR","quoteVolume":"800000"},
			{"symbol":"SOLUSDT","quoteVolume":"300000"}
		]`))
	}))
	defer srv.Close()

	src := NewBinancePairSource(apphttp.NewClient(), srv.URL, "USDT", testStablecoins, testLogger(t))

	pairs, err := src.TopPairs(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"ETHUSDT", "BTCUSDT", "SOLUSDT"}
	if len(pairs) != len(want) {
		t.Fatalf("expected %d pairs, got %v", len(want), pairs)
	}
	for i, w := range want {
		if pairs[i] != w {
			t.Fatalf("position %d: expected %s, got %s", i, w, pairs[i])
		}
	}
}

func TestTopPairsRespectsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"symbol":"BTCUSDT","quoteVolume":"900000"},
			{"symbol":"ETHUSDT","quoteVolume":"1200000"},
			{"symbol":"SOLUSDT","quoteVolume":"300000"}
		]`))
	}))
	defer srv.Close()

	src := NewBinancePairSource(apphttp.NewClient(), srv.URL, "USDT", testStablecoins, testLogger(t))

	pairs, err := src.TopPairs(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %v", pairs)
	}
	if pairs[0] != "ETHUSDT" || pairs[1] != "BTCUSDT" {
		t.Fatalf("unexpected order: %v", pairs)
	}
}

func TestTopPairsFallbackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	src := NewBinancePairSource(apphttp.NewClient(), srv.URL, "USDT", testStablecoins, testLogger(t))

	pairs, err := src.TopPairs(context.Background(), 5)
	if err != nil {
		t.Fatalf("fallback should not error: %v", err)
	}
	if len(pairs) != 5 {
		t.Fatalf("expected 5 fallback pairs, got %d", len(pairs))
	}
	if pairs[0] != "BTCUSDT" {
		t.Fatalf("expected BTCUSDT first in fallback, got %s", pairs[0])
	}
}

func TestTopPairsVolumeTieBreaksBySymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"symbol":"BBBUSDT","quoteVolume":"100"},
			{"symbol":"AAAUSDT","quoteVolume":"100"}
		]`))
	}))
	defer srv.Close()

	src := NewBinancePairSource(apphttp.NewClient(), srv.URL, "USDT", testStablecoins, testLogger(t))

	pairs, err := src.TopPairs(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pairs[0] != "AAAUSDT" {
		t.Fatalf("expected symbol tie-break, got %v", pairs)
	}
}
