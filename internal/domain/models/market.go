package models

import "time"

// Candle represents one OHLCV bar for a trading pair.
type Candle struct {
	Symbol   string
	OpenTime time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// IndicatorSet holds the derived values for one symbol for a single scan
// cycle. It is computed fresh each cycle and never retained across cycles.
type IndicatorSet struct {
	SMAShort   float64
	SMALong    float64
	RSI        float64
	AvgVolume  float64
	LastVolume float64
	LastClose  float64
}

// SupportLevel is a recent price floor plus the distance from the latest
// close to that floor. A negative DistancePct means price sits below support.
type SupportLevel struct {
	Price       float64
	DistancePct float64
}

// Criterion is one scoring rule outcome. Points is the awarded value: the
// rule's full weight when Met, zero otherwise.
type Criterion struct {
	Name   string `json:"name"`
	Met    bool   `json:"met"`
	Points int    `json:"points"`
}

// ScoreResult is the scored outcome for one symbol in one cycle.
type ScoreResult struct {
	Symbol      string      `json:"symbol"`
	Score       int         `json:"score"`
	LastPrice   float64     `json:"last_price"`
	RSI         float64     `json:"rsi"`
	VolumeRatio float64     `json:"volume_ratio"`
	Breakdown   []Criterion `json:"breakdown"`
}

// Ticker is a live last-price update from the exchange stream.
type Ticker struct {
	Symbol    string
	Price     float64
	Timestamp int64 // unix seconds
}

// ScanReport is the ranked output of one full scan cycle.
type ScanReport struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Interval    string        `json:"interval"`
	Scanned     int           `json:"scanned"`
	Skipped     int           `json:"skipped"`
	Results     []ScoreResult `json:"results"`
}
