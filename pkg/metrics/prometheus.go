package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	scansTotal    prometheus.Counter
	symbolsScored prometheus.Counter
	skipsTotal    *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	lastPrice     *prometheus.GaugeVec
	topScore      prometheus.Gauge
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		scansTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "coinscan_scans_total",
				Help: "Total number of completed scan cycles",
			},
		),
		symbolsScored: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "coinscan_symbols_scored_total",
				Help: "Total number of symbols scored across all cycles",
			},
		),
		skipsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinscan_symbols_skipped_total",
				Help: "Total number of symbols skipped, by reason",
			},
			[]string{"reason"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinscan_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coinscan_last_price",
				Help: "Last observed price for a symbol",
			},
			[]string{"symbol"},
		),
		topScore: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "coinscan_top_score",
				Help: "Highest opportunity score in the latest scan",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coinscan_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordScan records one completed scan cycle.
func (r *Recorder) RecordScan(scored, skipped int) {
	r.scansTotal.Inc()
	r.symbolsScored.Add(float64(scored))
}

// RecordSkip records one skipped symbol with its reason.
func (r *Recorder) RecordSkip(reason string) {
	r.skipsTotal.WithLabelValues(reason).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordTopScore records the best score of the latest cycle.
func (r *Recorder) RecordTopScore(score float64) {
	r.topScore.Set(score)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
