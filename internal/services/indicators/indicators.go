package indicators

import (
	"errors"

	"CoinScan/internal/domain/models"
)

// ErrInsufficientData is returned when a series is too short for the
// requested window.
var ErrInsufficientData = errors.New("insufficient data for indicator window")

// Params holds the window sizes used by Compute.
type Params struct {
	SMAShort     int
	SMALong      int
	RSIPeriod    int
	VolumeWindow int
}

// SMA returns the simple moving average of the last period values.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 || len(values) < period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// RSI computes the Relative Strength Index over the last period changes
// using a plain rolling mean of gains and losses. When the window has no
// losses the value is pinned to 100.
func RSI(closes []float64, period int) (float64, error) {
	if period <= 0 || len(closes) < period+1 {
		return 0, ErrInsufficientData
	}

	sumGain := 0.0
	sumLoss := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			sumGain += change
		} else {
			sumLoss += -change
		}
	}

	avgGain := sumGain / float64(period)
	avgLoss := sumLoss / float64(period)

	if avgLoss == 0 {
		return 100, nil
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs)), nil
}

// VolumeStats returns the average volume over the last window candles and
// the volume of the most recent candle.
func VolumeStats(candles []models.Candle, window int) (avg, last float64, err error) {
	if window <= 0 || len(candles) < window {
		return 0, 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(candles) - window; i < len(candles); i++ {
		sum += candles[i].Volume
	}
	return sum / float64(window), candles[len(candles)-1].Volume, nil
}

// Compute derives the full indicator set for one symbol from its candles.
func Compute(candles []models.Candle, p Params) (models.IndicatorSet, error) {
	need := p.SMALong
	if p.RSIPeriod+1 > need {
		need = p.RSIPeriod + 1
	}
	if p.VolumeWindow > need {
		need = p.VolumeWindow
	}
	if len(candles) < need {
		return models.IndicatorSet{}, ErrInsufficientData
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	smaShort, err := SMA(closes, p.SMAShort)
	if err != nil {
		return models.IndicatorSet{}, err
	}
	smaLong, err := SMA(closes, p.SMALong)
	if err != nil {
		return models.IndicatorSet{}, err
	}
	rsi, err := RSI(closes, p.RSIPeriod)
	if err != nil {
		return models.IndicatorSet{}, err
	}
	avgVol, lastVol, err := VolumeStats(candles, p.VolumeWindow)
	if err != nil {
		return models.IndicatorSet{}, err
	}

	return models.IndicatorSet{
		SMAShort:   smaShort,
		SMALong:    smaLong,
		RSI:        rsi,
		AvgVolume:  avgVol,
		LastVolume: lastVol,
		LastClose:  closes[len(closes)-1],
	}, nil
}
