package indicators

import (
	"CoinScan/internal/domain/models"
)

// Support finds the support level in the last lookback candles.
//
// It prefers swing lows: local minima of the low series where both
// neighbors are strictly higher. The support is the highest swing low
// in the window, even when the close has already fallen below it; a
// close under support yields a negative distance. When no swing low
// exists it falls back to the plain minimum low of the window.
func Support(candles []models.Candle, lookback int) (models.SupportLevel, error) {
	if lookback <= 0 || len(candles) < 3 {
		return models.SupportLevel{}, ErrInsufficientData
	}

	window := candles
	if len(window) > lookback {
		window = window[len(window)-lookback:]
	}

	lows := make([]float64, len(window))
	for i, c := range window {
		lows[i] = c.Low
	}
	lastClose := window[len(window)-1].Close

	support := 0.0
	found := false
	for i := 1; i < len(lows)-1; i++ {
		if lows[i] < lows[i-1] && lows[i] < lows[i+1] {
			if !found || lows[i] > support {
				support = lows[i]
				found = true
			}
		}
	}

	if !found {
		support = lows[0]
		for _, l := range lows[1:] {
			if l < support {
				support = l
			}
		}
	}

	if support <= 0 {
		return models.SupportLevel{}, ErrInsufficientData
	}

	return models.SupportLevel{
		Price:       support,
		DistancePct: (lastClose - support) / support * 100,
	}, nil
}
