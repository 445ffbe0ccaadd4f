package usecase

import (
	"CoinScan/internal/domain/models"
)

// Criterion names as they appear in score breakdowns and the report UI.
const (
	CriterionTrend    = "uptrend"
	CriterionMomentum = "rsi_pullback"
	CriterionSupport  = "near_support"
	CriterionVolume   = "volume_spike"
)

// ScoringRules holds the thresholds and weights of the rule table. All
// values come from configuration so the heuristic can be tuned without a
// rebuild.
type ScoringRules struct {
	RSILow             float64
	RSIHigh            float64
	SupportMaxDistance float64
	VolumeSpikeRatio   float64

	TrendWeight    int
	MomentumWeight int
	SupportWeight  int
	VolumeWeight   int
}

// Scorer applies the fixed rule table to a symbol's indicators.
type Scorer struct {
	rules ScoringRules
}

func NewScorer(rules ScoringRules) *Scorer {
	return &Scorer{rules: rules}
}

// Score evaluates all four criteria and sums the weights of those met.
// The result is deterministic for a given input.
func (s *Scorer) Score(symbol string, ind models.IndicatorSet, sup models.SupportLevel) models.ScoreResult {
	r := s.rules

	trend := ind.SMAShort > ind.SMALong
	momentum := ind.RSI >= r.RSILow && ind.RSI <= r.RSIHigh
	support := sup.DistancePct >= 0 && sup.DistancePct < r.SupportMaxDistance
	volume := ind.LastVolume > r.VolumeSpikeRatio*ind.AvgVolume

	breakdown := []models.Criterion{
		criterion(CriterionTrend, trend, r.TrendWeight),
		criterion(CriterionMomentum, momentum, r.MomentumWeight),
		criterion(CriterionSupport, support, r.SupportWeight),
		criterion(CriterionVolume, volume, r.VolumeWeight),
	}

	score := 0
	for _, c := range breakdown {
		score += c.Points
	}

	volumeRatio := 0.0
	if ind.AvgVolume > 0 {
		volumeRatio = ind.LastVolume / ind.AvgVolume
	}

	return models.ScoreResult{
		Symbol:      symbol,
		Score:       score,
		LastPrice:   ind.LastClose,
		RSI:         ind.RSI,
		VolumeRatio: volumeRatio,
		Breakdown:   breakdown,
	}
}

func criterion(name string, met bool, weight int) models.Criterion {
	points := 0
	if met {
		points = weight
	}
	return models.Criterion{Name: name, Met: met, Points: points}
}
