package engine

import (
	"github.com/scatterstack/scatter-culprit/internal/models"
	"github.com/scatterstack/scatter-culprit/internal/signal"
	"github.com/scatterstack/scatter-culprit/internal/utils"
)

// ResolveCutoff turns a cutoff spec into a numeric frequency. Symbolic
// policies are data-driven from the predictor population: "average" takes
// the max over candidates of each predictor's mean, "max" the max of maxes.
func ResolveCutoff(spec models.CutoffSpec, predictors []models.PredictorSignal) (float64, error) {
	if spec.Numeric() {
		return spec.Frequency, nil
	}
	if len(predictors) == 0 {
		return 0, utils.InvalidArgumentf("cutoff policy %q needs at least one predictor", spec.Policy)
	}

	cutoff := 0.0
	switch spec.Policy {
	case models.CutoffAverage:
		for _, p := range predictors {
			if m := signal.Mean(p.Values); m > cutoff {
				cutoff = m
			}
		}
	case models.CutoffMax:
		for _, p := range predictors {
			if m := signal.Max(p.Values); m > cutoff {
				cutoff = m
			}
		}
	default:
		return 0, utils.InvalidArgumentf("unknown cutoff policy %q", spec.Policy)
	}
	return cutoff, nil
}

// FilterTarget lowpasses the raw target series at the resolved cutoff.
// Cutoff validation against the Nyquist frequency happens inside the filter.
func FilterTarget(target []float64, cutoff, rate float64) ([]float64, error) {
	return signal.ButterLowpass(target, cutoff, rate)
}
