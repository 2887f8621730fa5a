package engine

import (
	"math"

	"github.com/scatterstack/scatter-culprit/internal/models"
	"github.com/scatterstack/scatter-culprit/internal/signal"
)

// Score computes the Pearson correlation between each predictor and the
// filtered target and returns the winning index plus every coefficient.
// Selection is deterministic: the strictly maximum coefficient wins, ties
// break to the first occurrence in channel-list order. Predictors with no
// finite coefficient (zero variance on either side) never win; if none is
// finite the winner index is -1.
func Score(filteredTarget []float64, predictors []models.PredictorSignal) (int, []float64) {
	corrs := make([]float64, len(predictors))
	winner := -1
	best := math.Inf(-1)
	for i, p := range predictors {
		corrs[i] = signal.Pearson(p.Values, filteredTarget)
		if corrs[i] > best {
			best = corrs[i]
			winner = i
		}
	}
	return winner, corrs
}
