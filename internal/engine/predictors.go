package engine

import (
	"github.com/scatterstack/scatter-culprit/internal/models"
	"github.com/scatterstack/scatter-culprit/internal/signal"
	"github.com/scatterstack/scatter-culprit/internal/utils"
)

// Predictors derives one predictor signal per candidate channel: the
// instantaneous-amplitude envelope of the raw series, smoothed with a moving
// average, scaled to the fringe frequency a scattering path with the given
// bounce count would produce. Scattered-light harmonics scale linearly with
// the bounce count, so the scaling is 2*bounce/wavelength.
func Predictors(candidates [][]float64, names []string, smoothWindow, bounce int, wavelengthMicrons float64) ([]models.PredictorSignal, error) {
	if bounce < 1 {
		return nil, utils.InvalidArgumentf("bounce order %d must be at least 1", bounce)
	}
	if smoothWindow < 1 {
		return nil, utils.InvalidArgumentf("smoothing window %d must be at least 1", smoothWindow)
	}
	if wavelengthMicrons <= 0 {
		return nil, utils.InvalidArgumentf("laser wavelength %v must be positive", wavelengthMicrons)
	}

	factor := 2 * float64(bounce) / wavelengthMicrons
	predictors := make([]models.PredictorSignal, 0, len(candidates))
	for i, series := range candidates {
		if len(series) < smoothWindow {
			return nil, utils.InsufficientDataf("channel %s has %d samples, smoothing window needs %d", names[i], len(series), smoothWindow)
		}
		smoothed := signal.MovingAverage(signal.Envelope(series), smoothWindow)
		for j, v := range smoothed {
			smoothed[j] = factor * v
		}
		predictors = append(predictors, models.PredictorSignal{Channel: names[i], Values: smoothed})
	}
	return predictors, nil
}
