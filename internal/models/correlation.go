package models

// PredictorSignal is a smoothed, bounce-scaled, non-negative envelope derived
// from one candidate channel. It models the fringe frequency the channel's
// motion would imprint on the target through multi-bounce scattering.
type PredictorSignal struct {
	Channel string
	Values  []float64
}

// CorrelationRecord is the per-candidate scoring outcome. MeanFrequency is
// only computed for the winning channel.
type CorrelationRecord struct {
	Channel       string
	Correlation   float64
	MeanFrequency float64
}
