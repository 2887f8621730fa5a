package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels windows that produced a persisted record.
	OutcomeSuccess = "success"
	// OutcomeSkipped labels windows rejected by the lock precondition.
	OutcomeSkipped = "skipped"
	// OutcomeError labels windows that failed outright.
	OutcomeError = "error"
)

var (
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scatter_culprit",
			Name:      "analyses_total",
			Help:      "Total number of window analyses, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	analysisDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "scatter_culprit",
			Name:      "analysis_seconds",
			Help:      "Single-window analysis latency in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
	)
)

// Register attaches the engine collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		analysesTotal,
		analysisDurationSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveAnalysis records one window analysis duration and outcome.
func ObserveAnalysis(duration time.Duration, outcome string) {
	switch outcome {
	case OutcomeSkipped, OutcomeError:
	default:
		outcome = OutcomeSuccess
	}
	analysesTotal.WithLabelValues(outcome).Inc()
	if duration < 0 {
		duration = 0
	}
	analysisDurationSeconds.Observe(duration.Seconds())
}
