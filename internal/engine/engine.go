// Package engine implements the correlation-based culprit identification
// flow: resolve the analysis window, gate on instrument lock state, fetch
// the channel matrix, build per-channel scattering predictors, lowpass the
// target, score every candidate, and persist the result record with its
// predictor sidecar.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scatterstack/scatter-culprit/internal/models"
	"github.com/scatterstack/scatter-culprit/internal/store"
	"github.com/scatterstack/scatter-culprit/internal/utils"
)

// DataProvider supplies the resampled channel matrix for a window.
type DataProvider interface {
	FetchChannels(ctx context.Context, target string, candidates []string, start, end, rate float64) (models.ChannelMatrix, float64, error)
}

// SpectralProvider computes the mean frequency of a channel over a window
// within a bandpass range.
type SpectralProvider interface {
	MeanFrequency(ctx context.Context, channel string, start, end float64, band [2]float64) (float64, error)
}

// Options holds the ambient analysis constants, made explicit so the option
// set can be validated and swapped in tests.
type Options struct {
	// Bandpass limits for the winning channel's mean-frequency statistic.
	Bandpass [2]float64
	// LaserWavelengthMicrons scales predictor envelopes to fringe
	// frequencies.
	LaserWavelengthMicrons float64
	// LockedFlagValue is the flag a continuous lock channel reports while
	// the instrument is locked.
	LockedFlagValue float64
}

// DefaultOptions returns the production constants.
func DefaultOptions() Options {
	return Options{
		Bandpass:               [2]float64{0.03, 10},
		LaserWavelengthMicrons: 1.064,
		LockedFlagValue:        1,
	}
}

// Params describes one window analysis.
type Params struct {
	GPS     float64
	Seconds float64
	Anchor  models.AnchorPosition

	TargetChannel  string
	Candidates     []string
	ChannelsSource string

	Lowpass      models.CutoffSpec
	SampleRate   float64
	BounceOrder  int
	SmoothWindow int

	CheckLock      bool
	SavePredictors bool
}

// Outcome is the result of one window analysis. Skipped outcomes carry no
// record: a failed lock precondition is a policy decision, not an error.
type Outcome struct {
	Skipped    bool
	SkipReason string

	Window       models.EventWindow
	SampleRate   float64
	Cutoff       float64
	Best         models.CorrelationRecord
	Correlations []float64
	RecordDir    string
}

// Engine runs single-window analyses. It is stateless between invocations;
// one call processes exactly one window to completion or to an early skip.
type Engine struct {
	logger   *slog.Logger
	data     DataProvider
	spectral SpectralProvider
	gate     *LockGate
	results  *store.Store
	opts     Options
}

// New constructs an Engine.
func New(logger *slog.Logger, data DataProvider, spectral SpectralProvider, gate *LockGate, results *store.Store, opts Options) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger:   logger,
		data:     data,
		spectral: spectral,
		gate:     gate,
		results:  results,
		opts:     opts,
	}
}

// Analyze runs the full pipeline for one window. Nothing is persisted until
// every computing stage has succeeded; a failure at any point leaves no
// partial record on disk.
func (e *Engine) Analyze(ctx context.Context, p Params) (Outcome, error) {
	if err := validateParams(p); err != nil {
		return Outcome{}, err
	}

	window, err := models.ResolveWindow(p.GPS, p.Seconds, p.Anchor)
	if err != nil {
		return Outcome{}, err
	}
	instrument := models.ResolveInstrument(p.TargetChannel)

	if p.CheckLock && e.gate != nil {
		decision, err := e.gate.Check(ctx, instrument, window)
		if err != nil {
			return Outcome{}, err
		}
		if !decision.Proceed {
			e.logger.Info("window skipped by lock precondition",
				slog.Float64("gps", p.GPS), slog.String("reason", decision.Reason))
			return Outcome{Skipped: true, SkipReason: decision.Reason, Window: window}, nil
		}
	}

	matrix, rate, err := e.data.FetchChannels(ctx, p.TargetChannel, p.Candidates, window.Start, window.End, p.SampleRate)
	if err != nil {
		return Outcome{}, fmt.Errorf("fetch channels: %w", err)
	}

	predictors, err := Predictors(matrix.Candidates(), matrix.CandidateNames(), p.SmoothWindow, p.BounceOrder, e.opts.LaserWavelengthMicrons)
	if err != nil {
		return Outcome{}, err
	}

	cutoff, err := ResolveCutoff(p.Lowpass, predictors)
	if err != nil {
		return Outcome{}, err
	}
	filtered, err := FilterTarget(matrix.Target(), cutoff, rate)
	if err != nil {
		return Outcome{}, err
	}

	winner, corrs := Score(filtered, predictors)
	if winner < 0 {
		return Outcome{}, utils.InsufficientDataf("no candidate produced a finite correlation")
	}

	meanFreq, err := e.spectral.MeanFrequency(ctx, predictors[winner].Channel, window.Start, window.End, e.opts.Bandpass)
	if err != nil {
		return Outcome{}, fmt.Errorf("mean frequency of %s: %w", predictors[winner].Channel, err)
	}

	best := models.CorrelationRecord{
		Channel:       predictors[winner].Channel,
		Correlation:   corrs[winner],
		MeanFrequency: meanFreq,
	}

	dir, err := e.persist(p, window, rate, cutoff, best, predictors[winner].Values)
	if err != nil {
		return Outcome{}, err
	}

	e.logger.Info("culprit identified",
		slog.Float64("gps", p.GPS),
		slog.String("channel", best.Channel),
		slog.Float64("correlation", best.Correlation),
		slog.Float64("mean_frequency", best.MeanFrequency))

	return Outcome{
		Window:       window,
		SampleRate:   rate,
		Cutoff:       cutoff,
		Best:         best,
		Correlations: corrs,
		RecordDir:    dir,
	}, nil
}

func (e *Engine) persist(p Params, window models.EventWindow, rate, cutoff float64, best models.CorrelationRecord, predictor []float64) (string, error) {
	dir, err := e.results.CreateFolder(int64(p.GPS))
	if err != nil {
		return "", err
	}

	rec := store.NewRecord()
	if err := rec.WriteParameters(store.Parameters{
		GPSStart:      window.Start,
		GPSEnd:        window.End,
		TargetChannel: p.TargetChannel,
		ChannelsList:  p.ChannelsSource,
		OutputPath:    dir,
		SamplingRate:  rate,
		Lowpass:       cutoff,
		BounceOrder:   p.BounceOrder,
		SmoothWindow:  p.SmoothWindow,
	}); err != nil {
		return "", err
	}
	rec.WriteCorrelations([]models.CorrelationRecord{best})
	if err := rec.Save(dir); err != nil {
		return "", err
	}

	if p.SavePredictors {
		if err := store.SavePredictors(dir, p.TargetChannel, predictor); err != nil {
			return "", err
		}
	}
	return dir, nil
}

func validateParams(p Params) error {
	if p.TargetChannel == "" {
		return utils.InvalidArgumentf("target channel must be set")
	}
	if len(p.Candidates) == 0 {
		return utils.InvalidArgumentf("channel list must contain at least one candidate")
	}
	if p.SampleRate <= 0 {
		return utils.InvalidArgumentf("sampling rate %v must be positive", p.SampleRate)
	}
	return nil
}
