package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scatterstack/scatter-culprit/internal/models"
	"github.com/scatterstack/scatter-culprit/internal/repo"
)

// StateProvider supplies instrument lock-state data over a window.
type StateProvider interface {
	FetchInstrumentState(ctx context.Context, channel string, start, end float64) ([]repo.StateSegment, error)
}

// LockDecision is the tagged outcome of the lock precondition. A failed
// check is not an error: the window is skipped, and batch drivers can tell
// "skipped" from "crashed" by inspecting Proceed and Reason.
type LockDecision struct {
	Proceed bool
	Reason  string
}

func proceed() LockDecision {
	return LockDecision{Proceed: true}
}

func skipped(reason string) LockDecision {
	return LockDecision{Reason: reason}
}

// LockGate checks that the instrument was in a stable operating state over
// the whole window before data loading is paid for. Instruments without a
// configured lock channel pass automatically.
type LockGate struct {
	logger     *slog.Logger
	states     StateProvider
	channels   map[models.Instrument]string
	lockedFlag float64
}

// NewLockGate builds a gate from the per-instrument lock-channel map.
func NewLockGate(logger *slog.Logger, states StateProvider, channels map[models.Instrument]string, lockedFlag float64) *LockGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &LockGate{logger: logger, states: states, channels: channels, lockedFlag: lockedFlag}
}

// Check applies the instrument's lock policy over the window. Fetch failures
// surface as errors; policy violations surface as a non-proceed decision.
func (g *LockGate) Check(ctx context.Context, instrument models.Instrument, window models.EventWindow) (LockDecision, error) {
	channel, ok := g.channels[instrument]
	if !ok || channel == "" {
		g.logger.Debug("no lock channel for instrument, skipping check", slog.String("instrument", string(instrument)))
		return proceed(), nil
	}

	policy := models.LockPolicyFor(instrument)
	if policy == models.LockPolicyNone {
		return proceed(), nil
	}

	segments, err := g.states.FetchInstrumentState(ctx, channel, window.Start, window.End)
	if err != nil {
		return LockDecision{}, fmt.Errorf("fetch instrument state: %w", err)
	}

	switch policy {
	case models.LockPolicySegment:
		return checkSegmentPolicy(segments, window), nil
	case models.LockPolicyFlag:
		return g.checkFlagPolicy(segments), nil
	default:
		return proceed(), nil
	}
}

// checkSegmentPolicy requires exactly one segment whose first and last
// sample timestamps match the window bounds exactly.
func checkSegmentPolicy(segments []repo.StateSegment, window models.EventWindow) LockDecision {
	if len(segments) != 1 {
		return skipped(fmt.Sprintf("expected one lock segment, got %d", len(segments)))
	}
	samples := segments[0].Samples
	if len(samples) == 0 {
		return skipped("lock segment has no samples")
	}
	if samples[0].Time != window.Start || samples[len(samples)-1].Time != window.End {
		return skipped("lock segment does not span the window")
	}
	return proceed()
}

// checkFlagPolicy requires every sample to carry the locked flag value.
// An empty series passes: no sample contradicts the flag.
func (g *LockGate) checkFlagPolicy(segments []repo.StateSegment) LockDecision {
	for _, seg := range segments {
		for _, sample := range seg.Samples {
			if sample.Value != g.lockedFlag {
				return skipped(fmt.Sprintf("lock flag %v at gps %v", sample.Value, sample.Time))
			}
		}
	}
	return proceed()
}
