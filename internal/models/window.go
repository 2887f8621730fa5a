package models

import (
	"github.com/scatterstack/scatter-culprit/internal/utils"
)

// AnchorPosition says which edge or midpoint of the analysis window the
// caller's reference GPS timestamp represents.
type AnchorPosition string

const (
	AnchorStart  AnchorPosition = "start"
	AnchorCenter AnchorPosition = "center"
	AnchorEnd    AnchorPosition = "end"
)

// ParseAnchorPosition validates a position string against the closed set.
func ParseAnchorPosition(value string) (AnchorPosition, error) {
	switch AnchorPosition(value) {
	case AnchorStart, AnchorCenter, AnchorEnd:
		return AnchorPosition(value), nil
	default:
		return "", utils.InvalidArgumentf("anchor position %q must be one of start, center, end", value)
	}
}

// EventWindow is an absolute [Start, End) GPS interval. Immutable once
// resolved; Start < End always holds for windows built by ResolveWindow.
type EventWindow struct {
	Start float64
	End   float64
}

// Duration returns the window length in seconds.
func (w EventWindow) Duration() float64 {
	return w.End - w.Start
}

// Anchor maps the window back to a single GPS timestamp at the given position.
func (w EventWindow) Anchor(position AnchorPosition) float64 {
	switch position {
	case AnchorStart:
		return w.Start
	case AnchorEnd:
		return w.End
	default:
		return (w.Start + w.End) / 2
	}
}

// ResolveWindow maps (anchor GPS, duration, anchor position) to an absolute
// interval. Pure function: no side effects, no clock access.
func ResolveWindow(anchor, seconds float64, position AnchorPosition) (EventWindow, error) {
	if seconds <= 0 {
		return EventWindow{}, utils.InvalidArgumentf("window duration %v must be positive", seconds)
	}
	switch position {
	case AnchorStart:
		return EventWindow{Start: anchor, End: anchor + seconds}, nil
	case AnchorCenter:
		return EventWindow{Start: anchor - seconds/2, End: anchor + seconds/2}, nil
	case AnchorEnd:
		return EventWindow{Start: anchor - seconds, End: anchor}, nil
	default:
		return EventWindow{}, utils.InvalidArgumentf("anchor position %q must be one of start, center, end", string(position))
	}
}
