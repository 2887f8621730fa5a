package models

import "strings"

// Instrument is the closed enumeration of sites a channel can belong to.
// It is resolved once at ingestion time from the channel-name prefix, so
// validation logic never compares site strings directly.
type Instrument string

const (
	InstrumentUnknown    Instrument = ""
	InstrumentHanford    Instrument = "H1"
	InstrumentLivingston Instrument = "L1"
	InstrumentVirgo      Instrument = "V1"
)

// LockPolicy selects how instrument-state data is validated over a window.
type LockPolicy int

const (
	// LockPolicyNone means the instrument has no usable lock channel and
	// the precondition check is skipped.
	LockPolicyNone LockPolicy = iota
	// LockPolicySegment requires exactly one state segment spanning the
	// window edge to edge.
	LockPolicySegment
	// LockPolicyFlag requires every state sample to carry the locked flag.
	LockPolicyFlag
)

// ResolveInstrument derives the instrument from a channel name's site prefix,
// e.g. "V1:SUSP_BS" resolves to Virgo.
func ResolveInstrument(channelName string) Instrument {
	prefix, _, ok := strings.Cut(channelName, ":")
	if !ok {
		return InstrumentUnknown
	}
	switch Instrument(prefix) {
	case InstrumentHanford, InstrumentLivingston, InstrumentVirgo:
		return Instrument(prefix)
	default:
		return InstrumentUnknown
	}
}

// LockPolicyFor returns the validation policy as a pure function of the
// instrument. Livingston publishes discrete lock segments; Virgo publishes a
// continuous locked flag.
func LockPolicyFor(instrument Instrument) LockPolicy {
	switch instrument {
	case InstrumentLivingston:
		return LockPolicySegment
	case InstrumentVirgo:
		return LockPolicyFlag
	default:
		return LockPolicyNone
	}
}
