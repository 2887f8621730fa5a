package models

import "fmt"

// ChannelMatrix holds equal-length series sampled at a common rate over one
// EventWindow. Names and Series are index-aligned; position 0 is the target
// channel and the remainder are candidates. Uniform sampling is enforced by
// the archive provider, not here.
type ChannelMatrix struct {
	Names  []string
	Series [][]float64
}

// Validate checks index alignment and equal series lengths.
func (m ChannelMatrix) Validate() error {
	if len(m.Names) != len(m.Series) {
		return fmt.Errorf("channel matrix has %d names but %d series", len(m.Names), len(m.Series))
	}
	if len(m.Series) == 0 {
		return fmt.Errorf("channel matrix is empty")
	}
	want := len(m.Series[0])
	for i, s := range m.Series {
		if len(s) != want {
			return fmt.Errorf("channel %s has %d samples, want %d", m.Names[i], len(s), want)
		}
	}
	return nil
}

// Target returns the primary channel series.
func (m ChannelMatrix) Target() []float64 {
	return m.Series[0]
}

// Candidates returns the auxiliary channel series, order preserved.
func (m ChannelMatrix) Candidates() [][]float64 {
	return m.Series[1:]
}

// CandidateNames returns the auxiliary channel names, order preserved.
func (m ChannelMatrix) CandidateNames() []string {
	return m.Names[1:]
}

// Samples returns the common series length.
func (m ChannelMatrix) Samples() int {
	if len(m.Series) == 0 {
		return 0
	}
	return len(m.Series[0])
}
