package models

import (
	"strconv"

	"github.com/scatterstack/scatter-culprit/internal/utils"
)

// CutoffPolicy enumerates the symbolic lowpass cutoff policies. When the
// expected scattering frequency is unknown a priori the cutoff is derived
// from the predictor population instead of a fixed number.
type CutoffPolicy string

const (
	// CutoffAverage resolves to the max over candidates of each
	// predictor's mean value.
	CutoffAverage CutoffPolicy = "average"
	// CutoffMax resolves to the max over candidates of each predictor's
	// max value.
	CutoffMax CutoffPolicy = "max"
)

// CutoffSpec is either a fixed numeric frequency or a symbolic policy.
type CutoffSpec struct {
	Frequency float64
	Policy    CutoffPolicy
}

// Numeric reports whether the spec carries a fixed frequency.
func (c CutoffSpec) Numeric() bool {
	return c.Policy == ""
}

// String renders the spec the way it was given on the command line.
func (c CutoffSpec) String() string {
	if c.Numeric() {
		return strconv.FormatFloat(c.Frequency, 'g', -1, 64)
	}
	return string(c.Policy)
}

// ParseCutoffSpec accepts a numeric frequency or one of the symbolic
// policies "average" and "max".
func ParseCutoffSpec(value string) (CutoffSpec, error) {
	switch CutoffPolicy(value) {
	case CutoffAverage, CutoffMax:
		return CutoffSpec{Policy: CutoffPolicy(value)}, nil
	}
	freq, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return CutoffSpec{}, utils.InvalidArgumentf("lowpass cutoff %q must be a frequency or one of average, max", value)
	}
	return CutoffSpec{Frequency: freq}, nil
}
