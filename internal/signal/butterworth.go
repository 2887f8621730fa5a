package signal

import (
	"math"

	"github.com/scatterstack/scatter-culprit/internal/utils"
)

// ButterLowpass applies a second-order Butterworth lowpass at cutoff Hz to x
// sampled at rate Hz. The filter runs forward and then backward so the
// output is zero-phase, and the output length equals the input length.
// The cutoff must lie strictly between 0 and the Nyquist frequency.
func ButterLowpass(x []float64, cutoff, rate float64) ([]float64, error) {
	if rate <= 0 {
		return nil, utils.InvalidArgumentf("sampling rate %v must be positive", rate)
	}
	nyquist := rate / 2
	if cutoff <= 0 || cutoff >= nyquist {
		return nil, utils.InvalidArgumentf("cutoff %v Hz outside (0, %v) for rate %v Hz", cutoff, nyquist, rate)
	}

	b, a := butterCoefficients(cutoff, rate)

	forward := applyBiquad(x, b, a)
	reverse(forward)
	backward := applyBiquad(forward, b, a)
	reverse(backward)
	return backward, nil
}

// butterCoefficients derives second-order lowpass coefficients via the
// bilinear transform with frequency prewarping.
func butterCoefficients(cutoff, rate float64) (b [3]float64, a [2]float64) {
	omega := math.Tan(math.Pi * cutoff / rate)
	omega2 := omega * omega
	norm := 1 / (1 + math.Sqrt2*omega + omega2)

	b[0] = omega2 * norm
	b[1] = 2 * b[0]
	b[2] = b[0]
	a[0] = 2 * (omega2 - 1) * norm
	a[1] = (1 - math.Sqrt2*omega + omega2) * norm
	return b, a
}

func applyBiquad(x []float64, b [3]float64, a [2]float64) []float64 {
	out := make([]float64, len(x))
	var x1, x2, y1, y2 float64
	for i, v := range x {
		y := b[0]*v + b[1]*x1 + b[2]*x2 - a[0]*y1 - a[1]*y2
		x2, x1 = x1, v
		y2, y1 = y1, y
		out[i] = y
	}
	return out
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
