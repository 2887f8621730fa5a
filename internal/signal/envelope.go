// Package signal holds the numeric kernels shared by the predictor generator
// and the target filter: analytic-signal envelopes, moving-average smoothing,
// a zero-phase Butterworth lowpass, and Pearson correlation.
package signal

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Envelope returns the instantaneous amplitude of x, computed as the
// magnitude of the analytic signal. The analytic signal is built in the
// frequency domain: negative frequencies are zeroed and positive ones
// doubled before the inverse transform.
func Envelope(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}

	fft := fourier.NewCmplxFFT(n)
	seq := make([]complex128, n)
	for i, v := range x {
		seq[i] = complex(v, 0)
	}
	coeff := fft.Coefficients(nil, seq)

	// k=0 and, for even n, the Nyquist bin keep unit weight.
	half := n / 2
	for k := 1; k < half; k++ {
		coeff[k] *= 2
	}
	if n%2 != 0 && half >= 1 {
		coeff[half] *= 2
	}
	for k := half + 1; k < n; k++ {
		coeff[k] = 0
	}

	analytic := fft.Sequence(nil, coeff)

	env := make([]float64, n)
	scale := 1 / float64(n)
	for i, c := range analytic {
		env[i] = cmplx.Abs(c) * scale
	}
	return env
}
