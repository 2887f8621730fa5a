package signal

// MovingAverage smooths x with a centered window of the given length,
// truncated at the edges so the output has the same sample count. A window
// of 1 or less returns a copy.
func MovingAverage(x []float64, window int) []float64 {
	n := len(x)
	out := make([]float64, n)
	if window <= 1 {
		copy(out, x)
		return out
	}

	left := window / 2
	right := window - left - 1
	for i := range x {
		lo := i - left
		if lo < 0 {
			lo = 0
		}
		hi := i + right + 1
		if hi > n {
			hi = n
		}
		sum := 0.0
		for _, v := range x[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}
