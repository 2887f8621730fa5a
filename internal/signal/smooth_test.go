package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingAverageCenteredWindow(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4, 5}, 3)
	assert.Equal(t, []float64{1.5, 2, 3, 4, 4.5}, got)
}

func TestMovingAverageWindowOneCopies(t *testing.T) {
	in := []float64{3, 1, 4}
	got := MovingAverage(in, 1)
	require.Equal(t, in, got)

	got[0] = 99
	assert.Equal(t, 3.0, in[0], "output must not alias the input")
}

func TestMovingAverageEvenWindow(t *testing.T) {
	// Window 4 splits as 2 left, 1 right; edges shrink to what is available.
	got := MovingAverage([]float64{1, 2, 3, 4}, 4)
	assert.Equal(t, []float64{1.5, 2, 2.5, 3}, got)
}

func TestMovingAveragePreservesConstant(t *testing.T) {
	got := MovingAverage([]float64{7, 7, 7, 7, 7, 7}, 5)
	for _, v := range got {
		assert.Equal(t, 7.0, v)
	}
}
