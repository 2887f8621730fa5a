package engine

import (
	"errors"
	"testing"

	"github.com/scatterstack/scatter-culprit/internal/models"
	"github.com/scatterstack/scatter-culprit/internal/utils"
)

func TestResolveCutoff(t *testing.T) {
	predictors := []models.PredictorSignal{
		{Channel: "a", Values: []float64{1, 2, 3}}, // mean 2, max 3
		{Channel: "b", Values: []float64{0, 1, 5}}, // mean 2, max 5
	}

	cases := []struct {
		name string
		spec models.CutoffSpec
		want float64
	}{
		{name: "numeric passthrough", spec: models.CutoffSpec{Frequency: 7.5}, want: 7.5},
		{name: "average policy", spec: models.CutoffSpec{Policy: models.CutoffAverage}, want: 2},
		{name: "max policy", spec: models.CutoffSpec{Policy: models.CutoffMax}, want: 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveCutoff(tc.spec, predictors)
			if err != nil {
				t.Fatalf("ResolveCutoff returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("cutoff = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResolveCutoffErrors(t *testing.T) {
	predictors := []models.PredictorSignal{{Channel: "a", Values: []float64{1}}}

	if _, err := ResolveCutoff(models.CutoffSpec{Policy: models.CutoffAverage}, nil); !errors.Is(err, utils.ErrInvalidArgument) {
		t.Fatalf("empty predictors: error = %v, want ErrInvalidArgument", err)
	}
	if _, err := ResolveCutoff(models.CutoffSpec{Policy: "median"}, predictors); !errors.Is(err, utils.ErrInvalidArgument) {
		t.Fatalf("unknown policy: error = %v, want ErrInvalidArgument", err)
	}
}

func TestFilterTargetValidatesCutoff(t *testing.T) {
	if _, err := FilterTarget([]float64{1, 2, 3}, 200, 256); !errors.Is(err, utils.ErrInvalidArgument) {
		t.Fatalf("error = %v, want ErrInvalidArgument", err)
	}
}
