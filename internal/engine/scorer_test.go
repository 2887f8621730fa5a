package engine

import (
	"math"
	"testing"

	"github.com/scatterstack/scatter-culprit/internal/models"
)

func TestScorePicksStrongestCorrelation(t *testing.T) {
	target := []float64{1, 2, 3, 4, 5}
	predictors := []models.PredictorSignal{
		{Channel: "anti", Values: []float64{5, 4, 3, 2, 1}},
		{Channel: "aligned", Values: []float64{2, 4, 6, 8, 10}},
		{Channel: "noisy", Values: []float64{1, 3, 2, 5, 4}},
	}

	winner, corrs := Score(target, predictors)
	if winner != 1 {
		t.Fatalf("winner = %d (correlations %v), want 1", winner, corrs)
	}
	if len(corrs) != 3 {
		t.Fatalf("got %d correlations, want 3", len(corrs))
	}
	if math.Abs(corrs[0]+1) > 1e-12 || math.Abs(corrs[1]-1) > 1e-12 {
		t.Fatalf("correlations = %v", corrs)
	}
}

func TestScoreTieBreaksToFirst(t *testing.T) {
	target := []float64{1, 2, 3}
	predictors := []models.PredictorSignal{
		{Channel: "first", Values: []float64{1, 2, 3}},
		{Channel: "second", Values: []float64{1, 2, 3}},
	}

	winner, _ := Score(target, predictors)
	if winner != 0 {
		t.Fatalf("winner = %d, want 0 (first of the tied entries)", winner)
	}
}

func TestScoreSkipsNaN(t *testing.T) {
	target := []float64{1, 2, 3}
	predictors := []models.PredictorSignal{
		{Channel: "flat", Values: []float64{4, 4, 4}},
		{Channel: "aligned", Values: []float64{2, 4, 6}},
	}

	winner, corrs := Score(target, predictors)
	if winner != 1 {
		t.Fatalf("winner = %d (correlations %v), want 1", winner, corrs)
	}
	if !math.IsNaN(corrs[0]) {
		t.Fatalf("flat predictor correlation = %v, want NaN", corrs[0])
	}
}

func TestScoreNoFiniteWinner(t *testing.T) {
	target := []float64{1, 2, 3}
	predictors := []models.PredictorSignal{
		{Channel: "flat", Values: []float64{4, 4, 4}},
	}

	winner, _ := Score(target, predictors)
	if winner != -1 {
		t.Fatalf("winner = %d, want -1", winner)
	}

	if winner, _ := Score(target, nil); winner != -1 {
		t.Fatalf("empty predictors winner = %d, want -1", winner)
	}
}
