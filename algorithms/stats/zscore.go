package stats

import (
	"gonum.org/v1/gonum/stat"
)

// degeneracyFloor is the minimum standard deviation treated as non-zero.
// Below it all z-scores are defined as zero instead of blowing up.
const degeneracyFloor = 1e-10

// ZScores computes within-subject z-scores for a vector of per-channel
// values: deviation from the cross-channel mean divided by the cross-channel
// population standard deviation.
func ZScores(values []float64) []float64 {
	scores := make([]float64, len(values))
	if len(values) == 0 {
		return scores
	}

	mean := stat.Mean(values, nil)
	sigma := stat.PopStdDev(values, nil)

	if sigma < degeneracyFloor {
		return scores
	}

	for i, v := range values {
		scores[i] = (v - mean) / sigma
	}
	return scores
}
