package qeeg

import (
	"math"

	"github.com/Q-the-Q/EEG-Viewer/logging"
)

// ArtifactStats reports the outcome of epoch-based artifact rejection.
type ArtifactStats struct {
	TotalEpochs    int `json:"total_epochs"`
	CleanEpochs    int `json:"clean_epochs"`
	RejectedEpochs int `json:"rejected_epochs"`
	// ThresholdUV is the peak-to-peak threshold actually settled on after
	// adaptive relaxation, in microvolts. +Inf when even the most permissive
	// threshold could not retain enough epochs and everything was accepted.
	ThresholdUV float64 `json:"threshold_uv"`
}

// PercentRejected returns the rejected fraction as a percentage.
func (s ArtifactStats) PercentRejected() float64 {
	if s.TotalEpochs == 0 {
		return 0.0
	}
	return float64(s.RejectedEpochs) / float64(s.TotalEpochs) * 100.0
}

// RejectionConfig controls epoch-based artifact rejection.
type RejectionConfig struct {
	// EpochSeconds is the fixed epoch duration.
	EpochSeconds float64 `json:"epoch_seconds"`
	// ThresholdUV is the initial peak-to-peak rejection threshold in µV.
	ThresholdUV float64 `json:"threshold_uv"`
	// RelaxationUV is the escalating threshold sequence tried when too few
	// epochs survive the initial threshold.
	RelaxationUV []float64 `json:"relaxation_uv"`
	// MinCleanEpochs is the floor below which thresholds keep relaxing.
	MinCleanEpochs int `json:"min_clean_epochs"`
}

// DefaultRejectionConfig returns the standard rejection parameters: 2-second
// epochs, 100 µV threshold relaxing through 150/200/300/500 µV, and a floor
// of 30 clean epochs.
func DefaultRejectionConfig() RejectionConfig {
	return RejectionConfig{
		EpochSeconds:   2.0,
		ThresholdUV:    100.0,
		RelaxationUV:   []float64{150.0, 200.0, 300.0, 500.0},
		MinCleanEpochs: 30,
	}
}

// RejectEpochs segments data (indexed [channel][sample], volts) into
// fixed-duration epochs and drops every epoch in which any channel's
// peak-to-peak amplitude exceeds the threshold. If fewer than
// MinCleanEpochs survive, the threshold relaxes through RelaxationUV; if
// even the last threshold cannot reach the floor, all epochs are accepted.
//
// The returned data is the concatenation of accepted epochs in original
// chronological order.
func RejectEpochs(data [][]float64, sampleRate float64, cfg RejectionConfig) ([][]float64, ArtifactStats) {
	logger := logging.WithFields(logging.Fields{
		"component": "epoch_rejector",
	})

	epochSamples := int(cfg.EpochSeconds * sampleRate)
	if len(data) == 0 || epochSamples <= 0 {
		return data, ArtifactStats{ThresholdUV: cfg.ThresholdUV}
	}

	numEpochs := len(data[0]) / epochSamples
	if numEpochs == 0 {
		return data, ArtifactStats{ThresholdUV: cfg.ThresholdUV}
	}

	threshold := cfg.ThresholdUV
	clean := cleanEpochIndices(data, epochSamples, numEpochs, threshold)

	if len(clean) < cfg.MinCleanEpochs {
		for _, relaxed := range cfg.RelaxationUV {
			threshold = relaxed
			clean = cleanEpochIndices(data, epochSamples, numEpochs, threshold)
			if len(clean) >= cfg.MinCleanEpochs {
				break
			}
		}
	}

	if len(clean) < cfg.MinCleanEpochs {
		// Never discard below the floor: keep everything.
		logger.Warn("artifact rejection could not retain enough epochs, keeping all", logging.Fields{
			"total_epochs": numEpochs,
			"floor":        cfg.MinCleanEpochs,
		})
		return data, ArtifactStats{
			TotalEpochs: numEpochs,
			CleanEpochs: numEpochs,
			ThresholdUV: math.Inf(1),
		}
	}

	out := make([][]float64, len(data))
	for ch := range data {
		out[ch] = make([]float64, 0, len(clean)*epochSamples)
		for _, e := range clean {
			start := e * epochSamples
			out[ch] = append(out[ch], data[ch][start:start+epochSamples]...)
		}
	}

	stats := ArtifactStats{
		TotalEpochs:    numEpochs,
		CleanEpochs:    len(clean),
		RejectedEpochs: numEpochs - len(clean),
		ThresholdUV:    threshold,
	}

	logger.Debug("artifact rejection complete", logging.Fields{
		"total_epochs":    stats.TotalEpochs,
		"clean_epochs":    stats.CleanEpochs,
		"rejected_epochs": stats.RejectedEpochs,
		"threshold_uv":    stats.ThresholdUV,
	})

	return out, stats
}

// cleanEpochIndices returns the epochs whose every channel stays within the
// peak-to-peak threshold, in chronological order.
func cleanEpochIndices(data [][]float64, epochSamples, numEpochs int, thresholdUV float64) []int {
	var clean []int
	for e := 0; e < numEpochs; e++ {
		start := e * epochSamples
		if epochIsClean(data, start, start+epochSamples, thresholdUV) {
			clean = append(clean, e)
		}
	}
	return clean
}

func epochIsClean(data [][]float64, start, end int, thresholdUV float64) bool {
	for ch := range data {
		lo, hi := data[ch][start], data[ch][start]
		for _, v := range data[ch][start+1 : end] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if (hi-lo)*1e6 > thresholdUV {
			return false
		}
	}
	return true
}
