package spectral

import (
	"github.com/Q-the-Q/EEG-Viewer/algorithms/windowing"
)

// CoherenceResult is a magnitude-squared coherence spectrum between two
// signals. Values are in [0, 1] per bin.
type CoherenceResult struct {
	Freqs     []float64 `json:"freqs"`
	Coherence []float64 `json:"coherence"`
}

// Coherence estimates the magnitude-squared coherence between x and y with
// Welch segmentation: per segment the windowed spectra of both signals are
// computed and the auto-spectra and cross-spectrum accumulated, then per bin
//
//	Cxy = |Pxy|^2 / (Pxx * Pyy)
//
// Bins with a zero denominator are defined as zero. The two signals are
// truncated to their common length.
func Coherence(x, y []float64, cfg WelchConfig) *CoherenceResult {
	n := min(len(x), len(y))
	if n == 0 {
		return &CoherenceResult{Freqs: []float64{}, Coherence: []float64{}}
	}

	plan := segmentPlan(n, cfg)
	window := windowing.NewHann(plan.segLen, false)

	freqBins := plan.segLen/2 + 1
	autoX := make([]float64, freqBins)
	autoY := make([]float64, freqBins)
	crossRe := make([]float64, freqBins)
	crossIm := make([]float64, freqBins)

	bufX := make([]float64, plan.segLen)
	bufY := make([]float64, plan.segLen)

	for s := 0; s < plan.count; s++ {
		start := s * plan.hop
		specX := windowedSpectrum(x[start:start+plan.segLen], window, bufX)
		specY := windowedSpectrum(y[start:start+plan.segLen], window, bufY)

		for i := 0; i < freqBins; i++ {
			xr, xi := real(specX[i]), imag(specX[i])
			yr, yi := real(specY[i]), imag(specY[i])

			autoX[i] += xr*xr + xi*xi
			autoY[i] += yr*yr + yi*yi
			// X * conj(Y)
			crossRe[i] += xr*yr + xi*yi
			crossIm[i] += xi*yr - xr*yi
		}
	}

	coherence := make([]float64, freqBins)
	freqs := make([]float64, freqBins)
	for i := 0; i < freqBins; i++ {
		freqs[i] = float64(i) * cfg.SampleRate / float64(plan.segLen)
		denom := autoX[i] * autoY[i]
		if denom > 0 {
			coherence[i] = (crossRe[i]*crossRe[i] + crossIm[i]*crossIm[i]) / denom
		}
	}

	return &CoherenceResult{Freqs: freqs, Coherence: coherence}
}

// BandCoherence returns the arithmetic mean of per-bin coherence over bins
// whose frequency lies in [low, high] inclusive, or zero if no bins qualify.
func BandCoherence(result *CoherenceResult, low, high float64) float64 {
	sum := 0.0
	count := 0
	for i, f := range result.Freqs {
		if f >= low && f <= high {
			sum += result.Coherence[i]
			count++
		}
	}
	if count == 0 {
		return 0.0
	}
	return sum / float64(count)
}
