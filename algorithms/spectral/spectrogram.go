package spectral

import (
	"math"

	"github.com/Q-the-Q/EEG-Viewer/algorithms/windowing"
)

// logFloor keeps log10 finite on empty bins.
const logFloor = 1e-20

// SpectrogramResult is a time-frequency power map. PowerDB is indexed
// [time][frequency].
type SpectrogramResult struct {
	Freqs   []float64   `json:"freqs"`    // Hz
	Times   []float64   `json:"times"`    // segment centers, seconds
	PowerDB [][]float64 `json:"power_db"` // 10*log10(power)
}

// Spectrogram computes a Welch-scaled spectrogram: the same segmentation,
// windowing and one-sided scaling as PSD, but each segment becomes one time
// column in dB instead of being averaged.
func Spectrogram(signal []float64, cfg WelchConfig) *SpectrogramResult {
	if len(signal) == 0 || cfg.SampleRate <= 0 {
		return &SpectrogramResult{Freqs: []float64{}, Times: []float64{}, PowerDB: [][]float64{}}
	}

	plan := segmentPlan(len(signal), cfg)
	window := windowing.NewHann(plan.segLen, false)
	scale := 1.0 / (cfg.SampleRate * window.Power())

	freqBins := plan.segLen/2 + 1
	lastDoubled := freqBins - 1
	if plan.segLen%2 != 0 {
		lastDoubled = freqBins
	}

	freqs := make([]float64, freqBins)
	for i := 0; i < freqBins; i++ {
		freqs[i] = float64(i) * cfg.SampleRate / float64(plan.segLen)
	}

	times := make([]float64, plan.count)
	columns := make([][]float64, plan.count)
	buf := make([]float64, plan.segLen)

	for s := 0; s < plan.count; s++ {
		start := s * plan.hop
		times[s] = (float64(start) + float64(plan.segLen)/2.0) / cfg.SampleRate

		spectrum := windowedSpectrum(signal[start:start+plan.segLen], window, buf)
		column := make([]float64, freqBins)
		for i := 0; i < freqBins; i++ {
			re, im := real(spectrum[i]), imag(spectrum[i])
			power := (re*re + im*im) * scale
			if i > 0 && i < lastDoubled {
				power *= 2.0
			}
			column[i] = 10.0 * math.Log10(power+logFloor)
		}
		columns[s] = column
	}

	return &SpectrogramResult{Freqs: freqs, Times: times, PowerDB: columns}
}
