package spectral

import (
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"

	"github.com/Q-the-Q/EEG-Viewer/algorithms/windowing"
)

// WelchConfig holds the segmentation parameters for Welch-style estimates.
// Use SpectrumConfig or SpectrogramConfig for the standard presets.
type WelchConfig struct {
	SegmentLength int     `json:"segment_length"`
	Overlap       int     `json:"overlap"`
	SampleRate    float64 `json:"sample_rate"`
}

// SpectrumConfig returns the preset used for primary spectra: 1024-sample
// segments with 50% overlap.
func SpectrumConfig(sampleRate float64) WelchConfig {
	return WelchConfig{
		SegmentLength: 1024,
		Overlap:       512,
		SampleRate:    sampleRate,
	}
}

// SpectrogramConfig returns the preset used for spectrograms: 256-sample
// segments with 75% overlap for finer time resolution.
func SpectrogramConfig(sampleRate float64) WelchConfig {
	return WelchConfig{
		SegmentLength: 256,
		Overlap:       192,
		SampleRate:    sampleRate,
	}
}

// PSDResult is a one-sided power spectral density estimate.
type PSDResult struct {
	Freqs []float64 `json:"freqs"` // Hz, ascending
	Power []float64 `json:"power"` // V^2/Hz, aligned to Freqs
}

// segmentation describes how a signal is cut into Welch segments. When the
// signal is shorter than the configured segment length the single segment is
// clamped to the signal length rather than zero-padded, trading frequency
// resolution for exact normalization over the samples that exist.
type segmentation struct {
	segLen int
	hop    int
	count  int
}

func segmentPlan(n int, cfg WelchConfig) segmentation {
	segLen := cfg.SegmentLength
	if segLen > n {
		segLen = n
	}
	if segLen < 1 {
		segLen = 1
	}

	hop := segLen - cfg.Overlap
	if hop < 1 {
		hop = segLen
	}

	count := (n-segLen)/hop + 1
	if count < 1 {
		count = 1
	}

	return segmentation{segLen: segLen, hop: hop, count: count}
}

// windowedSpectrum copies one segment into buf, removes its mean, applies the
// window and returns the full complex spectrum.
func windowedSpectrum(segment []float64, window *windowing.Hann, buf []float64) []complex128 {
	copy(buf, segment)
	mean := stat.Mean(buf, nil)
	for i := range buf {
		buf[i] -= mean
	}
	// Ignoring the error: buf is allocated at the window size.
	_ = window.ApplyInPlace(buf)
	return fft.FFTReal(buf)
}

// PSD estimates the one-sided power spectral density of signal using Welch's
// method: Hann-windowed overlapping segments with per-segment DC removal,
// magnitude-squared spectra averaged across segments and scaled by
// 1/(segments * sampleRate * windowPower). Non-DC, non-Nyquist bins are
// doubled to preserve total power under one-sided folding.
func PSD(signal []float64, cfg WelchConfig) *PSDResult {
	if len(signal) == 0 || cfg.SampleRate <= 0 {
		return &PSDResult{Freqs: []float64{}, Power: []float64{}}
	}

	plan := segmentPlan(len(signal), cfg)
	window := windowing.NewHann(plan.segLen, false)
	windowPower := window.Power()

	freqBins := plan.segLen/2 + 1
	power := make([]float64, freqBins)
	buf := make([]float64, plan.segLen)

	for s := 0; s < plan.count; s++ {
		start := s * plan.hop
		spectrum := windowedSpectrum(signal[start:start+plan.segLen], window, buf)
		for i := 0; i < freqBins; i++ {
			re, im := real(spectrum[i]), imag(spectrum[i])
			power[i] += re*re + im*im
		}
	}

	// Fold negative frequencies into the one-sided spectrum. The Nyquist bin
	// exists only for even segment lengths.
	lastDoubled := freqBins - 1
	if plan.segLen%2 != 0 {
		lastDoubled = freqBins
	}
	for i := 1; i < lastDoubled; i++ {
		power[i] *= 2.0
	}

	scale := 1.0 / (float64(plan.count) * cfg.SampleRate * windowPower)
	freqs := make([]float64, freqBins)
	for i := 0; i < freqBins; i++ {
		freqs[i] = float64(i) * cfg.SampleRate / float64(plan.segLen)
		power[i] *= scale
	}

	return &PSDResult{Freqs: freqs, Power: power}
}
