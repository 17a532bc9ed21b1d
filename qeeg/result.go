package qeeg

import (
	"github.com/Q-the-Q/EEG-Viewer/algorithms/spectral"
)

// PeakFrequencies is the per-channel spectral peak pair.
type PeakFrequencies struct {
	// AlphaPeak is the frequency of maximum PSD within the alpha band.
	AlphaPeak float64 `json:"alpha_peak"`
	// Dominant is the frequency of maximum PSD over the total analysis range.
	Dominant float64 `json:"dominant"`
}

// AsymmetryValue is the hemispheric asymmetry of one homologous electrode
// pair: ln(right power) - ln(left power).
type AsymmetryValue struct {
	Left  string  `json:"left"`
	Right string  `json:"right"`
	Value float64 `json:"value"`
}

// AnalysisResult is the single immutable output of a pipeline run. Every
// per-channel slice has one entry per EEG channel (aligned to ChannelNames)
// and every per-band array has exactly one entry per canonical band.
type AnalysisResult struct {
	// Freqs is the shared ascending frequency axis in Hz.
	Freqs []float64 `json:"freqs"`
	// PSD is indexed [channel][frequency], in V^2/Hz.
	PSD [][]float64 `json:"psd"`

	BandPowers     [NumBands][]float64 `json:"band_powers"`
	RelativePowers [NumBands][]float64 `json:"relative_powers"`
	ZScores        [NumBands][]float64 `json:"zscores"`

	// Coherence is a symmetric [channel][channel] matrix per band with a
	// unit diagonal.
	Coherence [NumBands][][]float64 `json:"coherence"`

	// Asymmetry holds one value per homologous pair present in the
	// recording, per band.
	Asymmetry [NumBands][]AsymmetryValue `json:"asymmetry"`

	// PeakFreqs is indexed by channel.
	PeakFreqs []PeakFrequencies `json:"peak_freqs"`

	Artifacts ArtifactStats `json:"artifacts"`

	// CleanData is the artifact-free concatenated signal per channel, volts.
	CleanData [][]float64 `json:"-"`

	ChannelNames []string `json:"channel_names"`
	SampleRate   float64  `json:"sample_rate"`
}

// ChannelIndex returns the index of the named channel, or -1.
func (r *AnalysisResult) ChannelIndex(name string) int {
	for i, ch := range r.ChannelNames {
		if ch == name {
			return i
		}
	}
	return -1
}

// RegionSpectrum returns the frequency axis and the region-averaged
// amplitude spectrum in µV/sqrt(Hz). A region with no channels present
// yields a zero spectrum.
func (r *AnalysisResult) RegionSpectrum(region Region) (freqs, amplitude []float64) {
	var indices []int
	for _, name := range RegionChannels(region) {
		if i := r.ChannelIndex(name); i >= 0 {
			indices = append(indices, i)
		}
	}

	mean := make([]float64, len(r.Freqs))
	if len(indices) == 0 {
		return r.Freqs, mean
	}

	for _, i := range indices {
		for f := range mean {
			mean[f] += r.PSD[i][f]
		}
	}
	for f := range mean {
		mean[f] /= float64(len(indices))
	}

	amplitude = spectral.AmplitudeSpectrum(mean)
	for f := range amplitude {
		amplitude[f] *= 1e6
	}
	return r.Freqs, amplitude
}
