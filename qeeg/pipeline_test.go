package qeeg

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Q-the-Q/EEG-Viewer/edf"
)

// occipitalRecording builds a two-channel recording with 10 Hz sines of
// different amplitudes on O1 and O2. After average referencing the channels
// are exact opposite-sign copies, so their spectra match and their coherence
// is total.
func occipitalRecording(t *testing.T) *edf.Recording {
	t.Helper()

	const (
		sampleRate = 500.0
		samples    = 2000
	)

	makeSine := func(amplitudeUV float64) []float64 {
		signal := make([]float64, samples)
		for i := range signal {
			signal[i] = amplitudeUV * 1e-6 * math.Sin(2*math.Pi*10*float64(i)/sampleRate)
		}
		return signal
	}

	return &edf.Recording{
		Metadata: edf.Metadata{
			SampleRate:  sampleRate,
			NumChannels: 2,
		},
		Channels: []edf.ChannelSeries{
			{Name: "O1", Unit: "V", Samples: makeSine(20)},
			{Name: "O2", Unit: "V", Samples: makeSine(12)},
		},
	}
}

func TestPipelineRun(t *testing.T) {
	rec := occipitalRecording(t)

	var fractions []float64
	pipeline := NewPipeline(nil)
	result, err := pipeline.Run(context.Background(), rec, func(fraction float64, stage string) {
		fractions = append(fractions, fraction)
		assert.NotEmpty(t, stage)
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, []string{"O1", "O2"}, result.ChannelNames)
	require.Len(t, result.PSD, 2)
	require.Len(t, result.CleanData, 2)
	assert.Len(t, result.CleanData[0], 2000)

	// Too few epochs for the rejection floor: everything is kept.
	assert.Equal(t, 2, result.Artifacts.TotalEpochs)
	assert.Equal(t, 2, result.Artifacts.CleanEpochs)
	assert.Zero(t, result.Artifacts.RejectedEpochs)
	assert.True(t, math.IsInf(result.Artifacts.ThresholdUV, 1))

	// A 10 Hz tone lands in the alpha band on both channels.
	for ch := range result.ChannelNames {
		assert.Greater(t, result.RelativePowers[Alpha][ch], 0.8)
		assert.InDelta(t, 10.0, result.PeakFreqs[ch].AlphaPeak, 0.5)
		assert.InDelta(t, 10.0, result.PeakFreqs[ch].Dominant, 0.5)
	}

	// Opposite-sign copies of the same signal cohere completely.
	for _, band := range Bands() {
		matrix := result.Coherence[band]
		require.Len(t, matrix, 2)
		assert.Equal(t, 1.0, matrix[0][0])
		assert.Equal(t, 1.0, matrix[1][1])
		assert.InDelta(t, matrix[0][1], matrix[1][0], 1e-12)
	}
	assert.Greater(t, result.Coherence[Alpha][0][1], 0.95)

	// Identical spectra: zero asymmetry and degenerate z-scores.
	require.Len(t, result.Asymmetry[Alpha], 1)
	pair := result.Asymmetry[Alpha][0]
	assert.Equal(t, "O1", pair.Left)
	assert.Equal(t, "O2", pair.Right)
	assert.InDelta(t, 0.0, pair.Value, 0.05)
	for _, band := range Bands() {
		for _, z := range result.ZScores[band] {
			assert.InDelta(t, 0.0, z, 1e-9)
		}
	}

	// Progress is monotone and finishes at completion.
	require.NotEmpty(t, fractions)
	for i := 1; i < len(fractions); i++ {
		assert.GreaterOrEqual(t, fractions[i], fractions[i-1])
	}
	assert.Equal(t, 1.0, fractions[len(fractions)-1])
}

func TestPipelineCancellation(t *testing.T) {
	rec := occipitalRecording(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewPipeline(nil).Run(ctx, rec, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestPipelineNoEEGChannels(t *testing.T) {
	rec := &edf.Recording{
		Metadata: edf.Metadata{SampleRate: 250, NumChannels: 1},
		Channels: []edf.ChannelSeries{
			{Name: "ECG", Unit: "mV", Samples: make([]float64, 500)},
		},
	}

	_, err := NewPipeline(nil).Run(context.Background(), rec, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no standard 10-20 EEG channels")
}

func TestRegionSpectrum(t *testing.T) {
	rec := occipitalRecording(t)
	result, err := NewPipeline(nil).Run(context.Background(), rec, nil)
	require.NoError(t, err)

	freqs, amplitude := result.RegionSpectrum(RegionPosterior)
	require.Len(t, amplitude, len(freqs))
	maxAmp := 0.0
	for _, v := range amplitude {
		if v > maxAmp {
			maxAmp = v
		}
	}
	assert.Positive(t, maxAmp)

	// No frontal channels in the recording: flat zero spectrum.
	_, frontal := result.RegionSpectrum(RegionFrontal)
	for _, v := range frontal {
		assert.Zero(t, v)
	}
}

func TestWriteCSV(t *testing.T) {
	rec := occipitalRecording(t)
	result, err := NewPipeline(nil).Run(context.Background(), rec, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))

	out := buf.String()
	assert.Contains(t, out, "Band Powers")
	assert.Contains(t, out, "Relative Powers")
	assert.Contains(t, out, "Z-Scores")
	assert.Contains(t, out, "Peak Frequencies")
	assert.Contains(t, out, "O1-O2")
	// Accept-all fallback reports no effective threshold.
	assert.Contains(t, out, "Threshold: none")
}
