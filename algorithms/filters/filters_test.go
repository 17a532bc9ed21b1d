package filters

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq, sampleRate float64, n int) []float64 {
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return signal
}

func rms(signal []float64) float64 {
	sum := 0.0
	for _, v := range signal {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(signal)))
}

func TestHighPassRemovesOffset(t *testing.T) {
	const sampleRate = 250.0
	signal := sine(10, sampleRate, 2500)
	for i := range signal {
		signal[i] += 1.0 // DC offset
	}

	filtered := HighPass(signal, sampleRate, 1.0)
	require.Len(t, filtered, len(signal))

	mean := 0.0
	for _, v := range filtered {
		mean += v
	}
	mean /= float64(len(filtered))
	assert.InDelta(t, 0.0, mean, 0.05)

	// 10 Hz sits a decade above the cutoff, so the sine survives. Edge
	// transients from the DC step widen the tolerance a little.
	assert.InDelta(t, math.Sqrt2/2, rms(filtered), 0.12)
}

func TestHighPassZeroPhase(t *testing.T) {
	const sampleRate = 250.0
	signal := sine(10, sampleRate, 2500)
	filtered := HighPass(signal, sampleRate, 1.0)

	// Away from the edges the output tracks the input with no phase delay.
	for i := 500; i < 2000; i++ {
		assert.InDelta(t, signal[i], filtered[i], 0.02)
	}
}

func TestLowPassAttenuatesHighFrequency(t *testing.T) {
	const sampleRate = 250.0
	signal := sine(40, sampleRate, 2500)

	filtered := LowPass(signal, sampleRate, 10.0)
	assert.Less(t, rms(filtered), 0.1*rms(signal))
}

func TestBandPassKeepsInBandSignal(t *testing.T) {
	const sampleRate = 250.0
	inBand := sine(10, sampleRate, 2500)
	outOfBand := sine(45, sampleRate, 2500)

	keptRMS := rms(BandPass(inBand, sampleRate, 4, 30))
	droppedRMS := rms(BandPass(outOfBand, sampleRate, 4, 30))

	assert.Greater(t, keptRMS, 0.5)
	assert.Less(t, droppedRMS, 0.1)
}

func TestShortSignalPassesThrough(t *testing.T) {
	signal := []float64{1.5, -2.5}
	filtered := HighPass(signal, 250, 1.0)
	assert.Equal(t, signal, filtered)
}

func TestBiquadDCResponse(t *testing.T) {
	hp := NewHighPass(250, 1.0)
	lp := NewLowPass(250, 10.0)

	var hpOut, lpOut float64
	for _i := 0; _i < 5000; _i++ {
		hpOut = hp.Process(1.0)
		lpOut = lp.Process(1.0)
	}

	assert.InDelta(t, 0.0, hpOut, 1e-6)
	assert.InDelta(t, 1.0, lpOut, 1e-6)
}

func TestBiquadReset(t *testing.T) {
	b := NewLowPass(250, 10.0)
	first := b.Process(1.0)
	b.Reset()
	assert.Equal(t, first, b.Process(1.0))
}

func TestDecimate(t *testing.T) {
	const sampleRate = 1000.0
	signal := sine(5, sampleRate, 4000)

	decimated := Decimate(signal, sampleRate, 4)
	require.Len(t, decimated, 1000)

	// Middle of the decimated signal matches the 5 Hz sine at 250 Hz.
	for i := 200; i < 800; i++ {
		expected := math.Sin(2 * math.Pi * 5 * float64(i) / 250.0)
		assert.InDelta(t, expected, decimated[i], 0.05)
	}
}

func TestDecimateFactorOne(t *testing.T) {
	signal := sine(5, 1000, 100)
	assert.Equal(t, signal, Decimate(signal, 1000, 1))
}
