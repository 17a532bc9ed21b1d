package qeeg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSampleRate = 250.0

// makeEpochs builds a single-channel signal of numEpochs 2-second epochs
// whose peak-to-peak amplitude is ppUV microvolts.
func makeEpochs(numEpochs int, ppUV float64) [][]float64 {
	epochSamples := int(2.0 * testSampleRate)
	signal := make([]float64, numEpochs*epochSamples)
	half := ppUV / 2 * 1e-6
	for i := range signal {
		if i%2 == 0 {
			signal[i] = half
		} else {
			signal[i] = -half
		}
	}
	return [][]float64{signal}
}

func TestRejectEpochsDropsSpikes(t *testing.T) {
	data := makeEpochs(70, 40)

	// Push epoch 5 over the 100 uV threshold.
	epochSamples := int(2.0 * testSampleRate)
	data[0][5*epochSamples+10] = 150e-6

	clean, stats := RejectEpochs(data, testSampleRate, DefaultRejectionConfig())

	assert.Equal(t, 70, stats.TotalEpochs)
	assert.Equal(t, 69, stats.CleanEpochs)
	assert.Equal(t, 1, stats.RejectedEpochs)
	assert.InDelta(t, 100.0, stats.ThresholdUV, 1e-12)
	assert.Len(t, clean[0], 69*epochSamples)
	assert.InDelta(t, 100.0/70.0, stats.PercentRejected(), 1e-9)
}

func TestRejectEpochsRelaxesThreshold(t *testing.T) {
	// 180 uV peak-to-peak everywhere: 100 and 150 reject everything, 200
	// keeps all 40 epochs.
	data := makeEpochs(40, 180)

	clean, stats := RejectEpochs(data, testSampleRate, DefaultRejectionConfig())

	assert.Equal(t, 40, stats.TotalEpochs)
	assert.Equal(t, 40, stats.CleanEpochs)
	assert.Zero(t, stats.RejectedEpochs)
	assert.InDelta(t, 200.0, stats.ThresholdUV, 1e-12)
	assert.Len(t, clean[0], len(data[0]))
}

func TestRejectEpochsAcceptAllFallback(t *testing.T) {
	// Every epoch exceeds even the most permissive threshold, and there are
	// fewer epochs than the floor: keep everything rather than analyze nothing.
	data := makeEpochs(5, 600)

	clean, stats := RejectEpochs(data, testSampleRate, DefaultRejectionConfig())

	assert.Equal(t, 5, stats.TotalEpochs)
	assert.Equal(t, 5, stats.CleanEpochs)
	assert.Zero(t, stats.RejectedEpochs)
	assert.True(t, math.IsInf(stats.ThresholdUV, 1))
	assert.Equal(t, data[0], clean[0])
	assert.Zero(t, stats.PercentRejected())
}

func TestRejectEpochsTrailingPartialEpoch(t *testing.T) {
	cfg := DefaultRejectionConfig()
	cfg.MinCleanEpochs = 1

	data := makeEpochs(35, 40)
	epochSamples := int(2.0 * testSampleRate)
	data[0] = append(data[0], make([]float64, 100)...) // partial trailing epoch

	clean, stats := RejectEpochs(data, testSampleRate, cfg)

	require.Equal(t, 35, stats.TotalEpochs)
	assert.Len(t, clean[0], 35*epochSamples)
}

func TestRejectEpochsAnyChannelRejects(t *testing.T) {
	cfg := DefaultRejectionConfig()
	cfg.MinCleanEpochs = 1

	quiet := makeEpochs(10, 20)
	noisy := makeEpochs(10, 20)
	epochSamples := int(2.0 * testSampleRate)
	noisy[0][3*epochSamples+1] = 300e-6

	data := [][]float64{quiet[0], noisy[0]}
	_, stats := RejectEpochs(data, testSampleRate, cfg)

	assert.Equal(t, 1, stats.RejectedEpochs)
	assert.Equal(t, 9, stats.CleanEpochs)
}

func TestRejectEpochsEmptyData(t *testing.T) {
	clean, stats := RejectEpochs(nil, testSampleRate, DefaultRejectionConfig())
	assert.Nil(t, clean)
	assert.Zero(t, stats.TotalEpochs)
}
