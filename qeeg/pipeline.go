package qeeg

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/Q-the-Q/EEG-Viewer/algorithms/filters"
	"github.com/Q-the-Q/EEG-Viewer/algorithms/spectral"
	"github.com/Q-the-Q/EEG-Viewer/algorithms/stats"
	"github.com/Q-the-Q/EEG-Viewer/edf"
	"github.com/Q-the-Q/EEG-Viewer/logging"
)

// ProgressFunc receives pipeline progress: a monotonically non-decreasing
// fraction in [0, 1] and a human-readable stage description. It is invoked
// from the goroutine running the pipeline; a consumer bridging to a UI
// thread must do its own handoff.
type ProgressFunc func(fraction float64, stage string)

// PipelineConfig controls the analysis pipeline.
type PipelineConfig struct {
	// HighPassHz is the cutoff of the zero-phase high-pass applied before
	// artifact rejection.
	HighPassHz float64 `json:"high_pass_hz"`

	Rejection RejectionConfig `json:"rejection"`

	// CoherenceWorkers bounds the goroutines used for pairwise coherence;
	// 0 means one per CPU.
	CoherenceWorkers int `json:"coherence_workers"`
}

// DefaultPipelineConfig returns the standard analysis parameters.
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		HighPassHz: 1.0,
		Rejection:  DefaultRejectionConfig(),
	}
}

// Pipeline runs the full quantitative analysis over a decoded recording.
// A Pipeline is stateless across runs; concurrent Run calls on different
// recordings are independent.
type Pipeline struct {
	config *PipelineConfig
	logger logging.Logger
}

// NewPipeline creates a pipeline with the given configuration, or defaults
// when config is nil.
func NewPipeline(config *PipelineConfig) *Pipeline {
	if config == nil {
		config = DefaultPipelineConfig()
	}
	return &Pipeline{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "qeeg_pipeline",
		}),
	}
}

// Run executes the analysis stages in order: average reference, high-pass,
// artifact rejection, Welch PSD, band powers and relative powers, z-scores,
// pairwise coherence per band, hemispheric asymmetry, and peak detection.
//
// Cancellation via ctx is honored at stage boundaries and between coherence
// batches; a canceled run returns ctx.Err() and no partial result. Once a
// run completes it returns a result the caller owns exclusively.
func (p *Pipeline) Run(ctx context.Context, rec *edf.Recording, progress ProgressFunc) (*AnalysisResult, error) {
	if progress == nil {
		progress = func(float64, string) {}
	}

	eeg := rec.EEGChannels()
	if len(eeg) == 0 {
		return nil, fmt.Errorf("recording has no standard 10-20 EEG channels")
	}

	sampleRate := rec.Metadata.SampleRate
	names := make([]string, len(eeg))
	data := make([][]float64, len(eeg))
	for i, ch := range eeg {
		names[i] = ch.Name
		data[i] = make([]float64, len(ch.Samples))
		copy(data[i], ch.Samples)
	}

	p.logger.Info("starting analysis", logging.Fields{
		"channels":    len(eeg),
		"sample_rate": sampleRate,
		"samples":     len(data[0]),
	})

	progress(0.02, "Applying average reference")
	data = stats.AverageReference(data)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	progress(0.06, fmt.Sprintf("High-pass filtering at %g Hz", p.config.HighPassHz))
	for ch := range data {
		data[ch] = filters.HighPass(data[ch], sampleRate, p.config.HighPassHz)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	progress(0.10, "Rejecting artifact epochs")
	cleanData, artifacts := RejectEpochs(data, sampleRate, p.config.Rejection)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	progress(0.20, "Computing power spectral density")
	welch := spectral.SpectrumConfig(sampleRate)
	psds := make([]*spectral.PSDResult, len(cleanData))
	for ch := range cleanData {
		psds[ch] = spectral.PSD(cleanData[ch], welch)
	}

	result := &AnalysisResult{
		Freqs:        psds[0].Freqs,
		PSD:          make([][]float64, len(psds)),
		PeakFreqs:    make([]PeakFrequencies, len(psds)),
		Artifacts:    artifacts,
		CleanData:    cleanData,
		ChannelNames: names,
		SampleRate:   sampleRate,
	}
	for ch, psd := range psds {
		result.PSD[ch] = psd.Power
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	progress(0.35, "Computing band powers")
	for _, band := range Bands() {
		low, high := band.Range()
		result.BandPowers[band] = make([]float64, len(psds))
		result.RelativePowers[band] = make([]float64, len(psds))
		for ch, psd := range psds {
			result.BandPowers[band][ch] = spectral.BandPower(psd, low, high)
			result.RelativePowers[band][ch] = spectral.RelativePower(psd, low, high, TotalPowerLow, TotalPowerHigh)
		}
	}

	progress(0.42, "Computing Z-scores")
	for _, band := range Bands() {
		result.ZScores[band] = stats.ZScores(result.RelativePowers[band])
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := p.computeCoherence(ctx, cleanData, welch, result, progress); err != nil {
		return nil, err
	}

	progress(0.88, "Computing hemispheric asymmetry")
	p.computeAsymmetry(result)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	progress(0.94, "Finding peak frequencies")
	alphaLow, alphaHigh := Alpha.Range()
	for ch, psd := range psds {
		result.PeakFreqs[ch] = PeakFrequencies{
			AlphaPeak: spectral.PeakFrequency(psd, alphaLow, alphaHigh),
			Dominant:  spectral.PeakFrequency(psd, TotalPowerLow, TotalPowerHigh),
		}
	}

	progress(1.0, "Analysis complete")
	p.logger.Info("analysis complete", logging.Fields{
		"clean_epochs":    artifacts.CleanEpochs,
		"rejected_epochs": artifacts.RejectedEpochs,
	})

	return result, nil
}

// computeCoherence fills the per-band coherence matrices. The (i, j) pairs
// are independent, so they fan out over a worker pool; each worker writes
// only its own pair's (i, j) and (j, i) cells, so the matrix writes never
// alias.
func (p *Pipeline) computeCoherence(ctx context.Context, data [][]float64, welch spectral.WelchConfig, result *AnalysisResult, progress ProgressFunc) error {
	n := len(data)
	for _, band := range Bands() {
		matrix := make([][]float64, n)
		for i := range matrix {
			matrix[i] = make([]float64, n)
			matrix[i][i] = 1.0
		}
		result.Coherence[band] = matrix
	}

	totalPairs := n * (n - 1) / 2
	if totalPairs == 0 {
		progress(0.85, "Computing coherence")
		return nil
	}

	progress(0.45, "Computing coherence")

	workers := p.config.CoherenceWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > totalPairs {
		workers = totalPairs
	}

	type pair struct{ i, j int }
	jobs := make(chan pair, workers)
	done := make(chan struct{}, totalPairs)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pr := range jobs {
				if ctx.Err() != nil {
					return
				}
				spectrum := spectral.Coherence(data[pr.i], data[pr.j], welch)
				for _, band := range Bands() {
					low, high := band.Range()
					value := spectral.BandCoherence(spectrum, low, high)
					result.Coherence[band][pr.i][pr.j] = value
					result.Coherence[band][pr.j][pr.i] = value
				}
				done <- struct{}{}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				select {
				case jobs <- pair{i, j}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	completed := 0
	for completed < totalPairs {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case <-done:
			completed++
			if completed%20 == 0 || completed == totalPairs {
				fraction := 0.45 + 0.40*float64(completed)/float64(totalPairs)
				progress(fraction, fmt.Sprintf("Computing coherence (%d/%d pairs)", completed, totalPairs))
			}
		}
	}

	wg.Wait()
	return nil
}

// computeAsymmetry fills per-band asymmetry values for the homologous pairs
// present in the recording: ln(right power) - ln(left power) when both
// powers are strictly positive, zero otherwise.
func (p *Pipeline) computeAsymmetry(result *AnalysisResult) {
	for _, band := range Bands() {
		var values []AsymmetryValue
		for _, pr := range AsymmetryPairs() {
			left := result.ChannelIndex(pr[0])
			right := result.ChannelIndex(pr[1])
			if left < 0 || right < 0 {
				continue
			}

			leftPower := result.BandPowers[band][left]
			rightPower := result.BandPowers[band][right]

			value := 0.0
			if leftPower > 0 && rightPower > 0 {
				value = math.Log(rightPower) - math.Log(leftPower)
			}
			values = append(values, AsymmetryValue{Left: pr[0], Right: pr[1], Value: value})
		}
		result.Asymmetry[band] = values
	}
}
