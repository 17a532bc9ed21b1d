package filters

import (
	"math"
)

// butterworthQ is the quality factor of a 2nd-order Butterworth section.
const butterworthQ = math.Sqrt2 / 2

// Biquad implements a 2nd-order digital filter section using the cookbook
// formulas from Robert Bristow-Johnson's "Cookbook formulae for audio EQ
// biquad filter coefficients", applied in Direct Form II for numerical
// stability.
type Biquad struct {
	b0, b1, b2 float64 // Numerator coefficients (normalized by a0)
	a1, a2     float64 // Denominator coefficients (normalized by a0)

	// Direct Form II delay line
	w1, w2 float64
}

// NewLowPass creates a Butterworth-style 2nd-order low-pass section
// (Q = sqrt(2)/2) with the given cutoff in Hz.
func NewLowPass(sampleRate, cutoff float64) *Biquad {
	w0 := normalizedFrequency(sampleRate, cutoff)
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2.0 * butterworthQ)

	b := &Biquad{}
	b.set(
		(1.0-cosW0)/2.0,
		1.0-cosW0,
		(1.0-cosW0)/2.0,
		1.0+alpha,
		-2.0*cosW0,
		1.0-alpha,
	)
	return b
}

// NewHighPass creates a Butterworth-style 2nd-order high-pass section
// (Q = sqrt(2)/2) with the given cutoff in Hz.
func NewHighPass(sampleRate, cutoff float64) *Biquad {
	w0 := normalizedFrequency(sampleRate, cutoff)
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2.0 * butterworthQ)

	b := &Biquad{}
	b.set(
		(1.0+cosW0)/2.0,
		-(1.0 + cosW0),
		(1.0+cosW0)/2.0,
		1.0+alpha,
		-2.0*cosW0,
		1.0-alpha,
	)
	return b
}

// normalizedFrequency converts a cutoff in Hz to the angular frequency w0,
// clamped just below Nyquist to prevent numerical issues.
func normalizedFrequency(sampleRate, cutoff float64) float64 {
	w0 := 2.0 * math.Pi * cutoff / sampleRate
	if w0 >= math.Pi {
		w0 = math.Pi * 0.99
	}
	if w0 <= 0 {
		w0 = 1e-8
	}
	return w0
}

// set stores the coefficients normalized by a0.
func (b *Biquad) set(b0, b1, b2, a0, a1, a2 float64) {
	b.b0 = b0 / a0
	b.b1 = b1 / a0
	b.b2 = b2 / a0
	b.a1 = a1 / a0
	b.a2 = a2 / a0
}

// Process applies the section to a single sample.
//
// The difference equation is:
// y[n] = b0*x[n] + b1*x[n-1] + b2*x[n-2] - a1*y[n-1] - a2*y[n-2]
func (b *Biquad) Process(input float64) float64 {
	// w[n] = x[n] - a1*w[n-1] - a2*w[n-2]
	w := input - b.a1*b.w1 - b.a2*b.w2

	// y[n] = b0*w[n] + b1*w[n-1] + b2*w[n-2]
	output := b.b0*w + b.b1*b.w1 + b.b2*b.w2

	b.w2 = b.w1
	b.w1 = w

	return output
}

// ProcessBuffer applies the section to an entire buffer of samples in place.
func (b *Biquad) ProcessBuffer(signal []float64) {
	for i, sample := range signal {
		signal[i] = b.Process(sample)
	}
}

// Reset clears the delay line. Call this before filtering a new signal with
// a reused section.
func (b *Biquad) Reset() {
	b.w1, b.w2 = 0.0, 0.0
}

// GetCoefficients returns the normalized coefficients (a0 = 1).
func (b *Biquad) GetCoefficients() (b0, b1, b2, a1, a2 float64) {
	return b.b0, b.b1, b.b2, b.a1, b.a2
}
