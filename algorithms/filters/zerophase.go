package filters

// Zero-phase filtering: cascade two identical 2nd-order sections for 4th-order
// rolloff, run the cascade forward, reverse the signal, run it again, and
// reverse back. The second pass cancels the phase delay of the first.

// minFilterLength is the shortest signal worth filtering. Anything shorter
// passes through unchanged.
const minFilterLength = 3

// HighPass applies a zero-phase 4th-order Butterworth-style high-pass filter.
func HighPass(signal []float64, sampleRate, cutoff float64) []float64 {
	return zeroPhase(signal, func() *Biquad { return NewHighPass(sampleRate, cutoff) })
}

// LowPass applies a zero-phase 4th-order Butterworth-style low-pass filter.
func LowPass(signal []float64, sampleRate, cutoff float64) []float64 {
	return zeroPhase(signal, func() *Biquad { return NewLowPass(sampleRate, cutoff) })
}

// BandPass applies a zero-phase band-pass filter as a high-pass at low
// followed by a low-pass at high.
func BandPass(signal []float64, sampleRate, low, high float64) []float64 {
	return LowPass(HighPass(signal, sampleRate, low), sampleRate, high)
}

func zeroPhase(signal []float64, design func() *Biquad) []float64 {
	out := make([]float64, len(signal))
	copy(out, signal)
	if len(signal) < minFilterLength {
		return out
	}

	applyCascade(out, design)
	reverse(out)
	applyCascade(out, design)
	reverse(out)

	return out
}

// applyCascade runs two fresh identical sections in series over the signal.
func applyCascade(signal []float64, design func() *Biquad) {
	design().ProcessBuffer(signal)
	design().ProcessBuffer(signal)
}

func reverse(signal []float64) {
	for i, j := 0, len(signal)-1; i < j; i, j = i+1, j-1 {
		signal[i], signal[j] = signal[j], signal[i]
	}
}
