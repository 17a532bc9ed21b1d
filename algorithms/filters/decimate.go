package filters

// Decimate reduces the sample rate by an integer factor: the signal is
// low-passed at 90% of the new Nyquist frequency and then stride-sampled.
func Decimate(signal []float64, sampleRate float64, factor int) []float64 {
	if factor <= 1 {
		out := make([]float64, len(signal))
		copy(out, signal)
		return out
	}

	newNyquist := sampleRate / float64(factor) / 2.0
	filtered := LowPass(signal, sampleRate, newNyquist*0.9)

	out := make([]float64, 0, (len(filtered)+factor-1)/factor)
	for i := 0; i < len(filtered); i += factor {
		out = append(out, filtered[i])
	}
	return out
}
