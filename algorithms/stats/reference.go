package stats

// AverageReference re-references multichannel data to the cross-channel mean:
// each sample becomes itself minus the mean over channels at that time index.
// Data is indexed [channel][sample]; channels must share a sample count.
// Zero channels is a no-op.
func AverageReference(data [][]float64) [][]float64 {
	out := make([][]float64, len(data))
	if len(data) == 0 {
		return out
	}

	n := len(data[0])
	channels := float64(len(data))

	for ch := range data {
		out[ch] = make([]float64, n)
	}

	for t := 0; t < n; t++ {
		sum := 0.0
		for ch := range data {
			sum += data[ch][t]
		}
		mean := sum / channels
		for ch := range data {
			out[ch][t] = data[ch][t] - mean
		}
	}

	return out
}
