package spectral

// PeakFrequency returns the frequency of the maximum PSD value over bins in
// [low, high] inclusive. Ties resolve to the lowest frequency; a range with
// no bins reports 0.
func PeakFrequency(psd *PSDResult, low, high float64) float64 {
	peakFreq := 0.0
	peakPower := 0.0
	found := false

	for i, f := range psd.Freqs {
		if f < low || f > high {
			continue
		}
		if !found || psd.Power[i] > peakPower {
			peakFreq = f
			peakPower = psd.Power[i]
			found = true
		}
	}

	if !found {
		return 0.0
	}
	return peakFreq
}
