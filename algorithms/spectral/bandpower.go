package spectral

import (
	"math"
)

// BandPower integrates the PSD over [low, high] Hz using the trapezoidal
// rule. Sub-intervals are clipped to the band edges, with PSD values at the
// clipped edges obtained by linear interpolation.
func BandPower(psd *PSDResult, low, high float64) float64 {
	freqs, power := psd.Freqs, psd.Power
	if len(freqs) < 2 || high <= low {
		return 0.0
	}

	total := 0.0
	for i := 0; i < len(freqs)-1; i++ {
		f0, f1 := freqs[i], freqs[i+1]
		if f1 < low || f0 > high {
			continue
		}

		a := math.Max(f0, low)
		b := math.Min(f1, high)
		if b <= a {
			continue
		}

		pa := interpolate(f0, f1, power[i], power[i+1], a)
		pb := interpolate(f0, f1, power[i], power[i+1], b)
		total += (pa + pb) / 2.0 * (b - a)
	}

	return total
}

// RelativePower is the band power over [low, high] divided by the power over
// the total analysis range [totalLow, totalHigh]; zero when the total is not
// strictly positive.
func RelativePower(psd *PSDResult, low, high, totalLow, totalHigh float64) float64 {
	total := BandPower(psd, totalLow, totalHigh)
	if total <= 0 {
		return 0.0
	}
	return BandPower(psd, low, high) / total
}

// AmplitudeSpectrum converts a PSD to an amplitude spectrum, sqrt per bin
// (V/sqrt(Hz) for a PSD in V^2/Hz).
func AmplitudeSpectrum(power []float64) []float64 {
	amplitude := make([]float64, len(power))
	for i, p := range power {
		if p > 0 {
			amplitude[i] = math.Sqrt(p)
		}
	}
	return amplitude
}

func interpolate(x0, x1, y0, y1, x float64) float64 {
	if x1 == x0 {
		return y0
	}
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}
