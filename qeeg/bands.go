package qeeg

// Band is one of the four canonical EEG frequency bands. Results keyed by
// band use fixed-size arrays indexed by Band, so all four bands are always
// present.
type Band int

const (
	Delta Band = iota
	Theta
	Alpha
	Beta

	// NumBands is the number of canonical bands.
	NumBands = 4
)

// Total analysis range in Hz, the denominator for relative power.
const (
	TotalPowerLow  = 1.0
	TotalPowerHigh = 25.0
)

var bandNames = [NumBands]string{"Delta", "Theta", "Alpha", "Beta"}

var bandRanges = [NumBands][2]float64{
	{1.0, 4.0},
	{4.0, 8.0},
	{8.0, 13.0},
	{13.0, 25.0},
}

func (b Band) String() string {
	if b < 0 || b >= NumBands {
		return "Unknown"
	}
	return bandNames[b]
}

// Range returns the band's inclusive low/high bounds in Hz.
func (b Band) Range() (low, high float64) {
	return bandRanges[b][0], bandRanges[b][1]
}

// Bands returns the four canonical bands in ascending frequency order.
func Bands() [NumBands]Band {
	return [NumBands]Band{Delta, Theta, Alpha, Beta}
}
