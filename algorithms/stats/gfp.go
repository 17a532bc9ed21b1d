package stats

import (
	"gonum.org/v1/gonum/stat"
)

// GlobalFieldPower returns, per time sample, the population standard
// deviation of the signal across channels. Data is indexed
// [channel][sample]; channels must share a sample count.
func GlobalFieldPower(data [][]float64) []float64 {
	if len(data) == 0 {
		return []float64{}
	}

	n := len(data[0])
	gfp := make([]float64, n)
	column := make([]float64, len(data))

	for t := 0; t < n; t++ {
		for ch := range data {
			column[ch] = data[ch][t]
		}
		gfp[t] = stat.PopStdDev(column, nil)
	}

	return gfp
}
