// Package topomap computes interpolated scalar fields over the scalp for
// topographic display. It produces only the numeric grid; drawing is the
// caller's concern.
package topomap

import (
	"fmt"
	"math"
)

// electrodePositions holds the standard 10-20 electrode positions (x, y)
// from an azimuthal projection of the standard_1020 montage.
var electrodePositions = map[string][2]float64{
	"Fp1": {-0.029437, 0.083917},
	"Fp2": {0.029872, 0.084896},
	"F7":  {-0.070263, 0.042474},
	"F3":  {-0.050244, 0.053111},
	"Fz":  {0.000312, 0.058512},
	"F4":  {0.051836, 0.054305},
	"F8":  {0.073043, 0.044422},
	"T7":  {-0.084161, -0.016019},
	"C3":  {-0.065358, -0.011632},
	"Cz":  {0.000401, -0.009167},
	"C4":  {0.067118, -0.010900},
	"T8":  {0.085080, -0.015020},
	"P7":  {-0.072434, -0.073453},
	"P3":  {-0.053007, -0.078788},
	"Pz":  {0.000325, -0.081115},
	"P4":  {0.055667, -0.078560},
	"P8":  {0.073056, -0.073068},
	"O1":  {-0.029413, -0.112449},
	"O2":  {0.029843, -0.112156},
}

const (
	// headRadiusScale sizes the head circle slightly beyond the outermost
	// electrode.
	headRadiusScale = 1.15
	// exactMatchEpsilon is the distance below which a grid point is treated
	// as coinciding with an electrode, short-circuiting the 1/d^2 weight.
	exactMatchEpsilon = 1e-9
)

// Positions returns the (x, y) coordinates for the given channel names.
// Unknown electrode names are an error.
func Positions(names []string) ([][2]float64, error) {
	positions := make([][2]float64, len(names))
	for i, name := range names {
		pos, ok := electrodePositions[name]
		if !ok {
			return nil, fmt.Errorf("topomap: unknown electrode %q", name)
		}
		positions[i] = pos
	}
	return positions, nil
}

// Field is an interpolated scalar field on a regular grid covering the head
// circle. Values is indexed [row][col] with rows along Y ascending; points
// outside the head radius are NaN.
type Field struct {
	Values [][]float64 `json:"values"`
	X      []float64   `json:"x"`
	Y      []float64   `json:"y"`

	CenterX    float64 `json:"center_x"`
	CenterY    float64 `json:"center_y"`
	HeadRadius float64 `json:"head_radius"`
}

// Interpolate computes an inverse-distance-weighted (exponent 2) scalar
// field from one value per named electrode onto a resolution x resolution
// grid. Same inputs always produce the same field.
func Interpolate(values []float64, names []string, resolution int) (*Field, error) {
	if len(values) != len(names) {
		return nil, fmt.Errorf("topomap: %d values for %d channels", len(values), len(names))
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("topomap: no channels")
	}
	if resolution < 2 {
		return nil, fmt.Errorf("topomap: resolution %d too small", resolution)
	}

	positions, err := Positions(names)
	if err != nil {
		return nil, err
	}

	centerX, centerY := 0.0, 0.0
	for _, pos := range positions {
		centerX += pos[0]
		centerY += pos[1]
	}
	centerX /= float64(len(positions))
	centerY /= float64(len(positions))

	maxDist := 0.0
	for _, pos := range positions {
		if d := math.Hypot(pos[0]-centerX, pos[1]-centerY); d > maxDist {
			maxDist = d
		}
	}
	headRadius := maxDist * headRadiusScale

	field := &Field{
		X:          gridAxis(centerX, headRadius, resolution),
		Y:          gridAxis(centerY, headRadius, resolution),
		Values:     make([][]float64, resolution),
		CenterX:    centerX,
		CenterY:    centerY,
		HeadRadius: headRadius,
	}

	for row := 0; row < resolution; row++ {
		field.Values[row] = make([]float64, resolution)
		for col := 0; col < resolution; col++ {
			x, y := field.X[col], field.Y[row]
			if math.Hypot(x-centerX, y-centerY) > headRadius {
				field.Values[row][col] = math.NaN()
				continue
			}
			field.Values[row][col] = IDW(values, positions, x, y)
		}
	}

	return field, nil
}

// IDW evaluates the inverse-distance-weighted interpolant at (x, y) with
// exponent 2: weight = 1/distance^2. A point within exactMatchEpsilon of an
// electrode returns that electrode's value unchanged.
func IDW(values []float64, positions [][2]float64, x, y float64) float64 {
	weightSum := 0.0
	weighted := 0.0

	for i, pos := range positions {
		d := math.Hypot(x-pos[0], y-pos[1])
		if d < exactMatchEpsilon {
			return values[i]
		}
		w := 1.0 / (d * d)
		weightSum += w
		weighted += w * values[i]
	}

	if weightSum == 0 {
		return 0.0
	}
	return weighted / weightSum
}

func gridAxis(center, radius float64, resolution int) []float64 {
	axis := make([]float64, resolution)
	step := 2.0 * radius / float64(resolution-1)
	for i := range axis {
		axis[i] = center - radius + float64(i)*step
	}
	return axis
}
