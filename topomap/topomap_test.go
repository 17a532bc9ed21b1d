package topomap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositions(t *testing.T) {
	positions, err := Positions([]string{"Fp1", "Cz", "O2"})
	require.NoError(t, err)
	require.Len(t, positions, 3)
	assert.InDelta(t, 0.000401, positions[1][0], 1e-9)

	_, err = Positions([]string{"Fp1", "XYZ"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "XYZ")
}

func TestIDWExactMatch(t *testing.T) {
	positions, err := Positions([]string{"O1", "O2"})
	require.NoError(t, err)

	values := []float64{1.5, -3.0}
	assert.Equal(t, 1.5, IDW(values, positions, positions[0][0], positions[0][1]))
	assert.Equal(t, -3.0, IDW(values, positions, positions[1][0], positions[1][1]))
}

func TestIDWMidpoint(t *testing.T) {
	positions := [][2]float64{{-1, 0}, {1, 0}}
	values := []float64{2, 6}

	// Equidistant from both electrodes: equal weights, plain mean.
	assert.InDelta(t, 4.0, IDW(values, positions, 0, 0), 1e-12)
}

func TestInterpolateConstantField(t *testing.T) {
	names := []string{"Fp1", "Fp2", "O1", "O2"}
	values := []float64{5, 5, 5, 5}

	field, err := Interpolate(values, names, 21)
	require.NoError(t, err)
	require.Len(t, field.Values, 21)
	require.Len(t, field.X, 21)
	require.Len(t, field.Y, 21)
	assert.Positive(t, field.HeadRadius)

	inside := 0
	for _, row := range field.Values {
		require.Len(t, row, 21)
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			inside++
			assert.InDelta(t, 5.0, v, 1e-9)
		}
	}
	assert.Positive(t, inside)

	// Grid corners lie outside the head circle.
	assert.True(t, math.IsNaN(field.Values[0][0]))
	assert.True(t, math.IsNaN(field.Values[0][20]))
	assert.True(t, math.IsNaN(field.Values[20][0]))
	assert.True(t, math.IsNaN(field.Values[20][20]))
}

func TestInterpolateDeterministic(t *testing.T) {
	names := []string{"F3", "F4", "P3", "P4", "Cz"}
	values := []float64{1, 2, 3, 4, 5}

	first, err := Interpolate(values, names, 16)
	require.NoError(t, err)
	second, err := Interpolate(values, names, 16)
	require.NoError(t, err)

	assert.Equal(t, first.X, second.X)
	assert.Equal(t, first.Y, second.Y)
	assert.Equal(t, first.HeadRadius, second.HeadRadius)
	for row := range first.Values {
		for col := range first.Values[row] {
			a, b := first.Values[row][col], second.Values[row][col]
			if math.IsNaN(a) {
				assert.True(t, math.IsNaN(b))
				continue
			}
			assert.Equal(t, a, b)
		}
	}
}

func TestInterpolateErrors(t *testing.T) {
	_, err := Interpolate([]float64{1, 2}, []string{"Fp1"}, 16)
	assert.Error(t, err)

	_, err = Interpolate(nil, nil, 16)
	assert.Error(t, err)

	_, err = Interpolate([]float64{1}, []string{"Fp1"}, 1)
	assert.Error(t, err)

	_, err = Interpolate([]float64{1}, []string{"NOPE"}, 16)
	assert.Error(t, err)
}
