package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linearRows builds n rows from y = 3*x1 + 2*x2 + 10 with deterministic
// feature values.
func linearRows(n int) (x [][]float64, y []float64) {
	for i := 0; i < n; i++ {
		x1 := float64(i%17) + 0.5*float64(i%5)
		x2 := float64((i * 7) % 13)
		x = append(x, []float64{x1, x2})
		y = append(y, 3*x1+2*x2+10)
	}
	return x, y
}

func TestRidgeRecoversLinearRelationship(t *testing.T) {
	x, y := linearRows(80)

	r := NewRidge(1.0)
	require.NoError(t, r.Fit(x, y))

	preds, err := r.Predict(x)
	require.NoError(t, err)
	for i := range y {
		assert.InDelta(t, y[i], preds[i], 1.0, "row %d", i)
	}
}

func TestRidgeGeneralizesToUnseenRows(t *testing.T) {
	x, y := linearRows(80)
	r := NewRidge(1.0)
	require.NoError(t, r.Fit(x, y))

	preds, err := r.Predict([][]float64{{4, 6}, {10, 1}})
	require.NoError(t, err)
	assert.InDelta(t, 3*4.0+2*6.0+10, preds[0], 1.0)
	assert.InDelta(t, 3*10.0+2*1.0+10, preds[1], 1.0)
}

func TestRidgeHandlesCollinearColumns(t *testing.T) {
	// Complementary one-hot indicators are perfectly collinear; the L2
	// penalty must keep the system solvable.
	x := [][]float64{
		{1, 0, 5}, {0, 1, 3}, {1, 0, 6}, {0, 1, 2},
		{1, 0, 5.5}, {0, 1, 2.5}, {1, 0, 6.5}, {0, 1, 3.5},
	}
	y := []float64{20, 11, 23, 8, 21.5, 9.5, 24.5, 12.5}

	r := NewRidge(1.0)
	require.NoError(t, r.Fit(x, y))

	preds, err := r.Predict(x)
	require.NoError(t, err)
	assert.Len(t, preds, len(x))
}

func TestRidgeShrinksWithLargeAlpha(t *testing.T) {
	x, y := linearRows(40)

	small := NewRidge(0.001)
	require.NoError(t, small.Fit(x, y))
	large := NewRidge(1e6)
	require.NoError(t, large.Fit(x, y))

	// With an enormous penalty the weights collapse and predictions fall
	// back toward the target mean.
	sPred, err := small.Predict([][]float64{{16, 12}})
	require.NoError(t, err)
	lPred, err := large.Predict([][]float64{{16, 12}})
	require.NoError(t, err)

	exact := 3*16.0 + 2*12.0 + 10
	assert.InDelta(t, exact, sPred[0], 0.5)
	assert.Less(t, lPred[0], exact-5)
}

func TestRidgeInputValidation(t *testing.T) {
	r := NewRidge(1.0)

	assert.Error(t, r.Fit(nil, nil))
	assert.Error(t, r.Fit([][]float64{{1}}, []float64{1, 2}))
	assert.Error(t, r.Fit([][]float64{{1, 2}, {1}}, []float64{1, 2}))

	_, err := r.Predict([][]float64{{1}})
	assert.Error(t, err, "predict before fit")

	require.NoError(t, r.Fit([][]float64{{1, 2}, {2, 1}, {3, 3}}, []float64{1, 2, 3}))
	_, err = r.Predict([][]float64{{1}})
	assert.Error(t, err, "feature count mismatch")
}

func TestMeanBaseline(t *testing.T) {
	m := MeanFactory()()
	require.NoError(t, m.Fit([][]float64{{1}, {2}, {3}}, []float64{10, 20, 30}))

	preds, err := m.Predict([][]float64{{99}, {-4}})
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 20}, preds)
}

func TestMeanRequiresFit(t *testing.T) {
	m := &Mean{}
	_, err := m.Predict([][]float64{{1}})
	assert.Error(t, err)

	assert.Error(t, m.Fit(nil, nil))
}
