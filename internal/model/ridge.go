package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Ridge is L2-regularized linear regression solved in closed form via the
// normal equations: w = (XᵀX + αI)⁻¹ Xᵀy, with an unpenalized intercept
// handled by centering. The regularization keeps the system well-posed
// even with the collinear indicator groups one-hot expansion produces.
type Ridge struct {
	// Alpha is the L2 penalty. Zero degrades to ordinary least squares,
	// which can fail on rank-deficient matrices.
	Alpha float64

	weights   []float64
	intercept float64
	fitted    bool
}

// NewRidge creates a Ridge model with the given penalty.
// Alpha 1.0 is the documented baseline configuration.
func NewRidge(alpha float64) *Ridge {
	return &Ridge{Alpha: alpha}
}

// RidgeFactory returns a Factory producing fresh Ridge models.
func RidgeFactory(alpha float64) Factory {
	return func() Model { return NewRidge(alpha) }
}

// Fit solves the regularized normal equations on x, y.
func (r *Ridge) Fit(x [][]float64, y []float64) error {
	n := len(x)
	if n == 0 {
		return fmt.Errorf("ridge fit: no training rows")
	}
	if len(y) != n {
		return fmt.Errorf("ridge fit: %d rows but %d targets", n, len(y))
	}
	d := len(x[0])
	if d == 0 {
		return fmt.Errorf("ridge fit: rows have no features")
	}

	// Center features and target so the intercept stays unpenalized.
	colMeans := make([]float64, d)
	for _, row := range x {
		if len(row) != d {
			return fmt.Errorf("ridge fit: ragged matrix (%d vs %d features)", len(row), d)
		}
		for j, v := range row {
			colMeans[j] += v
		}
	}
	for j := range colMeans {
		colMeans[j] /= float64(n)
	}
	yMean := 0.0
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(n)

	xc := mat.NewDense(n, d, nil)
	for i, row := range x {
		for j, v := range row {
			xc.Set(i, j, v-colMeans[j])
		}
	}
	yc := mat.NewVecDense(n, nil)
	for i, v := range y {
		yc.SetVec(i, v-yMean)
	}

	// XᵀX + αI
	var gram mat.Dense
	gram.Mul(xc.T(), xc)
	for j := 0; j < d; j++ {
		gram.Set(j, j, gram.At(j, j)+r.Alpha)
	}

	// Xᵀy
	var xty mat.VecDense
	xty.MulVec(xc.T(), yc)

	var w mat.VecDense
	if err := w.SolveVec(&gram, &xty); err != nil {
		return fmt.Errorf("ridge fit: solve normal equations: %w", err)
	}

	r.weights = make([]float64, d)
	r.intercept = yMean
	for j := 0; j < d; j++ {
		r.weights[j] = w.AtVec(j)
		r.intercept -= r.weights[j] * colMeans[j]
	}
	r.fitted = true
	return nil
}

// Predict computes w·x + b per row.
func (r *Ridge) Predict(x [][]float64) ([]float64, error) {
	if !r.fitted {
		return nil, fmt.Errorf("ridge predict: model is not fitted")
	}
	out := make([]float64, len(x))
	for i, row := range x {
		if len(row) != len(r.weights) {
			return nil, fmt.Errorf("ridge predict: row %d has %d features, model has %d", i, len(row), len(r.weights))
		}
		sum := r.intercept
		for j, v := range row {
			sum += r.weights[j] * v
		}
		out[i] = sum
	}
	return out, nil
}
