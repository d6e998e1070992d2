// Package model defines the fittable-model contract the evaluation
// harness consumes, plus the baseline regressors used for validation.
//
// The harness never reuses a model across folds: it calls the factory once
// per fold so no fitted coefficients can leak between training partitions.
package model

// Model is a fittable regressor over a numeric feature matrix.
type Model interface {
	// Fit trains on rows x (n rows, d features each) and targets y (len n).
	Fit(x [][]float64, y []float64) error

	// Predict returns one prediction per row of x.
	// Must only be called after a successful Fit.
	Predict(x [][]float64) ([]float64, error)
}

// Factory produces a fresh, unfitted model instance. The evaluation
// harness calls it once per cross-validation fold.
type Factory func() Model
