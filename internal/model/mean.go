package model

import "fmt"

// Mean predicts the training-target mean for every row. It is the
// zero-information baseline: any useful model must beat it, and its R²
// is 0 by construction on the training partition.
type Mean struct {
	mean   float64
	fitted bool
}

// MeanFactory returns a Factory producing fresh Mean models.
func MeanFactory() Factory {
	return func() Model { return &Mean{} }
}

// Fit records the target mean.
func (m *Mean) Fit(_ [][]float64, y []float64) error {
	if len(y) == 0 {
		return fmt.Errorf("mean fit: no targets")
	}
	sum := 0.0
	for _, v := range y {
		sum += v
	}
	m.mean = sum / float64(len(y))
	m.fitted = true
	return nil
}

// Predict returns the recorded mean for every row.
func (m *Mean) Predict(x [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, fmt.Errorf("mean predict: model is not fitted")
	}
	out := make([]float64, len(x))
	for i := range out {
		out[i] = m.mean
	}
	return out, nil
}
