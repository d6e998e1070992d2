package eval

import "fmt"

// InsufficientDataError reports an evaluation configuration that cannot
// produce meaningful folds: more folds than rows, or a training partition
// below the configured minimum.
type InsufficientDataError struct {
	Rows     int
	K        int
	MinTrain int
	Detail   string
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %d-fold evaluation over %d rows: %s", e.K, e.Rows, e.Detail)
}
