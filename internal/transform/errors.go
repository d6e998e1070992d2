package transform

import "fmt"

// NonFiniteValueError reports a NaN, infinite, or missing value in a
// column whose strategy is keep. Keep columns are documented as fully
// populated, so this is a data-contract violation, not a condition to
// impute around.
type NonFiniteValueError struct {
	Column string
	Row    int
	Detail string
}

// Error implements the error interface.
func (e *NonFiniteValueError) Error() string {
	return fmt.Sprintf("non-finite value in keep column %q (row %d): %s", e.Column, e.Row, e.Detail)
}

// UnknownOrdinalLabelError reports a non-missing category observed during
// fitting that the column's declared ordinal order does not cover. The
// registry invariant requires the order to cover every observed label, so
// fitting fails rather than guessing a rank.
type UnknownOrdinalLabelError struct {
	Column string
	Label  string
}

// Error implements the error interface.
func (e *UnknownOrdinalLabelError) Error() string {
	return fmt.Sprintf("ordinal column %q: observed label %q is not in the declared order", e.Column, e.Label)
}
