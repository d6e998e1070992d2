package registry

import (
	"fmt"
	"strings"
)

// Validation error codes (E200-E299)
const (
	ErrDuplicateColumn     = "E200" // column name declared twice
	ErrNoTarget            = "E201" // no target column declared
	ErrMultipleTargets     = "E202" // more than one target column
	ErrMissingOrdinalOrder = "E203" // ordinal string column without order
	ErrDuplicateOrdinal    = "E204" // duplicate label in ordinal order
	ErrUnexpectedOrdinal   = "E205" // ordinal order on non-ordinal column
	ErrStrategyMismatch    = "E206" // strategy incompatible with kind
	ErrInvalidEnum         = "E207" // unknown kind/strategy/level value
	ErrUnknownCompanion    = "E208" // companion references missing column
	ErrEmptyName           = "E209" // column with empty name
	ErrCategoricalRawType  = "E210" // one-hot column with non-string raw type
)

// ValidationError represents one violation found while constructing a
// registry.
type ValidationError struct {
	Column  string `json:"column"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("[%s] %s: %s: %s", e.Code, e.Column, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// InvalidRegistryError aggregates every violation found in one pass so a
// caller gets the complete diagnostic at once instead of fixing violations
// one rebuild at a time.
type InvalidRegistryError struct {
	Violations []ValidationError
}

// Error implements the error interface.
func (e *InvalidRegistryError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("invalid feature registry: %s", e.Violations[0].Error())
	}
	var b strings.Builder
	fmt.Fprintf(&b, "invalid feature registry: %d violations:", len(e.Violations))
	for _, v := range e.Violations {
		b.WriteString("\n  ")
		b.WriteString(v.Error())
	}
	return b.String()
}

// UnknownColumnError reports a lookup for a column the registry does not
// declare. This is a programming or contract error, never retried.
type UnknownColumnError struct {
	Column string
}

// Error implements the error interface.
func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q: not declared in feature registry", e.Column)
}
