package feature

import (
	"fmt"
	"math"
	"strconv"
)

// Value is a sealed interface over the raw scalar kinds a tabular cell can
// hold. Only Int, Float, Str, and Missing implement it. A cell is either a
// concrete scalar or the explicit missing marker; there is no null.
type Value interface {
	featureValue() // sealed
}

// Int is an integer cell value.
type Int int64

func (Int) featureValue() {}

// Float is a floating-point cell value.
type Float float64

func (Float) featureValue() {}

// Str is a string cell value.
type Str string

func (Str) featureValue() {}

// Missing is the explicit missing-value marker.
//
// Missing carries no payload on purpose: whether it means "component does
// not exist" or "value was not recorded" is decided by the missingness
// resolver against the column's Spec, never by the cell itself.
type Missing struct{}

func (Missing) featureValue() {}

// IsMissing reports whether v is the missing marker.
func IsMissing(v Value) bool {
	_, ok := v.(Missing)
	return ok
}

// AsFloat converts a concrete numeric Value to float64.
// Returns an error for strings and the missing marker.
func AsFloat(v Value) (float64, error) {
	switch val := v.(type) {
	case Int:
		return float64(val), nil
	case Float:
		return float64(val), nil
	case Str:
		return 0, fmt.Errorf("cannot convert string %q to float", string(val))
	case Missing:
		return 0, fmt.Errorf("cannot convert missing value to float")
	default:
		return 0, fmt.Errorf("unknown value type %T", v)
	}
}

// AsString returns the string payload of a Str value.
// Returns an error for every other kind.
func AsString(v Value) (string, error) {
	s, ok := v.(Str)
	if !ok {
		return "", fmt.Errorf("value is %T, not a string", v)
	}
	return string(s), nil
}

// missingTokens are the raw CSV spellings treated as the missing marker.
// "NA" is the Ames dataset convention; empty cells count as well.
var missingTokens = map[string]bool{
	"":   true,
	"NA": true,
	"NaN": true,
}

// ParseCell converts one raw CSV cell into a Value using the column's
// declared raw type. Missing tokens are recognized before type parsing so
// an empty numeric cell becomes Missing, not a parse error.
func ParseCell(raw string, rawType RawType) (Value, error) {
	if missingTokens[raw] {
		return Missing{}, nil
	}

	switch rawType {
	case RawInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse int cell %q: %w", raw, err)
		}
		return Int(n), nil

	case RawFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parse float cell %q: %w", raw, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Missing{}, nil
		}
		return Float(f), nil

	case RawString:
		return Str(raw), nil

	default:
		return nil, fmt.Errorf("unknown raw type %q", rawType)
	}
}

// String renders a Value for diagnostics and logging.
func String(v Value) string {
	switch val := v.(type) {
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case Str:
		return string(val)
	case Missing:
		return "<missing>"
	default:
		return fmt.Sprintf("<%T>", v)
	}
}
