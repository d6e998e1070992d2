// Package missing decides what a missing cell means. Missingness in the
// housing table is informative, not noise: a missing basement grade means
// "no basement", while a missing lot frontage is simply unrecorded. The
// resolver keeps those two cases apart so the transform engine can encode
// absence as signal and impute only genuine unknowns.
package missing

import (
	"fmt"

	"github.com/SLassalle/real-estate-price-prediction/internal/feature"
	"github.com/SLassalle/real-estate-price-prediction/internal/registry"
)

// Disposition states how a cell's missingness was classified.
type Disposition int

const (
	// Concrete: the cell holds a real value; no missingness handling.
	Concrete Disposition = iota

	// Structural: the missing cell means the physical component does not
	// exist. Ordinals encode it as the reserved rank below the worst real
	// category; categoricals as a dedicated "None" indicator; companion
	// numerics as 0.
	Structural

	// Unknown: the value exists but was not recorded. Deferred to
	// statistical imputation fitted on the training partition.
	Unknown
)

// String implements fmt.Stringer for diagnostics.
func (d Disposition) String() string {
	switch d {
	case Concrete:
		return "concrete"
	case Structural:
		return "structural"
	case Unknown:
		return "unknown"
	default:
		return fmt.Sprintf("disposition(%d)", int(d))
	}
}

// Resolution is the outcome of resolving one cell.
type Resolution struct {
	Disposition Disposition

	// Value holds the concrete cell value when Disposition is Concrete.
	Value feature.Value
}

// Resolver classifies missing cells against the feature registry.
// Stateless apart from the read-only registry; safe for concurrent use.
type Resolver struct {
	reg *registry.Registry
}

// NewResolver creates a Resolver bound to a registry.
func NewResolver(reg *registry.Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Resolve classifies one cell. The full record is needed because the
// structural-zero rule for component measures (Garage Cars, basement
// square footage) depends on whether the companion column is itself
// structurally absent in the same row.
//
// Policy:
//   - concrete value: returned as-is
//   - ordinal/categorical, structural-absence semantics: Structural
//   - numeric, structural-absence semantics, companion absent in row:
//     Structural (encoded as 0, never the median)
//   - numeric, structural-absence semantics, companion present: Unknown
//     (the component exists, the measurement was lost)
//   - unknown semantics: Unknown
//   - not-applicable semantics: Unknown (the column is documented as
//     fully populated; the transform engine treats this as a contract
//     violation for keep columns)
//
// Drop columns never reach the resolver; the leakage filter and the
// transform engine discard them before resolution.
func (r *Resolver) Resolve(spec feature.Spec, value feature.Value, record feature.RawRecord) Resolution {
	if !feature.IsMissing(value) {
		return Resolution{Disposition: Concrete, Value: value}
	}

	switch spec.MissingSemantics {
	case feature.SemanticsStructuralAbsence:
		switch spec.Kind {
		case feature.KindOrdinal, feature.KindCategorical:
			return Resolution{Disposition: Structural}
		case feature.KindNumeric:
			if r.companionAbsent(spec, record) {
				return Resolution{Disposition: Structural}
			}
			return Resolution{Disposition: Unknown}
		}
		return Resolution{Disposition: Structural}

	case feature.SemanticsUnknown:
		return Resolution{Disposition: Unknown}

	default:
		// Documented as fully populated. Classify as Unknown and let the
		// transform engine decide whether that is tolerable (impute) or a
		// contract violation (keep).
		return Resolution{Disposition: Unknown}
	}
}

// companionAbsent reports whether the companion column signals structural
// absence for this row: the companion cell is missing and the companion
// itself is declared structural-absence.
//
// A numeric column without a declared companion falls back to treating its
// own missing cell as structural; the registry documented the column as
// structurally absent, so the zero encoding still applies.
func (r *Resolver) companionAbsent(spec feature.Spec, record feature.RawRecord) bool {
	if spec.Companion == "" {
		return true
	}
	companionSpec, err := r.reg.Lookup(spec.Companion)
	if err != nil {
		// Registry validation guarantees companions resolve; a miss here
		// means the record was built against a different registry.
		return false
	}
	if companionSpec.MissingSemantics != feature.SemanticsStructuralAbsence {
		return false
	}
	v, ok := record[spec.Companion]
	if !ok {
		return false
	}
	return feature.IsMissing(v)
}
