// Package registry holds the declarative feature table that drives the
// preprocessing pipeline: one Spec per raw column, mapping the column to
// its role, missingness profile, and handling strategy.
//
// The registry is constructed once, validated completely (all violations
// reported in a single pass), and is immutable and safe for concurrent
// readers afterwards. Every other component receives it explicitly; there
// is no ambient configuration.
package registry

import (
	"fmt"

	"github.com/SLassalle/real-estate-price-prediction/internal/feature"
)

// Registry is the read-only feature table. Specs keep declaration order so
// derived feature matrices are column-stable across runs.
type Registry struct {
	specs []feature.Spec
	index map[string]int
	target string
}

// New constructs a Registry from specs, validating the complete table.
// Returns *InvalidRegistryError listing every violation found, not just
// the first.
func New(specs []feature.Spec) (*Registry, error) {
	violations := validate(specs)
	if len(violations) > 0 {
		return nil, &InvalidRegistryError{Violations: violations}
	}

	// Copy to prevent external mutation of the validated table.
	specsCopy := make([]feature.Spec, len(specs))
	copy(specsCopy, specs)

	r := &Registry{
		specs: specsCopy,
		index: make(map[string]int, len(specsCopy)),
	}
	for i, s := range specsCopy {
		r.index[s.Name] = i
		if s.Kind == feature.KindTarget {
			r.target = s.Name
		}
	}
	return r, nil
}

// Lookup returns the Spec for a column name.
// Fails with *UnknownColumnError if the column is not declared.
func (r *Registry) Lookup(column string) (feature.Spec, error) {
	i, ok := r.index[column]
	if !ok {
		return feature.Spec{}, &UnknownColumnError{Column: column}
	}
	return r.specs[i], nil
}

// Has reports whether the column is declared.
func (r *Registry) Has(column string) bool {
	_, ok := r.index[column]
	return ok
}

// All returns every Spec in declaration order.
func (r *Registry) All() []feature.Spec {
	out := make([]feature.Spec, len(r.specs))
	copy(out, r.specs)
	return out
}

// AllOfKind returns the Specs with the given kind, in declaration order.
func (r *Registry) AllOfKind(kind feature.Kind) []feature.Spec {
	var out []feature.Spec
	for _, s := range r.specs {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// Target returns the target column name. Validation guarantees exactly one.
func (r *Registry) Target() string {
	return r.target
}

// Len returns the number of declared columns.
func (r *Registry) Len() int {
	return len(r.specs)
}

// MissingColumns returns the declared columns absent from the given header
// set, in declaration order. Used to fail fast with a complete list before
// any row is processed.
func (r *Registry) MissingColumns(header []string, requireTarget bool) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var missing []string
	for _, s := range r.specs {
		if s.Kind == feature.KindTarget && !requireTarget {
			continue
		}
		if !present[s.Name] {
			missing = append(missing, s.Name)
		}
	}
	return missing
}

// Fingerprint returns the content-addressed hash of the registry table.
// Two registries with identical specs fingerprint identically regardless
// of how they were loaded.
func (r *Registry) Fingerprint() (string, error) {
	rows := make([]any, len(r.specs))
	for i, s := range r.specs {
		row := map[string]any{
			"name":              s.Name,
			"raw_type":          string(s.RawType),
			"kind":              string(s.Kind),
			"missingness":       string(s.Missingness),
			"strategy":          string(s.Strategy),
			"missing_semantics": string(s.MissingSemantics),
		}
		if len(s.OrdinalOrder) > 0 {
			row["ordinal_order"] = s.OrdinalOrder
		}
		if s.Companion != "" {
			row["companion"] = s.Companion
		}
		rows[i] = row
	}
	return feature.Fingerprint(feature.DomainRegistry, rows)
}

// validate checks the complete table and returns all violations found.
func validate(specs []feature.Spec) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool, len(specs))
	names := make(map[string]bool, len(specs))
	for _, s := range specs {
		names[s.Name] = true
	}
	targets := 0

	for i, s := range specs {
		col := s.Name
		if col == "" {
			col = fmt.Sprintf("specs[%d]", i)
			errs = append(errs, ValidationError{
				Column:  col,
				Field:   "name",
				Message: "column name must be non-empty",
				Code:    ErrEmptyName,
			})
		}

		// E200: duplicate column name
		if s.Name != "" && seen[s.Name] {
			errs = append(errs, ValidationError{
				Column:  col,
				Field:   "name",
				Message: fmt.Sprintf("duplicate column name %q", s.Name),
				Code:    ErrDuplicateColumn,
			})
		}
		seen[s.Name] = true

		errs = append(errs, validateEnums(col, s)...)

		if s.Kind == feature.KindTarget {
			targets++
		}

		// E203/E204/E205: ordinal order rules
		errs = append(errs, validateOrdinalOrder(col, s)...)

		// E206: strategy must fit the kind
		if msg, ok := strategyMismatch(s); ok {
			errs = append(errs, ValidationError{
				Column:  col,
				Field:   "strategy",
				Message: msg,
				Code:    ErrStrategyMismatch,
			})
		}

		// E210: one-hot encoding reads labels, so categorical columns
		// must be declared as strings. Caught here so the misdeclaration
		// surfaces as a registry diagnostic instead of a fit failure.
		if s.Kind == feature.KindCategorical && s.RawType != feature.RawString {
			errs = append(errs, ValidationError{
				Column:  col,
				Field:   "raw_type",
				Message: fmt.Sprintf("categorical column requires raw type %q, got %q", feature.RawString, s.RawType),
				Code:    ErrCategoricalRawType,
			})
		}

		// E208: companion must exist and be categorical or ordinal
		if s.Companion != "" {
			if !names[s.Companion] {
				errs = append(errs, ValidationError{
					Column:  col,
					Field:   "companion",
					Message: fmt.Sprintf("companion column %q is not declared", s.Companion),
					Code:    ErrUnknownCompanion,
				})
			}
		}
	}

	// E201/E202: exactly one target
	if targets == 0 {
		errs = append(errs, ValidationError{
			Field:   "target",
			Message: "exactly one target column is required, found none",
			Code:    ErrNoTarget,
		})
	}
	if targets > 1 {
		errs = append(errs, ValidationError{
			Field:   "target",
			Message: fmt.Sprintf("exactly one target column is required, found %d", targets),
			Code:    ErrMultipleTargets,
		})
	}

	return errs
}

func validateEnums(col string, s feature.Spec) []ValidationError {
	var errs []ValidationError

	switch s.RawType {
	case feature.RawInt, feature.RawFloat, feature.RawString:
	default:
		errs = append(errs, ValidationError{
			Column:  col,
			Field:   "raw_type",
			Message: fmt.Sprintf("invalid raw type %q", s.RawType),
			Code:    ErrInvalidEnum,
		})
	}

	switch s.Kind {
	case feature.KindIdentifier, feature.KindTarget, feature.KindOrdinal,
		feature.KindNumeric, feature.KindCategorical,
		feature.KindDropStructural, feature.KindDropTransactional, feature.KindDropTemporal:
	default:
		errs = append(errs, ValidationError{
			Column:  col,
			Field:   "kind",
			Message: fmt.Sprintf("invalid kind %q", s.Kind),
			Code:    ErrInvalidEnum,
		})
	}

	switch s.Missingness {
	case feature.MissingNone, feature.MissingLow, feature.MissingModerate, feature.MissingHighStructural:
	default:
		errs = append(errs, ValidationError{
			Column:  col,
			Field:   "missingness",
			Message: fmt.Sprintf("invalid missingness level %q", s.Missingness),
			Code:    ErrInvalidEnum,
		})
	}

	switch s.Strategy {
	case feature.StrategyDrop, feature.StrategyKeep, feature.StrategyImpute,
		feature.StrategyEncodeOrdinal, feature.StrategyOneHot, feature.StrategyTarget:
	default:
		errs = append(errs, ValidationError{
			Column:  col,
			Field:   "strategy",
			Message: fmt.Sprintf("invalid strategy %q", s.Strategy),
			Code:    ErrInvalidEnum,
		})
	}

	switch s.MissingSemantics {
	case feature.SemanticsNotApplicable, feature.SemanticsStructuralAbsence, feature.SemanticsUnknown:
	default:
		errs = append(errs, ValidationError{
			Column:  col,
			Field:   "missing_semantics",
			Message: fmt.Sprintf("invalid missing semantics %q", s.MissingSemantics),
			Code:    ErrInvalidEnum,
		})
	}

	return errs
}

func validateOrdinalOrder(col string, s feature.Spec) []ValidationError {
	var errs []ValidationError

	ordinalString := s.Kind == feature.KindOrdinal && s.RawType == feature.RawString

	if ordinalString && len(s.OrdinalOrder) == 0 {
		errs = append(errs, ValidationError{
			Column:  col,
			Field:   "ordinal_order",
			Message: "ordinal string column requires a non-empty ordinal order",
			Code:    ErrMissingOrdinalOrder,
		})
	}

	if !ordinalString && len(s.OrdinalOrder) > 0 {
		errs = append(errs, ValidationError{
			Column:  col,
			Field:   "ordinal_order",
			Message: "ordinal order is only allowed on ordinal string columns",
			Code:    ErrUnexpectedOrdinal,
		})
	}

	labels := make(map[string]bool, len(s.OrdinalOrder))
	for _, label := range s.OrdinalOrder {
		if labels[label] {
			errs = append(errs, ValidationError{
				Column:  col,
				Field:   "ordinal_order",
				Message: fmt.Sprintf("duplicate label %q in ordinal order", label),
				Code:    ErrDuplicateOrdinal,
			})
		}
		labels[label] = true
	}

	return errs
}

// strategyMismatch reports whether the strategy is incompatible with the
// declared kind. The pairing is closed: each kind admits a fixed strategy
// set, mirroring the feature inventory table.
func strategyMismatch(s feature.Spec) (string, bool) {
	switch s.Kind {
	case feature.KindTarget:
		if s.Strategy != feature.StrategyTarget {
			return fmt.Sprintf("target column requires strategy %q, got %q", feature.StrategyTarget, s.Strategy), true
		}
	case feature.KindIdentifier, feature.KindDropStructural, feature.KindDropTransactional, feature.KindDropTemporal:
		if s.Strategy != feature.StrategyDrop {
			return fmt.Sprintf("%s column requires strategy %q, got %q", s.Kind, feature.StrategyDrop, s.Strategy), true
		}
	case feature.KindNumeric:
		if s.Strategy != feature.StrategyKeep && s.Strategy != feature.StrategyImpute {
			return fmt.Sprintf("numeric column requires strategy %q or %q, got %q", feature.StrategyKeep, feature.StrategyImpute, s.Strategy), true
		}
	case feature.KindOrdinal:
		// Already-numeric ordinals (Overall Qual) pass through with keep;
		// string ordinals are rank-encoded.
		if s.RawType == feature.RawString {
			if s.Strategy != feature.StrategyEncodeOrdinal {
				return fmt.Sprintf("ordinal string column requires strategy %q, got %q", feature.StrategyEncodeOrdinal, s.Strategy), true
			}
		} else if s.Strategy != feature.StrategyKeep && s.Strategy != feature.StrategyImpute {
			return fmt.Sprintf("numeric ordinal column requires strategy %q or %q, got %q", feature.StrategyKeep, feature.StrategyImpute, s.Strategy), true
		}
	case feature.KindCategorical:
		if s.Strategy != feature.StrategyOneHot {
			return fmt.Sprintf("categorical column requires strategy %q, got %q", feature.StrategyOneHot, s.Strategy), true
		}
	}
	return "", false
}
