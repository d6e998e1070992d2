// Package leakage gates which columns may reach the transform engine.
//
// The gate is deliberately redundant: the registry already classifies
// transaction and temporal columns as drop kinds, but a registry
// misconfiguration must not be able to silently reintroduce sale-time
// information into the feature matrix. The hard-coded denylist is the
// second, independent check.
package leakage

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/SLassalle/real-estate-price-prediction/internal/feature"
	"github.com/SLassalle/real-estate-price-prediction/internal/registry"
)

// denylist holds lowercase column-name terms that identify sale-time
// leakage regardless of what the registry claims about them.
var denylist = []string{
	"sale type",
	"sale condition",
	"sale date",
	"mo sold",
	"yr sold",
}

// GuardError reports denylisted columns that survived registry-driven
// filtering. This always indicates a registry misconfiguration and is
// never recoverable at runtime.
type GuardError struct {
	Columns []string
}

// Error implements the error interface.
func (e *GuardError) Error() string {
	return fmt.Sprintf("leakage guard violation: denylisted columns survived filtering: %s",
		strings.Join(e.Columns, ", "))
}

// Filter removes every column whose registry kind is identifier,
// drop-transactional, or drop-temporal, then independently asserts that no
// surviving column name matches the denylist. Column order is preserved.
//
// Fails with *registry.UnknownColumnError when a column is not declared,
// and with *GuardError when the denylist check trips.
//
// Filter runs strictly before transform fitting: the engine never observes
// a filtered-out column.
func Filter(columns []string, reg *registry.Registry) ([]string, error) {
	surviving := make([]string, 0, len(columns))
	removed := 0

	for _, col := range columns {
		spec, err := reg.Lookup(col)
		if err != nil {
			return nil, err
		}
		if spec.IsLeakage() || spec.Kind == feature.KindIdentifier {
			removed++
			continue
		}
		surviving = append(surviving, col)
	}

	// Independent denylist re-check. The registry is not trusted here.
	var violations []string
	for _, col := range surviving {
		lower := strings.ToLower(col)
		for _, term := range denylist {
			if strings.Contains(lower, term) {
				violations = append(violations, col)
				break
			}
		}
	}
	if len(violations) > 0 {
		return nil, &GuardError{Columns: violations}
	}

	slog.Debug("leakage filter applied",
		"input_columns", len(columns),
		"removed", removed,
		"surviving", len(surviving),
	)

	return surviving, nil
}
