package transform

import (
	"fmt"
	"math"

	"github.com/SLassalle/real-estate-price-prediction/internal/feature"
	"github.com/SLassalle/real-estate-price-prediction/internal/missing"
)

// Apply transforms records into numeric rows using only fitted state.
//
// Apply is pure: identical input produces byte-identical output regardless
// of call order or batching. Unseen categories in one-hot columns encode
// as an all-zero indicator group; that is the single tolerated non-error
// edge case, because inference-time data may carry novel categories and a
// production transform must not crash on them.
func (ft *FittedTransform) Apply(records []feature.RawRecord) ([]feature.TransformedRecord, error) {
	if ft.resolver == nil {
		return nil, fmt.Errorf("apply: transform is not bound to a registry (call Rebind after deserializing)")
	}

	out := make([]feature.TransformedRecord, len(records))
	width := len(ft.FeatureNames)

	for i, rec := range records {
		row := make([]float64, 0, width)
		for _, st := range ft.States {
			vals, err := ft.applyColumn(st, rec, i)
			if err != nil {
				return nil, err
			}
			row = append(row, vals...)
		}
		out[i] = feature.TransformedRecord{Values: row}
	}

	return out, nil
}

// applyColumn produces the output values for one column of one record:
// a single value for numeric/ordinal columns, one indicator per
// vocabulary entry for one-hot columns.
func (ft *FittedTransform) applyColumn(st ColumnState, rec feature.RawRecord, row int) ([]float64, error) {
	spec := st.Spec
	cell, ok := rec[spec.Name]
	if !ok {
		return nil, fmt.Errorf("column %q absent from record (row %d)", spec.Name, row)
	}
	res := ft.resolver.Resolve(spec, cell, rec)

	switch spec.Strategy {
	case feature.StrategyKeep:
		if res.Disposition != missing.Concrete {
			return nil, &NonFiniteValueError{Column: spec.Name, Row: row, Detail: "value is missing"}
		}
		f, err := feature.AsFloat(res.Value)
		if err != nil {
			return nil, fmt.Errorf("column %q (row %d): %w", spec.Name, row, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &NonFiniteValueError{Column: spec.Name, Row: row, Detail: fmt.Sprintf("value is %v", f)}
		}
		return []float64{f}, nil

	case feature.StrategyImpute:
		switch res.Disposition {
		case missing.Concrete:
			f, err := feature.AsFloat(res.Value)
			if err != nil {
				return nil, fmt.Errorf("column %q (row %d): %w", spec.Name, row, err)
			}
			return []float64{f}, nil
		case missing.Structural:
			// Component absent: structural zero, never the median.
			return []float64{0}, nil
		default:
			return []float64{st.Median}, nil
		}

	case feature.StrategyEncodeOrdinal:
		switch res.Disposition {
		case missing.Concrete:
			label, err := feature.AsString(res.Value)
			if err != nil {
				return nil, fmt.Errorf("column %q (row %d): %w", spec.Name, row, err)
			}
			rank, ok := spec.OrdinalRank(label)
			if !ok {
				// Unseen label outside the declared order: encode with
				// the reserved below-worst rank rather than failing, the
				// same tolerance one-hot columns give novel categories.
				return []float64{StructuralRank}, nil
			}
			return []float64{float64(rank)}, nil
		default:
			// Structural absence ranks strictly below the worst real
			// category.
			return []float64{StructuralRank}, nil
		}

	case feature.StrategyOneHot:
		return ft.applyOneHot(st, res), nil

	default:
		return nil, fmt.Errorf("column %q: unsupported strategy %q", spec.Name, spec.Strategy)
	}
}

// applyOneHot emits one indicator per vocabulary entry. At most one
// indicator is 1; all are 0 for categories outside the fitted vocabulary.
func (ft *FittedTransform) applyOneHot(st ColumnState, res missing.Resolution) []float64 {
	indicators := make([]float64, len(st.Vocabulary))

	var label string
	switch res.Disposition {
	case missing.Concrete:
		if s, ok := res.Value.(feature.Str); ok {
			label = string(s)
		}
	case missing.Structural:
		label = NoneCategory
	case missing.Unknown:
		label = st.Mode
	}

	for i, cat := range st.Vocabulary {
		if cat == label {
			indicators[i] = 1
			break
		}
	}
	return indicators
}
