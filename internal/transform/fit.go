// Package transform turns raw records into a fully numeric feature matrix
// under the feature registry's per-column strategies.
//
// Strategy dispatch happens exactly once, at fit time: each surviving
// column is bound to a fixed per-column state, and Apply replays that
// state without runtime type inspection. Fitting reads the training
// partition only; everything Apply needs (medians, modes, one-hot
// vocabularies) is captured in the FittedTransform so applying to held-out
// or inference data can never leak statistics across partitions.
package transform

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/SLassalle/real-estate-price-prediction/internal/feature"
	"github.com/SLassalle/real-estate-price-prediction/internal/missing"
	"github.com/SLassalle/real-estate-price-prediction/internal/registry"
)

// NoneCategory is the dedicated one-hot category for structural absence
// in nominal columns ("no garage", "no veneer").
const NoneCategory = "None"

// StructuralRank is the reserved ordinal rank for structural absence:
// strictly below rank 0, so "no basement" orders below the worst real
// basement grade.
const StructuralRank = -1

// ColumnState is the fitted, serializable state for one input column.
// Exactly one of the strategy-specific fields is populated, according to
// Spec.Strategy.
type ColumnState struct {
	Spec feature.Spec `json:"spec"`

	// Median is the training median for impute columns.
	Median float64 `json:"median,omitempty"`

	// Mode is the most frequent training category for one-hot columns
	// whose missing cells are unknown rather than structural.
	Mode string `json:"mode,omitempty"`

	// Vocabulary is the sorted set of categories observed in training for
	// one-hot columns, including NoneCategory when structural absence was
	// observed.
	Vocabulary []string `json:"vocabulary,omitempty"`
}

// FittedTransform holds everything Apply needs. It is immutable after Fit
// and safe for concurrent Apply calls.
type FittedTransform struct {
	// InputColumns are the surviving raw columns, in input order.
	InputColumns []string `json:"input_columns"`

	// FeatureNames are the derived output columns, index-aligned with
	// TransformedRecord.Values.
	FeatureNames []string `json:"feature_names"`

	// States holds per-column fitted state in InputColumns order, drop and
	// target columns excluded.
	States []ColumnState `json:"states"`

	reg      *registry.Registry
	resolver *missing.Resolver
}

// Fingerprint returns the content-addressed hash of the fitted state.
// Identical training data and registry always produce the same
// fingerprint; the evaluation harness records it so a persisted report can
// be matched to the exact transform that produced it.
func (ft *FittedTransform) Fingerprint() (string, error) {
	states := make([]any, len(ft.States))
	for i, st := range ft.States {
		m := map[string]any{
			"column":   st.Spec.Name,
			"strategy": string(st.Spec.Strategy),
		}
		switch st.Spec.Strategy {
		case feature.StrategyImpute:
			m["median"] = st.Median
		case feature.StrategyOneHot:
			m["vocabulary"] = st.Vocabulary
			if st.Mode != "" {
				m["mode"] = st.Mode
			}
		}
		states[i] = m
	}
	return feature.Fingerprint(feature.DomainTransform, map[string]any{
		"feature_names": ft.FeatureNames,
		"states":        states,
	})
}

// Rebind reattaches a deserialized FittedTransform to its registry.
// Persisted transforms lose the registry and resolver references; they
// must be rebound before Apply.
func (ft *FittedTransform) Rebind(reg *registry.Registry) {
	ft.reg = reg
	ft.resolver = missing.NewResolver(reg)
}

// Fit computes per-column statistics from the training records only.
//
// columns must already have passed the leakage filter; Fit refuses
// columns the registry does not declare but does not re-run the denylist
// check. Drop and target columns are skipped. For each remaining column:
//
//   - keep: no state; values pass through (missing is a contract error)
//   - impute: training median over concrete values; structural absences
//     are excluded from the median, they encode as 0
//   - encode_ordinal: validates the declared order covers every observed
//     label; no learned state
//   - one_hot: sorted vocabulary of observed categories, plus NoneCategory
//     when structural absence was observed; mode for unknown-missing fills
func Fit(ds *feature.Dataset, columns []string, reg *registry.Registry) (*FittedTransform, error) {
	if ds == nil || len(ds.Records) == 0 {
		return nil, fmt.Errorf("fit: no training records")
	}

	resolver := missing.NewResolver(reg)
	ft := &FittedTransform{
		InputColumns: append([]string(nil), columns...),
		reg:          reg,
		resolver:     resolver,
	}

	for _, col := range columns {
		spec, err := reg.Lookup(col)
		if err != nil {
			return nil, err
		}
		if spec.IsDrop() || spec.Kind == feature.KindTarget {
			continue
		}

		state := ColumnState{Spec: spec}
		switch spec.Strategy {
		case feature.StrategyKeep:
			// Pass-through; nothing to learn.

		case feature.StrategyImpute:
			median, err := fitMedian(ds, spec, resolver)
			if err != nil {
				return nil, fmt.Errorf("fit column %q: %w", col, err)
			}
			state.Median = median

		case feature.StrategyEncodeOrdinal:
			if err := checkOrdinalCoverage(ds, spec); err != nil {
				return nil, err
			}

		case feature.StrategyOneHot:
			vocab, mode, err := fitVocabulary(ds, spec, resolver)
			if err != nil {
				return nil, fmt.Errorf("fit column %q: %w", col, err)
			}
			state.Vocabulary = vocab
			state.Mode = mode

		default:
			return nil, fmt.Errorf("fit column %q: unsupported strategy %q", col, spec.Strategy)
		}

		ft.States = append(ft.States, state)
	}

	ft.FeatureNames = deriveFeatureNames(ft.States)

	slog.Debug("transform fitted",
		"input_columns", len(columns),
		"fitted_columns", len(ft.States),
		"output_features", len(ft.FeatureNames),
		"training_rows", len(ds.Records),
	)

	return ft, nil
}

// deriveFeatureNames expands fitted states into output column names.
// Numeric and ordinal columns keep their raw name; one-hot columns expand
// to one indicator per vocabulary entry, named "Column=Category".
func deriveFeatureNames(states []ColumnState) []string {
	var names []string
	for _, st := range states {
		if st.Spec.Strategy == feature.StrategyOneHot {
			for _, cat := range st.Vocabulary {
				names = append(names, st.Spec.Name+"="+cat)
			}
			continue
		}
		names = append(names, st.Spec.Name)
	}
	return names
}

// fitMedian computes the training median over concrete values. Structural
// absences do not contribute: "no garage" must not drag the garage-area
// median toward zero.
func fitMedian(ds *feature.Dataset, spec feature.Spec, resolver *missing.Resolver) (float64, error) {
	var vals []float64
	for _, rec := range ds.Records {
		cell, ok := rec[spec.Name]
		if !ok {
			return 0, fmt.Errorf("column absent from record")
		}
		res := resolver.Resolve(spec, cell, rec)
		if res.Disposition != missing.Concrete {
			continue
		}
		f, err := feature.AsFloat(res.Value)
		if err != nil {
			return 0, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		vals = append(vals, f)
	}
	if len(vals) == 0 {
		return 0, fmt.Errorf("no concrete values to fit median")
	}
	return median(vals), nil
}

// median returns the middle value, averaging the two central values for
// even counts. The input slice is sorted in place.
func median(vals []float64) float64 {
	sort.Float64s(vals)
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}

// checkOrdinalCoverage enforces the registry invariant that the declared
// order covers every observed non-missing label in the training data.
func checkOrdinalCoverage(ds *feature.Dataset, spec feature.Spec) error {
	for _, rec := range ds.Records {
		v, ok := rec[spec.Name]
		if !ok || feature.IsMissing(v) {
			continue
		}
		label, err := feature.AsString(v)
		if err != nil {
			return fmt.Errorf("ordinal column %q: %w", spec.Name, err)
		}
		if _, ok := spec.OrdinalRank(label); !ok {
			return &UnknownOrdinalLabelError{Column: spec.Name, Label: label}
		}
	}
	return nil
}

// fitVocabulary collects the observed categories for a one-hot column.
// The vocabulary is sorted so output column order is independent of row
// order. NoneCategory is appended only when structural absence was
// actually observed in training, matching per-fold fitting semantics.
func fitVocabulary(ds *feature.Dataset, spec feature.Spec, resolver *missing.Resolver) (vocab []string, mode string, err error) {
	counts := make(map[string]int)
	sawStructural := false

	for _, rec := range ds.Records {
		cell, ok := rec[spec.Name]
		if !ok {
			return nil, "", fmt.Errorf("column absent from record")
		}
		res := resolver.Resolve(spec, cell, rec)
		switch res.Disposition {
		case missing.Concrete:
			label, err := feature.AsString(res.Value)
			if err != nil {
				return nil, "", err
			}
			counts[label]++
		case missing.Structural:
			sawStructural = true
		case missing.Unknown:
			// Filled with the mode at apply time; does not extend the
			// vocabulary.
		}
	}
	if len(counts) == 0 && !sawStructural {
		return nil, "", fmt.Errorf("no observed categories")
	}

	for label := range counts {
		vocab = append(vocab, label)
	}
	sort.Strings(vocab)
	if sawStructural {
		vocab = append(vocab, NoneCategory)
	}

	// Most frequent category, ties broken lexicographically for
	// determinism. Only consulted for unknown-missing fills.
	if spec.MissingSemantics == feature.SemanticsUnknown {
		best := -1
		for _, label := range vocab {
			if counts[label] > best {
				best = counts[label]
				mode = label
			}
		}
	}

	return vocab, mode, nil
}
