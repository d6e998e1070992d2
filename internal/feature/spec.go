package feature

// RawType classifies the scalar type a column holds before any transform.
type RawType string

const (
	RawInt    RawType = "int"
	RawFloat  RawType = "float"
	RawString RawType = "string"
)

// Kind classifies what role a column plays in the pipeline.
//
// The three drop kinds are distinct on purpose: drop-transactional and
// drop-temporal are leakage classes the leakage filter must remove before
// the transform engine ever sees them, while drop-structural marks columns
// dropped for data-quality reasons (near-constant, mostly missing) that
// carry no leakage risk.
type Kind string

const (
	KindIdentifier        Kind = "identifier"
	KindTarget            Kind = "target"
	KindOrdinal           Kind = "ordinal"
	KindNumeric           Kind = "numeric"
	KindCategorical       Kind = "categorical"
	KindDropStructural    Kind = "drop-structural"
	KindDropTransactional Kind = "drop-transactional"
	KindDropTemporal      Kind = "drop-temporal"
)

// MissingnessLevel records the documented missingness profile of a column.
type MissingnessLevel string

const (
	MissingNone           MissingnessLevel = "none"
	MissingLow            MissingnessLevel = "low"
	MissingModerate       MissingnessLevel = "moderate"
	MissingHighStructural MissingnessLevel = "high-structural"
)

// Strategy is the per-column handling strategy. Dispatch over Strategy
// happens exactly once, when the transform engine is fitted; after that
// each column is bound to a fixed transform function.
type Strategy string

const (
	StrategyDrop          Strategy = "drop"
	StrategyKeep          Strategy = "keep"
	StrategyImpute        Strategy = "impute"
	StrategyEncodeOrdinal Strategy = "encode_ordinal"
	StrategyOneHot        Strategy = "one_hot"
	StrategyTarget        Strategy = "target"
)

// MissingSemantics states what a missing cell in this column means.
type MissingSemantics string

const (
	// SemanticsNotApplicable marks columns documented as having no missing
	// values, or columns whose strategy discards the cell entirely.
	SemanticsNotApplicable MissingSemantics = "not-applicable"

	// SemanticsStructuralAbsence means a missing cell encodes "this
	// physical component does not exist" (no basement, no garage). The
	// absence itself is signal and must survive into the feature matrix.
	SemanticsStructuralAbsence MissingSemantics = "structural-absence"

	// SemanticsUnknown means the value exists but was not recorded; it is
	// statistically imputed from the training partition.
	SemanticsUnknown MissingSemantics = "unknown"
)

// Spec describes one raw column: its role, its missingness profile, and
// how the transform engine must handle it.
type Spec struct {
	Name        string           `yaml:"name" json:"name"`
	RawType     RawType          `yaml:"raw_type" json:"raw_type"`
	Kind        Kind             `yaml:"kind" json:"kind"`
	Missingness MissingnessLevel `yaml:"missingness" json:"missingness"`
	Strategy    Strategy         `yaml:"strategy" json:"strategy"`

	// OrdinalOrder lists category labels worst-first. Required (and only
	// allowed) when Kind is ordinal and RawType is string. Rank i is the
	// encoding of OrdinalOrder[i].
	OrdinalOrder []string `yaml:"ordinal_order,omitempty" json:"ordinal_order,omitempty"`

	MissingSemantics MissingSemantics `yaml:"missing_semantics" json:"missing_semantics"`

	// Companion names the categorical column that signals structural
	// absence for a numeric column (Garage Cars -> Garage Type). When the
	// companion is structurally absent in a row, a missing numeric cell
	// resolves to structural zero instead of the training median.
	Companion string `yaml:"companion,omitempty" json:"companion,omitempty"`
}

// IsDrop reports whether the column never reaches the feature matrix.
func (s Spec) IsDrop() bool {
	switch s.Kind {
	case KindDropStructural, KindDropTransactional, KindDropTemporal, KindIdentifier:
		return true
	}
	return false
}

// IsLeakage reports whether the column is excluded because it would leak
// transaction-time information into the features.
func (s Spec) IsLeakage() bool {
	return s.Kind == KindDropTransactional || s.Kind == KindDropTemporal
}

// OrdinalRank returns the 0-indexed rank of a category label, or -1 with
// ok=false when the label is not in the declared order.
func (s Spec) OrdinalRank(label string) (int, bool) {
	for i, l := range s.OrdinalOrder {
		if l == label {
			return i, true
		}
	}
	return -1, false
}
