package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SLassalle/real-estate-price-prediction/internal/feature"
)

func validSpecs() []feature.Spec {
	return []feature.Spec{
		{Name: "PID", RawType: feature.RawInt, Kind: feature.KindIdentifier,
			Missingness: feature.MissingNone, Strategy: feature.StrategyDrop,
			MissingSemantics: feature.SemanticsNotApplicable},
		{Name: "Bsmt Qual", RawType: feature.RawString, Kind: feature.KindOrdinal,
			Missingness: feature.MissingLow, Strategy: feature.StrategyEncodeOrdinal,
			OrdinalOrder:     []string{"Po", "Fa", "TA", "Gd", "Ex"},
			MissingSemantics: feature.SemanticsStructuralAbsence},
		{Name: "Lot Frontage", RawType: feature.RawFloat, Kind: feature.KindNumeric,
			Missingness: feature.MissingModerate, Strategy: feature.StrategyImpute,
			MissingSemantics: feature.SemanticsUnknown},
		{Name: "Garage Area", RawType: feature.RawFloat, Kind: feature.KindNumeric,
			Missingness: feature.MissingLow, Strategy: feature.StrategyImpute,
			MissingSemantics: feature.SemanticsStructuralAbsence, Companion: "Garage Type"},
		{Name: "Garage Type", RawType: feature.RawString, Kind: feature.KindCategorical,
			Missingness: feature.MissingLow, Strategy: feature.StrategyOneHot,
			MissingSemantics: feature.SemanticsStructuralAbsence},
		{Name: "SalePrice", RawType: feature.RawInt, Kind: feature.KindTarget,
			Missingness: feature.MissingNone, Strategy: feature.StrategyTarget,
			MissingSemantics: feature.SemanticsNotApplicable},
	}
}

func TestNewValidRegistry(t *testing.T) {
	reg, err := New(validSpecs())
	require.NoError(t, err)

	assert.Equal(t, 6, reg.Len())
	assert.Equal(t, "SalePrice", reg.Target())
	assert.True(t, reg.Has("Garage Type"))
	assert.False(t, reg.Has("Sale Type"))

	spec, err := reg.Lookup("Bsmt Qual")
	require.NoError(t, err)
	assert.Equal(t, feature.KindOrdinal, spec.Kind)
	rank, ok := spec.OrdinalRank("TA")
	require.True(t, ok)
	assert.Equal(t, 2, rank)
}

func TestNewCollectsAllViolations(t *testing.T) {
	specs := []feature.Spec{
		// Duplicate name, bad enum, strategy mismatch, and a second target:
		// every one of them must be reported in a single pass.
		{Name: "A", RawType: feature.RawInt, Kind: feature.KindNumeric,
			Missingness: feature.MissingNone, Strategy: feature.StrategyKeep,
			MissingSemantics: feature.SemanticsNotApplicable},
		{Name: "A", RawType: feature.RawInt, Kind: feature.KindNumeric,
			Missingness: feature.MissingNone, Strategy: feature.StrategyKeep,
			MissingSemantics: feature.SemanticsNotApplicable},
		{Name: "B", RawType: "decimal", Kind: feature.KindNumeric,
			Missingness: feature.MissingNone, Strategy: feature.StrategyKeep,
			MissingSemantics: feature.SemanticsNotApplicable},
		{Name: "C", RawType: feature.RawString, Kind: feature.KindCategorical,
			Missingness: feature.MissingNone, Strategy: feature.StrategyKeep,
			MissingSemantics: feature.SemanticsNotApplicable},
		{Name: "T1", RawType: feature.RawInt, Kind: feature.KindTarget,
			Missingness: feature.MissingNone, Strategy: feature.StrategyTarget,
			MissingSemantics: feature.SemanticsNotApplicable},
		{Name: "T2", RawType: feature.RawInt, Kind: feature.KindTarget,
			Missingness: feature.MissingNone, Strategy: feature.StrategyTarget,
			MissingSemantics: feature.SemanticsNotApplicable},
	}

	_, err := New(specs)
	require.Error(t, err)

	var invalid *InvalidRegistryError
	require.True(t, errors.As(err, &invalid))

	codes := make(map[string]bool)
	for _, v := range invalid.Violations {
		codes[v.Code] = true
	}
	assert.True(t, codes[ErrDuplicateColumn], "duplicate column not reported")
	assert.True(t, codes[ErrInvalidEnum], "invalid enum not reported")
	assert.True(t, codes[ErrStrategyMismatch], "strategy mismatch not reported")
	assert.True(t, codes[ErrMultipleTargets], "duplicate target not reported")
}

func TestNewRequiresTarget(t *testing.T) {
	specs := validSpecs()[:5] // drop SalePrice
	_, err := New(specs)

	var invalid *InvalidRegistryError
	require.True(t, errors.As(err, &invalid))
	require.Len(t, invalid.Violations, 1)
	assert.Equal(t, ErrNoTarget, invalid.Violations[0].Code)
}

func TestNewOrdinalOrderRules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(s *feature.Spec)
		wantCode string
	}{
		{
			name:     "string ordinal without order",
			mutate:   func(s *feature.Spec) { s.OrdinalOrder = nil },
			wantCode: ErrMissingOrdinalOrder,
		},
		{
			name:     "duplicate label",
			mutate:   func(s *feature.Spec) { s.OrdinalOrder = []string{"Po", "Fa", "Po"} },
			wantCode: ErrDuplicateOrdinal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specs := validSpecs()
			tt.mutate(&specs[1]) // Bsmt Qual
			_, err := New(specs)

			var invalid *InvalidRegistryError
			require.True(t, errors.As(err, &invalid))
			found := false
			for _, v := range invalid.Violations {
				if v.Code == tt.wantCode {
					found = true
				}
			}
			assert.True(t, found, "expected code %s in %v", tt.wantCode, invalid.Violations)
		})
	}
}

func TestNewOrdinalOrderOnNonOrdinal(t *testing.T) {
	specs := validSpecs()
	specs[2].OrdinalOrder = []string{"a", "b"} // Lot Frontage is numeric
	_, err := New(specs)

	var invalid *InvalidRegistryError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, ErrUnexpectedOrdinal, invalid.Violations[0].Code)
}

func TestNewCategoricalRequiresStringRawType(t *testing.T) {
	// An int-typed one-hot column would only surface later as a fit-time
	// conversion error; the registry must reject it up front.
	specs := validSpecs()
	specs[4].RawType = feature.RawInt // Garage Type
	_, err := New(specs)

	var invalid *InvalidRegistryError
	require.True(t, errors.As(err, &invalid))
	require.Len(t, invalid.Violations, 1)
	assert.Equal(t, ErrCategoricalRawType, invalid.Violations[0].Code)
	assert.Equal(t, "Garage Type", invalid.Violations[0].Column)
	assert.Equal(t, "raw_type", invalid.Violations[0].Field)
}

func TestNewUnknownCompanion(t *testing.T) {
	specs := validSpecs()
	specs[3].Companion = "No Such Column"
	_, err := New(specs)

	var invalid *InvalidRegistryError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, ErrUnknownCompanion, invalid.Violations[0].Code)
}

func TestLookupUnknownColumn(t *testing.T) {
	reg, err := New(validSpecs())
	require.NoError(t, err)

	_, err = reg.Lookup("Sale Condition")
	var unknown *UnknownColumnError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "Sale Condition", unknown.Column)
}

func TestMissingColumns(t *testing.T) {
	reg, err := New(validSpecs())
	require.NoError(t, err)

	header := []string{"PID", "Bsmt Qual", "Garage Type"}
	missing := reg.MissingColumns(header, true)
	assert.Equal(t, []string{"Lot Frontage", "Garage Area", "SalePrice"}, missing)

	missing = reg.MissingColumns(header, false)
	assert.Equal(t, []string{"Lot Frontage", "Garage Area"}, missing)

	all := []string{"PID", "Bsmt Qual", "Lot Frontage", "Garage Area", "Garage Type", "SalePrice"}
	assert.Empty(t, reg.MissingColumns(all, true))
}

func TestFingerprintStableAcrossConstructions(t *testing.T) {
	reg1, err := New(validSpecs())
	require.NoError(t, err)
	reg2, err := New(validSpecs())
	require.NoError(t, err)

	fp1, err := reg1.Fingerprint()
	require.NoError(t, err)
	fp2, err := reg2.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)

	// A changed strategy must change the fingerprint.
	specs := validSpecs()
	specs[2].Strategy = feature.StrategyKeep
	reg3, err := New(specs)
	require.NoError(t, err)
	fp3, err := reg3.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, fp1, fp3)
}
