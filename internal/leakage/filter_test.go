package leakage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SLassalle/real-estate-price-prediction/internal/feature"
	"github.com/SLassalle/real-estate-price-prediction/internal/registry"
	"github.com/SLassalle/real-estate-price-prediction/internal/testutil"
)

func TestFilterRemovesDropKinds(t *testing.T) {
	reg := testutil.HousesRegistry()
	ds := testutil.HousesDataset()

	surviving, err := Filter(ds.Columns, reg)
	require.NoError(t, err)

	// Identifier and temporal columns gone; order preserved.
	assert.Equal(t, []string{"Quality", "Area", "Garage Area", "Garage Type", "Style", "Rooms", "Price"}, surviving)
}

func TestFilterAmesRegistry(t *testing.T) {
	reg := registry.Ames()
	var columns []string
	for _, s := range reg.All() {
		columns = append(columns, s.Name)
	}

	surviving, err := Filter(columns, reg)
	require.NoError(t, err)

	banned := []string{"Order", "PID", "Mo Sold", "Yr Sold", "Sale Type", "Sale Condition"}
	for _, col := range surviving {
		for _, b := range banned {
			assert.NotEqual(t, b, col)
		}
	}
	assert.Contains(t, surviving, "Gr Liv Area")
	assert.Contains(t, surviving, "SalePrice")
}

func TestFilterUnknownColumn(t *testing.T) {
	reg := testutil.HousesRegistry()

	_, err := Filter([]string{"Rooms", "Mystery"}, reg)
	var unknown *registry.UnknownColumnError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "Mystery", unknown.Column)
}

func TestFilterGuardCatchesMisconfiguredRegistry(t *testing.T) {
	// A registry that wrongly classifies a sale-time column as a feature.
	// The kind-driven pass lets it through; the denylist must not.
	reg, err := registry.New([]feature.Spec{
		{Name: "Sale Type", RawType: feature.RawString, Kind: feature.KindCategorical,
			Missingness: feature.MissingNone, Strategy: feature.StrategyOneHot,
			MissingSemantics: feature.SemanticsNotApplicable},
		{Name: "Price", RawType: feature.RawFloat, Kind: feature.KindTarget,
			Missingness: feature.MissingNone, Strategy: feature.StrategyTarget,
			MissingSemantics: feature.SemanticsNotApplicable},
	})
	require.NoError(t, err)

	_, err = Filter([]string{"Sale Type", "Price"}, reg)
	var guard *GuardError
	require.True(t, errors.As(err, &guard))
	assert.Equal(t, []string{"Sale Type"}, guard.Columns)
}

func TestFilterGuardIsCaseInsensitive(t *testing.T) {
	reg, err := registry.New([]feature.Spec{
		{Name: "SALE CONDITION", RawType: feature.RawString, Kind: feature.KindCategorical,
			Missingness: feature.MissingNone, Strategy: feature.StrategyOneHot,
			MissingSemantics: feature.SemanticsNotApplicable},
		{Name: "Price", RawType: feature.RawFloat, Kind: feature.KindTarget,
			Missingness: feature.MissingNone, Strategy: feature.StrategyTarget,
			MissingSemantics: feature.SemanticsNotApplicable},
	})
	require.NoError(t, err)

	_, err = Filter([]string{"SALE CONDITION"}, reg)
	var guard *GuardError
	require.True(t, errors.As(err, &guard))
}

func TestFilterKeepsTargetAndFeatures(t *testing.T) {
	reg := testutil.LinearRegistry()

	surviving, err := Filter([]string{"id", "x1", "x2", "y"}, reg)
	require.NoError(t, err)
	assert.Equal(t, []string{"x1", "x2", "y"}, surviving)
}
