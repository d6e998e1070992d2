// Package testutil provides deterministic dataset and registry builders
// shared by tests across packages.
package testutil

import (
	"fmt"

	"github.com/SLassalle/real-estate-price-prediction/internal/feature"
	"github.com/SLassalle/real-estate-price-prediction/internal/registry"
)

// HousesRegistry returns a small housing registry exercising every
// strategy: keep, impute (with and without a structural companion),
// ordinal encoding, one-hot (structural and unknown missingness), plus
// identifier and temporal drop columns and the target.
func HousesRegistry() *registry.Registry {
	reg, err := registry.New(HousesSpecs())
	if err != nil {
		panic(fmt.Sprintf("testutil: houses registry invalid: %v", err))
	}
	return reg
}

// HousesSpecs returns the raw spec table behind HousesRegistry, for tests
// that need to perturb it before construction.
func HousesSpecs() []feature.Spec {
	return []feature.Spec{
		{
			Name:             "Id",
			RawType:          feature.RawInt,
			Kind:             feature.KindIdentifier,
			Missingness:      feature.MissingNone,
			Strategy:         feature.StrategyDrop,
			MissingSemantics: feature.SemanticsNotApplicable,
		},
		{
			Name:             "Quality",
			RawType:          feature.RawString,
			Kind:             feature.KindOrdinal,
			Missingness:      feature.MissingHighStructural,
			Strategy:         feature.StrategyEncodeOrdinal,
			OrdinalOrder:     []string{"Po", "Fa", "TA", "Gd", "Ex"},
			MissingSemantics: feature.SemanticsStructuralAbsence,
		},
		{
			Name:             "Area",
			RawType:          feature.RawFloat,
			Kind:             feature.KindNumeric,
			Missingness:      feature.MissingLow,
			Strategy:         feature.StrategyImpute,
			MissingSemantics: feature.SemanticsUnknown,
		},
		{
			Name:             "Garage Area",
			RawType:          feature.RawFloat,
			Kind:             feature.KindNumeric,
			Missingness:      feature.MissingHighStructural,
			Strategy:         feature.StrategyImpute,
			MissingSemantics: feature.SemanticsStructuralAbsence,
			Companion:        "Garage Type",
		},
		{
			Name:             "Garage Type",
			RawType:          feature.RawString,
			Kind:             feature.KindCategorical,
			Missingness:      feature.MissingHighStructural,
			Strategy:         feature.StrategyOneHot,
			MissingSemantics: feature.SemanticsStructuralAbsence,
		},
		{
			Name:             "Style",
			RawType:          feature.RawString,
			Kind:             feature.KindCategorical,
			Missingness:      feature.MissingLow,
			Strategy:         feature.StrategyOneHot,
			MissingSemantics: feature.SemanticsUnknown,
		},
		{
			Name:             "Rooms",
			RawType:          feature.RawInt,
			Kind:             feature.KindNumeric,
			Missingness:      feature.MissingNone,
			Strategy:         feature.StrategyKeep,
			MissingSemantics: feature.SemanticsNotApplicable,
		},
		{
			Name:             "Sold Year",
			RawType:          feature.RawInt,
			Kind:             feature.KindDropTemporal,
			Missingness:      feature.MissingNone,
			Strategy:         feature.StrategyDrop,
			MissingSemantics: feature.SemanticsNotApplicable,
		},
		{
			Name:             "Price",
			RawType:          feature.RawFloat,
			Kind:             feature.KindTarget,
			Missingness:      feature.MissingNone,
			Strategy:         feature.StrategyTarget,
			MissingSemantics: feature.SemanticsNotApplicable,
		},
	}
}

// HousesDataset returns four rows covering the interesting cells: a fully
// concrete row, an unknown-missing numeric, a structurally absent garage
// (companion and area both missing), a structurally absent ordinal, and
// an unknown-missing nominal.
func HousesDataset() *feature.Dataset {
	return &feature.Dataset{
		Columns: []string{"Id", "Quality", "Area", "Garage Area", "Garage Type", "Style", "Rooms", "Sold Year", "Price"},
		Records: []feature.RawRecord{
			{
				"Id": feature.Int(1), "Quality": feature.Str("TA"), "Area": feature.Float(1000),
				"Garage Area": feature.Float(400), "Garage Type": feature.Str("Attchd"),
				"Style": feature.Str("Ranch"), "Rooms": feature.Int(5),
				"Sold Year": feature.Int(2008), "Price": feature.Float(150000),
			},
			{
				"Id": feature.Int(2), "Quality": feature.Str("Gd"), "Area": feature.Missing{},
				"Garage Area": feature.Float(500), "Garage Type": feature.Str("Detchd"),
				"Style": feature.Str("Colonial"), "Rooms": feature.Int(6),
				"Sold Year": feature.Int(2009), "Price": feature.Float(200000),
			},
			{
				"Id": feature.Int(3), "Quality": feature.Missing{}, "Area": feature.Float(1200),
				"Garage Area": feature.Missing{}, "Garage Type": feature.Missing{},
				"Style": feature.Str("Ranch"), "Rooms": feature.Int(4),
				"Sold Year": feature.Int(2008), "Price": feature.Float(120000),
			},
			{
				"Id": feature.Int(4), "Quality": feature.Str("Ex"), "Area": feature.Float(800),
				"Garage Area": feature.Float(600), "Garage Type": feature.Str("Attchd"),
				"Style": feature.Missing{}, "Rooms": feature.Int(7),
				"Sold Year": feature.Int(2010), "Price": feature.Float(250000),
			},
		},
	}
}

// LinearRegistry returns a minimal numeric registry with two keep
// features, an identifier, and the target.
func LinearRegistry() *registry.Registry {
	reg, err := registry.New([]feature.Spec{
		{Name: "id", RawType: feature.RawInt, Kind: feature.KindIdentifier,
			Missingness: feature.MissingNone, Strategy: feature.StrategyDrop,
			MissingSemantics: feature.SemanticsNotApplicable},
		{Name: "x1", RawType: feature.RawFloat, Kind: feature.KindNumeric,
			Missingness: feature.MissingNone, Strategy: feature.StrategyKeep,
			MissingSemantics: feature.SemanticsNotApplicable},
		{Name: "x2", RawType: feature.RawFloat, Kind: feature.KindNumeric,
			Missingness: feature.MissingNone, Strategy: feature.StrategyKeep,
			MissingSemantics: feature.SemanticsNotApplicable},
		{Name: "y", RawType: feature.RawFloat, Kind: feature.KindTarget,
			Missingness: feature.MissingNone, Strategy: feature.StrategyTarget,
			MissingSemantics: feature.SemanticsNotApplicable},
	})
	if err != nil {
		panic(fmt.Sprintf("testutil: linear registry invalid: %v", err))
	}
	return reg
}

// LinearDataset returns n rows drawn from an exact linear relationship,
// y = 3*x1 + 2*x2 + 10. The feature values cycle deterministically so the
// same n always produces the same dataset.
func LinearDataset(n int) *feature.Dataset {
	ds := &feature.Dataset{Columns: []string{"id", "x1", "x2", "y"}}
	for i := 0; i < n; i++ {
		x1 := float64(i%17) + 0.5*float64(i%5)
		x2 := float64((i * 7) % 13)
		y := 3*x1 + 2*x2 + 10
		ds.Records = append(ds.Records, feature.RawRecord{
			"id": feature.Int(int64(i + 1)),
			"x1": feature.Float(x1),
			"x2": feature.Float(x2),
			"y":  feature.Float(y),
		})
	}
	return ds
}
