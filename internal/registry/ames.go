package registry

import "github.com/SLassalle/real-estate-price-prediction/internal/feature"

// Category orders for the Ames ordinal columns, worst-first. Structural
// absence ("no basement") is NOT a label here; it resolves to the reserved
// rank below index 0 in the transform engine.
var (
	qualScale        = []string{"Po", "Fa", "TA", "Gd", "Ex"}
	bsmtExposure     = []string{"No", "Mn", "Av", "Gd"}
	bsmtFinType      = []string{"Unf", "LwQ", "Rec", "BLQ", "ALQ", "GLQ"}
	garageFinish     = []string{"Unf", "RFn", "Fin"}
	landSlope        = []string{"Sev", "Mod", "Gtl"}
	lotShape         = []string{"IR3", "IR2", "IR1", "Reg"}
	pavedDrive       = []string{"N", "P", "Y"}
	functionalScale  = []string{"Sal", "Sev", "Maj2", "Maj1", "Mod", "Min2", "Min1", "Typ"}
)

// Ames returns the built-in feature registry for the Ames housing table,
// reproducing the documented feature inventory: identifier and
// transaction/temporal columns dropped, quality grades rank-encoded,
// nominal columns one-hot expanded, and the basement/garage/fireplace/
// masonry-veneer missingness treated as structural absence.
//
// The registry always validates; a failure here is a programming error.
func Ames() *Registry {
	r, err := New(amesSpecs())
	if err != nil {
		panic("built-in Ames registry failed validation: " + err.Error())
	}
	return r
}

func amesSpecs() []feature.Spec {
	var specs []feature.Spec

	// Target.
	specs = append(specs, feature.Spec{
		Name: "SalePrice", RawType: feature.RawInt, Kind: feature.KindTarget,
		Missingness: feature.MissingNone, Strategy: feature.StrategyTarget,
		MissingSemantics: feature.SemanticsNotApplicable,
	})

	// Identifiers.
	for _, name := range []string{"Order", "PID"} {
		specs = append(specs, feature.Spec{
			Name: name, RawType: feature.RawInt, Kind: feature.KindIdentifier,
			Missingness: feature.MissingNone, Strategy: feature.StrategyDrop,
			MissingSemantics: feature.SemanticsNotApplicable,
		})
	}

	// Sale-time columns: temporal and transaction-specific leakage.
	for _, name := range []string{"Mo Sold", "Yr Sold"} {
		specs = append(specs, feature.Spec{
			Name: name, RawType: feature.RawInt, Kind: feature.KindDropTemporal,
			Missingness: feature.MissingNone, Strategy: feature.StrategyDrop,
			MissingSemantics: feature.SemanticsNotApplicable,
		})
	}
	for _, name := range []string{"Sale Type", "Sale Condition"} {
		specs = append(specs, feature.Spec{
			Name: name, RawType: feature.RawString, Kind: feature.KindDropTransactional,
			Missingness: feature.MissingNone, Strategy: feature.StrategyDrop,
			MissingSemantics: feature.SemanticsNotApplicable,
		})
	}

	// Dropped for data quality: almost entirely missing or near-constant.
	for _, name := range []string{"Pool QC", "Alley", "Fence", "Misc Feature"} {
		specs = append(specs, feature.Spec{
			Name: name, RawType: feature.RawString, Kind: feature.KindDropStructural,
			Missingness: feature.MissingHighStructural, Strategy: feature.StrategyDrop,
			MissingSemantics: feature.SemanticsNotApplicable,
		})
	}

	// Already-numeric ordinals: pass through unchanged, no encode step.
	for _, name := range []string{"Overall Qual", "Overall Cond"} {
		specs = append(specs, feature.Spec{
			Name: name, RawType: feature.RawInt, Kind: feature.KindOrdinal,
			Missingness: feature.MissingNone, Strategy: feature.StrategyKeep,
			MissingSemantics: feature.SemanticsNotApplicable,
		})
	}

	// Quality-grade ordinals with no missing values documented.
	for _, name := range []string{"Exter Qual", "Exter Cond", "Heating QC", "Kitchen Qual"} {
		specs = append(specs, ordinal(name, qualScale, feature.MissingNone, feature.SemanticsNotApplicable))
	}

	// Basement ordinals: missing means no basement.
	specs = append(specs,
		ordinal("Bsmt Qual", qualScale, feature.MissingLow, feature.SemanticsStructuralAbsence),
		ordinal("Bsmt Cond", qualScale, feature.MissingLow, feature.SemanticsStructuralAbsence),
		ordinal("Bsmt Exposure", bsmtExposure, feature.MissingLow, feature.SemanticsStructuralAbsence),
		ordinal("BsmtFin Type 1", bsmtFinType, feature.MissingLow, feature.SemanticsStructuralAbsence),
		ordinal("BsmtFin Type 2", bsmtFinType, feature.MissingLow, feature.SemanticsStructuralAbsence),
	)

	// Fireplace and garage ordinals: missing means no such component.
	specs = append(specs,
		ordinal("Fireplace Qu", qualScale, feature.MissingHighStructural, feature.SemanticsStructuralAbsence),
		ordinal("Garage Finish", garageFinish, feature.MissingLow, feature.SemanticsStructuralAbsence),
		ordinal("Garage Qual", qualScale, feature.MissingLow, feature.SemanticsStructuralAbsence),
		ordinal("Garage Cond", qualScale, feature.MissingLow, feature.SemanticsStructuralAbsence),
	)

	// Lot/site ordinals, fully populated.
	specs = append(specs,
		ordinal("Land Slope", landSlope, feature.MissingNone, feature.SemanticsNotApplicable),
		ordinal("Lot Shape", lotShape, feature.MissingNone, feature.SemanticsNotApplicable),
		ordinal("Paved Drive", pavedDrive, feature.MissingNone, feature.SemanticsNotApplicable),
		ordinal("Functional", functionalScale, feature.MissingNone, feature.SemanticsNotApplicable),
	)

	// Nominal categoricals, one-hot expanded. Mas Vnr Type and Garage Type
	// carry the structural-absence signal ("no veneer", "no garage") and
	// get a dedicated None indicator instead of a mode fill.
	nominalPlain := []string{
		"MS SubClass", "MS Zoning", "Street", "Land Contour", "Utilities", "Lot Config",
		"Neighborhood", "Condition 1", "Condition 2", "Bldg Type", "House Style",
		"Roof Style", "Roof Matl", "Exterior 1st", "Exterior 2nd", "Foundation",
		"Heating", "Central Air",
	}
	for _, name := range nominalPlain {
		specs = append(specs, feature.Spec{
			Name: name, RawType: feature.RawString, Kind: feature.KindCategorical,
			Missingness: feature.MissingNone, Strategy: feature.StrategyOneHot,
			MissingSemantics: feature.SemanticsNotApplicable,
		})
	}
	specs = append(specs,
		feature.Spec{
			Name: "Electrical", RawType: feature.RawString, Kind: feature.KindCategorical,
			Missingness: feature.MissingLow, Strategy: feature.StrategyOneHot,
			MissingSemantics: feature.SemanticsUnknown,
		},
		feature.Spec{
			Name: "Mas Vnr Type", RawType: feature.RawString, Kind: feature.KindCategorical,
			Missingness: feature.MissingLow, Strategy: feature.StrategyOneHot,
			MissingSemantics: feature.SemanticsStructuralAbsence,
		},
		feature.Spec{
			Name: "Garage Type", RawType: feature.RawString, Kind: feature.KindCategorical,
			Missingness: feature.MissingLow, Strategy: feature.StrategyOneHot,
			MissingSemantics: feature.SemanticsStructuralAbsence,
		},
	)

	// Fully-populated numerics pass straight through.
	numericKeep := []string{
		"Lot Area", "Year Built", "Year Remod/Add",
		"1st Flr SF", "2nd Flr SF", "Low Qual Fin SF", "Gr Liv Area",
		"Full Bath", "Half Bath", "Bedroom AbvGr", "Kitchen AbvGr", "TotRms AbvGrd",
		"Fireplaces", "Wood Deck SF", "Open Porch SF", "Enclosed Porch",
		"3Ssn Porch", "Screen Porch", "Pool Area", "Misc Val",
	}
	for _, name := range numericKeep {
		specs = append(specs, feature.Spec{
			Name: name, RawType: feature.RawInt, Kind: feature.KindNumeric,
			Missingness: feature.MissingNone, Strategy: feature.StrategyKeep,
			MissingSemantics: feature.SemanticsNotApplicable,
		})
	}

	// Lot Frontage: genuinely unrecorded, imputed from the training median.
	specs = append(specs, feature.Spec{
		Name: "Lot Frontage", RawType: feature.RawFloat, Kind: feature.KindNumeric,
		Missingness: feature.MissingModerate, Strategy: feature.StrategyImpute,
		MissingSemantics: feature.SemanticsUnknown,
	})

	// Component-measure numerics: missing because the component is absent.
	// The companion column carries the structural signal; a missing cell
	// resolves to 0, never to the median.
	structuralNumeric := []struct {
		name      string
		rawType   feature.RawType
		companion string
	}{
		{"Mas Vnr Area", feature.RawFloat, "Mas Vnr Type"},
		{"BsmtFin SF 1", feature.RawFloat, "Bsmt Qual"},
		{"BsmtFin SF 2", feature.RawFloat, "Bsmt Qual"},
		{"Bsmt Unf SF", feature.RawFloat, "Bsmt Qual"},
		{"Total Bsmt SF", feature.RawFloat, "Bsmt Qual"},
		{"Bsmt Full Bath", feature.RawInt, "Bsmt Qual"},
		{"Bsmt Half Bath", feature.RawInt, "Bsmt Qual"},
		{"Garage Yr Blt", feature.RawFloat, "Garage Type"},
		{"Garage Cars", feature.RawInt, "Garage Type"},
		{"Garage Area", feature.RawFloat, "Garage Type"},
	}
	for _, c := range structuralNumeric {
		specs = append(specs, feature.Spec{
			Name: c.name, RawType: c.rawType, Kind: feature.KindNumeric,
			Missingness: feature.MissingLow, Strategy: feature.StrategyImpute,
			MissingSemantics: feature.SemanticsStructuralAbsence,
			Companion:        c.companion,
		})
	}

	return specs
}

func ordinal(name string, order []string, level feature.MissingnessLevel, sem feature.MissingSemantics) feature.Spec {
	return feature.Spec{
		Name: name, RawType: feature.RawString, Kind: feature.KindOrdinal,
		Missingness: level, Strategy: feature.StrategyEncodeOrdinal,
		OrdinalOrder:     order,
		MissingSemantics: sem,
	}
}
