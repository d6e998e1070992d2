package transform

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strconv"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SLassalle/real-estate-price-prediction/internal/feature"
	"github.com/SLassalle/real-estate-price-prediction/internal/testutil"
)

func TestApplyMatrix(t *testing.T) {
	ft := fitHouses(t)
	ds := testutil.HousesDataset()

	out, err := ft.Apply(ds.Records)
	require.NoError(t, err)
	require.Len(t, out, 4)

	// Columns: Quality, Area, Garage Area, Garage Type=Attchd,
	// Garage Type=Detchd, Garage Type=None, Style=Colonial, Style=Ranch,
	// Rooms.
	assert.Equal(t, []float64{2, 1000, 400, 1, 0, 0, 0, 1, 5}, out[0].Values)
	assert.Equal(t, []float64{3, 1000, 500, 0, 1, 0, 1, 0, 6}, out[1].Values)
	assert.Equal(t, []float64{-1, 1200, 0, 0, 0, 1, 0, 1, 4}, out[2].Values)
	assert.Equal(t, []float64{4, 800, 600, 1, 0, 0, 0, 1, 7}, out[3].Values)
}

func TestApplyIsDeterministic(t *testing.T) {
	ft := fitHouses(t)
	ds := testutil.HousesDataset()

	out1, err := ft.Apply(ds.Records)
	require.NoError(t, err)
	out2, err := ft.Apply(ds.Records)
	require.NoError(t, err)
	assert.Equal(t, out1, out2)

	// Row-at-a-time application matches batch application.
	for i, rec := range ds.Records {
		single, err := ft.Apply([]feature.RawRecord{rec})
		require.NoError(t, err)
		assert.Equal(t, out1[i], single[0])
	}
}

func TestApplyOneHotExactlyOneIndicator(t *testing.T) {
	ft := fitHouses(t)
	ds := testutil.HousesDataset()

	out, err := ft.Apply(ds.Records)
	require.NoError(t, err)

	for i, row := range out {
		garageSum := row.Values[3] + row.Values[4] + row.Values[5]
		styleSum := row.Values[6] + row.Values[7]
		assert.Equal(t, 1.0, garageSum, "row %d garage indicators", i)
		assert.Equal(t, 1.0, styleSum, "row %d style indicators", i)
	}
}

func TestApplyUnseenCategoryAllZero(t *testing.T) {
	ft := fitHouses(t)

	rec := testutil.HousesDataset().Records[0]
	rec["Garage Type"] = feature.Str("Carport")

	out, err := ft.Apply([]feature.RawRecord{rec})
	require.NoError(t, err)

	assert.Equal(t, 0.0, out[0].Values[3])
	assert.Equal(t, 0.0, out[0].Values[4])
	assert.Equal(t, 0.0, out[0].Values[5])
}

func TestApplyOrdinalRanksMonotonic(t *testing.T) {
	ft := fitHouses(t)

	base := testutil.HousesDataset().Records[0]
	labels := []string{"Po", "Fa", "TA", "Gd", "Ex"}

	prev := float64(StructuralRank)
	for _, label := range labels {
		rec := make(feature.RawRecord, len(base))
		for k, v := range base {
			rec[k] = v
		}
		rec["Quality"] = feature.Str(label)

		out, err := ft.Apply([]feature.RawRecord{rec})
		require.NoError(t, err)
		assert.Greater(t, out[0].Values[0], prev, "rank for %s", label)
		prev = out[0].Values[0]
	}
}

func TestApplyUnseenOrdinalLabelGetsReservedRank(t *testing.T) {
	ft := fitHouses(t)

	rec := testutil.HousesDataset().Records[0]
	rec["Quality"] = feature.Str("Superb")

	out, err := ft.Apply([]feature.RawRecord{rec})
	require.NoError(t, err)
	assert.Equal(t, float64(StructuralRank), out[0].Values[0])
}

func TestApplyStructuralZeroNotMedian(t *testing.T) {
	ft := fitHouses(t)

	// Garage Type and Garage Area both missing: no garage. The area must
	// encode 0, not the training median.
	rec := testutil.HousesDataset().Records[2]
	out, err := ft.Apply([]feature.RawRecord{rec})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out[0].Values[2])
}

func TestApplyUnknownNumericGetsMedian(t *testing.T) {
	ft := fitHouses(t)

	// Companion present but the area cell is missing: the garage exists,
	// impute the training median.
	rec := testutil.HousesDataset().Records[0]
	rec["Garage Area"] = feature.Missing{}
	out, err := ft.Apply([]feature.RawRecord{rec})
	require.NoError(t, err)
	assert.Equal(t, 500.0, out[0].Values[2])
}

func TestApplyUnknownNominalGetsMode(t *testing.T) {
	ft := fitHouses(t)

	// Row 4's Style is missing with unknown semantics: mode fill (Ranch).
	rec := testutil.HousesDataset().Records[3]
	out, err := ft.Apply([]feature.RawRecord{rec})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out[0].Values[6]) // Style=Colonial
	assert.Equal(t, 1.0, out[0].Values[7]) // Style=Ranch
}

func TestApplyKeepRejectsMissing(t *testing.T) {
	ft := fitHouses(t)

	rec := testutil.HousesDataset().Records[0]
	rec["Rooms"] = feature.Missing{}

	_, err := ft.Apply([]feature.RawRecord{rec})
	var nonFinite *NonFiniteValueError
	require.True(t, errors.As(err, &nonFinite))
	assert.Equal(t, "Rooms", nonFinite.Column)
}

func TestApplyAbsentColumnFails(t *testing.T) {
	ft := fitHouses(t)

	rec := testutil.HousesDataset().Records[0]
	delete(rec, "Quality")

	_, err := ft.Apply([]feature.RawRecord{rec})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Quality")
}

func TestApplyRequiresRebindAfterDeserialization(t *testing.T) {
	ft := fitHouses(t)

	detached := &FittedTransform{
		InputColumns: ft.InputColumns,
		FeatureNames: ft.FeatureNames,
		States:       ft.States,
	}
	_, err := detached.Apply(testutil.HousesDataset().Records)
	require.Error(t, err)

	detached.Rebind(testutil.HousesRegistry())
	out, err := detached.Apply(testutil.HousesDataset().Records)
	require.NoError(t, err)
	assert.Len(t, out, 4)
}

func TestApplyGoldenMatrix(t *testing.T) {
	ft := fitHouses(t)
	ds := testutil.HousesDataset()

	out, err := ft.Apply(ds.Records)
	require.NoError(t, err)

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	require.NoError(t, cw.Write(ft.FeatureNames))
	for _, row := range out {
		record := make([]string, len(row.Values))
		for i, v := range row.Values {
			record[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		require.NoError(t, cw.Write(record))
	}
	cw.Flush()
	require.NoError(t, cw.Error())

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "houses_matrix", buf.Bytes())
}
