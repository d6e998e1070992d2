package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCell(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		rawType RawType
		want    Value
		wantErr bool
	}{
		{name: "empty cell is missing", raw: "", rawType: RawFloat, want: Missing{}},
		{name: "NA is missing", raw: "NA", rawType: RawString, want: Missing{}},
		{name: "NaN token is missing", raw: "NaN", rawType: RawFloat, want: Missing{}},
		{name: "int", raw: "42", rawType: RawInt, want: Int(42)},
		{name: "negative int", raw: "-7", rawType: RawInt, want: Int(-7)},
		{name: "float", raw: "1710.5", rawType: RawFloat, want: Float(1710.5)},
		{name: "string", raw: "Attchd", rawType: RawString, want: Str("Attchd")},
		{name: "string keeps digits", raw: "2fmCon", rawType: RawString, want: Str("2fmCon")},
		{name: "bad int", raw: "abc", rawType: RawInt, wantErr: true},
		{name: "bad float", raw: "12,5", rawType: RawFloat, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCell(tt.raw, tt.rawType)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAsFloat(t *testing.T) {
	f, err := AsFloat(Int(3))
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)

	f, err = AsFloat(Float(2.5))
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	_, err = AsFloat(Str("TA"))
	assert.Error(t, err)

	_, err = AsFloat(Missing{})
	assert.Error(t, err)
}

func TestAsString(t *testing.T) {
	s, err := AsString(Str("Gd"))
	require.NoError(t, err)
	assert.Equal(t, "Gd", s)

	_, err = AsString(Int(1))
	assert.Error(t, err)
}

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(Missing{}))
	assert.False(t, IsMissing(Int(0)))
	assert.False(t, IsMissing(Str("")))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "42", String(Int(42)))
	assert.Equal(t, "1.5", String(Float(1.5)))
	assert.Equal(t, "TA", String(Str("TA")))
	assert.Equal(t, "<missing>", String(Missing{}))
}
