package query

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/ontograph/errors"
)

func TestConvert(t *testing.T) {
	id := uuid.MustParse("6c8b2f9e-1d4a-4b7e-9f3a-2c5d8e1f0a7b")

	tests := []struct {
		name     string
		input    Parameter
		expected ParameterType
		want     Parameter
		wantErr  bool
	}{
		{"any keeps boolean", Boolean(true), TypeAny, Boolean(true), false},
		{"any keeps number", Number(1.5), TypeAny, Number(1.5), false},
		{"boolean", Boolean(false), TypeBoolean, Boolean(false), false},
		{"number", Number(2), TypeNumber, Number(2), false},
		{"text", Text("x"), TypeText, Text("x"), false},
		{"text to base id is not validated", Text("not a url"), TypeBaseID, Text("not a url"), false},
		{"text to versioned id is not validated", Text("xv/0"), TypeVersionedID, Text("xv/0"), false},
		{"anything to timestamp", Number(12), TypeTimestamp, Number(12), false},
		{"boolean to timestamp", Boolean(true), TypeTimestamp, Boolean(true), false},
		{"text to uuid", Text(id.String()), TypeUUID, UUID(id), false},
		{"bad text to uuid", Text("person-1"), TypeUUID, nil, true},
		{"number to unsigned", Number(3), TypeUnsignedInteger, SignedInteger(3), false},
		{"number rounds half away from zero", Number(2.5), TypeUnsignedInteger, SignedInteger(3), false},
		{"number rounds down", Number(2.4), TypeUnsignedInteger, SignedInteger(2), false},
		{"negative number", Number(-1), TypeUnsignedInteger, nil, true},
		{"beyond 32 bits", Number(math.MaxUint32 + 1), TypeUnsignedInteger, SignedInteger(4294967296), false},
		{"trillion", Number(1e12), TypeUnsignedInteger, SignedInteger(1_000_000_000_000), false},
		{"beyond int64", Number(math.MaxInt64), TypeUnsignedInteger, nil, true},
		{"infinity", Number(math.Inf(1)), TypeUnsignedInteger, nil, true},
		{"latest sentinel", Text("latest"), TypeUnsignedInteger, Text("latest"), false},
		{"other text to unsigned", Text("3"), TypeUnsignedInteger, nil, true},
		{"boolean to text", Boolean(true), TypeText, nil, true},
		{"number to text", Number(1), TypeText, nil, true},
		{"text to boolean", Text("true"), TypeBoolean, nil, true},
		{"text to number", Text("1"), TypeNumber, nil, true},
		{"number to uuid", Number(1), TypeUUID, nil, true},
		{"uuid to text", UUID(id), TypeText, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.input, tt.expected)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrParameterConversion))

				var convErr *ConversionError
				require.True(t, errors.As(err, &convErr))
				assert.Equal(t, tt.input, convErr.Actual)
				assert.Equal(t, tt.expected, convErr.Expected)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertRejectsNaN(t *testing.T) {
	_, err := Convert(Number(math.NaN()), TypeUnsignedInteger)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrParameterConversion))
}

func TestConvertIsIdempotent(t *testing.T) {
	inputs := []struct {
		p        Parameter
		expected ParameterType
	}{
		{Text("6c8b2f9e-1d4a-4b7e-9f3a-2c5d8e1f0a7b"), TypeUUID},
		{Number(7.2), TypeUnsignedInteger},
		{Text("latest"), TypeUnsignedInteger},
		{Text("https://example.com/person/"), TypeBaseID},
		{Boolean(true), TypeBoolean},
	}

	for _, in := range inputs {
		once, err := Convert(in.p, in.expected)
		require.NoError(t, err)
		twice, err := Convert(once, in.expected)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "%v to %s", in.p, in.expected)
	}
}

func TestConvertParametersWalksTree(t *testing.T) {
	id := uuid.New()
	f := All(
		PathEquals(EntityPath{Field: FieldUUID}, Text(id.String())),
		Not(Equal(ParameterOperand[EntityPath](Number(2)), PathOperand(EntityPath{Field: FieldVersion}))),
		Any(PathIsNull(EntityPath{Field: FieldArchivedByID})),
		Equal(ParameterOperand[EntityPath](Text("a")), ParameterOperand[EntityPath](Text("b"))),
	)

	require.NoError(t, f.ConvertParameters())

	assert.Equal(t, UUID(id), f.Filters[0].RHS.Parameter)
	assert.Equal(t, SignedInteger(2), f.Filters[1].Negated.LHS.Parameter)
	assert.Nil(t, f.Filters[2].Filters[0].RHS)
	assert.Equal(t, Text("b"), f.Filters[3].RHS.Parameter, "parameter pairs are left alone")
}

func TestConvertParametersReportsPath(t *testing.T) {
	f := PathEquals(DataTypePath{Field: FieldVersion}, Boolean(true))

	err := f.ConvertParameters()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrParameterConversion))
	assert.Contains(t, err.Error(), "version")
}
