package query

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/ontograph/errors"
)

func TestParseExpression(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Expression
	}{
		{
			name:  "single comparison",
			input: `.title = Person`,
			want: EqExpr{Operands: []Expression{
				PathExpr{Tokens: []string{"title"}},
				LiteralExpr{Value: "Person"},
			}},
		},
		{
			name:  "quoted text",
			input: `.title != "Legal Person"`,
			want: NeExpr{Operands: []Expression{
				PathExpr{Tokens: []string{"title"}},
				LiteralExpr{Value: "Legal Person"},
			}},
		},
		{
			name:  "conjunction with literals",
			input: `.version = latest and .archived = false and .description = null`,
			want: AllExpr{Expressions: []Expression{
				EqExpr{Operands: []Expression{PathExpr{Tokens: []string{"version"}}, LiteralExpr{Value: "latest"}}},
				EqExpr{Operands: []Expression{PathExpr{Tokens: []string{"archived"}}, LiteralExpr{Value: false}}},
				EqExpr{Operands: []Expression{PathExpr{Tokens: []string{"description"}}, LiteralExpr{Value: nil}}},
			}},
		},
		{
			name:  "disjunction with nested path",
			input: `.leftEntity.uuid = 'abc' or .version = 3`,
			want: AnyExpr{Expressions: []Expression{
				EqExpr{Operands: []Expression{PathExpr{Tokens: []string{"leftEntity", "uuid"}}, LiteralExpr{Value: "abc"}}},
				EqExpr{Operands: []Expression{PathExpr{Tokens: []string{"version"}}, LiteralExpr{Value: 3.0}}},
			}},
		},
		{
			name:  "chained operands",
			input: `.title = .description = x`,
			want: EqExpr{Operands: []Expression{
				PathExpr{Tokens: []string{"title"}},
				PathExpr{Tokens: []string{"description"}},
				LiteralExpr{Value: "x"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExpression(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseExpressionErrors(t *testing.T) {
	inputs := []string{
		``,
		`   `,
		`.title`,
		`.title =`,
		`.title > 3`,
		`.title = a != b`,
		`.title = a and .version = 1 or .archived = true`,
		`.title = a and`,
		`.title = "unterminated`,
	}

	for _, input := range inputs {
		_, err := ParseExpression(input)
		require.Error(t, err, input)
		assert.True(t, errors.Is(err, errors.ErrDeserialization), "%q: %v", input, err)
	}
}

func TestParseFilter(t *testing.T) {
	id := uuid.New()

	f, err := ParseFilter[LinkPath](`.leftEntity.uuid = ` + id.String() + ` and .version = latest`)
	require.NoError(t, err)
	require.NoError(t, f.ConvertParameters())

	want := All(
		PathEquals(LinkPath{Field: FieldLeftEntity, Entity: &EntityPath{Field: FieldUUID}}, UUID(id)),
		PathEquals(LinkPath{Field: FieldVersion}, LatestVersion),
	)
	assert.Equal(t, want, f)

	_, err = ParseFilter[LinkPath](`.baseId = x`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDeserialization))
}
