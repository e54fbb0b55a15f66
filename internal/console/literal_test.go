package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		name string
		text string
		want any
	}{
		{name: "empty tuple", text: "()", want: tuple{}},
		{name: "double quoted", text: `("abc")`, want: "abc"},
		{name: "single quoted", text: `('abc')`, want: "abc"},
		{name: "escape", text: `("a\"b")`, want: `a"b`},
		{name: "int", text: "(42)", want: int64(42)},
		{name: "negative int", text: "(-42)", want: int64(-42)},
		{name: "float", text: "(2.5)", want: 2.5},
		{name: "negative float", text: "(-2.5)", want: -2.5},
		{name: "plus float", text: "(+2.5)", want: 2.5},
		{name: "true", text: "(True)", want: true},
		{name: "false", text: "(False)", want: false},
		{name: "none", text: "(None)", want: nil},
		{name: "pair", text: `("a", 1)`, want: tuple{"a", int64(1)}},
		{name: "trailing comma", text: `("a",)`, want: tuple{"a"}},
		{name: "redundant parens", text: `(("a", 1))`, want: tuple{"a", int64(1)}},
		{
			name: "tuple with mapping",
			text: `("a", {"x": 1, "y": "z", "w": -0.5})`,
			want: tuple{"a", mapping{
				{Name: "x", Value: types.IntValue(1)},
				{Name: "y", Value: types.StringValue("z")},
				{Name: "w", Value: types.FloatValue(-0.5)},
			}},
		},
		{name: "bare mapping", text: `({"x": 1})`, want: mapping{{Name: "x", Value: types.IntValue(1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLiteral(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLiteralRejects(t *testing.T) {
	for _, text := range []string{
		"(",
		"(x)",
		"([1])",
		"((1, 2), 3)",
		"(1 + 2)",
		"(-x)",
		"(not True)",
		`(b"bytes")`,
		"(f(1))",
		"(lambda: 1)",
		`({"a": [1]})`,
		`({"a": None})`,
		`({"a": True})`,
		`({1: "a"})`,
		`({"a": {"b": 1}})`,
		"(1 if True else 2)",
		"(100000000000000000000000)",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := parseLiteral(text)
			assert.ErrorIs(t, err, errNotLiteral)
		})
	}
}

func TestTruthy(t *testing.T) {
	for _, v := range []any{nil, false, "", int64(0), 0.0, tuple{}, mapping{}} {
		assert.False(t, truthy(v), "%#v", v)
	}
	for _, v := range []any{true, "x", int64(-1), 0.5, tuple{nil}, mapping{{Name: "a"}}} {
		assert.True(t, truthy(v), "%#v", v)
	}
}
