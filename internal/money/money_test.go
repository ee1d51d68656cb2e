package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "pads single decimal", input: "9.9", want: "9.90"},
		{name: "integer", input: 12, want: "12.00"},
		{name: "float", input: 7.5, want: "7.50"},
		{name: "rounds half up", input: "2.345", want: "2.35"},
		{name: "rounds down below half", input: "2.344", want: "2.34"},
		{name: "currency symbol", input: "$1,234.5", want: "1234.50"},
		{name: "whitespace", input: "  0.1 ", want: "0.10"},
		{name: "decimal value", input: decimal.RequireFromString("3.10"), want: "3.10"},
		{name: "float without binary drift", input: 1.005, want: "1.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatRejectsGarbage(t *testing.T) {
	for _, input := range []any{"", "abc", "$", nil, struct{}{}} {
		_, err := Format(input)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %v", input)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(9.9, "9.90"))
	assert.True(t, Equal(12, "12.00"))
	assert.True(t, Equal("$7.50", decimal.RequireFromString("7.5")))
	assert.False(t, Equal("7.51", "7.50"))
	assert.False(t, Equal("n/a", "n/a"))
}

func TestLineTotal(t *testing.T) {
	got := LineTotal(3, decimal.RequireFromString("2.50"))
	assert.Equal(t, "7.50", String(got))

	got = LineTotal(3, decimal.RequireFromString("0.335"))
	assert.Equal(t, "1.01", String(got))
}

func TestSum(t *testing.T) {
	got := Sum(
		decimal.RequireFromString("7.50"),
		decimal.RequireFromString("12.34"),
		decimal.RequireFromString("0.01"),
	)
	assert.Equal(t, "19.85", String(got))
	assert.Equal(t, "0.00", String(Sum()))
}
