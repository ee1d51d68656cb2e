// Package money normalizes monetary values to the two-decimal form the
// Stocktake UI displays.
//
// The rendering layer is free to emit "9.9", "9.90" or "$9.90" for the same
// amount, so every comparison goes through Parse and is done on decimals
// rounded half-up to two places.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal digits every amount is normalized to.
const Places = 2

var ErrInvalidAmount = errors.New("invalid amount")

// Zero is the empty order total.
var Zero = decimal.Zero

// Parse converts a string, integer, float or decimal into a decimal.
// Strings may carry surrounding whitespace, a leading currency symbol and
// thousands separators.
func Parse(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero, fmt.Errorf("%w: nil", ErrInvalidAmount)
		}
		return *x, nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int32:
		return decimal.NewFromInt32(x), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case float32:
		return decimal.NewFromFloat32(x), nil
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		return parseString(x)
	default:
		return decimal.Zero, fmt.Errorf("%w: %v (%T)", ErrInvalidAmount, v, v)
	}
}

func parseString(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimLeft(clean, "$€£")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// Round rounds half-up (away from zero) to two places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Format renders v with exactly two decimals, e.g. "9.9" -> "9.90", 12 -> "12.00".
func Format(v any) (string, error) {
	d, err := Parse(v)
	if err != nil {
		return "", err
	}
	return d.StringFixed(Places), nil
}

// MustFormat is Format for values known to be valid.
func MustFormat(v any) string {
	s, err := Format(v)
	if err != nil {
		panic(err)
	}
	return s
}

// String renders an already-parsed decimal with two places.
func String(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// Equal reports whether a and b are the same amount once normalized.
// Values that cannot be parsed are never equal to anything.
func Equal(a, b any) bool {
	da, err := Parse(a)
	if err != nil {
		return false
	}
	db, err := Parse(b)
	if err != nil {
		return false
	}
	return Round(da).Equal(Round(db))
}

// LineTotal is round(quantity * cost, 2).
func LineTotal(quantity int, cost decimal.Decimal) decimal.Decimal {
	return Round(decimal.NewFromInt(int64(quantity)).Mul(cost))
}

// Sum adds the values and rounds the result to two places.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return Round(total)
}
