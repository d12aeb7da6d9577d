// Package money holds the integer minor-unit representation used for every
// price computation. Decimal values from the database or request bodies are
// converted once on the way in.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is an amount of USD in minor units.
type Cents int64

var (
	ErrNegative     = errors.New("amount must not be negative")
	ErrSubCent      = errors.New("amount has more than two decimal places")
	ErrOutOfRange   = errors.New("amount out of range")
	ErrInvalidInput = errors.New("amount is not a decimal number")
)

var maxCents = decimal.NewFromInt(math.MaxInt64)

// FromDecimal converts a decimal price into cents. Values with sub-cent
// precision are rejected rather than rounded.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	if d.IsNegative() {
		return 0, ErrNegative
	}
	shifted := d.Shift(2)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, ErrSubCent
	}
	if shifted.GreaterThan(maxCents) {
		return 0, ErrOutOfRange
	}
	return Cents(shifted.IntPart()), nil
}

// FromNullDecimal converts an optional decimal column; an invalid value maps to nil.
func FromNullDecimal(d decimal.NullDecimal) (*Cents, error) {
	if !d.Valid {
		return nil, nil
	}
	c, err := FromDecimal(d.Decimal)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Parse reads a decimal string such as "129.99".
func Parse(raw string) (Cents, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, raw)
	}
	return FromDecimal(d)
}

// Decimal returns the amount as a two-place decimal for persistence.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Shift(-2)
}

// String renders the amount with exactly two decimal places.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Mul multiplies by a non-negative quantity, reporting overflow.
func (c Cents) Mul(qty int) (Cents, bool) {
	if qty < 0 || c < 0 {
		return 0, false
	}
	if qty == 0 || c == 0 {
		return 0, true
	}
	if int64(c) > math.MaxInt64/int64(qty) {
		return 0, false
	}
	return c * Cents(qty), true
}

// Ptr returns a pointer to c.
func Ptr(c Cents) *Cents {
	return &c
}
