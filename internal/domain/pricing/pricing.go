// Package pricing derives the effective (discounted) price of an item.
//
// Both discount representations seen on the wire are normalized to a
// fraction in [0,1] before they reach this package: catalog listings carry an
// integer percentage, detail promotions carry a fraction. Percent converts the
// former at the decoder boundary, so Effective only ever sees fractions.
package pricing

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidDiscount is returned when the server supplied pricing data that
// cannot produce a valid effective price: a discount fraction outside [0,1]
// or a negative base price. Such values are surfaced, never clamped.
var ErrInvalidDiscount = errors.New("invalid discount")

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Quote holds the inputs of the discount rule for one item.
type Quote struct {
	Base       decimal.Decimal
	Fraction   decimal.Decimal
	Discounted bool
}

// Effective applies the shared discount rule to q.
func (q Quote) Effective() (decimal.Decimal, error) {
	return Effective(q.Base, q.Fraction, q.Discounted)
}

// Effective returns base * (1 - fraction) when discounted is true and the
// fraction is non-zero. Otherwise base is returned unchanged.
//
// A negative base always yields ErrInvalidDiscount. A fraction outside [0,1]
// does so only when the discount is actually applied.
func Effective(base, fraction decimal.Decimal, discounted bool) (decimal.Decimal, error) {
	if base.IsNegative() {
		return decimal.Zero, errors.Wrapf(ErrInvalidDiscount, "negative base price %s", base)
	}
	if !discounted || fraction.IsZero() {
		return base, nil
	}
	if fraction.IsNegative() || fraction.GreaterThan(one) {
		return decimal.Zero, errors.Wrapf(ErrInvalidDiscount, "fraction %s outside [0,1]", fraction)
	}

	return base.Mul(one.Sub(fraction)), nil
}

// Percent converts an integer percentage (20 means 20% off) into the
// fractional representation used by Effective. No range check happens here;
// out-of-range values are reported by Effective.
func Percent(p int64) decimal.Decimal {
	return PercentOf(decimal.NewFromInt(p))
}

// PercentOf is Percent for a percentage of any magnitude. Fractional
// percentages are truncated toward zero.
func PercentOf(p decimal.Decimal) decimal.Decimal {
	p = p.Truncate(0)
	if p.IsZero() {
		return decimal.Zero
	}
	return p.Div(hundred)
}

// ToPercent converts a fraction back into a whole percentage, rounding to the
// nearest integer. It is the inverse of Percent for whole percentages.
func ToPercent(fraction decimal.Decimal) int64 {
	return fraction.Mul(hundred).Round(0).IntPart()
}
