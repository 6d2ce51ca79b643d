package decode

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// Field readers always consume the next value. A value of an unexpected
// kind is skipped and read as the zero value; numeric strings and numbers
// are coerced into each other.

func readString(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return "", err
		}
		return n.String(), nil
	default:
		return "", d.Skip()
	}
}

func readBool(d *jx.Decoder) (bool, error) {
	switch d.Next() {
	case jx.Bool:
		return d.Bool()
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return false, err
		}
		b, _ := strconv.ParseBool(strings.TrimSpace(s))
		return b, nil
	default:
		return false, d.Skip()
	}
}

// readOptDecimal reports whether the value was a usable number.
func readOptDecimal(d *jx.Decoder) (decimal.Decimal, bool, error) {
	var text string
	switch d.Next() {
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, false, err
		}
		text = n.String()
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Zero, false, err
		}
		text = strings.TrimSpace(s)
	default:
		return decimal.Zero, false, d.Skip()
	}

	v, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false, nil
	}
	return v, true, nil
}

func readDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	v, _, err := readOptDecimal(d)
	return v, err
}

var (
	minInt = decimal.NewFromInt(math.MinInt)
	maxInt = decimal.NewFromInt(math.MaxInt)
)

// readOptInt truncates fractional numbers toward zero. Numbers outside the
// int range are not usable.
func readOptInt(d *jx.Decoder) (int, bool, error) {
	v, ok, err := readOptDecimal(d)
	if err != nil || !ok {
		return 0, false, err
	}
	v = v.Truncate(0)
	if v.LessThan(minInt) || v.GreaterThan(maxInt) {
		return 0, false, nil
	}
	return int(v.IntPart()), true, nil
}

func readInt(d *jx.Decoder) (int, error) {
	v, _, err := readOptInt(d)
	return v, err
}
