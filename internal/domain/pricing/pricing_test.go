package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestEffective(t *testing.T) {
	tests := []struct {
		name       string
		base       decimal.Decimal
		fraction   decimal.Decimal
		discounted bool
		want       decimal.Decimal
		wantErr    error
	}{
		{
			name:       "20% off 100",
			base:       d("100"),
			fraction:   Percent(20),
			discounted: true,
			want:       d("80"),
		},
		{
			name:       "quarter off 40",
			base:       d("40"),
			fraction:   d("0.25"),
			discounted: true,
			want:       d("30"),
		},
		{
			name:       "not discounted keeps base",
			base:       d("40"),
			fraction:   d("0.25"),
			discounted: false,
			want:       d("40"),
		},
		{
			name:       "zero fraction keeps base",
			base:       d("59.90"),
			fraction:   decimal.Zero,
			discounted: true,
			want:       d("59.90"),
		},
		{
			name:       "full discount is free",
			base:       d("12.50"),
			fraction:   d("1"),
			discounted: true,
			want:       decimal.Zero,
		},
		{
			name:       "zero base stays zero",
			base:       decimal.Zero,
			fraction:   d("0.5"),
			discounted: true,
			want:       decimal.Zero,
		},
		{
			name:       "fraction above one",
			base:       d("10"),
			fraction:   d("1.5"),
			discounted: true,
			wantErr:    ErrInvalidDiscount,
		},
		{
			name:       "negative fraction",
			base:       d("10"),
			fraction:   d("-0.1"),
			discounted: true,
			wantErr:    ErrInvalidDiscount,
		},
		{
			name:       "percent above 100",
			base:       d("10"),
			fraction:   Percent(150),
			discounted: true,
			wantErr:    ErrInvalidDiscount,
		},
		{
			name:       "negative base",
			base:       d("-10"),
			fraction:   d("0.1"),
			discounted: true,
			wantErr:    ErrInvalidDiscount,
		},
		{
			name:       "negative base not discounted",
			base:       d("-10"),
			fraction:   decimal.Zero,
			discounted: false,
			wantErr:    ErrInvalidDiscount,
		},
		{
			name:       "negative base zero fraction",
			base:       d("-10"),
			fraction:   decimal.Zero,
			discounted: true,
			wantErr:    ErrInvalidDiscount,
		},
		{
			name:       "out of range ignored when not discounted",
			base:       d("10"),
			fraction:   d("7"),
			discounted: false,
			want:       d("10"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Effective(tt.base, tt.fraction, tt.discounted)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestEffective_MatchesFormula(t *testing.T) {
	bases := []string{"0", "0.01", "1", "19.99", "100", "4999.5"}
	fractions := []string{"0.01", "0.1", "0.125", "0.3333", "0.5", "0.99", "1"}

	for _, b := range bases {
		for _, f := range fractions {
			base, fraction := d(b), d(f)

			got, err := Effective(base, fraction, true)
			require.NoError(t, err)

			want := base.Mul(decimal.NewFromInt(1).Sub(fraction))
			assert.True(t, want.Equal(got), "base %s fraction %s", b, f)
			assert.True(t, got.LessThanOrEqual(base), "effective above base for %s/%s", b, f)
			assert.False(t, got.IsNegative(), "negative effective for %s/%s", b, f)

			plain, err := Effective(base, fraction, false)
			require.NoError(t, err)
			assert.True(t, base.Equal(plain))
		}
	}
}

func TestQuote_Effective(t *testing.T) {
	q := Quote{Base: d("200"), Fraction: Percent(15), Discounted: true}

	got, err := q.Effective()
	require.NoError(t, err)
	assert.True(t, d("170").Equal(got))
}

func TestPercent(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(Percent(0)))
	assert.True(t, d("0.2").Equal(Percent(20)))
	assert.True(t, d("1").Equal(Percent(100)))
	assert.Equal(t, int64(25), ToPercent(d("0.25")))
	assert.Equal(t, int64(33), ToPercent(d("0.333")))
}

func TestPercentOf(t *testing.T) {
	assert.True(t, d("0.2").Equal(PercentOf(d("20.9"))))
	assert.True(t, decimal.Zero.Equal(PercentOf(d("0.5"))))

	huge := PercentOf(d("18446744073709551636"))
	assert.True(t, d("184467440737095516.36").Equal(huge), "got %s", huge)
	_, err := Effective(d("100"), huge, true)
	require.ErrorIs(t, err, ErrInvalidDiscount)
}
