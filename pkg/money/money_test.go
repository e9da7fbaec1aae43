package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/callkit/pkg/money"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount string
		code   string
		minor  int64
		str    string
	}{
		{"12.34", "USD", 1234, "12.34 USD"},
		{"12", "USD", 1200, "12.00 USD"},
		{"-0.5", "EUR", -50, "-0.50 EUR"},
		{".05", "EUR", 5, "0.05 EUR"},
		{"+7.1", "GBP", 710, "7.10 GBP"},
		{"1500", "JPY", 1500, "1500 JPY"},
	}

	for _, tt := range tests {
		t.Run(tt.amount+" "+tt.code, func(t *testing.T) {
			t.Parallel()
			m, err := money.Parse(tt.amount, tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.minor, m.Minor())
			assert.Equal(t, tt.str, m.String())
		})
	}

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		_, err := money.Parse("1.234", "USD")
		assert.ErrorIs(t, err, money.ErrInvalidAmount)

		_, err = money.Parse("1.5", "JPY")
		assert.ErrorIs(t, err, money.ErrInvalidAmount)

		_, err = money.Parse("12a", "USD")
		assert.ErrorIs(t, err, money.ErrInvalidAmount)

		_, err = money.Parse("", "USD")
		assert.ErrorIs(t, err, money.ErrInvalidAmount)

		_, err = money.Parse("1", "NOPE")
		assert.ErrorIs(t, err, money.ErrInvalidCurrency)

		_, err = money.Parse("99999999999999999999", "USD")
		assert.ErrorIs(t, err, money.ErrOverflow)
	})
}

func TestArithmetic(t *testing.T) {
	t.Parallel()

	a := money.MustParse("10.50", "USD")
	b := money.MustParse("0.75", "USD")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "11.25 USD", sum.String())

	diff, err := b.Sub(a)
	require.NoError(t, err)
	assert.Equal(t, "-9.75 USD", diff.String())
	assert.True(t, diff.IsNegative())

	product, err := b.Multiply(4)
	require.NoError(t, err)
	assert.True(t, product.Equal(money.New(300, currency.USD)))

	_, err = a.Add(money.MustParse("1", "EUR"))
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)

	_, err = a.Sub(money.MustParse("1", "EUR"))
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)

	_, err = money.New(1<<62, currency.USD).Multiply(4)
	assert.ErrorIs(t, err, money.ErrOverflow)

	_, err = money.New(1<<62, currency.USD).Add(money.New(1<<62, currency.USD))
	assert.ErrorIs(t, err, money.ErrOverflow)
}

func TestAllocate(t *testing.T) {
	t.Parallel()

	t.Run("even split spreads remainder left to right", func(t *testing.T) {
		t.Parallel()
		shares, err := money.MustParse("100.00", "USD").Allocate(1, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{3334, 3333, 3333}, minors(shares))
	})

	t.Run("weighted", func(t *testing.T) {
		t.Parallel()
		shares, err := money.New(5, currency.USD).Allocate(3, 7)
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 3}, minors(shares))
	})

	t.Run("zero ratio gets nothing", func(t *testing.T) {
		t.Parallel()
		shares, err := money.New(10, currency.USD).Allocate(0, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, []int64{0, 4, 6}, minors(shares))
	})

	t.Run("negative amount", func(t *testing.T) {
		t.Parallel()
		shares, err := money.New(-100, currency.USD).Allocate(1, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{-34, -33, -33}, minors(shares))
	})

	t.Run("invalid ratios", func(t *testing.T) {
		t.Parallel()
		m := money.New(100, currency.USD)

		_, err := m.Allocate()
		assert.ErrorIs(t, err, money.ErrInvalidRatios)
		_, err = m.Allocate(0, 0)
		assert.ErrorIs(t, err, money.ErrInvalidRatios)
		_, err = m.Allocate(1, -1)
		assert.ErrorIs(t, err, money.ErrInvalidRatios)
	})
}

func minors(shares []money.Money) []int64 {
	out := make([]int64, len(shares))
	for i, s := range shares {
		out[i] = s.Minor()
	}
	return out
}

func TestFormat(t *testing.T) {
	t.Parallel()

	out := money.MustParse("12.34", "USD").Format(language.English)
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "12")
}
