package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidCurrency  = errors.New("invalid currency")
	ErrInvalidRatios    = errors.New("invalid allocation ratios")
	ErrOverflow         = errors.New("amount overflow")
)

// Money is an amount in the minor units of its currency (cents for USD).
// The zero value has no currency and is only equal to itself.
type Money struct {
	amount   int64
	currency currency.Unit
}

// New creates Money from minor units.
func New(minor int64, cur currency.Unit) Money {
	return Money{amount: minor, currency: cur}
}

// Parse reads a decimal amount such as "12.34" or "-0.5" in the currency with
// ISO code. More fractional digits than the currency allows is an error.
func Parse(amount, code string) (Money, error) {
	cur, err := currency.ParseISO(code)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}

	scale := Scale(cur)
	s := strings.TrimSpace(amount)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" || len(frac) > scale {
		return Money{}, fmt.Errorf("%w: %q for %s", ErrInvalidAmount, amount, code)
	}
	if whole == "" {
		whole = "0"
	}
	digits := whole + frac + strings.Repeat("0", scale-len(frac))
	if strings.ContainsFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}

	minor, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrOverflow, amount)
	}
	if neg {
		minor = -minor
	}
	return New(minor, cur), nil
}

// MustParse is like Parse but panics on error.
func MustParse(amount, code string) Money {
	m, err := Parse(amount, code)
	if err != nil {
		panic(err)
	}
	return m
}

// Scale returns the number of minor unit digits of cur.
func Scale(cur currency.Unit) int {
	scale, _ := currency.Standard.Rounding(cur)
	return scale
}

// Minor returns the amount in minor units.
func (m Money) Minor() int64 { return m.amount }

// Currency returns the currency unit.
func (m Money) Currency() currency.Unit { return m.currency }

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.amount == 0 }

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.amount < 0 }

// Equal reports whether both amount and currency match.
func (m Money) Equal(o Money) bool {
	return m.amount == o.amount && m.currency == o.currency
}

func (m Money) sameCurrency(o Money) error {
	if m.currency != o.currency {
		return fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, o.currency)
	}
	return nil
}

// Add returns m + o.
func (m Money) Add(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	sum := m.amount + o.amount
	if (o.amount > 0 && sum < m.amount) || (o.amount < 0 && sum > m.amount) {
		return Money{}, ErrOverflow
	}
	return New(sum, m.currency), nil
}

// Sub returns m - o.
func (m Money) Sub(o Money) (Money, error) {
	if o.amount == math.MinInt64 {
		return Money{}, ErrOverflow
	}
	return m.Add(New(-o.amount, o.currency))
}

// Multiply returns m * factor.
func (m Money) Multiply(factor int64) (Money, error) {
	if m.amount == 0 || factor == 0 {
		return New(0, m.currency), nil
	}
	product := m.amount * factor
	if product/factor != m.amount || (m.amount == -1 && factor == math.MinInt64) || (factor == -1 && m.amount == math.MinInt64) {
		return Money{}, ErrOverflow
	}
	return New(product, m.currency), nil
}

// Allocate splits m proportionally to ratios without losing minor units.
// The remainder is spread one unit at a time from the first share onward.
//
// Example:
//
//	shares, _ := money.MustParse("100.00", "USD").Allocate(1, 1, 1)
//	// 33.34 USD, 33.33 USD, 33.33 USD
func (m Money) Allocate(ratios ...int) ([]Money, error) {
	if len(ratios) == 0 {
		return nil, fmt.Errorf("%w: no ratios", ErrInvalidRatios)
	}

	var total int64
	for _, r := range ratios {
		if r < 0 {
			return nil, fmt.Errorf("%w: negative ratio %d", ErrInvalidRatios, r)
		}
		total += int64(r)
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: ratios sum to zero", ErrInvalidRatios)
	}

	shares := make([]Money, len(ratios))
	remainder := m.amount
	for i, r := range ratios {
		share := m.amount / total * int64(r)
		share += m.amount % total * int64(r) / total
		shares[i] = New(share, m.currency)
		remainder -= share
	}

	step := int64(1)
	if remainder < 0 {
		step = -1
	}
	for i := 0; remainder != 0; i = (i + 1) % len(shares) {
		if ratios[i] == 0 {
			continue
		}
		shares[i].amount += step
		remainder -= step
	}
	return shares, nil
}

// Decimal returns the amount in major units as a decimal string, e.g. "-12.34".
func (m Money) Decimal() string {
	scale := Scale(m.currency)
	a := m.amount
	sign := ""
	if a < 0 {
		sign = "-"
	}
	digits := strconv.FormatUint(absUint(a), 10)
	if scale == 0 {
		return sign + digits
	}
	if len(digits) <= scale {
		digits = strings.Repeat("0", scale-len(digits)+1) + digits
	}
	cut := len(digits) - scale
	return sign + digits[:cut] + "." + digits[cut:]
}

func absUint(a int64) uint64 {
	if a < 0 {
		return uint64(-(a + 1)) + 1
	}
	return uint64(a)
}

// String returns the amount followed by the ISO code, e.g. "12.34 USD".
func (m Money) String() string {
	return m.Decimal() + " " + m.currency.String()
}

// Format renders m with the currency symbol and number formatting of tag.
func (m Money) Format(tag language.Tag) string {
	value := float64(m.amount) / math.Pow10(Scale(m.currency))
	return message.NewPrinter(tag).Sprint(currency.Symbol(m.currency.Amount(value)))
}
