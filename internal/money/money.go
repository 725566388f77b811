// Package money provides the exact decimal amount type used for all
// monetary values and VAT rates. Arithmetic keeps full precision;
// rounding to the currency scale happens only when formatting.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// DisplayScale is the number of fractional digits shown for currency amounts.
const DisplayScale = 2

var ErrInvalidAmount = errors.New("invalid_amount")

// Money wraps decimal.Decimal so models and JSON payloads carry exact
// values end to end. The embedded decimal provides sql.Scanner,
// driver.Valuer and JSON encoding.
type Money struct {
	decimal.Decimal
}

func Zero() Money {
	return Money{decimal.Zero}
}

func New(value int64) Money {
	return Money{decimal.NewFromInt(value)}
}

// Parse converts a numeric literal into a Money value. Empty input,
// non-numeric input and non-finite values fail with ErrInvalidAmount.
func Parse(value string) (Money, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{d}, nil
}

// ParseNonNegative is Parse restricted to values >= 0.
func ParseNonNegative(value string) (Money, error) {
	m, err := Parse(value)
	if err != nil {
		return Money{}, err
	}
	if m.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	return m, nil
}

func (m Money) Add(other Money) Money {
	return Money{m.Decimal.Add(other.Decimal)}
}

func (m Money) Sub(other Money) Money {
	return Money{m.Decimal.Sub(other.Decimal)}
}

// Mul multiplies two exact decimals. The result keeps the combined scale
// of both operands; callers must not round between line computations.
func (m Money) Mul(other Money) Money {
	return Money{m.Decimal.Mul(other.Decimal)}
}

// DivInt divides by a non-zero integer without losing precision beyond
// decimal's division scale.
func (m Money) DivInt(divisor int64) Money {
	return Money{m.Decimal.Div(decimal.NewFromInt(divisor))}
}

func (m Money) Cmp(other Money) int {
	return m.Decimal.Cmp(other.Decimal)
}

func (m Money) IsZero() bool     { return m.Decimal.IsZero() }
func (m Money) IsNegative() bool { return m.Decimal.IsNegative() }
func (m Money) IsPositive() bool { return m.Decimal.IsPositive() }

// Display renders the amount rounded half-up to the given scale. This is
// the only place rounding happens.
func (m Money) Display(scale int32) string {
	return m.Decimal.Round(scale).StringFixed(scale)
}

// GormDataType tells gorm to map Money onto a numeric column.
func (Money) GormDataType() string {
	return "numeric(18,6)"
}
