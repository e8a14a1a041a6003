package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// amountScale is the number of fractional digits an Amount carries.
const amountScale = 2

const (
	// MaxAmount bounds every parsed price and coin value: 10 billion units.
	MaxAmount Amount = 1_000_000_000_000
	// MaxCoinQuantity bounds a single coin count in a request or inventory row.
	MaxCoinQuantity = 1_000_000
)

var maxAmountDecimal = decimal.NewFromInt(int64(MaxAmount))

var (
	ErrAmountOutOfRange        = errors.New("amount out of range")
	ErrAmountPrecision         = errors.New("amount has more than two fractional digits")
	ErrNegativeAmount          = errors.New("amount is negative")
	ErrNonPositiveDenomination = errors.New("denomination must be positive")
)

// Amount is a fixed-point money value counted in hundredths of the currency unit.
type Amount int64

// ParseAmount converts a decimal value into an Amount, rejecting anything
// beyond ±MaxAmount or not representable exactly with two fractional digits.
func ParseAmount(d decimal.Decimal) (Amount, error) {
	scaled := d.Shift(amountScale)
	if scaled.Abs().GreaterThan(maxAmountDecimal) {
		return 0, fmt.Errorf("%w: %s", ErrAmountOutOfRange, d.String())
	}
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: %s", ErrAmountPrecision, d.String())
	}
	return Amount(scaled.IntPart()), nil
}

// AmountFromFloat parses a JSON number decoded as float64. The float is read
// back through its shortest decimal form, so 0.1 becomes exactly 10 hundredths.
func AmountFromFloat(f float64) (Amount, error) {
	return ParseAmount(decimal.NewFromFloat(f))
}

// NonNegativeAmountFromFloat is AmountFromFloat for prices.
func NonNegativeAmountFromFloat(f float64) (Amount, error) {
	a, err := AmountFromFloat(f)
	if err != nil {
		return 0, err
	}
	if a < 0 {
		return 0, fmt.Errorf("%w: %s", ErrNegativeAmount, a)
	}
	return a, nil
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -amountScale)
}

func (a Amount) Float64() float64 {
	return a.Decimal().InexactFloat64()
}

func (a Amount) String() string {
	return a.Decimal().String()
}

// Times returns a multiplied by a count. Negative operands and products that
// do not fit in an Amount are rejected with ErrAmountOutOfRange.
func (a Amount) Times(n int) (Amount, error) {
	if a < 0 || n < 0 {
		return 0, fmt.Errorf("%w: %s × %d", ErrAmountOutOfRange, a, n)
	}
	if a != 0 && Amount(n) > math.MaxInt64/a {
		return 0, fmt.Errorf("%w: %s × %d", ErrAmountOutOfRange, a, n)
	}
	return a * Amount(n), nil
}

// Plus returns a+b, or ErrAmountOutOfRange when the sum overflows.
func (a Amount) Plus(b Amount) (Amount, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, fmt.Errorf("%w: %s + %s", ErrAmountOutOfRange, a, b)
	}
	return a + b, nil
}

// MarshalJSON renders the amount as a plain JSON number (25, 0.5).
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	parsed, err := ParseAmount(d)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
