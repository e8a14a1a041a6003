package models

import (
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Denomination is the face value of a coin.
type Denomination Amount

// NewDenomination validates a coin face value.
func NewDenomination(f float64) (Denomination, error) {
	a, err := AmountFromFloat(f)
	if err != nil {
		return 0, err
	}
	if a <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrNonPositiveDenomination, a)
	}
	return Denomination(a), nil
}

// MustDenomination is NewDenomination for constants and tests.
func MustDenomination(f float64) Denomination {
	d, err := NewDenomination(f)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Denomination) Amount() Amount {
	return Amount(d)
}

func (d Denomination) String() string {
	return Amount(d).String()
}

func (d Denomination) MarshalJSON() ([]byte, error) {
	return Amount(d).MarshalJSON()
}

func (d *Denomination) UnmarshalJSON(data []byte) error {
	var a Amount
	if err := a.UnmarshalJSON(data); err != nil {
		return err
	}
	return d.fromAmount(a)
}

// MarshalText lets a Denomination be a JSON object key: {"0.5": 2}.
func (d Denomination) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Denomination) UnmarshalText(text []byte) error {
	dec, err := decimal.NewFromString(string(text))
	if err != nil {
		return fmt.Errorf("invalid denomination %q: %w", text, err)
	}
	a, err := ParseAmount(dec)
	if err != nil {
		return err
	}
	return d.fromAmount(a)
}

func (d *Denomination) fromAmount(a Amount) error {
	if a <= 0 {
		return fmt.Errorf("%w: %s", ErrNonPositiveDenomination, a)
	}
	*d = Denomination(a)
	return nil
}

// SortDenominations returns a de-duplicated ascending copy of ds.
func SortDenominations(ds []Denomination) []Denomination {
	out := slices.Clone(ds)
	slices.Sort(out)
	return slices.Compact(out)
}

// CoinCount is one row of a coin inventory.
type CoinCount struct {
	Denomination Denomination `json:"coinValue"`
	Quantity     int          `json:"quantity"`
}

// CoinBag is a multiset of coins: denomination to number of coins.
type CoinBag map[Denomination]int

// Total is the sum of denomination × count. It fails with ErrAmountOutOfRange
// when a count is negative or the sum does not fit in an Amount.
func (b CoinBag) Total() (Amount, error) {
	var total Amount
	for d, n := range b {
		value, err := d.Amount().Times(n)
		if err != nil {
			return 0, err
		}
		if total, err = total.Plus(value); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// FormatTotal renders Total for logs and span attributes.
func (b CoinBag) FormatTotal() string {
	total, err := b.Total()
	if err != nil {
		return "out of range"
	}
	return total.String()
}

// Count is the number of coins in the bag.
func (b CoinBag) Count() int {
	n := 0
	for _, c := range b {
		n += c
	}
	return n
}

func (b CoinBag) Clone() CoinBag {
	out := make(CoinBag, len(b))
	maps.Copy(out, b)
	return out
}

// Add puts n coins of d into the bag, dropping the entry when it reaches zero.
func (b CoinBag) Add(d Denomination, n int) {
	b[d] += n
	if b[d] == 0 {
		delete(b, d)
	}
}

// Denominations lists the denominations present in the bag, ascending.
func (b CoinBag) Denominations() []Denomination {
	return slices.Sorted(maps.Keys(b))
}

// Counts renders the bag as ascending CoinCount rows.
func (b CoinBag) Counts() []CoinCount {
	out := make([]CoinCount, 0, len(b))
	for _, d := range b.Denominations() {
		out = append(out, CoinCount{Denomination: d, Quantity: b[d]})
	}
	return out
}
