package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDenomination(t *testing.T) {
	d, err := NewDenomination(0.5)
	require.NoError(t, err)
	assert.Equal(t, Denomination(50), d)

	_, err = NewDenomination(0)
	assert.ErrorIs(t, err, ErrNonPositiveDenomination)
	_, err = NewDenomination(-5)
	assert.ErrorIs(t, err, ErrNonPositiveDenomination)
}

func TestCoinBagTotal(t *testing.T) {
	bag := CoinBag{
		MustDenomination(0.5): 2,
		MustDenomination(5):   1,
		MustDenomination(20):  1,
	}
	total, err := bag.Total()
	require.NoError(t, err)
	assert.Equal(t, Amount(2600), total)
	assert.Equal(t, "26", bag.FormatTotal())
	assert.Equal(t, 4, bag.Count())

	empty, err := CoinBag{}.Total()
	require.NoError(t, err)
	assert.Equal(t, Amount(0), empty)
}

func TestCoinBagTotalOutOfRange(t *testing.T) {
	forty := MustDenomination(40)
	tests := map[string]CoinBag{
		"wrapping count":   {forty: 1<<59 + 1},
		"negative count":   {forty: -1},
		"sum past maximum": {MustDenomination(10_000_000_000): 5_000_000, MustDenomination(5_000_000_000): 9_000_000},
	}
	for name, bag := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := bag.Total()
			assert.ErrorIs(t, err, ErrAmountOutOfRange)
			assert.Equal(t, "out of range", bag.FormatTotal())
		})
	}
}

func TestCoinBagAddAndClone(t *testing.T) {
	five := MustDenomination(5)
	bag := CoinBag{five: 2}
	clone := bag.Clone()

	bag.Add(five, -2)
	assert.NotContains(t, bag, five)
	assert.Equal(t, 2, clone[five])
}

func TestCoinBagJSONUsesDenominationKeys(t *testing.T) {
	bag := CoinBag{MustDenomination(0.5): 2, MustDenomination(10): 1}

	out, err := json.Marshal(bag)
	require.NoError(t, err)
	assert.JSONEq(t, `{"0.5":2,"10":1}`, string(out))

	var decoded CoinBag
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, bag, decoded)

	assert.Error(t, json.Unmarshal([]byte(`{"abc":1}`), &decoded))
}

func TestCoinCountJSON(t *testing.T) {
	var rows []CoinCount
	require.NoError(t, json.Unmarshal([]byte(`[{"coinValue":0.5,"quantity":3}]`), &rows))
	assert.Equal(t, []CoinCount{{Denomination: 50, Quantity: 3}}, rows)
}

func TestSortDenominations(t *testing.T) {
	in := []Denomination{MustDenomination(5), MustDenomination(0.5), MustDenomination(5), MustDenomination(1)}
	assert.Equal(t, []Denomination{50, 100, 500}, SortDenominations(in))
	assert.Len(t, in, 4)
}

func TestCoinBagCounts(t *testing.T) {
	bag := CoinBag{MustDenomination(10): 1, MustDenomination(0.5): 4}
	assert.Equal(t, []CoinCount{{Denomination: 50, Quantity: 4}, {Denomination: 1000, Quantity: 1}}, bag.Counts())
}
