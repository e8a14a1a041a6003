package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/muliswilliam/vending-machine/vending-machine/src/models"
)

var (
	half     = models.MustDenomination(0.5)
	one      = models.MustDenomination(1)
	five     = models.MustDenomination(5)
	ten      = models.MustDenomination(10)
	twenty   = models.MustDenomination(20)
	forty    = models.MustDenomination(40)
	allCoins = []models.Denomination{half, one, five, ten, twenty, forty}
)

func stock(bag models.CoinBag) func(models.Denomination) int {
	return func(d models.Denomination) int { return bag[d] }
}

func TestMakeChange(t *testing.T) {
	tests := []struct {
		name      string
		due       models.Amount
		available models.CoinBag
		want      models.CoinBag
		ok        bool
	}{
		{
			name:      "single coin",
			due:       500,
			available: models.CoinBag{five: 1},
			want:      models.CoinBag{five: 1},
			ok:        true,
		},
		{
			name:      "largest first",
			due:       7550,
			available: models.CoinBag{half: 10, one: 10, five: 10, ten: 10, twenty: 10, forty: 10},
			want:      models.CoinBag{forty: 1, twenty: 1, ten: 1, five: 1, half: 1},
			ok:        true,
		},
		{
			name:      "capped by inventory",
			due:       2000,
			available: models.CoinBag{twenty: 0, ten: 1, five: 2},
			want:      models.CoinBag{ten: 1, five: 2},
			ok:        true,
		},
		{
			name:      "only large coins",
			due:       500,
			available: models.CoinBag{forty: 5},
			want:      models.CoinBag{},
			ok:        false,
		},
		{
			name:      "nothing due",
			due:       0,
			available: models.CoinBag{five: 1},
			want:      models.CoinBag{},
			ok:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MakeChange(tt.due, allCoins, stock(tt.available))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
				assert.Equal(t, tt.due, total(t, got))
			}
		})
	}
}

func TestMakeChangeIgnoresUnacceptedCoins(t *testing.T) {
	_, ok := MakeChange(500, []models.Denomination{ten, twenty}, stock(models.CoinBag{five: 3}))
	assert.False(t, ok)
}

func TestMakeChangeGreedyCanMissExactCombination(t *testing.T) {
	// 60 = 30+30 exists, but greedy takes 40 first and is left with 20.
	thirty := models.MustDenomination(30)
	_, ok := MakeChange(6000, []models.Denomination{thirty, forty}, stock(models.CoinBag{thirty: 2, forty: 1}))
	assert.False(t, ok)
}

func TestMakeChangeIsDeterministic(t *testing.T) {
	available := stock(models.CoinBag{half: 4, one: 3, five: 2, ten: 1})
	first, _ := MakeChange(1850, allCoins, available)
	for range 10 {
		again, _ := MakeChange(1850, allCoins, available)
		assert.Equal(t, first, again)
	}
}
