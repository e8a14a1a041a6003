package services

import (
	"slices"

	"github.com/muliswilliam/vending-machine/vending-machine/src/models"
)

// MakeChange pays due greedily from the largest accepted denomination down,
// taking at most available(d) coins of each. The second result is false when
// the coins on hand cannot pay due exactly; greedy with caps can miss an
// exact combination that exists.
func MakeChange(due models.Amount, accepted []models.Denomination, available func(models.Denomination) int) (models.CoinBag, bool) {
	change := models.CoinBag{}
	if due <= 0 {
		return change, due == 0
	}

	descending := models.SortDenominations(accepted)
	slices.Reverse(descending)

	remaining := due
	for _, d := range descending {
		value := d.Amount()
		if value > remaining {
			continue
		}
		take := min(int(remaining/value), available(d))
		if take <= 0 {
			continue
		}
		paid, err := value.Times(take)
		if err != nil {
			return change, false
		}
		change.Add(d, take)
		remaining -= paid
		if remaining == 0 {
			break
		}
	}
	return change, remaining == 0
}
