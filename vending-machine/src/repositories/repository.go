package repositories

import "errors"

var (
	ErrProductNotFound        = errors.New("product not found")
	ErrDuplicateName          = errors.New("product name already exists")
	ErrUnacceptedDenomination = errors.New("denomination is not accepted")
	ErrInsufficientCoins      = errors.New("not enough coins in inventory")
	ErrCoinQuantityTooLarge   = errors.New("coin quantity too large")
)

const component = "component"
