package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/muliswilliam/vending-machine/common/apierrors"
	"github.com/muliswilliam/vending-machine/common/apirequests"
)

func TestValidateRequestBuy(t *testing.T) {
	ok := apirequests.BuyProductRequest{
		ProductSlot: 1,
		Coins:       []apirequests.CoinQuantityRequest{{CoinValue: 0.5, Quantity: 2}},
	}
	assert.Nil(t, ValidateRequest(&ok))

	missingCoins := apirequests.BuyProductRequest{ProductSlot: 1}
	appErr := ValidateRequest(&missingCoins)
	require.NotNil(t, appErr)
	assert.Equal(t, apierrors.ErrCodeRequestValidation, appErr.Code)
	assert.Contains(t, appErr.Message, "Coins")

	negative := apirequests.BuyProductRequest{
		ProductSlot: 1,
		Coins:       []apirequests.CoinQuantityRequest{{CoinValue: 1, Quantity: -1}},
	}
	require.NotNil(t, ValidateRequest(&negative))
}

func TestValidateRequestCreateProductAllowsZeroPrice(t *testing.T) {
	price, qty := 0.0, 0
	req := apirequests.CreateProductRequest{Name: "Water", Price: &price, Quantity: &qty}
	assert.Nil(t, ValidateRequest(&req))

	req.Price = nil
	assert.NotNil(t, ValidateRequest(&req))
}

func TestValidateEach(t *testing.T) {
	assert.NotNil(t, ValidateEach([]apirequests.CoinQuantityRequest{}))

	appErr := ValidateEach([]apirequests.CoinQuantityRequest{
		{CoinValue: 1, Quantity: 1},
		{CoinValue: 0, Quantity: 1},
	})
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Message, "entry 1")
}
