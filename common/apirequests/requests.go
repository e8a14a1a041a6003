package apirequests

// Used for CreateProduct
type CreateProductRequest struct {
	Name     string   `json:"name" validate:"required,max=64"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Quantity *int     `json:"quantity" validate:"required,gte=0"`
}

// Used for UpdateProduct. Absent fields are left untouched.
type UpdateProductRequest struct {
	Name     *string  `json:"name" validate:"omitempty,max=64"`
	Price    *float64 `json:"price" validate:"omitempty,gte=0"`
	Quantity *int     `json:"quantity" validate:"omitempty,gte=0"`
}

// One denomination and how many coins of it.
// Used by UpdateCoinInventory (as a JSON array) and BuyProduct.
// The quantity bound matches models.MaxCoinQuantity.
type CoinQuantityRequest struct {
	CoinValue float64 `json:"coinValue" validate:"gt=0"`
	Quantity  int     `json:"quantity" validate:"gte=0,lte=1000000"`
}

// Used for ConfigureMachine
type ConfigureMachineRequest struct {
	Coins []float64 `json:"coins" validate:"required,min=1,dive,gt=0"`
}

// Used for BuyProduct
type BuyProductRequest struct {
	ProductSlot int                   `json:"productSlot" validate:"required,gt=0"`
	Coins       []CoinQuantityRequest `json:"coins" validate:"required,min=1,dive"`
}
