package models

// PurchaseFailure is the reason a purchase was refused.
type PurchaseFailure string

const (
	CoinsNotAccepted                PurchaseFailure = "Coins not accepted"
	ProductNotFound                 PurchaseFailure = "Product not found"
	InsufficientMoneyInserted       PurchaseFailure = "Insufficient money inserted"
	InsufficientChange              PurchaseFailure = "Insufficient change"
	InsufficientCoinsToReturnChange PurchaseFailure = "Insufficient coins to return change"
)

// PurchaseOutcome is the result of a purchase attempt. On failure Change
// holds exactly the inserted coins.
type PurchaseOutcome struct {
	Success bool            `json:"success"`
	Change  CoinBag         `json:"change"`
	Product *Product        `json:"product,omitempty"`
	Reason  PurchaseFailure `json:"reason,omitempty"`
}

func Refused(reason PurchaseFailure, inserted CoinBag) PurchaseOutcome {
	return PurchaseOutcome{Success: false, Change: inserted, Reason: reason}
}

// Dispensed builds a successful outcome; the reported product carries quantity 1.
func Dispensed(product Product, change CoinBag) PurchaseOutcome {
	product.Quantity = 1
	return PurchaseOutcome{Success: true, Change: change, Product: &product}
}

// MachineSeed is the startup configuration read from the data file.
type MachineSeed struct {
	AcceptedCoins []Denomination `json:"acceptedCoins"`
	CoinInventory []CoinCount    `json:"coinInventory"`
	Products      []SeedProduct  `json:"products"`
}

type SeedProduct struct {
	Name     string `json:"name"`
	Price    Amount `json:"price"`
	Quantity int    `json:"quantity"`
}
