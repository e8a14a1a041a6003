package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/muliswilliam/vending-machine/vending-machine/src/models"
)

// SaleRecorded is emitted once per dispensed product.
type SaleRecorded struct {
	ID          string         `json:"id"`
	Slot        int            `json:"slot"`
	ProductName string         `json:"productName"`
	Price       models.Amount  `json:"price"`
	Inserted    models.CoinBag `json:"inserted"`
	Change      models.CoinBag `json:"change"`
	OccurredAt  time.Time      `json:"occurredAt"`
}

func NewSaleRecorded(product models.Product, inserted, change models.CoinBag) SaleRecorded {
	return SaleRecorded{
		ID:          uuid.NewString(),
		Slot:        product.Slot,
		ProductName: product.Name,
		Price:       product.Price,
		Inserted:    inserted,
		Change:      change,
		OccurredAt:  time.Now().UTC(),
	}
}

// Publisher delivers sale events outside the purchase critical section.
type Publisher interface {
	PublishSale(ctx context.Context, event SaleRecorded) error
	Close() error
}
