package models

// Product is the catalog record stored in a slot.
type Product struct {
	Slot     int    `json:"slot"`
	Name     string `json:"name"`
	Price    Amount `json:"price"`
	Quantity int    `json:"quantity"`
}

// ProductPatch carries the fields of a partial update; nil fields are left unchanged.
type ProductPatch struct {
	Name     *string
	Price    *Amount
	Quantity *int
}

// Apply merges the non-nil fields of p into product.
func (p ProductPatch) Apply(product Product) Product {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Quantity != nil {
		product.Quantity = *p.Quantity
	}
	return product
}
