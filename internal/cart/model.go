package cart

import "github.com/shopspring/decimal"

// Item is one cart line. Identity key is ProductID; insertion order is
// display order.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	ImageRef  string          `json:"image_ref"`
}

func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Snapshot is a decoupled copy of the cart handed to the checkout
// orchestrator; later cart mutations never reach it.
type Snapshot struct {
	Items      []Item
	TotalItems int
	TotalPrice decimal.Decimal
}

func (s Snapshot) Empty() bool {
	return len(s.Items) == 0
}
