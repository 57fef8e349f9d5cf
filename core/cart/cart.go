package cart

import (
	"errors"
	"time"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// Cart is the per-user staging area for prospective purchases. It is
// created lazily on the first item add and survives checkout empty, ready
// for reuse. Version is the optimistic stamp that serializes checkout
// drains against concurrent item changes.
type Cart struct {
	UserID    string    `json:"-" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
	Version   int       `json:"-" db:"version"`
	Items     []Item    `json:"items" db:"-"`
}

// Item is a cart line. UnitPrice (cents) and UnitWeight (grams) are copied
// from the product when the line is added.
type Item struct {
	UserID     string    `json:"-" db:"user_id"`
	ProductID  string    `json:"productId" db:"product_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	UnitPrice  int       `json:"unitPrice" db:"unit_price"`
	UnitWeight int       `json:"unitWeight" db:"unit_weight"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

type ItemNew struct {
	ProductID string `json:"productId" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// Totals are derived values, recomputed from the current lines on every
// read and never stored with the cart.
type Totals struct {
	ProductCost int `json:"totalProductCost"`
	Shipping    int `json:"totalShipping"`
	Weight      int `json:"totalWeight"`
	Cost        int `json:"totalCost"`
}

func ProductCost(items []Item) int {
	var tot int
	for _, it := range items {
		tot += it.Quantity * it.UnitPrice
	}
	return tot
}

func Weight(items []Item) int {
	var tot int
	for _, it := range items {
		tot += it.Quantity * it.UnitWeight
	}
	return tot
}

// ComputeTotals folds the lines and an externally computed shipping cost
// into the four derived totals.
func ComputeTotals(items []Item, shipping int) Totals {
	cost := ProductCost(items)
	return Totals{
		ProductCost: cost,
		Shipping:    shipping,
		Weight:      Weight(items),
		Cost:        cost + shipping,
	}
}
