package order

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrEmptyCart         = errors.New("no items to checkout")
	ErrInvalidTransition = errors.New("illegal status transition")
)

type Status string

const (
	Received  Status = "RECEIVED"
	Shipped   Status = "SHIPPED"
	Delivered Status = "DELIVERED"
	Cancelled Status = "CANCELLED"
)

// transitions declares every legal move once. Cancellation is the only
// guarded move: it is legal exactly while the order has not shipped.
// DELIVERED and CANCELLED are terminal.
var transitions = map[Status][]Status{
	Received:  {Shipped, Cancelled},
	Shipped:   {Delivered},
	Delivered: {},
	Cancelled: {},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// PaymentSnapshot is a value copy of the user's payment record at checkout
// time. Later changes to the live record never reach past orders.
type PaymentSnapshot struct {
	CardBrand string `json:"cardBrand" db:"card_brand"`
	CardLast4 string `json:"cardLast4" db:"card_last4"`
	Expiry    string `json:"expiry" db:"card_expiry"`
	Nickname  string `json:"nickname" db:"card_nickname"`
}

// ShippingSnapshot is the frozen destination address.
type ShippingSnapshot struct {
	Street  string `json:"street" db:"ship_street"`
	City    string `json:"city" db:"ship_city"`
	State   string `json:"state" db:"ship_state"`
	Zip     string `json:"zip" db:"ship_zip"`
	Country string `json:"country" db:"ship_country"`
}

// Order is the immutable record of a completed checkout. Items, snapshots
// and totals are written once at creation; only Status moves afterwards,
// through the transition table. UserID is a back-reference for lookup, not
// ownership.
type Order struct {
	ID               string           `json:"id" db:"order_id"`
	UserID           string           `json:"userId" db:"user_id"`
	Status           Status           `json:"status" db:"status"`
	TotalProductCost int              `json:"totalProductCost" db:"total_product_cost"`
	TotalShipping    int              `json:"totalShipping" db:"total_shipping"`
	TotalWeight      int              `json:"totalWeight" db:"total_weight"`
	TotalCost        int              `json:"totalCost" db:"total_cost"`
	PaymentSnapshot  `json:"payment"`
	ShippingSnapshot `json:"shipping"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
	Items            []Item    `json:"items,omitempty" db:"-"`
}

// Item is a frozen copy of a cart line.
type Item struct {
	OrderID    string    `json:"-" db:"order_id"`
	ProductID  string    `json:"productId" db:"product_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	UnitPrice  int       `json:"unitPrice" db:"unit_price"`
	UnitWeight int       `json:"unitWeight" db:"unit_weight"`
	CreatedAt  time.Time `json:"-" db:"created_at"`
}

type StatusUp struct {
	Status string `json:"status" validate:"required"`
}
