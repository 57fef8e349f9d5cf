package order

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/storefront-go/storefront/core/cart"
	"github.com/storefront-go/storefront/core/user"
	"github.com/storefront-go/storefront/database"
	"github.com/storefront-go/storefront/shipping"
	"github.com/storefront-go/storefront/validate"
)

// Checkout converts the user's current cart into a persisted order.
//
// It fails without side effects when the user does not exist, the cart is
// empty, or a payment method or shipping address is missing. On success
// the order commit and the cart drain are one transaction: either the full
// order becomes visible and the cart is empty, or neither happened and the
// call can simply be retried. A cart modified between the read and the
// commit (including by a competing checkout) fails the version guard with
// database.ErrConcurrentUpdate.
func Checkout(ctx context.Context, db *sqlx.DB, calc shipping.Calculator, userID string) (Order, error) {
	usr, err := user.Fetch(ctx, db, userID)
	if err != nil {
		return Order{}, err
	}

	crt, err := cart.Fetch(ctx, db, usr.ID)
	if err != nil {
		return Order{}, err
	}

	if len(crt.Items) == 0 {
		return Order{}, ErrEmptyCart
	}

	pay, err := user.FetchPayment(ctx, db, usr.ID)
	if err != nil {
		return Order{}, err
	}

	addr, err := user.FetchAddress(ctx, db, usr.ID)
	if err != nil {
		return Order{}, err
	}

	cost, err := calc.Cost(cart.Weight(crt.Items), addr.Country)
	if err != nil {
		return Order{}, fmt.Errorf("computing shipping cost: %w", err)
	}
	totals := cart.ComputeTotals(crt.Items, cost)

	now := time.Now().UTC()
	ord := Order{
		ID:               validate.GenerateID(),
		UserID:           usr.ID,
		Status:           Received,
		TotalProductCost: totals.ProductCost,
		TotalShipping:    totals.Shipping,
		TotalWeight:      totals.Weight,
		TotalCost:        totals.Cost,
		PaymentSnapshot: PaymentSnapshot{
			CardBrand: pay.CardBrand,
			CardLast4: pay.CardLast4,
			Expiry:    pay.Expiry,
			Nickname:  pay.Nickname,
		},
		ShippingSnapshot: ShippingSnapshot{
			Street:  addr.Street,
			City:    addr.City,
			State:   addr.State,
			Zip:     addr.Zip,
			Country: addr.Country,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	items := make([]Item, 0, len(crt.Items))
	for _, it := range crt.Items {
		items = append(items, Item{
			OrderID:    ord.ID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			UnitWeight: it.UnitWeight,
			CreatedAt:  now,
		})
	}

	err = database.Transaction(db, func(tx sqlx.ExtContext) error {
		if err := Create(ctx, tx, ord); err != nil {
			return err
		}

		for _, it := range items {
			if err := CreateItem(ctx, tx, it); err != nil {
				return err
			}
		}

		return cart.Drain(ctx, tx, usr.ID, crt.Version)
	})
	if err != nil {
		return Order{}, fmt.Errorf("committing checkout of user[%s]: %w", usr.ID, err)
	}

	ord.Items = items
	return ord, nil
}
