package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/storefront-go/storefront/database"
)

func Create(ctx context.Context, db sqlx.ExtContext, ord Order) error {
	const q = `
	INSERT INTO orders (
		order_id, user_id, status,
		total_product_cost, total_shipping, total_weight, total_cost,
		card_brand, card_last4, card_expiry, card_nickname,
		ship_street, ship_city, ship_state, ship_zip, ship_country,
		created_at, updated_at)
	VALUES (
		:order_id, :user_id, :status,
		:total_product_cost, :total_shipping, :total_weight, :total_cost,
		:card_brand, :card_last4, :card_expiry, :card_nickname,
		:ship_street, :ship_city, :ship_state, :ship_zip, :ship_country,
		:created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, ord); err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	return nil
}

func CreateItem(ctx context.Context, db sqlx.ExtContext, it Item) error {
	const q = `
	INSERT INTO order_items (order_id, product_id, quantity, unit_price, unit_weight, created_at)
	VALUES (:order_id, :product_id, :quantity, :unit_price, :unit_weight, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, it); err != nil {
		return fmt.Errorf("inserting order item: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Order, error) {
	const q = `SELECT * FROM orders WHERE order_id = $1`

	var ord Order
	if err := sqlx.GetContext(ctx, db, &ord, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("selecting order[%s]: %w", id, err)
	}

	items, err := FetchItems(ctx, db, id)
	if err != nil {
		return Order{}, err
	}
	ord.Items = items

	return ord, nil
}

func FetchItems(ctx context.Context, db sqlx.ExtContext, orderID string) ([]Item, error) {
	const q = `SELECT * FROM order_items WHERE order_id = $1 ORDER BY created_at`

	items := []Item{}
	if err := sqlx.SelectContext(ctx, db, &items, q, orderID); err != nil {
		return nil, fmt.Errorf("selecting items of order[%s]: %w", orderID, err)
	}

	return items, nil
}

func FetchByUser(ctx context.Context, db sqlx.ExtContext, userID string) ([]Order, error) {
	const q = `SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at`

	ords := []Order{}
	if err := sqlx.SelectContext(ctx, db, &ords, q, userID); err != nil {
		return nil, fmt.Errorf("selecting orders of user[%s]: %w", userID, err)
	}

	return ords, nil
}

func FetchByUserAndStatus(ctx context.Context, db sqlx.ExtContext, userID string, status Status) ([]Order, error) {
	const q = `SELECT * FROM orders WHERE user_id = $1 AND status = $2 ORDER BY created_at`

	ords := []Order{}
	if err := sqlx.SelectContext(ctx, db, &ords, q, userID, status); err != nil {
		return nil, fmt.Errorf("selecting %s orders of user[%s]: %w", status, userID, err)
	}

	return ords, nil
}

// Transition moves the order to the target status as one atomic
// read-modify-write: the row is locked, the current status evaluated
// against the transition table, and the new status written. A caller that
// loses a race sees the winner's state, not a torn one.
func Transition(ctx context.Context, db *sqlx.DB, id string, to Status) (Order, error) {
	var ord Order

	err := database.Transaction(db, func(tx sqlx.ExtContext) error {
		const sel = `SELECT * FROM orders WHERE order_id = $1 FOR UPDATE`

		if err := sqlx.GetContext(ctx, tx, &ord, sel, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("locking order[%s]: %w", id, err)
		}

		if !ord.Status.CanTransition(to) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, ord.Status, to)
		}

		now := time.Now().UTC()
		const up = `UPDATE orders SET status = $2, updated_at = $3 WHERE order_id = $1`

		if _, err := tx.ExecContext(ctx, up, id, to, now); err != nil {
			return fmt.Errorf("updating status of order[%s]: %w", id, err)
		}

		ord.Status = to
		ord.UpdatedAt = now
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return ord, nil
}
