package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/storefront-go/storefront/database"
)

// Fetch returns the user's cart with its items loaded. A user who never
// added anything gets an empty, zero-version cart; the row appears only on
// the first add.
func Fetch(ctx context.Context, db sqlx.ExtContext, userID string) (Cart, error) {
	const q = `SELECT * FROM carts WHERE user_id = $1`

	var crt Cart
	if err := sqlx.GetContext(ctx, db, &crt, q, userID); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return Cart{}, fmt.Errorf("selecting cart of user[%s]: %w", userID, err)
		}
		crt = Cart{UserID: userID}
	}

	items, err := FetchItems(ctx, db, userID)
	if err != nil {
		return Cart{}, err
	}
	crt.Items = items

	return crt, nil
}

func FetchItems(ctx context.Context, db sqlx.ExtContext, userID string) ([]Item, error) {
	const q = `SELECT * FROM cart_items WHERE user_id = $1 ORDER BY created_at`

	items := []Item{}
	if err := sqlx.SelectContext(ctx, db, &items, q, userID); err != nil {
		return nil, fmt.Errorf("selecting cart items of user[%s]: %w", userID, err)
	}

	return items, nil
}

// UpsertItem merges the quantity into an existing line for the same
// product or appends a new one, bumping the cart version either way.
func UpsertItem(ctx context.Context, db sqlx.ExtContext, it Item) error {
	if it.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	if err := touch(ctx, db, it.UserID); err != nil {
		return err
	}

	const q = `
	INSERT INTO cart_items (user_id, product_id, quantity, unit_price, unit_weight, created_at, updated_at)
	VALUES (:user_id, :product_id, :quantity, :unit_price, :unit_weight, :created_at, :updated_at)
	ON CONFLICT (user_id, product_id) DO UPDATE SET
		quantity = cart_items.quantity + :quantity,
		unit_price = :unit_price,
		unit_weight = :unit_weight,
		updated_at = :updated_at`

	if _, err := sqlx.NamedExecContext(ctx, db, q, it); err != nil {
		return fmt.Errorf("upserting cart item: %w", err)
	}

	return nil
}

// DeleteItem removes a line. Removing an absent line is a no-op.
func DeleteItem(ctx context.Context, db sqlx.ExtContext, userID string, productID string) error {
	if err := touch(ctx, db, userID); err != nil {
		return err
	}

	const q = `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`

	if _, err := db.ExecContext(ctx, q, userID, productID); err != nil {
		return fmt.Errorf("deleting cart item[%s]: %w", productID, err)
	}

	return nil
}

// Clear empties the cart unconditionally, on the user's request.
func Clear(ctx context.Context, db sqlx.ExtContext, userID string) error {
	if err := touch(ctx, db, userID); err != nil {
		return err
	}

	const q = `DELETE FROM cart_items WHERE user_id = $1`

	if _, err := db.ExecContext(ctx, q, userID); err != nil {
		return fmt.Errorf("clearing cart of user[%s]: %w", userID, err)
	}

	return nil
}

// Drain empties the cart as part of a checkout commit. The version guard
// makes the drain lose against any cart change since the caller read it,
// including a competing checkout: the loser gets ErrConcurrentUpdate and
// the transaction rolls back.
func Drain(ctx context.Context, tx sqlx.ExtContext, userID string, version int) error {
	const bump = `
	UPDATE carts SET version = version + 1, updated_at = $3
	WHERE user_id = $1 AND version = $2`

	res, err := tx.ExecContext(ctx, bump, userID, version, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("bumping cart version of user[%s]: %w", userID, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return database.ErrConcurrentUpdate
	}

	const del = `DELETE FROM cart_items WHERE user_id = $1`

	if _, err := tx.ExecContext(ctx, del, userID); err != nil {
		return fmt.Errorf("draining cart of user[%s]: %w", userID, err)
	}

	return nil
}

// touch upserts the cart row and bumps its version so every item mutation
// invalidates in-flight checkouts reading an older cart state.
func touch(ctx context.Context, db sqlx.ExtContext, userID string) error {
	const q = `
	INSERT INTO carts (user_id, created_at, updated_at, version)
	VALUES ($1, $2, $2, 0)
	ON CONFLICT (user_id) DO UPDATE SET version = carts.version + 1, updated_at = $2`

	if _, err := db.ExecContext(ctx, q, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("touching cart of user[%s]: %w", userID, err)
	}

	return nil
}
