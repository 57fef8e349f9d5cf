package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

func Create(ctx context.Context, db sqlx.ExtContext, usr User) error {
	const q = `
	INSERT INTO users (user_id, name, email, role, password_hash, created_at, updated_at, version)
	VALUES (:user_id, :name, :email, :role, :password_hash, :created_at, :updated_at, 0)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, usr); err != nil {
		var pqerr *pq.Error
		if errors.As(err, &pqerr) && pqerr.Code.Name() == "unique_violation" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (User, error) {
	const q = `SELECT * FROM users WHERE user_id = $1`

	var usr User
	if err := sqlx.GetContext(ctx, db, &usr, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("selecting user[%s]: %w", id, err)
	}

	return usr, nil
}

func FetchByEmail(ctx context.Context, db sqlx.ExtContext, email string) (User, error) {
	const q = `SELECT * FROM users WHERE email = $1`

	var usr User
	if err := sqlx.GetContext(ctx, db, &usr, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("selecting user by email: %w", err)
	}

	return usr, nil
}

func UpsertAddress(ctx context.Context, db sqlx.ExtContext, addr Address) error {
	const q = `
	INSERT INTO addresses (user_id, street, city, state, zip, country, updated_at)
	VALUES (:user_id, :street, :city, :state, :zip, :country, :updated_at)
	ON CONFLICT (user_id) DO UPDATE SET
		street = :street,
		city = :city,
		state = :state,
		zip = :zip,
		country = :country,
		updated_at = :updated_at`

	if _, err := sqlx.NamedExecContext(ctx, db, q, addr); err != nil {
		return fmt.Errorf("upserting address: %w", err)
	}

	return nil
}

func FetchAddress(ctx context.Context, db sqlx.ExtContext, userID string) (Address, error) {
	const q = `SELECT * FROM addresses WHERE user_id = $1`

	var addr Address
	if err := sqlx.GetContext(ctx, db, &addr, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Address{}, ErrNoAddress
		}
		return Address{}, fmt.Errorf("selecting address of user[%s]: %w", userID, err)
	}

	return addr, nil
}

func UpsertPayment(ctx context.Context, db sqlx.ExtContext, pay PaymentInfo) error {
	const q = `
	INSERT INTO payment_info (user_id, card_brand, card_last4, expiry, nickname, updated_at)
	VALUES (:user_id, :card_brand, :card_last4, :expiry, :nickname, :updated_at)
	ON CONFLICT (user_id) DO UPDATE SET
		card_brand = :card_brand,
		card_last4 = :card_last4,
		expiry = :expiry,
		nickname = :nickname,
		updated_at = :updated_at`

	if _, err := sqlx.NamedExecContext(ctx, db, q, pay); err != nil {
		return fmt.Errorf("upserting payment info: %w", err)
	}

	return nil
}

func FetchPayment(ctx context.Context, db sqlx.ExtContext, userID string) (PaymentInfo, error) {
	const q = `SELECT * FROM payment_info WHERE user_id = $1`

	var pay PaymentInfo
	if err := sqlx.GetContext(ctx, db, &pay, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PaymentInfo{}, ErrNoPayment
		}
		return PaymentInfo{}, fmt.Errorf("selecting payment info of user[%s]: %w", userID, err)
	}

	return pay, nil
}
