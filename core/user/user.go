package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrNoAddress and ErrNoPayment signal a missing 1:1 record; checkout
	// turns them into precondition failures.
	ErrNoAddress = errors.New("no shipping address on file")
	ErrNoPayment = errors.New("no payment method on file")
)

type User struct {
	ID           string    `json:"id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Role         string    `json:"role" db:"role"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
	Version      int       `json:"-" db:"version"`
}

type UserSignup struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Address is the user's live shipping address, 1:1 with the user. Orders
// copy it into a snapshot at checkout; it is never referenced from orders.
type Address struct {
	UserID    string    `json:"-" db:"user_id"`
	Street    string    `json:"street" db:"street"`
	City      string    `json:"city" db:"city"`
	State     string    `json:"state" db:"state"`
	Zip       string    `json:"zip" db:"zip"`
	Country   string    `json:"country" db:"country"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type AddressUp struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Zip     string `json:"zip" validate:"required"`
	Country string `json:"country" validate:"required,iso3166_1_alpha2"`
}

// PaymentInfo is a passive record of the user's card. It is never used to
// authorize or charge anything; the raw card number is not persisted.
type PaymentInfo struct {
	UserID    string    `json:"-" db:"user_id"`
	CardBrand string    `json:"cardBrand" db:"card_brand"`
	CardLast4 string    `json:"cardLast4" db:"card_last4"`
	Expiry    string    `json:"expiry" db:"expiry"`
	Nickname  string    `json:"nickname" db:"nickname"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type PaymentInfoUp struct {
	CardBrand  string `json:"cardBrand" validate:"required,oneof=VISA MASTERCARD AMEX DISCOVER"`
	CardNumber string `json:"cardNumber" validate:"required,credit_card"`
	Expiry     string `json:"expiry" validate:"required,len=5"`
	Nickname   string `json:"nickname"`
}
