package product

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("product not found")

// Product is a catalog entry. Price is in cents, weight in grams; both are
// copied onto cart lines at add time so later catalog edits never touch
// carts or historical orders.
type Product struct {
	ID          string    `json:"id" db:"product_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       int       `json:"price" db:"price"`
	Weight      int       `json:"weight" db:"weight"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
	Version     int       `json:"-" db:"version"`
}

type ProductNew struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Price       int    `json:"price" validate:"gte=0"`
	Weight      int    `json:"weight" validate:"gte=0"`
}

type ProductUp struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int    `json:"price" validate:"omitempty,gte=0"`
	Weight      *int    `json:"weight" validate:"omitempty,gte=0"`
}
