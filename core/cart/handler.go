package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/storefront-go/storefront/api/web"
	"github.com/storefront-go/storefront/api/weberr"
	"github.com/storefront-go/storefront/core/claims"
	"github.com/storefront-go/storefront/core/product"
	"github.com/storefront-go/storefront/core/user"
	"github.com/storefront-go/storefront/shipping"
	"github.com/storefront-go/storefront/validate"
)

// view is the cart read model: the lines plus totals recomputed on every
// request.
type view struct {
	Cart
	Totals Totals `json:"totals"`
}

func HandleShow(db *sqlx.DB, calc shipping.Calculator) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		crt, err := Fetch(ctx, db, clm.UserID)
		if err != nil {
			return err
		}

		// Shipping preview uses the address on file when there is one and
		// domestic rates otherwise.
		var country string
		if addr, err := user.FetchAddress(ctx, db, clm.UserID); err == nil {
			country = addr.Country
		} else if !errors.Is(err, user.ErrNoAddress) {
			return err
		}

		cost, err := calc.Cost(Weight(crt.Items), country)
		if err != nil {
			return fmt.Errorf("computing shipping cost: %w", err)
		}

		return web.Respond(ctx, w, view{Cart: crt, Totals: ComputeTotals(crt.Items, cost)}, http.StatusOK)
	}
}

func HandleUpsertItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var in ItemNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding cart item: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		prd, err := product.Fetch(ctx, db, in.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		now := time.Now().UTC()
		it := Item{
			UserID:     clm.UserID,
			ProductID:  prd.ID,
			Quantity:   in.Quantity,
			UnitPrice:  prd.Price,
			UnitWeight: prd.Weight,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := UpsertItem(ctx, db, it); err != nil {
			if errors.Is(err, ErrInvalidQuantity) {
				return weberr.Unprocessable(err, err.Error())
			}
			return err
		}

		return web.Respond(ctx, w, it, http.StatusOK)
	}
}

func HandleDeleteItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		productID := web.Param(r, "product_id")
		if err := validate.CheckID(productID); err != nil {
			return weberr.BadRequest(err)
		}

		if err := DeleteItem(ctx, db, clm.UserID, productID); err != nil {
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleDelete(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		if err := Clear(ctx, db, clm.UserID); err != nil {
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
