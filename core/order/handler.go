package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/storefront-go/storefront/api/web"
	"github.com/storefront-go/storefront/api/weberr"
	"github.com/storefront-go/storefront/core/claims"
	"github.com/storefront-go/storefront/core/user"
	"github.com/storefront-go/storefront/database"
	"github.com/storefront-go/storefront/shipping"
	"github.com/storefront-go/storefront/validate"
)

func HandleCheckout(db *sqlx.DB, calc shipping.Calculator) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		ord, err := Checkout(ctx, db, calc, clm.UserID)
		if err != nil {
			switch {
			case errors.Is(err, user.ErrNotFound):
				return weberr.NotFound(err)
			case errors.Is(err, ErrEmptyCart):
				return weberr.Unprocessable(err, "no items to checkout")
			case errors.Is(err, user.ErrNoPayment):
				return weberr.Unprocessable(err, "no payment method on file")
			case errors.Is(err, user.ErrNoAddress):
				return weberr.Unprocessable(err, "no shipping address on file")
			case errors.Is(err, database.ErrConcurrentUpdate):
				return weberr.Conflict(err, "cart changed during checkout, retry")
			}
			return fmt.Errorf("checking out user[%s]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, ord, http.StatusCreated)
	}
}

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		if s := r.URL.Query().Get("status"); s != "" {
			status, err := ParseStatus(s)
			if err != nil {
				return weberr.BadRequest(err)
			}

			ords, err := FetchByUserAndStatus(ctx, db, clm.UserID, status)
			if err != nil {
				return err
			}
			return web.Respond(ctx, w, ords, http.StatusOK)
		}

		ords, err := FetchByUser(ctx, db, clm.UserID)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, ords, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		ord, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		// Other users' orders read as absent, not as forbidden.
		if ord.UserID != clm.UserID && !claims.IsAdmin(ctx) {
			return weberr.NotFound(ErrNotFound)
		}

		return web.Respond(ctx, w, ord, http.StatusOK)
	}
}

func HandleCancel(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		ord, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		if ord.UserID != clm.UserID && !claims.IsAdmin(ctx) {
			return weberr.NotFound(ErrNotFound)
		}

		ord, err = Transition(ctx, db, id, Cancelled)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				return weberr.NotFound(err)
			case errors.Is(err, ErrInvalidTransition):
				return weberr.Conflict(err, "order can not be cancelled, already shipped")
			}
			return err
		}

		return web.Respond(ctx, w, ord, http.StatusOK)
	}
}

// HandleUpdateStatus is the trusted admin boundary that advances an order
// through the lifecycle. It still goes through the transition table, so no
// caller can jump states or revive a terminal order.
func HandleUpdateStatus(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		var sup StatusUp
		if err := web.Decode(w, r, &sup); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding status update: %w", err))
		}

		if err := validate.Check(sup); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		status, err := ParseStatus(sup.Status)
		if err != nil {
			return weberr.BadRequest(err)
		}

		ord, err := Transition(ctx, db, id, status)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				return weberr.NotFound(err)
			case errors.Is(err, ErrInvalidTransition):
				return weberr.Conflict(err, err.Error())
			}
			return err
		}

		return web.Respond(ctx, w, ord, http.StatusOK)
	}
}
