package user

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/storefront-go/storefront/api/web"
	"github.com/storefront-go/storefront/api/weberr"
	"github.com/storefront-go/storefront/core/claims"
	"github.com/storefront-go/storefront/validate"
)

func HandleShowCurrent(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		usr, err := Fetch(ctx, db, clm.UserID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		return web.Respond(ctx, w, usr, http.StatusOK)
	}
}

func HandleUpdateAddress(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var aup AddressUp
		if err := web.Decode(w, r, &aup); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(aup); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		addr := Address{
			UserID:    clm.UserID,
			Street:    aup.Street,
			City:      aup.City,
			State:     aup.State,
			Zip:       aup.Zip,
			Country:   aup.Country,
			UpdatedAt: time.Now().UTC(),
		}

		if err := UpsertAddress(ctx, db, addr); err != nil {
			return err
		}

		return web.Respond(ctx, w, addr, http.StatusOK)
	}
}

func HandleUpdatePayment(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var pup PaymentInfoUp
		if err := web.Decode(w, r, &pup); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(pup); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		// Only the brand and the last four digits survive; the full number
		// is dropped on the floor.
		pay := PaymentInfo{
			UserID:    clm.UserID,
			CardBrand: pup.CardBrand,
			CardLast4: pup.CardNumber[len(pup.CardNumber)-4:],
			Expiry:    pup.Expiry,
			Nickname:  pup.Nickname,
			UpdatedAt: time.Now().UTC(),
		}

		if err := UpsertPayment(ctx, db, pay); err != nil {
			return err
		}

		return web.Respond(ctx, w, pay, http.StatusOK)
	}
}
