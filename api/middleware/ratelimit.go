package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/storefront-go/storefront/api/web"
	"github.com/storefront-go/storefront/api/weberr"
	"github.com/storefront-go/storefront/rate"
)

// RateLimit throttles a route per client address. Intended for the login
// endpoints, where unauthenticated callers can hammer password checks.
func RateLimit(limiter *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !limiter.Check(host) {
				err := errors.New("rate limit exceeded")
				return weberr.NewError(err, err.Error(), http.StatusTooManyRequests)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
