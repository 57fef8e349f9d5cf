package auth

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/storefront-go/storefront/api/web"
	"github.com/storefront-go/storefront/api/weberr"
	"github.com/storefront-go/storefront/core/claims"
)

const (
	sessionUserID = "user_id"
	sessionRole   = "role"
)

// bufWriter stages the handler's response so the session cookie can still
// be committed after the handler returns.
type bufWriter struct {
	http.ResponseWriter
	buf  bytes.Buffer
	code int
}

func (bw *bufWriter) Write(b []byte) (int, error) { return bw.buf.Write(b) }

func (bw *bufWriter) WriteHeader(code int) { bw.code = code }

func (bw *bufWriter) flush() error {
	if bw.code != 0 {
		bw.ResponseWriter.WriteHeader(bw.code)
	}
	_, err := bw.ResponseWriter.Write(bw.buf.Bytes())
	return err
}

// LoadAndSave loads the scs session from the request cookie, projects it
// into claims, and commits any session mutation back to the client.
func LoadAndSave(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			var token string
			if cookie, err := r.Cookie(session.Cookie.Name); err == nil {
				token = cookie.Value
			}

			ctx, err := session.Load(ctx, token)
			if err != nil {
				return err
			}

			if uid := session.GetString(ctx, sessionUserID); uid != "" {
				ctx = claims.Set(ctx, claims.Claims{
					UserID: uid,
					Role:   session.GetString(ctx, sessionRole),
				})
			}

			bw := &bufWriter{ResponseWriter: w}
			herr := handler(ctx, bw, r)

			switch session.Status(ctx) {
			case scs.Modified:
				token, expiry, err := session.Commit(ctx)
				if err != nil {
					return err
				}
				session.WriteSessionCookie(ctx, w, token, expiry)

			case scs.Destroyed:
				session.WriteSessionCookie(ctx, w, "", time.Time{})
			}

			if err := bw.flush(); err != nil {
				return err
			}

			return herr
		}
		return h
	}
	return m
}

// Authenticate rejects requests without a logged-in user.
func Authenticate() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if _, err := claims.Get(ctx); err != nil {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// Admin rejects requests whose session does not carry the admin role.
func Admin() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if !claims.IsAdmin(ctx) {
				return weberr.Forbidden(errors.New("user is not an admin"))
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
