// Package claims carries the authenticated identity through the request
// context.
package claims

import (
	"context"
	"errors"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type Claims struct {
	UserID string
	Role   string
}

type ctxKey int

const claimsKey ctxKey = 1

func Set(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, claimsKey, clm)
}

func Get(ctx context.Context) (Claims, error) {
	clm, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, errors.New("claims missing from context")
	}
	return clm, nil
}

func IsAdmin(ctx context.Context) bool {
	clm, err := Get(ctx)
	if err != nil {
		return false
	}
	return clm.Role == RoleAdmin
}
