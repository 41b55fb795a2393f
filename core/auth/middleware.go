package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/shoply/shoply/api/web"
	"github.com/shoply/shoply/api/weberr"
	"github.com/shoply/shoply/core/claims"
)

// Authenticate requires a valid Bearer access token and loads its
// claims into the context.
func Authenticate(a *Auth) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			const prefix = "Bearer "
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, prefix) || len(header) == len(prefix) {
				return weberr.NotAuthorized(errors.New("missing bearer token"))
			}
			token := header[len(prefix):]

			clm, err := a.ParseAccess(token)
			if err != nil {
				return weberr.NotAuthorized(err)
			}

			ctx = claims.Set(ctx, claims.Claims{
				UserID:   clm.Subject,
				Username: clm.Username,
				Email:    clm.Email,
				Role:     clm.Role,
			})

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// Seller allows only seller-role users through.
func Seller() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			if !claims.IsSeller(ctx) {
				err := errors.New("seller role required")
				return weberr.NewError(err, err.Error(), http.StatusForbidden)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
