package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/shoply/shoply/api/web"
	"github.com/shoply/shoply/api/weberr"
	"github.com/shoply/shoply/rate"
)

// RateLimit throttles clients by remote address. Meant for the
// authentication endpoints, where credential stuffing is a concern.
func RateLimit(lim *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !lim.Check(ip) {
				err := errors.New("rate limit exceeded")
				return weberr.NewError(err, err.Error(), http.StatusTooManyRequests)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
