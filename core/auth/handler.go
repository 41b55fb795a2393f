package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/shoply/shoply/api/web"
	"github.com/shoply/shoply/api/weberr"
	"github.com/shoply/shoply/core/user"
	"github.com/shoply/shoply/validate"
)

type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Refresh struct {
	Refresh string `json:"refresh" validate:"required"`
}

type session struct {
	TokenPair
	User user.User `json:"user"`
}

func HandleLogin(core *user.Core, a *Auth) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var lg Login
		if err := web.Decode(w, r, &lg); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(lg); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		usr, err := core.Authenticate(ctx, lg.Email, lg.Password)
		if err != nil {
			if errors.Is(err, user.ErrAuthentication) {
				return weberr.NotAuthorized(err)
			}
			return err
		}

		pair, err := a.GenerateTokens(usr)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, session{TokenPair: pair, User: usr}, http.StatusOK)
	}
}

func HandleRefresh(core *user.Core, a *Auth) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var rf Refresh
		if err := web.Decode(w, r, &rf); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(rf); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		userID, err := a.ParseRefresh(rf.Refresh)
		if err != nil {
			return weberr.NotAuthorized(err)
		}

		usr, err := core.QueryByID(ctx, userID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return weberr.NotAuthorized(err)
			}
			return err
		}

		pair, err := a.GenerateTokens(usr)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, pair, http.StatusOK)
	}
}
