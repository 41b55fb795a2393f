package checkout

import (
	"context"
	"errors"
	"net/http"

	"github.com/shoply/shoply/api/web"
	"github.com/shoply/shoply/api/weberr"
	"github.com/shoply/shoply/core/cart"
	"github.com/shoply/shoply/validate"
)

func HandleCreate(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var nc CheckoutNew
		if err := web.Decode(w, r, &nc); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(nc); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		ck, err := core.Create(ctx, nc.CartID)
		if err != nil {
			switch {
			case errors.Is(err, cart.ErrNotFound):
				return weberr.NotFound(err)
			case errors.Is(err, ErrAlreadyCheckedOut):
				return weberr.NewError(err, err.Error(), http.StatusBadRequest)
			}
			return err
		}

		return web.Respond(ctx, w, ck, http.StatusCreated)
	}
}

func HandleHistory(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		userID := web.Param(r, "user_id")
		if err := validate.CheckID(userID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		cks, err := core.QueryByUser(ctx, userID)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, cks, http.StatusOK)
	}
}
