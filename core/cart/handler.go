package cart

import (
	"context"
	"errors"
	"net/http"

	"github.com/shoply/shoply/api/web"
	"github.com/shoply/shoply/api/weberr"
	"github.com/shoply/shoply/core/product"
	"github.com/shoply/shoply/validate"
)

// HandleShow returns the user's open cart, creating one when the user
// has none. The path is keyed by user id, not cart id.
func HandleShow(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		userID := web.Param(r, "user_id")
		if err := validate.CheckID(userID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		crt, err := core.FindOrCreateOpen(ctx, userID)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		return web.Respond(ctx, w, crt, http.StatusOK)
	}
}

func HandleAddItem(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		userID := web.Param(r, "user_id")
		if err := validate.CheckID(userID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		var in ItemNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		quantity := 1
		if in.Quantity != nil {
			quantity = *in.Quantity
		}

		it, err := core.AddItem(ctx, userID, in.ProductID, quantity)
		if err != nil {
			switch {
			case errors.Is(err, product.ErrNotFound):
				return weberr.NotFound(err)
			case errors.Is(err, ErrUserNotFound):
				return weberr.NotFound(err)
			case errors.Is(err, ErrInvalidQuantity):
				return weberr.NewError(err, err.Error(), http.StatusBadRequest)
			}
			return err
		}

		return web.Respond(ctx, w, it, http.StatusCreated)
	}
}

func HandleClear(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		userID := web.Param(r, "user_id")
		if err := validate.CheckID(userID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		if err := core.Clear(ctx, userID); err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
