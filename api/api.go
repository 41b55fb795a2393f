package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/shoply/shoply/api/middleware"
	"github.com/shoply/shoply/api/web"
	"github.com/shoply/shoply/core/auth"
	"github.com/shoply/shoply/core/cart"
	"github.com/shoply/shoply/core/checkout"
	"github.com/shoply/shoply/core/product"
	"github.com/shoply/shoply/core/user"
	"github.com/shoply/shoply/rate"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin string
	Log        logrus.FieldLogger
	DB         *sqlx.DB
	Auth       *auth.Auth
	Limiter    *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	users := user.NewCore(user.NewStore(cfg.DB))
	products := product.NewCore(product.NewStore(cfg.DB))
	carts := cart.NewCore(cart.NewStore(cfg.DB))
	checkouts := checkout.NewCore(checkout.NewStore(cfg.DB))

	authen := auth.Authenticate(cfg.Auth)
	seller := auth.Seller()
	limited := middleware.RateLimit(cfg.Limiter)

	a.Handle(http.MethodPost, "/users", user.HandleRegister(users), limited)
	a.Handle(http.MethodGet, "/users/current", user.HandleShowCurrent(users), authen)
	a.Handle(http.MethodGet, "/users/{id}", user.HandleShow(users), authen)

	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(users, cfg.Auth), limited)
	a.Handle(http.MethodPost, "/auth/refresh", auth.HandleRefresh(users, cfg.Auth))

	a.Handle(http.MethodGet, "/products", product.HandleList(products))
	a.Handle(http.MethodGet, "/products/{id}", product.HandleShow(products))
	a.Handle(http.MethodPost, "/products", product.HandleCreate(products), authen, seller)
	a.Handle(http.MethodPut, "/products/{id}", product.HandleUpdate(products), authen, seller)
	a.Handle(http.MethodDelete, "/products/{id}", product.HandleDelete(products), authen, seller)

	a.Handle(http.MethodGet, "/carts/{user_id}", cart.HandleShow(carts), authen)
	a.Handle(http.MethodPost, "/carts/{user_id}/items", cart.HandleAddItem(carts), authen)
	a.Handle(http.MethodDelete, "/carts/{user_id}/items", cart.HandleClear(carts), authen)

	a.Handle(http.MethodPost, "/checkouts", checkout.HandleCreate(checkouts), authen)
	a.Handle(http.MethodGet, "/checkouts/user/{user_id}", checkout.HandleHistory(checkouts), authen)

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
