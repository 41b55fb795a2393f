package checkout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shoply/shoply/core/cart"
	"github.com/shoply/shoply/database"
)

type Store struct {
	db sqlx.ExtContext
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) WithinTran(ctx context.Context, fn func(Storer) error) error {
	if db, ok := s.db.(*sqlx.DB); ok {
		return database.Transaction(db, func(tx sqlx.ExtContext) error {
			return fn(&Store{db: tx})
		})
	}
	return fn(s)
}

func (s *Store) QueryCart(ctx context.Context, cartID string) (cart.Cart, error) {
	const q = `SELECT cart_id, user_id, created_at FROM carts WHERE cart_id = $1`

	var crt cart.Cart
	if err := sqlx.GetContext(ctx, s.db, &crt, q, cartID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cart.Cart{}, cart.ErrNotFound
		}
		return cart.Cart{}, fmt.Errorf("selecting cart[%s]: %w", cartID, err)
	}

	return crt, nil
}

func (s *Store) QueryCartItems(ctx context.Context, cartID string) ([]cart.Item, error) {
	const q = `
	SELECT ci.item_id, ci.cart_id, ci.product_id, p.name AS product_name, p.price, ci.quantity, ci.created_at, ci.updated_at
	FROM cart_items AS ci
	JOIN products AS p ON p.product_id = ci.product_id
	WHERE ci.cart_id = $1
	ORDER BY ci.created_at`

	items := []cart.Item{}
	if err := sqlx.SelectContext(ctx, s.db, &items, q, cartID); err != nil {
		return nil, fmt.Errorf("selecting items of cart[%s]: %w", cartID, err)
	}

	return items, nil
}

func (s *Store) DeleteCartItems(ctx context.Context, cartID string) error {
	const q = `DELETE FROM cart_items WHERE cart_id = $1`

	if _, err := s.db.ExecContext(ctx, q, cartID); err != nil {
		return fmt.Errorf("deleting items of cart[%s]: %w", cartID, err)
	}

	return nil
}

func (s *Store) CreateCart(ctx context.Context, crt cart.Cart) error {
	const q = `
	INSERT INTO carts
		(cart_id, user_id, created_at)
	VALUES
		(:cart_id, :user_id, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, s.db, q, crt); err != nil {
		return fmt.Errorf("inserting cart: %w", err)
	}

	return nil
}

func (s *Store) Create(ctx context.Context, ck Checkout) error {
	const q = `
	INSERT INTO checkouts
		(checkout_id, cart_id, total_amount, created_at)
	VALUES
		(:checkout_id, :cart_id, :total_amount, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, s.db, q, ck); err != nil {
		return fmt.Errorf("inserting checkout: %w", err)
	}

	return nil
}

func (s *Store) CreateItem(ctx context.Context, it Item) error {
	const q = `
	INSERT INTO checkout_items
		(item_id, checkout_id, product_id, quantity)
	VALUES
		(:item_id, :checkout_id, :product_id, :quantity)`

	if _, err := sqlx.NamedExecContext(ctx, s.db, q, it); err != nil {
		return fmt.Errorf("inserting checkout item: %w", err)
	}

	return nil
}

func (s *Store) QueryByCart(ctx context.Context, cartID string) (Checkout, error) {
	const q = `
	SELECT ck.checkout_id, ck.cart_id, c.user_id, ck.total_amount, ck.created_at
	FROM checkouts AS ck
	JOIN carts AS c ON c.cart_id = ck.cart_id
	WHERE ck.cart_id = $1`

	var ck Checkout
	if err := sqlx.GetContext(ctx, s.db, &ck, q, cartID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Checkout{}, ErrNotFound
		}
		return Checkout{}, fmt.Errorf("selecting checkout of cart[%s]: %w", cartID, err)
	}

	return ck, nil
}

func (s *Store) QueryByUser(ctx context.Context, userID string) ([]Checkout, error) {
	const q = `
	SELECT ck.checkout_id, ck.cart_id, c.user_id, ck.total_amount, ck.created_at
	FROM checkouts AS ck
	JOIN carts AS c ON c.cart_id = ck.cart_id
	WHERE c.user_id = $1
	ORDER BY ck.created_at DESC`

	cks := []Checkout{}
	if err := sqlx.SelectContext(ctx, s.db, &cks, q, userID); err != nil {
		return nil, fmt.Errorf("selecting checkouts of user[%s]: %w", userID, err)
	}

	return cks, nil
}

func (s *Store) QueryItems(ctx context.Context, checkoutID string) ([]Item, error) {
	const q = `
	SELECT ci.item_id, ci.checkout_id, ci.product_id, p.name AS product_name, ci.quantity
	FROM checkout_items AS ci
	JOIN products AS p ON p.product_id = ci.product_id
	WHERE ci.checkout_id = $1`

	items := []Item{}
	if err := sqlx.SelectContext(ctx, s.db, &items, q, checkoutID); err != nil {
		return nil, fmt.Errorf("selecting items of checkout[%s]: %w", checkoutID, err)
	}

	return items, nil
}
