package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shoply/shoply/core/product"
	"github.com/shoply/shoply/database"
)

type Store struct {
	db sqlx.ExtContext
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// WithinTran runs fn against a transaction-bound store. A store that is
// already inside a transaction just runs fn on itself.
func (s *Store) WithinTran(ctx context.Context, fn func(Storer) error) error {
	if db, ok := s.db.(*sqlx.DB); ok {
		return database.Transaction(db, func(tx sqlx.ExtContext) error {
			return fn(&Store{db: tx})
		})
	}
	return fn(s)
}

func (s *Store) Create(ctx context.Context, crt Cart) error {
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

func (s *Store) QueryByUser(ctx context.Context, userID string) ([]Cart, error) {
	const q = `
	SELECT cart_id, user_id, created_at
	FROM carts
	WHERE user_id = $1
	ORDER BY created_at DESC`

	carts := []Cart{}
	if err := sqlx.SelectContext(ctx, s.db, &carts, q, userID); err != nil {
		return nil, fmt.Errorf("selecting carts of user[%s]: %w", userID, err)
	}

	return carts, nil
}

func (s *Store) HasCheckout(ctx context.Context, cartID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM checkouts WHERE cart_id = $1)`

	var exists bool
	if err := sqlx.GetContext(ctx, s.db, &exists, q, cartID); err != nil {
		return false, fmt.Errorf("checking checkout presence for cart[%s]: %w", cartID, err)
	}

	return exists, nil
}

func (s *Store) QueryItems(ctx context.Context, cartID string) ([]Item, error) {
	const q = `
	SELECT ci.item_id, ci.cart_id, ci.product_id, p.name AS product_name, p.price, ci.quantity, ci.created_at, ci.updated_at
	FROM cart_items AS ci
	JOIN products AS p ON p.product_id = ci.product_id
	WHERE ci.cart_id = $1
	ORDER BY ci.created_at`

	items := []Item{}
	if err := sqlx.SelectContext(ctx, s.db, &items, q, cartID); err != nil {
		return nil, fmt.Errorf("selecting items of cart[%s]: %w", cartID, err)
	}

	return items, nil
}

func (s *Store) QueryItem(ctx context.Context, cartID string, productID string) (Item, error) {
	const q = `
	SELECT ci.item_id, ci.cart_id, ci.product_id, p.name AS product_name, p.price, ci.quantity, ci.created_at, ci.updated_at
	FROM cart_items AS ci
	JOIN products AS p ON p.product_id = ci.product_id
	WHERE ci.cart_id = $1 AND ci.product_id = $2`

	var it Item
	if err := sqlx.GetContext(ctx, s.db, &it, q, cartID, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, ErrItemNotFound
		}
		return Item{}, fmt.Errorf("selecting item of cart[%s] for product[%s]: %w", cartID, productID, err)
	}

	return it, nil
}

func (s *Store) CreateItem(ctx context.Context, it Item) error {
	const q = `
	INSERT INTO cart_items
		(item_id, cart_id, product_id, quantity, created_at, updated_at)
	VALUES
		(:item_id, :cart_id, :product_id, :quantity, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, s.db, q, it); err != nil {
		return fmt.Errorf("inserting cart item: %w", err)
	}

	return nil
}

func (s *Store) UpdateItemQuantity(ctx context.Context, it Item) error {
	const q = `
	UPDATE cart_items SET
		quantity = :quantity,
		updated_at = :updated_at
	WHERE item_id = :item_id`

	if _, err := sqlx.NamedExecContext(ctx, s.db, q, it); err != nil {
		return fmt.Errorf("updating cart item quantity: %w", err)
	}

	return nil
}

func (s *Store) DeleteItems(ctx context.Context, cartID string) error {
	const q = `DELETE FROM cart_items WHERE cart_id = $1`

	if _, err := s.db.ExecContext(ctx, q, cartID); err != nil {
		return fmt.Errorf("deleting items of cart[%s]: %w", cartID, err)
	}

	return nil
}

func (s *Store) UserExists(ctx context.Context, userID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`

	var exists bool
	if err := sqlx.GetContext(ctx, s.db, &exists, q, userID); err != nil {
		return false, fmt.Errorf("checking presence of user[%s]: %w", userID, err)
	}

	return exists, nil
}

func (s *Store) QueryProduct(ctx context.Context, productID string) (product.Product, error) {
	const q = `SELECT * FROM products WHERE product_id = $1`

	var p product.Product
	if err := sqlx.GetContext(ctx, s.db, &p, q, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return product.Product{}, product.ErrNotFound
		}
		return product.Product{}, fmt.Errorf("selecting product[%s]: %w", productID, err)
	}

	return p, nil
}
