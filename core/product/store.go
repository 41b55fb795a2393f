package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Store struct {
	db sqlx.ExtContext
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, p Product) error {
	const q = `
	INSERT INTO products
		(product_id, seller_id, name, description, price, stock, created_at, updated_at)
	VALUES
		(:product_id, :seller_id, :name, :description, :price, :stock, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, s.db, q, p); err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}

	return nil
}

func (s *Store) Update(ctx context.Context, p Product) error {
	const q = `
	UPDATE products SET
		name = :name,
		description = :description,
		price = :price,
		stock = :stock,
		updated_at = :updated_at
	WHERE product_id = :product_id`

	if _, err := sqlx.NamedExecContext(ctx, s.db, q, p); err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, productID string) error {
	const q = `DELETE FROM products WHERE product_id = $1`

	if _, err := s.db.ExecContext(ctx, q, productID); err != nil {
		return fmt.Errorf("deleting product[%s]: %w", productID, err)
	}

	return nil
}

func (s *Store) QueryByID(ctx context.Context, productID string) (Product, error) {
	const q = `SELECT * FROM products WHERE product_id = $1`

	var p Product
	if err := sqlx.GetContext(ctx, s.db, &p, q, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("selecting product[%s]: %w", productID, err)
	}

	return p, nil
}

func (s *Store) QueryAll(ctx context.Context) ([]Product, error) {
	const q = `SELECT * FROM products ORDER BY created_at DESC`

	ps := []Product{}
	if err := sqlx.SelectContext(ctx, s.db, &ps, q); err != nil {
		return nil, fmt.Errorf("selecting products: %w", err)
	}

	return ps, nil
}
