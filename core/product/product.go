package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shoply/shoply/validate"
)

var (
	ErrNotFound     = errors.New("product not found")
	ErrInvalidPrice = errors.New("price must be greater than 0")
)

type Product struct {
	ID          string          `json:"id" db:"product_id"`
	SellerID    string          `json:"sellerId" db:"seller_id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

type ProductNew struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

type ProductUp struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
}

type Storer interface {
	Create(ctx context.Context, p Product) error
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, productID string) error
	QueryByID(ctx context.Context, productID string) (Product, error)
	QueryAll(ctx context.Context) ([]Product, error)
}

type Core struct {
	storer Storer
}

func NewCore(storer Storer) *Core {
	return &Core{storer: storer}
}

func (c *Core) Create(ctx context.Context, sellerID string, np ProductNew) (Product, error) {
	if !np.Price.IsPositive() {
		return Product{}, ErrInvalidPrice
	}

	now := time.Now().UTC()
	p := Product{
		ID:          validate.GenerateID(),
		SellerID:    sellerID,
		Name:        np.Name,
		Description: np.Description,
		Price:       np.Price.Round(2),
		Stock:       np.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.storer.Create(ctx, p); err != nil {
		return Product{}, fmt.Errorf("creating product: %w", err)
	}

	return p, nil
}

func (c *Core) Update(ctx context.Context, productID string, up ProductUp) (Product, error) {
	p, err := c.storer.QueryByID(ctx, productID)
	if err != nil {
		return Product{}, err
	}

	if up.Name != nil {
		p.Name = *up.Name
	}
	if up.Description != nil {
		p.Description = *up.Description
	}
	if up.Price != nil {
		if !up.Price.IsPositive() {
			return Product{}, ErrInvalidPrice
		}
		p.Price = up.Price.Round(2)
	}
	if up.Stock != nil {
		p.Stock = *up.Stock
	}
	p.UpdatedAt = time.Now().UTC()

	if err := c.storer.Update(ctx, p); err != nil {
		return Product{}, fmt.Errorf("updating product[%s]: %w", productID, err)
	}

	return p, nil
}

func (c *Core) Delete(ctx context.Context, productID string) error {
	if _, err := c.storer.QueryByID(ctx, productID); err != nil {
		return err
	}

	return c.storer.Delete(ctx, productID)
}

func (c *Core) QueryByID(ctx context.Context, productID string) (Product, error) {
	return c.storer.QueryByID(ctx, productID)
}

func (c *Core) QueryAll(ctx context.Context) ([]Product, error) {
	return c.storer.QueryAll(ctx)
}
