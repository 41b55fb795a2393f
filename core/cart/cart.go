package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shoply/shoply/core/product"
	"github.com/shoply/shoply/validate"
)

var (
	ErrNotFound        = errors.New("cart not found")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

// Cart is a user's container of line items. A cart stays "open" until a
// checkout is created from it; a user has at most one open cart at a
// time, located by newest-first scan over the ones not yet checked out.
type Cart struct {
	ID        string          `json:"id" db:"cart_id"`
	UserID    string          `json:"userId" db:"user_id"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	Items     []Item          `json:"items" db:"-"`
	Total     decimal.Decimal `json:"cartTotal" db:"-"`
}

type Item struct {
	ID          string          `json:"id" db:"item_id"`
	CartID      string          `json:"cartId" db:"cart_id"`
	ProductID   string          `json:"productId" db:"product_id"`
	ProductName string          `json:"productName" db:"product_name"`
	Price       decimal.Decimal `json:"productPrice" db:"price"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Total       decimal.Decimal `json:"total" db:"-"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

type ItemNew struct {
	ProductID string `json:"product" validate:"required,uuid"`
	Quantity  *int   `json:"quantity" validate:"omitempty,gt=0"`
}

type Storer interface {
	WithinTran(ctx context.Context, fn func(Storer) error) error
	Create(ctx context.Context, crt Cart) error
	QueryByUser(ctx context.Context, userID string) ([]Cart, error)
	HasCheckout(ctx context.Context, cartID string) (bool, error)
	QueryItems(ctx context.Context, cartID string) ([]Item, error)
	QueryItem(ctx context.Context, cartID string, productID string) (Item, error)
	CreateItem(ctx context.Context, it Item) error
	UpdateItemQuantity(ctx context.Context, it Item) error
	DeleteItems(ctx context.Context, cartID string) error
	QueryProduct(ctx context.Context, productID string) (product.Product, error)
	UserExists(ctx context.Context, userID string) (bool, error)
}

type Core struct {
	storer Storer
}

func NewCore(storer Storer) *Core {
	return &Core{storer: storer}
}

// FindOrCreateOpen returns the user's open cart with its items,
// creating an empty one when every existing cart has been checked out.
func (c *Core) FindOrCreateOpen(ctx context.Context, userID string) (Cart, error) {
	var crt Cart
	err := c.storer.WithinTran(ctx, func(s Storer) error {
		var err error
		if crt, err = openCart(ctx, s, userID); err != nil {
			return err
		}

		if crt.Items, err = s.QueryItems(ctx, crt.ID); err != nil {
			return fmt.Errorf("fetching cart items: %w", err)
		}

		return nil
	})
	if err != nil {
		return Cart{}, err
	}

	sumLines(&crt)
	return crt, nil
}

// AddItem puts quantity units of a product into the user's open cart.
// A repeat add of the same product accumulates onto the existing line
// instead of creating a second one.
func (c *Core) AddItem(ctx context.Context, userID string, productID string, quantity int) (Item, error) {
	if quantity <= 0 {
		return Item{}, ErrInvalidQuantity
	}

	var res Item
	err := c.storer.WithinTran(ctx, func(s Storer) error {
		p, err := s.QueryProduct(ctx, productID)
		if err != nil {
			return err
		}

		crt, err := openCart(ctx, s, userID)
		if err != nil {
			return err
		}

		it, err := s.QueryItem(ctx, crt.ID, productID)
		switch {
		case err == nil:
			it.Quantity += quantity
			it.UpdatedAt = time.Now().UTC()
			if err := s.UpdateItemQuantity(ctx, it); err != nil {
				return fmt.Errorf("accumulating cart item: %w", err)
			}

		case errors.Is(err, ErrItemNotFound):
			now := time.Now().UTC()
			it = Item{
				ID:          validate.GenerateID(),
				CartID:      crt.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				Price:       p.Price,
				Quantity:    quantity,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := s.CreateItem(ctx, it); err != nil {
				return fmt.Errorf("creating cart item: %w", err)
			}

		default:
			return fmt.Errorf("fetching cart item: %w", err)
		}

		res = it
		return nil
	})
	if err != nil {
		return Item{}, err
	}

	res.Total = res.Price.Mul(decimal.NewFromInt(int64(res.Quantity)))
	return res, nil
}

// Clear removes every item from the user's open cart. Clearing an
// already empty cart succeeds.
func (c *Core) Clear(ctx context.Context, userID string) error {
	return c.storer.WithinTran(ctx, func(s Storer) error {
		crt, err := openCart(ctx, s, userID)
		if err != nil {
			return err
		}

		if err := s.DeleteItems(ctx, crt.ID); err != nil {
			return fmt.Errorf("clearing cart[%s]: %w", crt.ID, err)
		}

		return nil
	})
}

// Total sums price times quantity over the cart's items at current
// product prices.
func (c *Core) Total(ctx context.Context, cartID string) (decimal.Decimal, error) {
	items, err := c.storer.QueryItems(ctx, cartID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetching cart items: %w", err)
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	return total, nil
}

// openCart scans the user's carts newest first and returns the first
// one without a checkout, creating a fresh one when all are spent.
func openCart(ctx context.Context, s Storer, userID string) (Cart, error) {
	carts, err := s.QueryByUser(ctx, userID)
	if err != nil {
		return Cart{}, fmt.Errorf("fetching carts of user[%s]: %w", userID, err)
	}

	for _, crt := range carts {
		spent, err := s.HasCheckout(ctx, crt.ID)
		if err != nil {
			return Cart{}, fmt.Errorf("checking cart[%s] for a checkout: %w", crt.ID, err)
		}
		if !spent {
			return crt, nil
		}
	}

	// Existing carts already prove the user; only the create path has
	// to verify the reference before inserting.
	ok, err := s.UserExists(ctx, userID)
	if err != nil {
		return Cart{}, fmt.Errorf("checking user[%s]: %w", userID, err)
	}
	if !ok {
		return Cart{}, ErrUserNotFound
	}

	crt := Cart{
		ID:        validate.GenerateID(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Create(ctx, crt); err != nil {
		return Cart{}, fmt.Errorf("creating cart: %w", err)
	}

	return crt, nil
}

func sumLines(crt *Cart) {
	crt.Total = decimal.Zero
	for i := range crt.Items {
		it := &crt.Items[i]
		it.Total = it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		crt.Total = crt.Total.Add(it.Total)
	}
}
