package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shoply/shoply/core/cart"
	"github.com/shoply/shoply/validate"
)

var (
	ErrNotFound          = errors.New("checkout not found")
	ErrAlreadyCheckedOut = errors.New("this cart has already been checked out, use a fresh cart")
)

// Checkout is the immutable record produced by converting a cart. Each
// cart can be converted at most once; the total is frozen at conversion
// time while the line items reference the products by id.
type Checkout struct {
	ID          string          `json:"id" db:"checkout_id"`
	CartID      string          `json:"cartId" db:"cart_id"`
	UserID      string          `json:"userId" db:"user_id"`
	TotalAmount decimal.Decimal `json:"totalAmount" db:"total_amount"`
	CreatedAt   time.Time       `json:"checkoutDate" db:"created_at"`
	Items       []Item          `json:"items" db:"-"`
}

type Item struct {
	ID          string `json:"id" db:"item_id"`
	CheckoutID  string `json:"checkoutId" db:"checkout_id"`
	ProductID   string `json:"productId" db:"product_id"`
	ProductName string `json:"productName" db:"product_name"`
	Quantity    int    `json:"quantity" db:"quantity"`
}

type CheckoutNew struct {
	CartID string `json:"cart" validate:"required,uuid"`
}

type Storer interface {
	WithinTran(ctx context.Context, fn func(Storer) error) error
	QueryCart(ctx context.Context, cartID string) (cart.Cart, error)
	QueryCartItems(ctx context.Context, cartID string) ([]cart.Item, error)
	DeleteCartItems(ctx context.Context, cartID string) error
	CreateCart(ctx context.Context, crt cart.Cart) error
	Create(ctx context.Context, ck Checkout) error
	CreateItem(ctx context.Context, it Item) error
	QueryByCart(ctx context.Context, cartID string) (Checkout, error)
	QueryByUser(ctx context.Context, userID string) ([]Checkout, error)
	QueryItems(ctx context.Context, checkoutID string) ([]Item, error)
}

type Core struct {
	storer Storer
}

func NewCore(storer Storer) *Core {
	return &Core{storer: storer}
}

// Create converts a cart into a checkout inside one transaction: the
// total is computed from the current items, the checkout and a frozen
// copy of every line are written, the cart is emptied and a fresh open
// cart is provisioned for the user. A failure on any step rolls the
// whole conversion back.
//
// A cart with no items converts with a total of 0.00.
func (c *Core) Create(ctx context.Context, cartID string) (Checkout, error) {
	var ck Checkout
	err := c.storer.WithinTran(ctx, func(s Storer) error {
		crt, err := s.QueryCart(ctx, cartID)
		if err != nil {
			return err
		}

		if _, err := s.QueryByCart(ctx, cartID); err == nil {
			return ErrAlreadyCheckedOut
		} else if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("checking cart[%s] for a checkout: %w", cartID, err)
		}

		items, err := s.QueryCartItems(ctx, cartID)
		if err != nil {
			return fmt.Errorf("fetching items of cart[%s]: %w", cartID, err)
		}

		total := decimal.Zero
		for _, it := range items {
			total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}

		now := time.Now().UTC()
		ck = Checkout{
			ID:          validate.GenerateID(),
			CartID:      cartID,
			UserID:      crt.UserID,
			TotalAmount: total.Round(2),
			CreatedAt:   now,
		}

		if err := s.Create(ctx, ck); err != nil {
			return fmt.Errorf("creating checkout: %w", err)
		}

		ck.Items = make([]Item, 0, len(items))
		for _, ci := range items {
			it := Item{
				ID:          validate.GenerateID(),
				CheckoutID:  ck.ID,
				ProductID:   ci.ProductID,
				ProductName: ci.ProductName,
				Quantity:    ci.Quantity,
			}

			if err := s.CreateItem(ctx, it); err != nil {
				return fmt.Errorf("copying cart item to checkout: %w", err)
			}

			ck.Items = append(ck.Items, it)
		}

		if err := s.DeleteCartItems(ctx, cartID); err != nil {
			return fmt.Errorf("emptying cart[%s]: %w", cartID, err)
		}

		fresh := cart.Cart{
			ID:        validate.GenerateID(),
			UserID:    crt.UserID,
			CreatedAt: now,
		}
		if err := s.CreateCart(ctx, fresh); err != nil {
			return fmt.Errorf("provisioning replacement cart: %w", err)
		}

		return nil
	})
	if err != nil {
		return Checkout{}, err
	}

	return ck, nil
}

// QueryByUser lists the user's checkouts newest first, items attached.
func (c *Core) QueryByUser(ctx context.Context, userID string) ([]Checkout, error) {
	cks, err := c.storer.QueryByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching checkouts of user[%s]: %w", userID, err)
	}

	for i := range cks {
		items, err := c.storer.QueryItems(ctx, cks[i].ID)
		if err != nil {
			return nil, fmt.Errorf("fetching items of checkout[%s]: %w", cks[i].ID, err)
		}
		cks[i].Items = items
	}

	return cks, nil
}
