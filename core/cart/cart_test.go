package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/shoply/shoply/core/product"
	"github.com/stretchr/testify/require"
)

// fakeStore keeps carts and items in memory, mirroring the join
// semantics of the SQL store: item price and name always come from the
// current product record.
type fakeStore struct {
	carts     []Cart
	items     map[string][]Item
	checkouts map[string]bool
	products  map[string]product.Product
	users     map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:     make(map[string][]Item),
		checkouts: make(map[string]bool),
		products:  make(map[string]product.Product),
		users:     map[string]bool{userID: true},
	}
}

func (f *fakeStore) WithinTran(ctx context.Context, fn func(Storer) error) error {
	return fn(f)
}

func (f *fakeStore) Create(ctx context.Context, crt Cart) error {
	f.carts = append(f.carts, crt)
	return nil
}

func (f *fakeStore) QueryByUser(ctx context.Context, userID string) ([]Cart, error) {
	var out []Cart
	for i := len(f.carts) - 1; i >= 0; i-- {
		if f.carts[i].UserID == userID {
			out = append(out, f.carts[i])
		}
	}
	return out, nil
}

func (f *fakeStore) HasCheckout(ctx context.Context, cartID string) (bool, error) {
	return f.checkouts[cartID], nil
}

func (f *fakeStore) QueryItems(ctx context.Context, cartID string) ([]Item, error) {
	items := make([]Item, 0, len(f.items[cartID]))
	for _, it := range f.items[cartID] {
		items = append(items, f.joined(it))
	}
	return items, nil
}

func (f *fakeStore) QueryItem(ctx context.Context, cartID string, productID string) (Item, error) {
	for _, it := range f.items[cartID] {
		if it.ProductID == productID {
			return f.joined(it), nil
		}
	}
	return Item{}, ErrItemNotFound
}

func (f *fakeStore) CreateItem(ctx context.Context, it Item) error {
	f.items[it.CartID] = append(f.items[it.CartID], it)
	return nil
}

func (f *fakeStore) UpdateItemQuantity(ctx context.Context, it Item) error {
	items := f.items[it.CartID]
	for i := range items {
		if items[i].ID == it.ID {
			items[i].Quantity = it.Quantity
			items[i].UpdatedAt = it.UpdatedAt
			return nil
		}
	}
	return ErrItemNotFound
}

func (f *fakeStore) DeleteItems(ctx context.Context, cartID string) error {
	delete(f.items, cartID)
	return nil
}

func (f *fakeStore) UserExists(ctx context.Context, userID string) (bool, error) {
	return f.users[userID], nil
}

func (f *fakeStore) QueryProduct(ctx context.Context, productID string) (product.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return product.Product{}, product.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) joined(it Item) Item {
	p := f.products[it.ProductID]
	it.ProductName = p.Name
	it.Price = p.Price
	return it
}

func (f *fakeStore) addProduct(id string, name string, price string) {
	f.products[id] = product.Product{
		ID:    id,
		Name:  name,
		Price: decimal.RequireFromString(price),
	}
}

const (
	userID    = "4ae2dab6-4e15-480a-a2ae-b11a8406805b"
	productID = "d2ca2a9a-1788-4b36-9318-53bd4e98e1e8"
	otherID   = "cfd4b7e3-22b3-4d5e-8c96-74ec375c523b"
)

func TestFindOrCreateOpenIsIdempotent(t *testing.T) {
	store := newFakeStore()
	core := NewCore(store)
	ctx := context.Background()

	first, err := core.FindOrCreateOpen(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, userID, first.UserID)
	require.Empty(t, first.Items)

	second, err := core.FindOrCreateOpen(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	// Once the cart is spent, discovery must move to a fresh one.
	store.checkouts[first.ID] = true

	third, err := core.FindOrCreateOpen(ctx, userID)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, third.ID)
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	store := newFakeStore()
	store.addProduct(productID, "keyboard", "49.90")
	core := NewCore(store)
	ctx := context.Background()

	it, err := core.AddItem(ctx, userID, productID, 2)
	require.NoError(t, err)
	require.Equal(t, 2, it.Quantity)
	require.Equal(t, "keyboard", it.ProductName)
	require.True(t, it.Total.Equal(decimal.RequireFromString("99.80")))

	it, err = core.AddItem(ctx, userID, productID, 3)
	require.NoError(t, err)
	require.Equal(t, 5, it.Quantity)

	crt, err := core.FindOrCreateOpen(ctx, userID)
	require.NoError(t, err)
	require.Len(t, crt.Items, 1)
	require.Equal(t, 5, crt.Items[0].Quantity)
}

func TestAddItemDefaultsAreValidated(t *testing.T) {
	store := newFakeStore()
	store.addProduct(productID, "keyboard", "49.90")
	core := NewCore(store)
	ctx := context.Background()

	_, err := core.AddItem(ctx, userID, productID, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = core.AddItem(ctx, userID, productID, -4)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestAddItemUnknownProduct(t *testing.T) {
	store := newFakeStore()
	core := NewCore(store)

	_, err := core.AddItem(context.Background(), userID, productID, 1)
	require.True(t, errors.Is(err, product.ErrNotFound))
}

func TestUnknownUserHasNoCart(t *testing.T) {
	store := newFakeStore()
	store.addProduct(productID, "keyboard", "49.90")
	core := NewCore(store)
	ctx := context.Background()

	_, err := core.FindOrCreateOpen(ctx, otherID)
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = core.AddItem(ctx, otherID, productID, 1)
	require.ErrorIs(t, err, ErrUserNotFound)

	require.ErrorIs(t, core.Clear(ctx, otherID), ErrUserNotFound)

	// Nothing may have been inserted along the way.
	require.Empty(t, store.carts)
}

func TestClearThenTotalIsZero(t *testing.T) {
	store := newFakeStore()
	store.addProduct(productID, "keyboard", "49.90")
	store.addProduct(otherID, "mouse", "19.90")
	core := NewCore(store)
	ctx := context.Background()

	_, err := core.AddItem(ctx, userID, productID, 2)
	require.NoError(t, err)
	_, err = core.AddItem(ctx, userID, otherID, 1)
	require.NoError(t, err)

	crt, err := core.FindOrCreateOpen(ctx, userID)
	require.NoError(t, err)
	require.True(t, crt.Total.Equal(decimal.RequireFromString("119.70")))

	require.NoError(t, core.Clear(ctx, userID))

	total, err := core.Total(ctx, crt.ID)
	require.NoError(t, err)
	require.True(t, total.IsZero())

	// Clearing an already empty cart is a no-op success.
	require.NoError(t, core.Clear(ctx, userID))
}

func TestTotalTracksCurrentPrices(t *testing.T) {
	store := newFakeStore()
	store.addProduct(productID, "keyboard", "10.00")
	core := NewCore(store)
	ctx := context.Background()

	_, err := core.AddItem(ctx, userID, productID, 3)
	require.NoError(t, err)

	crt, err := core.FindOrCreateOpen(ctx, userID)
	require.NoError(t, err)
	require.True(t, crt.Total.Equal(decimal.RequireFromString("30.00")))

	store.addProduct(productID, "keyboard", "12.50")

	total, err := core.Total(ctx, crt.ID)
	require.NoError(t, err)
	require.True(t, total.Equal(decimal.RequireFromString("37.50")))
}
