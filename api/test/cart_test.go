package test

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/shoply/shoply/core/cart"
	"github.com/shoply/shoply/core/product"
)

func (te *TestEnv) createProduct(t *testing.T, token string, name string, price string) product.Product {
	t.Helper()

	np := map[string]any{
		"name":        name,
		"description": name,
		"price":       price,
		"stock":       100,
	}

	var p product.Product
	te.do(t, http.MethodPost, "/products", token, np, http.StatusCreated, &p)
	return p
}

func TestCart(t *testing.T) {
	te, err := NewTestEnv(t, "cart_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	_, sellerToken := te.signup(t, "seller")
	buyer, buyerToken := te.signup(t, "customer")

	keyboard := te.createProduct(t, sellerToken, "keyboard", "49.90")
	mouse := te.createProduct(t, sellerToken, "mouse", "19.90")

	// Fetching the cart by user id auto-creates an open one.
	var crt cart.Cart
	te.do(t, http.MethodGet, "/carts/"+buyer.ID, buyerToken, nil, http.StatusOK, &crt)
	if crt.UserID != buyer.ID {
		t.Fatalf("cart belongs to %s, want %s", crt.UserID, buyer.ID)
	}
	if len(crt.Items) != 0 {
		t.Fatalf("fresh cart has %d items", len(crt.Items))
	}

	// A second fetch returns the same cart.
	var again cart.Cart
	te.do(t, http.MethodGet, "/carts/"+buyer.ID, buyerToken, nil, http.StatusOK, &again)
	if again.ID != crt.ID {
		t.Fatalf("open cart changed from %s to %s", crt.ID, again.ID)
	}

	// Quantity defaults to 1 when omitted.
	var it cart.Item
	te.do(t, http.MethodPost, "/carts/"+buyer.ID+"/items", buyerToken, map[string]any{"product": keyboard.ID}, http.StatusCreated, &it)
	if it.Quantity != 1 {
		t.Fatalf("default quantity is %d, want 1", it.Quantity)
	}

	// A repeat add accumulates onto the same line.
	te.do(t, http.MethodPost, "/carts/"+buyer.ID+"/items", buyerToken, map[string]any{"product": keyboard.ID, "quantity": 2}, http.StatusCreated, &it)
	if it.Quantity != 3 {
		t.Fatalf("accumulated quantity is %d, want 3", it.Quantity)
	}

	te.do(t, http.MethodPost, "/carts/"+buyer.ID+"/items", buyerToken, map[string]any{"product": mouse.ID}, http.StatusCreated, nil)

	te.do(t, http.MethodGet, "/carts/"+buyer.ID, buyerToken, nil, http.StatusOK, &crt)
	if len(crt.Items) != 2 {
		t.Fatalf("cart has %d lines, want 2", len(crt.Items))
	}
	if want := decimal.RequireFromString("169.60"); !crt.Total.Equal(want) {
		t.Fatalf("cart total is %s, want %s", crt.Total, want)
	}

	// Zero and negative quantities fail validation.
	te.do(t, http.MethodPost, "/carts/"+buyer.ID+"/items", buyerToken, map[string]any{"product": keyboard.ID, "quantity": 0}, http.StatusBadRequest, nil)
	te.do(t, http.MethodPost, "/carts/"+buyer.ID+"/items", buyerToken, map[string]any{"product": keyboard.ID, "quantity": -2}, http.StatusBadRequest, nil)

	// Unknown products are a 404.
	te.do(t, http.MethodPost, "/carts/"+buyer.ID+"/items", buyerToken, map[string]any{"product": "e3b2a1c4-0000-4000-8000-000000000000"}, http.StatusNotFound, nil)

	// So is a well-formed user id that matches nobody.
	const ghost = "7b1f9c5e-0000-4000-8000-000000000000"
	te.do(t, http.MethodGet, "/carts/"+ghost, buyerToken, nil, http.StatusNotFound, nil)
	te.do(t, http.MethodPost, "/carts/"+ghost+"/items", buyerToken, map[string]any{"product": keyboard.ID}, http.StatusNotFound, nil)
	te.do(t, http.MethodDelete, "/carts/"+ghost+"/items", buyerToken, nil, http.StatusNotFound, nil)

	// Clearing empties the cart; clearing again still succeeds.
	te.do(t, http.MethodDelete, "/carts/"+buyer.ID+"/items", buyerToken, nil, http.StatusNoContent, nil)
	te.do(t, http.MethodGet, "/carts/"+buyer.ID, buyerToken, nil, http.StatusOK, &crt)
	if len(crt.Items) != 0 || !crt.Total.IsZero() {
		t.Fatalf("cleared cart still has %d items, total %s", len(crt.Items), crt.Total)
	}
	te.do(t, http.MethodDelete, "/carts/"+buyer.ID+"/items", buyerToken, nil, http.StatusNoContent, nil)
}
