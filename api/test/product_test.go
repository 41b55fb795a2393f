package test

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/shoply/shoply/core/product"
)

func TestProduct(t *testing.T) {
	te, err := NewTestEnv(t, "product_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	seller, sellerToken := te.signup(t, "seller")
	_, customerToken := te.signup(t, "customer")

	np := map[string]any{
		"name":        "mechanical keyboard",
		"description": "tenkeyless, brown switches",
		"price":       "89.90",
		"stock":       12,
	}

	// Only sellers may create products.
	te.do(t, http.MethodPost, "/products", customerToken, np, http.StatusForbidden, nil)
	te.do(t, http.MethodPost, "/products", "", np, http.StatusUnauthorized, nil)

	var p product.Product
	te.do(t, http.MethodPost, "/products", sellerToken, np, http.StatusCreated, &p)
	if p.SellerID != seller.ID {
		t.Fatalf("product owned by %s, want %s", p.SellerID, seller.ID)
	}
	if !p.Price.Equal(decimal.RequireFromString("89.90")) {
		t.Fatalf("product price is %s, want 89.90", p.Price)
	}

	// Non-positive price and negative stock fail validation.
	bad := map[string]any{"name": "x", "description": "y", "price": "0", "stock": 1}
	te.do(t, http.MethodPost, "/products", sellerToken, bad, http.StatusBadRequest, nil)
	bad = map[string]any{"name": "x", "description": "y", "price": "5.00", "stock": -1}
	te.do(t, http.MethodPost, "/products", sellerToken, bad, http.StatusBadRequest, nil)

	// The catalog is publicly readable.
	var ps []product.Product
	te.do(t, http.MethodGet, "/products", "", nil, http.StatusOK, &ps)
	if len(ps) != 1 {
		t.Fatalf("catalog has %d products, want 1", len(ps))
	}

	var got product.Product
	te.do(t, http.MethodGet, "/products/"+p.ID, "", nil, http.StatusOK, &got)
	if got.ID != p.ID {
		t.Fatalf("fetched product %s, want %s", got.ID, p.ID)
	}

	// Updates apply field by field.
	up := map[string]any{"price": "79.90"}
	te.do(t, http.MethodPut, "/products/"+p.ID, sellerToken, up, http.StatusOK, &got)
	if !got.Price.Equal(decimal.RequireFromString("79.90")) {
		t.Fatalf("updated price is %s, want 79.90", got.Price)
	}
	if got.Name != p.Name {
		t.Fatalf("update clobbered name: %s", got.Name)
	}

	// Unknown products are a 404.
	te.do(t, http.MethodGet, "/products/e3b2a1c4-0000-4000-8000-000000000000", "", nil, http.StatusNotFound, nil)

	te.do(t, http.MethodDelete, "/products/"+p.ID, sellerToken, nil, http.StatusNoContent, nil)
	te.do(t, http.MethodGet, "/products/"+p.ID, "", nil, http.StatusNotFound, nil)
}
