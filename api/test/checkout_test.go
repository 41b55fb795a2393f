package test

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/shoply/shoply/core/cart"
	"github.com/shoply/shoply/core/checkout"
)

func TestCheckout(t *testing.T) {
	te, err := NewTestEnv(t, "checkout_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	_, sellerToken := te.signup(t, "seller")
	buyer, buyerToken := te.signup(t, "customer")

	pa := te.createProduct(t, sellerToken, "product a", "10.00")
	pb := te.createProduct(t, sellerToken, "product b", "5.50")

	te.do(t, http.MethodPost, "/carts/"+buyer.ID+"/items", buyerToken, map[string]any{"product": pa.ID, "quantity": 2}, http.StatusCreated, nil)
	te.do(t, http.MethodPost, "/carts/"+buyer.ID+"/items", buyerToken, map[string]any{"product": pb.ID}, http.StatusCreated, nil)

	var crt cart.Cart
	te.do(t, http.MethodGet, "/carts/"+buyer.ID, buyerToken, nil, http.StatusOK, &crt)

	var ck checkout.Checkout
	te.do(t, http.MethodPost, "/checkouts", buyerToken, map[string]any{"cart": crt.ID}, http.StatusCreated, &ck)

	if want := decimal.RequireFromString("25.50"); !ck.TotalAmount.Equal(want) {
		t.Fatalf("checkout total is %s, want %s", ck.TotalAmount, want)
	}
	if len(ck.Items) != 2 {
		t.Fatalf("checkout has %d items, want 2", len(ck.Items))
	}

	byProduct := map[string]int{}
	for _, it := range ck.Items {
		byProduct[it.ProductID] = it.Quantity
	}
	if byProduct[pa.ID] != 2 || byProduct[pb.ID] != 1 {
		t.Fatalf("checkout items do not mirror the cart: %v", byProduct)
	}

	// The buyer immediately has a fresh, empty open cart.
	var fresh cart.Cart
	te.do(t, http.MethodGet, "/carts/"+buyer.ID, buyerToken, nil, http.StatusOK, &fresh)
	if fresh.ID == crt.ID {
		t.Fatal("open cart was not replaced after checkout")
	}
	if len(fresh.Items) != 0 {
		t.Fatalf("replacement cart has %d items", len(fresh.Items))
	}

	// The spent cart cannot be checked out twice.
	te.do(t, http.MethodPost, "/checkouts", buyerToken, map[string]any{"cart": crt.ID}, http.StatusBadRequest, nil)

	// A missing cart is a 404.
	te.do(t, http.MethodPost, "/checkouts", buyerToken, map[string]any{"cart": "e3b2a1c4-0000-4000-8000-000000000000"}, http.StatusNotFound, nil)

	// Later price changes do not touch the frozen total.
	te.do(t, http.MethodPut, "/products/"+pa.ID, sellerToken, map[string]any{"price": "99.00"}, http.StatusOK, nil)

	// A second checkout lands on top of the history.
	te.do(t, http.MethodPost, "/carts/"+buyer.ID+"/items", buyerToken, map[string]any{"product": pb.ID, "quantity": 4}, http.StatusCreated, nil)
	var ck2 checkout.Checkout
	te.do(t, http.MethodPost, "/checkouts", buyerToken, map[string]any{"cart": fresh.ID}, http.StatusCreated, &ck2)

	var history []checkout.Checkout
	te.do(t, http.MethodGet, "/checkouts/user/"+buyer.ID, buyerToken, nil, http.StatusOK, &history)
	if len(history) != 2 {
		t.Fatalf("history has %d checkouts, want 2", len(history))
	}
	if history[0].ID != ck2.ID || history[1].ID != ck.ID {
		t.Fatal("history is not ordered newest first")
	}
	if want := decimal.RequireFromString("25.50"); !history[1].TotalAmount.Equal(want) {
		t.Fatalf("historical total is %s, want %s", history[1].TotalAmount, want)
	}
	sorted := cmpopts.SortSlices(func(a, b checkout.Item) bool { return a.ProductID < b.ProductID })
	if diff := cmp.Diff(ck.Items, history[1].Items, sorted); diff != "" {
		t.Fatalf("historical items drifted from the conversion result (-want +got):\n%s", diff)
	}
}
