package test

import (
	"net/http"
	"testing"

	"github.com/storefront-go/storefront/core/cart"
	"github.com/storefront-go/storefront/core/product"
)

type cartTest struct {
	*TestEnv
}

type cartView struct {
	Items  []cart.Item `json:"items"`
	Totals cart.Totals `json:"totals"`
}

func TestCart(t *testing.T) {
	env, err := NewTestEnv(t, "cart_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	ct := &cartTest{env}

	// price 10.00, 1kg / price 2.50, 400g
	p1 := ct.createProductOK(t, "mug", 1000, 1000)
	p2 := ct.createProductOK(t, "sticker pack", 250, 400)

	if err := Login(ct.TestEnv, ct.UserEmail, ct.UserPass); err != nil {
		t.Fatal(err)
	}
	defer Logout(ct.TestEnv)

	ct.addItemOK(t, p1.ID, 2)
	ct.addItemOK(t, p2.ID, 1)

	// merging keeps one line per product
	ct.addItemOK(t, p2.ID, 2)

	v := ct.showCartOK(t)
	if len(v.Items) != 2 {
		t.Fatalf("expected 2 cart lines, got %d", len(v.Items))
	}
	// 2*1000 + 3*250 product, flat 500 shipping, 2*1000 + 3*400 grams
	if v.Totals.ProductCost != 2750 || v.Totals.Shipping != 500 || v.Totals.Weight != 3200 || v.Totals.Cost != 3250 {
		t.Fatalf("unexpected totals: %+v", v.Totals)
	}

	code, err := ct.RequestJSON(http.MethodPut, "/cart/items",
		map[string]any{"productId": p1.ID, "quantity": 0}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("zero quantity: expected status %d, got %d", http.StatusUnprocessableEntity, code)
	}

	code, err = ct.RequestJSON(http.MethodPut, "/cart/items",
		map[string]any{"productId": "3290a8a8-19f9-4124-a85c-d5f54e18e8a5", "quantity": 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if code != http.StatusNotFound {
		t.Fatalf("unknown product: expected status %d, got %d", http.StatusNotFound, code)
	}

	ct.removeItemOK(t, p2.ID)
	// removing an absent line is a no-op
	ct.removeItemOK(t, p2.ID)

	v = ct.showCartOK(t)
	if len(v.Items) != 1 {
		t.Fatalf("expected 1 cart line after removal, got %d", len(v.Items))
	}

	code, err = ct.RequestJSON(http.MethodDelete, "/cart", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if code != http.StatusNoContent {
		t.Fatalf("clearing cart: expected status %d, got %d", http.StatusNoContent, code)
	}

	v = ct.showCartOK(t)
	if len(v.Items) != 0 {
		t.Fatalf("expected empty cart after clear, got %d lines", len(v.Items))
	}
}

func (ct *cartTest) createProductOK(t *testing.T, name string, price int, weight int) product.Product {
	t.Helper()

	if err := Login(ct.TestEnv, ct.AdminEmail, ct.AdminPass); err != nil {
		t.Fatal(err)
	}
	defer Logout(ct.TestEnv)

	body := map[string]any{
		"name":        name,
		"description": name + " description",
		"price":       price,
		"weight":      weight,
	}

	var prd product.Product
	code, err := ct.RequestJSON(http.MethodPost, "/products", body, &prd)
	if err != nil {
		t.Fatal(err)
	}
	if code != http.StatusCreated {
		t.Fatalf("creating product: expected status %d, got %d", http.StatusCreated, code)
	}

	return prd
}

func (ct *cartTest) addItemOK(t *testing.T, productID string, quantity int) {
	t.Helper()

	body := map[string]any{"productId": productID, "quantity": quantity}
	code, err := ct.RequestJSON(http.MethodPut, "/cart/items", body, nil)
	if err != nil {
		t.Fatal(err)
	}
	if code != http.StatusOK {
		t.Fatalf("adding cart item: expected status %d, got %d", http.StatusOK, code)
	}
}

func (ct *cartTest) removeItemOK(t *testing.T, productID string) {
	t.Helper()

	code, err := ct.RequestJSON(http.MethodDelete, "/cart/items/"+productID, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if code != http.StatusNoContent {
		t.Fatalf("removing cart item: expected status %d, got %d", http.StatusNoContent, code)
	}
}

func (ct *cartTest) showCartOK(t *testing.T) cartView {
	t.Helper()

	var v cartView
	code, err := ct.RequestJSON(http.MethodGet, "/cart", nil, &v)
	if err != nil {
		t.Fatal(err)
	}
	if code != http.StatusOK {
		t.Fatalf("showing cart: expected status %d, got %d", http.StatusOK, code)
	}

	return v
}
