package test

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/storefront-go/storefront/core/order"
)

type orderTest struct {
	*cartTest
}

func TestOrder(t *testing.T) {
	env, err := NewTestEnv(t, "order_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	ot := &orderTest{&cartTest{env}}

	// price 10.00 per unit, 1kg per unit
	prd := ot.createProductOK(t, "mug", 1000, 1000)

	if err := Login(ot.TestEnv, ot.UserEmail, ot.UserPass); err != nil {
		t.Fatal(err)
	}

	// empty cart
	ot.checkoutFails(t, http.StatusUnprocessableEntity)

	ot.addItemOK(t, prd.ID, 2)

	// no payment method on file
	ot.checkoutFails(t, http.StatusUnprocessableEntity)

	ot.putPaymentOK(t)

	// no shipping address on file
	ot.checkoutFails(t, http.StatusUnprocessableEntity)

	ot.putAddressOK(t)

	ord := ot.checkoutOK(t)

	// 2 * 1000 product cost, 500 flat shipping, 2kg
	if ord.Status != order.Received {
		t.Fatalf("expected status %s, got %s", order.Received, ord.Status)
	}
	want := []int{2000, 500, 2000, 2500}
	got := []int{ord.TotalProductCost, ord.TotalShipping, ord.TotalWeight, ord.TotalCost}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("totals mismatch (-want +got):\n%s", diff)
	}
	if len(ord.Items) != 1 || ord.Items[0].Quantity != 2 || ord.Items[0].UnitPrice != 1000 {
		t.Fatalf("unexpected order items: %+v", ord.Items)
	}
	if ord.CardLast4 != "4242" || ord.Country != "US" {
		t.Fatalf("unexpected snapshots: %+v %+v", ord.PaymentSnapshot, ord.ShippingSnapshot)
	}

	// checkout drained the cart
	if v := ot.showCartOK(t); len(v.Items) != 0 {
		t.Fatalf("expected drained cart, got %d lines", len(v.Items))
	}

	// and an immediate retry finds it empty
	ot.checkoutFails(t, http.StatusUnprocessableEntity)

	ot.testSnapshotImmutability(t, ord)
	ot.testCancel(t, ord.ID)
	ot.testShipDeliver(t, prd.ID)
	ot.testQueries(t)

	Logout(ot.TestEnv)
}

// testSnapshotImmutability verifies that later profile and catalog changes
// never reach an already-created order.
func (ot *orderTest) testSnapshotImmutability(t *testing.T, ord order.Order) {
	card := map[string]string{
		"cardBrand": "MASTERCARD", "cardNumber": "5555555555554444", "expiry": "01/30",
	}
	if code, err := ot.RequestJSON(http.MethodPut, "/users/current/payment", card, nil); err != nil || code != http.StatusOK {
		t.Fatalf("updating payment: code %d err %v", code, err)
	}

	addr := map[string]string{
		"street": "9 Rue Cler", "city": "Paris", "state": "IDF", "zip": "75007", "country": "FR",
	}
	if code, err := ot.RequestJSON(http.MethodPut, "/users/current/address", addr, nil); err != nil || code != http.StatusOK {
		t.Fatalf("updating address: code %d err %v", code, err)
	}

	var got order.Order
	code, err := ot.RequestJSON(http.MethodGet, "/orders/"+ord.ID, nil, &got)
	if err != nil {
		t.Fatal(err)
	}
	if code != http.StatusOK {
		t.Fatalf("fetching order: expected status %d, got %d", http.StatusOK, code)
	}

	if got.CardLast4 != "4242" || got.CardBrand != "VISA" {
		t.Fatalf("payment snapshot changed retroactively: %+v", got.PaymentSnapshot)
	}
	if got.Country != "US" {
		t.Fatalf("shipping snapshot changed retroactively: %+v", got.ShippingSnapshot)
	}
	if got.TotalCost != ord.TotalCost {
		t.Fatalf("total cost changed retroactively: %d != %d", got.TotalCost, ord.TotalCost)
	}

	// restore the domestic address for the rest of the flow
	usAddr := map[string]string{
		"street": "1 Main St", "city": "San Jose", "state": "CA", "zip": "95112", "country": "US",
	}
	if code, err := ot.RequestJSON(http.MethodPut, "/users/current/address", usAddr, nil); err != nil || code != http.StatusOK {
		t.Fatalf("restoring address: code %d err %v", code, err)
	}
}

func (ot *orderTest) testCancel(t *testing.T, orderID string) {
	var ord order.Order
	code, err := ot.RequestJSON(http.MethodPost, "/orders/"+orderID+"/cancel", nil, &ord)
	if err != nil {
		t.Fatal(err)
	}
	if code != http.StatusOK {
		t.Fatalf("cancelling order: expected status %d, got %d", http.StatusOK, code)
	}
	if ord.Status != order.Cancelled {
		t.Fatalf("expected status %s, got %s", order.Cancelled, ord.Status)
	}

	// cancel is not idempotent: CANCELLED is terminal
	code, err = ot.RequestJSON(http.MethodPost, "/orders/"+orderID+"/cancel", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if code != http.StatusConflict {
		t.Fatalf("double cancel: expected status %d, got %d", http.StatusConflict, code)
	}

	code, err = ot.RequestJSON(http.MethodPost, "/orders/3290a8a8-19f9-4124-a85c-d5f54e18e8a5/cancel", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if code != http.StatusNotFound {
		t.Fatalf("cancelling unknown order: expected status %d, got %d", http.StatusNotFound, code)
	}
}

func (ot *orderTest) testShipDeliver(t *testing.T, productID string) {
	ot.addItemOK(t, productID, 1)
	ord := ot.checkoutOK(t)

	ot.adminStatusUpdate(t, ord.ID, order.Shipped, http.StatusOK)

	// a shipped order can no longer be cancelled
	code, err := ot.RequestJSON(http.MethodPost, "/orders/"+ord.ID+"/cancel", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if code != http.StatusConflict {
		t.Fatalf("cancelling shipped order: expected status %d, got %d", http.StatusConflict, code)
	}

	ot.adminStatusUpdate(t, ord.ID, order.Delivered, http.StatusOK)

	// DELIVERED is terminal
	ot.adminStatusUpdate(t, ord.ID, order.Shipped, http.StatusConflict)
	ot.adminStatusUpdate(t, ord.ID, order.Cancelled, http.StatusConflict)
}

func (ot *orderTest) testQueries(t *testing.T) {
	var all []order.Order
	code, err := ot.RequestJSON(http.MethodGet, "/orders", nil, &all)
	if err != nil {
		t.Fatal(err)
	}
	if code != http.StatusOK {
		t.Fatalf("listing orders: expected status %d, got %d", http.StatusOK, code)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(all))
	}

	var cancelled []order.Order
	if _, err := ot.RequestJSON(http.MethodGet, "/orders?status=CANCELLED", nil, &cancelled); err != nil {
		t.Fatal(err)
	}
	if len(cancelled) != 1 || cancelled[0].Status != order.Cancelled {
		t.Fatalf("expected 1 cancelled order, got %+v", cancelled)
	}

	var received []order.Order
	if _, err := ot.RequestJSON(http.MethodGet, "/orders?status=RECEIVED", nil, &received); err != nil {
		t.Fatal(err)
	}
	if len(received) != 0 {
		t.Fatalf("expected no received orders, got %d", len(received))
	}

	code, err = ot.RequestJSON(http.MethodGet, "/orders?status=BOGUS", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if code != http.StatusBadRequest {
		t.Fatalf("bogus status filter: expected status %d, got %d", http.StatusBadRequest, code)
	}
}

func (ot *orderTest) checkoutOK(t *testing.T) order.Order {
	t.Helper()

	var ord order.Order
	code, err := ot.RequestJSON(http.MethodPost, "/orders/checkout", nil, &ord)
	if err != nil {
		t.Fatal(err)
	}
	if code != http.StatusCreated {
		t.Fatalf("checkout: expected status %d, got %d", http.StatusCreated, code)
	}

	return ord
}

func (ot *orderTest) checkoutFails(t *testing.T, wantCode int) {
	t.Helper()

	code, err := ot.RequestJSON(http.MethodPost, "/orders/checkout", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if code != wantCode {
		t.Fatalf("checkout: expected status %d, got %d", wantCode, code)
	}
}

func (ot *orderTest) putPaymentOK(t *testing.T) {
	t.Helper()

	card := map[string]string{
		"cardBrand": "VISA", "cardNumber": "4242424242424242", "expiry": "12/28",
	}
	code, err := ot.RequestJSON(http.MethodPut, "/users/current/payment", card, nil)
	if err != nil {
		t.Fatal(err)
	}
	if code != http.StatusOK {
		t.Fatalf("putting payment: expected status %d, got %d", http.StatusOK, code)
	}
}

func (ot *orderTest) putAddressOK(t *testing.T) {
	t.Helper()

	addr := map[string]string{
		"street": "1 Main St", "city": "San Jose", "state": "CA", "zip": "95112", "country": "US",
	}
	code, err := ot.RequestJSON(http.MethodPut, "/users/current/address", addr, nil)
	if err != nil {
		t.Fatal(err)
	}
	if code != http.StatusOK {
		t.Fatalf("putting address: expected status %d, got %d", http.StatusOK, code)
	}
}

// adminStatusUpdate performs the transition as the admin and then puts
// the regular user back on the session.
func (ot *orderTest) adminStatusUpdate(t *testing.T, orderID string, to order.Status, wantCode int) {
	t.Helper()

	if err := Login(ot.TestEnv, ot.AdminEmail, ot.AdminPass); err != nil {
		t.Fatal(err)
	}

	body := map[string]string{"status": string(to)}
	code, err := ot.RequestJSON(http.MethodPut, "/orders/"+orderID+"/status", body, nil)
	if err != nil {
		t.Fatal(err)
	}
	if code != wantCode {
		t.Fatalf("status update to %s: expected status %d, got %d", to, wantCode, code)
	}

	if err := Login(ot.TestEnv, ot.UserEmail, ot.UserPass); err != nil {
		t.Fatal(err)
	}
}
