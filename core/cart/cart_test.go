package cart

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComputeTotals(t *testing.T) {
	items := []Item{
		{ProductID: "a", Quantity: 2, UnitPrice: 1000, UnitWeight: 1000},
		{ProductID: "b", Quantity: 1, UnitPrice: 250, UnitWeight: 400},
	}

	got := ComputeTotals(items, 500)
	want := Totals{
		ProductCost: 2250,
		Shipping:    500,
		Weight:      2400,
		Cost:        2750,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("totals mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	got := ComputeTotals(nil, 0)
	if diff := cmp.Diff(Totals{}, got); diff != "" {
		t.Errorf("empty cart totals mismatch (-want +got):\n%s", diff)
	}
}

func TestTotalsRecomputed(t *testing.T) {
	items := []Item{{ProductID: "a", Quantity: 1, UnitPrice: 100, UnitWeight: 10}}

	before := ComputeTotals(items, 0)
	items[0].Quantity = 3
	after := ComputeTotals(items, 0)

	if before.ProductCost != 100 || after.ProductCost != 300 {
		t.Errorf("totals must reflect current items: before=%d after=%d",
			before.ProductCost, after.ProductCost)
	}
	if before.Weight != 10 || after.Weight != 30 {
		t.Errorf("weight must reflect current items: before=%d after=%d",
			before.Weight, after.Weight)
	}
}
