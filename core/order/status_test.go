package order

import "testing"

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
		ok   bool
	}{
		{Received, Shipped, true},
		{Received, Cancelled, true},
		{Shipped, Delivered, true},

		{Received, Delivered, false},
		{Received, Received, false},
		{Shipped, Cancelled, false},
		{Shipped, Received, false},
		{Delivered, Cancelled, false},
		{Delivered, Shipped, false},
		{Cancelled, Received, false},
		{Cancelled, Shipped, false},
		{Cancelled, Cancelled, false},
	}

	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.ok {
			t.Errorf("%s -> %s: expected %v, got %v", c.from, c.to, c.ok, got)
		}
	}
}

func TestTerminalStates(t *testing.T) {
	for _, s := range []Status{Delivered, Cancelled} {
		for _, to := range []Status{Received, Shipped, Delivered, Cancelled} {
			if s.CanTransition(to) {
				t.Errorf("%s must be terminal, but allows %s", s, to)
			}
		}
	}
}

func TestCancelOnlyBeforeShipping(t *testing.T) {
	if !Received.CanTransition(Cancelled) {
		t.Error("a received order must be cancellable")
	}
	for _, s := range []Status{Shipped, Delivered, Cancelled} {
		if s.CanTransition(Cancelled) {
			t.Errorf("a %s order must not be cancellable", s)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"RECEIVED", "SHIPPED", "DELIVERED", "CANCELLED"} {
		if _, err := ParseStatus(s); err != nil {
			t.Errorf("parsing %q: %v", s, err)
		}
	}

	for _, s := range []string{"", "received", "PENDING", "REFUNDED"} {
		if _, err := ParseStatus(s); err == nil {
			t.Errorf("parsing %q: expected error", s)
		}
	}
}
