package service

import (
	"testing"

	"github.com/bean-boutique/internal/models"
)

func TestLedgerAddSumsQuantitiesForSameID(t *testing.T) {
	sequences := [][]int{{1}, {1, 2}, {3, 3, 3}, {5, 1, 9, 2}}
	for _, seq := range sequences {
		cart := models.Cart{}
		want := 0
		for _, q := range seq {
			cart = ledgerAdd(cart, models.CartLine{ID: "x", Name: "X"}, 10, q)
			want += q
		}
		if len(cart) != 1 {
			t.Fatalf("seq %v: expected one line got %d", seq, len(cart))
		}
		if cart[0].Quantity != want {
			t.Fatalf("seq %v: quantity want %d got %d", seq, want, cart[0].Quantity)
		}
	}
}

func TestLedgerAddKeepsInsertionOrderAndFirstPrice(t *testing.T) {
	cart := ledgerAdd(models.Cart{}, models.CartLine{ID: "a"}, 5, 1)
	cart = ledgerAdd(cart, models.CartLine{ID: "b"}, 3, 1)
	cart = ledgerAdd(cart, models.CartLine{ID: "a"}, 99, 1)
	if cart[0].ID != "a" || cart[1].ID != "b" {
		t.Fatalf("unexpected order: %+v", cart)
	}
	if cart[0].Price != 5 {
		t.Fatalf("price should be captured at first add, got %v", cart[0].Price)
	}
}

func TestLedgerAddNonPositiveIsNoop(t *testing.T) {
	cart := models.Cart{{ID: "a", Quantity: 2}}
	for _, q := range []int{0, -1} {
		next := ledgerAdd(cart, models.CartLine{ID: "a"}, 5, q)
		if next[0].Quantity != 2 || len(next) != 1 {
			t.Fatalf("add %d should not change cart: %+v", q, next)
		}
	}
}

func TestLedgerSetQuantityNonPositiveRemoves(t *testing.T) {
	for _, q := range []int{0, -1} {
		for _, prior := range []int{1, 2, 50} {
			cart := models.Cart{{ID: "a", Quantity: prior, Price: 5}, {ID: "b", Quantity: 1}}
			next := ledgerSetQuantity(cart, "a", q)
			if next.Index("a") >= 0 {
				t.Fatalf("set %d on prior %d should remove line", q, prior)
			}
			if len(next) != 1 {
				t.Fatalf("other lines must be kept: %+v", next)
			}
		}
	}
}

func TestLedgerSetQuantityUnknownIsNoop(t *testing.T) {
	cart := models.Cart{{ID: "a", Quantity: 1}}
	next := ledgerSetQuantity(cart, "ghost", 4)
	if len(next) != 1 || next[0].Quantity != 1 {
		t.Fatalf("unknown id should not change cart: %+v", next)
	}
}

func TestLedgerDoesNotMutateInput(t *testing.T) {
	cart := models.Cart{{ID: "a", Quantity: 1}}
	_ = ledgerAdd(cart, models.CartLine{ID: "a"}, 1, 5)
	_ = ledgerSetQuantity(cart, "a", 9)
	_ = ledgerRemove(cart, "a")
	if len(cart) != 1 || cart[0].Quantity != 1 {
		t.Fatalf("input cart was mutated: %+v", cart)
	}
}

func TestLedgerTotalsMatchSums(t *testing.T) {
	cart := models.Cart{}
	cart = ledgerAdd(cart, models.CartLine{ID: "a"}, 12.5, 2)
	cart = ledgerAdd(cart, models.CartLine{ID: "b"}, 8.99, 3)
	cart = ledgerAdd(cart, models.CartLine{ID: "c"}, 0.1, 3)
	if got := models.NewMoneyFromDecimal(cart.Total()).String(); got != "52.27" {
		t.Fatalf("total want 52.27 got %s", got)
	}
	if cart.ItemCount() != 8 {
		t.Fatalf("count want 8 got %d", cart.ItemCount())
	}
	if !ledgerClear(cart).Total().IsZero() {
		t.Fatalf("cleared cart total should be zero")
	}
}
