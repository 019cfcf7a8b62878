package papertrade

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyArithmetic(t *testing.T) {
	a := M(100, "USD")
	b := M(40, "USD")

	if got := a.Add(b); !got.Equal(M(140, "USD")) {
		t.Errorf("Add = %s, want 140 USD", got)
	}
	if got := a.Sub(b); !got.Equal(M(60, "USD")) {
		t.Errorf("Sub = %s, want 60 USD", got)
	}
	if got := a.Mul(Q(3)); !got.Equal(M(300, "USD")) {
		t.Errorf("Mul = %s, want 300 USD", got)
	}
	if got := a.Div(Q(8)); !got.Equal(M(12.5, "USD")) {
		t.Errorf("Div = %s, want 12.5 USD", got)
	}
	if got := b.Neg(); !got.Equal(M(-40, "USD")) {
		t.Errorf("Neg = %s, want -40 USD", got)
	}
}

func TestMoney_WeakCurrencyMerge(t *testing.T) {
	// The zero Money has no currency and merges with anything; this is what
	// lets aggregations start from a zero value.
	var total Money
	total = total.Add(M(10, "USD"))
	if total.Currency() != "USD" {
		t.Errorf("currency = %q, want USD", total.Currency())
	}
	if !total.Equal(M(10, "USD")) {
		t.Errorf("total = %s, want 10 USD", total)
	}
}

func TestMoney_ConvertAt(t *testing.T) {
	m := M(100, "USD")
	got := m.ConvertAt(decimal.NewFromFloat(0.5), "EUR")
	if got.Currency() != "EUR" || !got.Equal(M(50, "EUR")) {
		t.Errorf("ConvertAt = %s %s, want 50 EUR", got, got.Currency())
	}
}

func TestMoney_SignedString(t *testing.T) {
	if got := M(5, "USD").SignedString(); got[0] != '+' {
		t.Errorf("positive SignedString = %q, want leading +", got)
	}
	if got := M(-5, "USD").SignedString(); got[0] != '-' {
		t.Errorf("negative SignedString = %q, want leading -", got)
	}
}

func TestQuantity_IsNegligible(t *testing.T) {
	testCases := []struct {
		name string
		q    Quantity
		want bool
	}{
		{"zero", Q(0), true},
		{"below epsilon", Q(1e-7), true},
		{"exactly epsilon", Q(Epsilon), true},
		{"above epsilon", Q(1e-5), false},
		{"negative residue", Q(-1e-9), true},
		{"whole amount", Q(5), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.q.IsNegligible(); got != tc.want {
				t.Errorf("IsNegligible(%s) = %v, want %v", tc.q, got, tc.want)
			}
		})
	}
}

func TestAssetBuySell(t *testing.T) {
	a := Asset{Name: "X", Amount: Q(10), AvgBuyPrice: M(100, "USD"), CurrentPrice: M(100, "USD")}

	a = a.buy(Q(10), M(200, "USD"), M(2000, "USD"))
	if !a.Amount.Equal(Q(20)) || !a.AvgBuyPrice.Equal(M(150, "USD")) {
		t.Errorf("after buy: %s @ %s, want 20 @ 150 USD", a.Amount, a.AvgBuyPrice)
	}
	if !a.CurrentPrice.Equal(M(200, "USD")) {
		t.Errorf("current price = %s, want 200 USD", a.CurrentPrice)
	}

	a, closed := a.sell(Q(15), M(300, "USD"))
	if closed {
		t.Fatal("partial sell reported closed")
	}
	if !a.Amount.Equal(Q(5)) || !a.AvgBuyPrice.Equal(M(150, "USD")) {
		t.Errorf("after sell: %s @ %s, want 5 @ 150 USD", a.Amount, a.AvgBuyPrice)
	}

	_, closed = a.sell(Q(5), M(300, "USD"))
	if !closed {
		t.Error("selling everything did not close the asset")
	}

	// A residue at or below epsilon closes too.
	_, closed = a.sell(Q(decimal.NewFromFloat(5).Sub(decimal.NewFromFloat(Epsilon))), M(300, "USD"))
	if !closed {
		t.Error("epsilon residue did not close the asset")
	}
}
