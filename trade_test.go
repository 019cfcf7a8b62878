package papertrade

import (
	"errors"
	"testing"
)

func TestExecute_BuySellLifecycle(t *testing.T) {
	s, id := newTestAccount(t, 1_000_000, 100_000)

	// First buy: 10 X at 100 with a 10 fee.
	s, err := s.Execute(TradeIntent{PortfolioID: id, Side: Buy, Asset: "X", Amount: Q(10), Price: M(100, "USD"), Fee: M(10, "USD")}, at(1))
	if err != nil {
		t.Fatalf("buy #1 error = %v", err)
	}
	if !s.Cash.Equal(M(998_990, "USD")) {
		t.Errorf("cash after buy #1 = %s, want 998990 USD", s.Cash)
	}
	p, _ := findPortfolio(s.RootPortfolios, id)
	a, held := p.Asset("X")
	if !held {
		t.Fatal("asset X not held after buy")
	}
	if !a.Amount.Equal(Q(10)) || !a.AvgBuyPrice.Equal(M(100, "USD")) {
		t.Errorf("asset after buy #1 = %s @ %s, want 10 @ 100 USD", a.Amount, a.AvgBuyPrice)
	}

	// Second buy at a higher price: the average is weighted, not the latest.
	s, err = s.Execute(TradeIntent{PortfolioID: id, Side: Buy, Asset: "X", Amount: Q(10), Price: M(200, "USD"), Fee: M(20, "USD")}, at(2))
	if err != nil {
		t.Fatalf("buy #2 error = %v", err)
	}
	if !s.Cash.Equal(M(996_970, "USD")) {
		t.Errorf("cash after buy #2 = %s, want 996970 USD", s.Cash)
	}
	p, _ = findPortfolio(s.RootPortfolios, id)
	a, _ = p.Asset("X")
	if !a.Amount.Equal(Q(20)) || !a.AvgBuyPrice.Equal(M(150, "USD")) {
		t.Errorf("asset after buy #2 = %s @ %s, want 20 @ 150 USD", a.Amount, a.AvgBuyPrice)
	}

	// Partial sell: realized profit excludes the fee, the average buy price
	// of the remaining units does not move, and the profit net of fee lands
	// in the portfolio allocation.
	s, err = s.Execute(TradeIntent{PortfolioID: id, Side: Sell, Asset: "X", Amount: Q(15), Price: M(300, "USD"), Fee: M(15, "USD")}, at(3))
	if err != nil {
		t.Fatalf("sell error = %v", err)
	}
	trade := s.TradeHistory[0]
	if !trade.RealizedPnL.Equal(M(2250, "USD")) {
		t.Errorf("realized pnl = %s, want 2250 USD", trade.RealizedPnL)
	}
	if !trade.NetPnL().Equal(M(2235, "USD")) {
		t.Errorf("net pnl = %s, want 2235 USD", trade.NetPnL())
	}
	if !s.Cash.Equal(M(1_001_455, "USD")) {
		t.Errorf("cash after sell = %s, want 1001455 USD", s.Cash)
	}
	p, _ = findPortfolio(s.RootPortfolios, id)
	a, _ = p.Asset("X")
	if !a.Amount.Equal(Q(5)) || !a.AvgBuyPrice.Equal(M(150, "USD")) {
		t.Errorf("asset after sell = %s @ %s, want 5 @ 150 USD", a.Amount, a.AvgBuyPrice)
	}
	if !p.Allocation.Equal(M(102_235, "USD")) {
		t.Errorf("allocation after sell = %s, want 102235 USD", p.Allocation)
	}
}

func TestExecute_SellAllRemovesAsset(t *testing.T) {
	s, id := newTestAccount(t, 10_000, 5_000)
	s, err := s.Execute(TradeIntent{PortfolioID: id, Side: Buy, Asset: "X", Amount: Q(10), Price: M(100, "USD"), Fee: M(0, "USD")}, at(1))
	if err != nil {
		t.Fatal(err)
	}
	s, err = s.Execute(TradeIntent{PortfolioID: id, Side: Sell, Asset: "X", Amount: Q(10), Price: M(110, "USD"), Fee: M(0, "USD")}, at(2))
	if err != nil {
		t.Fatal(err)
	}
	p, _ := findPortfolio(s.RootPortfolios, id)
	if _, held := p.Asset("X"); held {
		t.Error("asset X still held after selling everything")
	}
}

func TestExecute_SellPropagatesToAncestors(t *testing.T) {
	s := NewState(M(100_000, "USD"), at(0))
	s, err := s.CreatePortfolio("", "Parent", M(50_000, "USD"))
	if err != nil {
		t.Fatal(err)
	}
	parentID := s.RootPortfolios[0].ID
	s, err = s.CreatePortfolio(parentID, "Child", M(20_000, "USD"))
	if err != nil {
		t.Fatal(err)
	}
	childID := s.RootPortfolios[0].Children[0].ID

	s, err = s.Execute(TradeIntent{PortfolioID: childID, Side: Buy, Asset: "Y", Amount: Q(10), Price: M(100, "USD"), Fee: M(0, "USD")}, at(1))
	if err != nil {
		t.Fatal(err)
	}
	s, err = s.Execute(TradeIntent{PortfolioID: childID, Side: Sell, Asset: "Y", Amount: Q(10), Price: M(150, "USD"), Fee: M(50, "USD")}, at(2))
	if err != nil {
		t.Fatal(err)
	}

	// Profit 500 minus fee 50 lands whole in the child and whole in the parent.
	parent, _ := findPortfolio(s.RootPortfolios, parentID)
	child, _ := findPortfolio(s.RootPortfolios, childID)
	if !child.Allocation.Equal(M(20_450, "USD")) {
		t.Errorf("child allocation = %s, want 20450 USD", child.Allocation)
	}
	if !parent.Allocation.Equal(M(50_450, "USD")) {
		t.Errorf("parent allocation = %s, want 50450 USD", parent.Allocation)
	}
}

func TestExecute_Rejections(t *testing.T) {
	s, id := newTestAccount(t, 1_000, 1_000)
	s, err := s.Execute(TradeIntent{PortfolioID: id, Side: Buy, Asset: "X", Amount: Q(5), Price: M(100, "USD"), Fee: M(0, "USD")}, at(1))
	if err != nil {
		t.Fatal(err)
	}
	before := s

	testCases := []struct {
		name    string
		intent  TradeIntent
		wantErr error
	}{
		{
			name:    "buy exceeding cash",
			intent:  TradeIntent{PortfolioID: id, Side: Buy, Asset: "X", Amount: Q(100), Price: M(100, "USD"), Fee: M(0, "USD")},
			wantErr: ErrInsufficientCash,
		},
		{
			name:    "sell more than held",
			intent:  TradeIntent{PortfolioID: id, Side: Sell, Asset: "X", Amount: Q(6), Price: M(100, "USD"), Fee: M(0, "USD")},
			wantErr: ErrInsufficientHoldings,
		},
		{
			name:    "sell an asset never bought",
			intent:  TradeIntent{PortfolioID: id, Side: Sell, Asset: "Z", Amount: Q(1), Price: M(100, "USD"), Fee: M(0, "USD")},
			wantErr: ErrInsufficientHoldings,
		},
		{
			name:    "unknown portfolio",
			intent:  TradeIntent{PortfolioID: "nope", Side: Buy, Asset: "X", Amount: Q(1), Price: M(100, "USD"), Fee: M(0, "USD")},
			wantErr: ErrPortfolioNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Execute(tc.intent, at(2)); !errors.Is(err, tc.wantErr) {
				t.Errorf("Execute() error = %v, want %v", err, tc.wantErr)
			}
		})
	}

	// A rejected operation leaves the snapshot untouched.
	if len(s.TradeHistory) != len(before.TradeHistory) || !s.Cash.Equal(before.Cash) {
		t.Error("state mutated by rejected operations")
	}
}

func TestTradeIntent_Validate(t *testing.T) {
	valid := TradeIntent{PortfolioID: "p", Side: Buy, Asset: "X", Amount: Q(1), Price: M(1, "USD"), Fee: M(0, "USD")}

	testCases := []struct {
		name   string
		mutate func(i *TradeIntent)
		wantOK bool
	}{
		{"valid", func(i *TradeIntent) {}, true},
		{"missing portfolio", func(i *TradeIntent) { i.PortfolioID = "" }, false},
		{"missing asset", func(i *TradeIntent) { i.Asset = "" }, false},
		{"zero amount", func(i *TradeIntent) { i.Amount = Q(0) }, false},
		{"negative amount", func(i *TradeIntent) { i.Amount = Q(-1) }, false},
		{"zero price", func(i *TradeIntent) { i.Price = M(0, "USD") }, false},
		{"negative fee", func(i *TradeIntent) { i.Fee = M(-1, "USD") }, false},
		{"bad side", func(i *TradeIntent) { i.Side = "short" }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			intent := valid
			tc.mutate(&intent)
			err := intent.Validate()
			if tc.wantOK && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if !tc.wantOK && err == nil {
				t.Error("Validate() expected error, got nil")
			}
		})
	}
}

func TestChronological(t *testing.T) {
	trades := []Trade{
		{ID: "c", Time: at(3)},
		{ID: "a", Time: at(1)},
		{ID: "b", Time: at(2)},
	}
	got := chronological(trades)
	if got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Errorf("chronological order = %s %s %s, want a b c", got[0].ID, got[1].ID, got[2].ID)
	}
	// The input slice is not reordered.
	if trades[0].ID != "c" {
		t.Error("chronological mutated its input")
	}
}
