package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/papertrade/papertrade"
)

func testTime(i int) time.Time {
	return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute)
}

// session builds an account with one portfolio, an open holding and a
// closed round trip.
func session(t *testing.T) *papertrade.State {
	t.Helper()
	s := papertrade.NewState(papertrade.M(100_000, "USD"), testTime(0))
	s, err := s.CreatePortfolio("", "Growth", papertrade.M(50_000, "USD"))
	if err != nil {
		t.Fatal(err)
	}
	id := s.RootPortfolios[0].ID
	usd := func(v float64) papertrade.Money { return papertrade.M(v, "USD") }

	s, err = s.Execute(papertrade.TradeIntent{PortfolioID: id, Side: papertrade.Buy, Asset: "BTC", Amount: papertrade.Q(2), Price: usd(100), Fee: usd(1)}, testTime(1))
	if err != nil {
		t.Fatal(err)
	}
	s, err = s.Execute(papertrade.TradeIntent{PortfolioID: id, Side: papertrade.Sell, Asset: "BTC", Amount: papertrade.Q(2), Price: usd(150), Fee: usd(1)}, testTime(2))
	if err != nil {
		t.Fatal(err)
	}
	s, err = s.Execute(papertrade.TradeIntent{PortfolioID: id, Side: papertrade.Buy, Asset: "ETH", Amount: papertrade.Q(10), Price: usd(20), Fee: usd(0)}, testTime(3))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRenderPositions(t *testing.T) {
	md := RenderPositions(NewPositionsReport(session(t), testTime(10)))

	for _, want := range []string{"# Positions", "1 open, 1 closed", "BTC", "ETH", "CLOSED", "OPEN", "Growth"} {
		if !strings.Contains(md, want) {
			t.Errorf("positions report missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "error") {
		t.Errorf("positions report contains a template error:\n%s", md)
	}
}

func TestRenderSummary(t *testing.T) {
	md := RenderSummary(NewSummary(session(t), testTime(10)))

	for _, want := range []string{"# Account Summary", "Cash:", "Net Worth:", "Growth", "ETH"} {
		if !strings.Contains(md, want) {
			t.Errorf("summary missing %q:\n%s", want, md)
		}
	}
	// BTC was fully sold, it must not appear as a holding.
	if strings.Contains(md, "| BTC |") {
		t.Errorf("summary lists the closed BTC holding:\n%s", md)
	}
}

func TestRenderSummary_Empty(t *testing.T) {
	s := papertrade.NewState(papertrade.M(1000, "USD"), testTime(0))
	md := RenderSummary(NewSummary(s, testTime(1)))
	if !strings.Contains(md, "No portfolios.") {
		t.Errorf("empty summary missing placeholder:\n%s", md)
	}
}

func TestRenderNetWorth(t *testing.T) {
	md := RenderNetWorth(NewNetWorthReport(session(t)))

	if !strings.Contains(md, "# Net Worth History (USD)") {
		t.Errorf("networth report missing title:\n%s", md)
	}
	// One sample at seed time plus one per trade.
	if got := strings.Count(md, "| 2025-06-01"); got != 4 {
		t.Errorf("networth rows = %d, want 4:\n%s", got, md)
	}
}

func TestTradesMarkdown(t *testing.T) {
	s := session(t)
	md := TradesMarkdown(s)

	for _, want := range []string{"# Trades", "BTC", "ETH", "Growth", s.TradeHistory[0].ID} {
		if !strings.Contains(md, want) {
			t.Errorf("trades table missing %q:\n%s", want, md)
		}
	}

	empty := papertrade.NewState(papertrade.M(1, "USD"), testTime(0))
	if md := TradesMarkdown(empty); !strings.Contains(md, "No trades recorded.") {
		t.Errorf("empty ledger missing placeholder:\n%s", md)
	}
}
