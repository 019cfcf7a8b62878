package renderer

import (
	"fmt"
	"strings"

	"github.com/papertrade/papertrade"
)

// TradesMarkdown renders the trade ledger as a markdown table, newest first.
func TradesMarkdown(s *papertrade.State) string {
	names := portfolioNames(s.RootPortfolios)

	var b strings.Builder
	fmt.Fprintf(&b, "# Trades\n\n")
	if len(s.TradeHistory) == 0 {
		fmt.Fprintln(&b, "No trades recorded.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Time | Side | Asset | Portfolio | Amount | Price | Total | Fee | Realized PnL | ID |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|---:|---:|---:|---:|:---|")

	for _, t := range s.TradeHistory {
		name, ok := names[t.PortfolioID]
		if !ok {
			name = t.PortfolioID
		}
		realized := " "
		if t.Side == papertrade.Sell {
			realized = t.RealizedPnL.SignedString()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			t.Time.Format("2006-01-02 15:04"),
			t.Side,
			t.Asset,
			name,
			t.Amount,
			t.Price,
			t.TotalValue,
			t.Fee,
			realized,
			t.ID,
		)
	}
	return b.String()
}
