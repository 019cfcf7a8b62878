package renderer

import (
	"strings"
	"time"

	"github.com/papertrade/papertrade"
)

// Summary is the view model for the account summary report.
type Summary struct {
	Date              string           `json:"date"`
	Cash              papertrade.Money `json:"cash"`
	NetWorth          papertrade.Money `json:"netWorth"`
	SecondaryNetWorth string           `json:"secondaryNetWorth,omitempty"`
	Portfolios        []SummaryRow     `json:"portfolios"`
}

// SummaryRow is one portfolio node flattened in pre-order, with an
// indentation prefix encoding its depth.
type SummaryRow struct {
	Indent     string           `json:"-"`
	Name       string           `json:"name"`
	Selected   bool             `json:"selected,omitempty"`
	Allocation papertrade.Money `json:"allocation"`
	Value      papertrade.Money `json:"value"`
	Cost       papertrade.Money `json:"cost"`
	PnL        string           `json:"unrealizedPnl"`
	Assets     []SummaryAsset   `json:"assets"`
}

// SummaryAsset is one holding inside a portfolio row.
type SummaryAsset struct {
	Name         string              `json:"name"`
	Amount       papertrade.Quantity `json:"amount"`
	AvgBuyPrice  papertrade.Money    `json:"avgBuyPrice"`
	CurrentPrice papertrade.Money    `json:"currentPrice"`
	Value        papertrade.Money    `json:"value"`
	PnL          string              `json:"unrealizedPnl"`
}

// NewSummary builds the full account summary from a snapshot.
func NewSummary(s *papertrade.State, now time.Time) *Summary {
	sum := &Summary{
		Date:       now.Format("2006-01-02"),
		Cash:       s.Cash,
		NetWorth:   s.NetWorth(),
		Portfolios: make([]SummaryRow, 0),
	}
	if s.SecondaryCurrency != "" && s.SecondaryCurrency != s.Currency() {
		sum.SecondaryNetWorth = sum.NetWorth.ConvertAt(s.SecondaryRate, s.SecondaryCurrency).String()
	}
	var walk func(ps []papertrade.Portfolio, depth int)
	walk = func(ps []papertrade.Portfolio, depth int) {
		for _, p := range ps {
			row := SummaryRow{
				Indent:     strings.Repeat("  ", depth),
				Name:       p.Name,
				Selected:   p.ID == s.SelectedID,
				Allocation: p.Allocation,
				Value:      p.Value(),
				Cost:       p.Cost(),
				Assets:     make([]SummaryAsset, 0, len(p.Assets)),
			}
			row.PnL = row.Value.Sub(row.Cost).SignedString()
			for _, a := range p.Assets {
				row.Assets = append(row.Assets, SummaryAsset{
					Name:         a.Name,
					Amount:       a.Amount,
					AvgBuyPrice:  a.AvgBuyPrice,
					CurrentPrice: a.CurrentPrice,
					Value:        a.Value(),
					PnL:          a.Value().Sub(a.Cost()).SignedString(),
				})
			}
			sum.Portfolios = append(sum.Portfolios, row)
			walk(p.Children, depth+1)
		}
	}
	walk(s.RootPortfolios, 0)
	return sum
}
