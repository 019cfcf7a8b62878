package renderer

import (
	"time"

	"github.com/papertrade/papertrade"
)

// PositionsReport is the view model for the positions command.
type PositionsReport struct {
	Date      string           `json:"date"`
	OpenCount int              `json:"openCount"`
	Closed    int              `json:"closedCount"`
	Positions []PositionRow    `json:"positions"`
	Cash      papertrade.Money `json:"cash"`
}

// PositionRow is one reconstructed position, formatted for display.
type PositionRow struct {
	Asset       string              `json:"asset"`
	Portfolio   string              `json:"portfolio"`
	Status      string              `json:"status"`
	Bought      papertrade.Quantity `json:"totalBuyAmount"`
	Remaining   papertrade.Quantity `json:"remaining"`
	AvgBuyPrice papertrade.Money    `json:"avgBuyPrice"`
	RealizedPnL string              `json:"realizedPnl"`
	Trades      int                 `json:"trades"`
	Start       string              `json:"start"`
	End         string              `json:"end,omitempty"`
	Days        int                 `json:"durationDays"`
}

// NewPositionsReport reconstructs positions from the account ledger and
// resolves portfolio ids to display names. Positions whose portfolio was
// deleted keep the raw id.
func NewPositionsReport(s *papertrade.State, now time.Time) *PositionsReport {
	names := portfolioNames(s.RootPortfolios)
	r := &PositionsReport{
		Date:      now.Format("2006-01-02"),
		Cash:      s.Cash,
		Positions: make([]PositionRow, 0),
	}
	for _, pos := range papertrade.Reconstruct(s.TradeHistory, now) {
		name, ok := names[pos.PortfolioID]
		if !ok {
			name = pos.PortfolioID
		}
		row := PositionRow{
			Asset:       pos.Asset,
			Portfolio:   name,
			Status:      string(pos.Status),
			Bought:      pos.TotalBuyAmount,
			Remaining:   pos.Remaining,
			AvgBuyPrice: pos.AvgBuyPrice,
			RealizedPnL: pos.RealizedPnL.SignedString(),
			Trades:      len(pos.Trades),
			Start:       pos.Start.Format("2006-01-02"),
			Days:        pos.DurationDays,
		}
		if pos.Status == papertrade.Closed {
			row.End = pos.End.Format("2006-01-02")
			r.Closed++
		} else {
			r.OpenCount++
		}
		r.Positions = append(r.Positions, row)
	}
	return r
}

// portfolioNames flattens the tree into an id to name index.
func portfolioNames(roots []papertrade.Portfolio) map[string]string {
	names := make(map[string]string)
	var walk func(ps []papertrade.Portfolio)
	walk = func(ps []papertrade.Portfolio) {
		for _, p := range ps {
			names[p.ID] = p.Name
			walk(p.Children)
		}
	}
	walk(roots)
	return names
}
