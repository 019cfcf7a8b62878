package papertrade

import (
	"sort"
	"time"
)

// PositionStatus marks a reconstructed position as still open or fully closed.
type PositionStatus string

const (
	Open   PositionStatus = "OPEN"
	Closed PositionStatus = "CLOSED"
)

// Position is a reconstructed lot grouping consecutive trades for one
// (portfolio, asset) key, from the moment the remaining amount first becomes
// positive until it returns to roughly zero. Positions are derived from the
// ledger on demand and never persisted.
type Position struct {
	PortfolioID    string
	Asset          string
	Status         PositionStatus
	TotalBuyAmount Quantity
	Remaining      Quantity
	AvgBuyPrice    Money
	RealizedPnL    Money
	Trades         []Trade
	Start          time.Time
	End            time.Time // zero while the position is open
	DurationDays   int
}

type positionKey struct {
	portfolioID string
	asset       string
}

// Reconstruct replays the full trade ledger in ascending timestamp order and
// derives the open and closed positions. A sell with no matching open entry
// is skipped: historical data may be inconsistent after manual edits, and
// reconstruction degrades to a no-op rather than failing. The result is
// sorted newest-start-first for display; the algorithm itself depends only
// on the ascending replay order.
func Reconstruct(trades []Trade, now time.Time) []Position {
	open := make(map[positionKey]*Position)
	var out []Position

	for _, t := range chronological(trades) {
		key := positionKey{t.PortfolioID, t.Asset}
		pos := open[key]
		switch t.Side {
		case Buy:
			if pos == nil {
				pos = &Position{
					PortfolioID:    t.PortfolioID,
					Asset:          t.Asset,
					Status:         Open,
					TotalBuyAmount: t.Amount,
					Remaining:      t.Amount,
					AvgBuyPrice:    t.Price,
					Trades:         []Trade{t},
					Start:          t.Time,
				}
				open[key] = pos
				continue
			}
			// Same weighted-average update as the executor.
			newRemaining := pos.Remaining.Add(t.Amount)
			pos.AvgBuyPrice = pos.AvgBuyPrice.Mul(pos.Remaining).Add(t.TotalValue).Div(newRemaining)
			pos.Remaining = newRemaining
			pos.TotalBuyAmount = pos.TotalBuyAmount.Add(t.Amount)
			pos.Trades = append(pos.Trades, t)

		case Sell:
			if pos == nil {
				continue
			}
			tradePnL := t.TotalValue.Sub(pos.AvgBuyPrice.Mul(t.Amount)).Sub(t.Fee)
			pos.RealizedPnL = pos.RealizedPnL.Add(tradePnL)
			pos.Remaining = pos.Remaining.Sub(t.Amount)
			pos.Trades = append(pos.Trades, t)
			if pos.Remaining.IsNegligible() {
				pos.Status = Closed
				pos.End = t.Time
				pos.DurationDays = durationDays(pos.Start, t.Time)
				out = append(out, *pos)
				delete(open, key)
			}
		}
	}

	// Emit what is still open, measured against now.
	for _, pos := range open {
		pos.DurationDays = durationDays(pos.Start, now)
		out = append(out, *pos)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.After(out[j].Start)
	})
	return out
}

// durationDays is the elapsed time between the two instants, in whole days
// rounded up.
func durationDays(start, end time.Time) int {
	d := end.Sub(start)
	if d < 0 {
		d = -d
	}
	const day = 24 * time.Hour
	days := int(d / day)
	if d%day != 0 {
		days++
	}
	return days
}
