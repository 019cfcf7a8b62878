package papertrade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// replayAssets rebuilds the asset list of one portfolio from scratch by
// reapplying, in ascending timestamp order, every trade scoped to that
// portfolio id. It uses the executor's buy and sell rules, so the derived
// asset state is a pure function of the surviving ledger, never of
// incremental patches. A sell against an asset that is not held, or for more
// than is held, is clamped silently: edited history may be inconsistent.
func replayAssets(trades []Trade, portfolioID string) []Asset {
	var assets []Asset
	find := func(name string) int {
		for i, a := range assets {
			if a.Name == name {
				return i
			}
		}
		return -1
	}

	for _, t := range chronological(scoped(trades, []string{portfolioID})) {
		switch t.Side {
		case Buy:
			if i := find(t.Asset); i >= 0 {
				assets[i] = assets[i].buy(t.Amount, t.Price, t.TotalValue)
			} else {
				assets = append(assets, Asset{
					ID:           uuid.NewString(),
					Name:         t.Asset,
					Amount:       t.Amount,
					AvgBuyPrice:  t.Price,
					CurrentPrice: t.Price,
				})
			}
		case Sell:
			i := find(t.Asset)
			if i < 0 {
				continue
			}
			if updated, closed := assets[i].sell(t.Amount, t.Price); closed {
				assets = append(assets[:i], assets[i+1:]...)
			} else {
				assets[i] = updated
			}
		}
	}
	return assets
}

// DeleteTrade removes a historical trade from the ledger and restores
// consistency: the affected portfolio's assets are fully recomputed from the
// surviving scoped ledger, cash is reconciled by reversing only the deleted
// trade's direct effect, and for a deleted sell the allocation propagation
// is reversed along the same ancestor path it originally followed.
//
// The cash reconciliation is an approximation: deposits and withdrawals
// interleaved between the deleted trade and now are not replayed.
func (s *State) DeleteTrade(tradeID string, at time.Time) (*State, error) {
	idx := -1
	for i, t := range s.TradeHistory {
		if t.ID == tradeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrTradeNotFound, tradeID)
	}
	deleted := s.TradeHistory[idx]

	next := s.clone()
	history := make([]Trade, 0, len(s.TradeHistory)-1)
	history = append(history, s.TradeHistory[:idx]...)
	next.TradeHistory = append(history, s.TradeHistory[idx+1:]...)

	// Reverse the deleted trade's direct cash effect.
	next.Cash = s.Cash.Sub(deleted.cashEffect())

	// Recompute the affected portfolio's assets from the surviving ledger.
	if p, ok := findPortfolio(s.RootPortfolios, deleted.PortfolioID); ok {
		rebuilt := replayAssets(next.TradeHistory, deleted.PortfolioID)
		// Carry over observed prices: replay only knows trade prices.
		for i, a := range rebuilt {
			if prev, held := p.Asset(a.Name); held {
				rebuilt[i].CurrentPrice = prev.CurrentPrice
			}
		}
		p.Assets = rebuilt
		next.RootPortfolios, _ = replacePortfolio(s.RootPortfolios, p)
		if deleted.Side == Sell {
			next.RootPortfolios = reversePnL(next.RootPortfolios, deleted.PortfolioID, deleted.NetPnL())
		}
	}

	return next.recordNetWorth(at), nil
}
