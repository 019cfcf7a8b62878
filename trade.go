package papertrade

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// TradeSide identifies the direction of a trade.
type TradeSide string

const (
	Buy  TradeSide = "buy"
	Sell TradeSide = "sell"
)

// Validation errors surfaced to the caller as rejected operations. The state
// is left untouched when any of them is returned.
var (
	ErrInsufficientCash     = errors.New("insufficient cash")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrAllocationExceeded   = errors.New("allocation exceeds available budget")
	ErrPortfolioNotFound    = errors.New("portfolio not found")
	ErrTradeNotFound        = errors.New("trade not found")
)

// Trade is an immutable ledger entry. The ledger is the source of truth;
// portfolio and asset aggregates are a derived, recomputable cache.
type Trade struct {
	ID          string
	PortfolioID string
	Side        TradeSide
	Asset       string
	Amount      Quantity
	Price       Money
	TotalValue  Money // amount times price, in the base currency
	Fee         Money
	Time        time.Time
	RealizedPnL Money // set only on sells: (price - avgBuyPrice) * amount, fee excluded
}

// NetPnL is the realized profit net of the trade's own fee. It is the figure
// propagated into the target portfolio's allocation and every ancestor's.
func (t Trade) NetPnL() Money { return t.RealizedPnL.Sub(t.Fee) }

// cashEffect is the trade's direct effect on cash: negative for a buy
// (total value plus fee out), positive for a sell (total value minus fee in).
func (t Trade) cashEffect() Money {
	if t.Side == Buy {
		return t.TotalValue.Add(t.Fee).Neg()
	}
	return t.TotalValue.Sub(t.Fee)
}

// TradeIntent is a submission for the executor. Validate rejects malformed
// intents before any state is touched.
type TradeIntent struct {
	PortfolioID string
	Side        TradeSide
	Asset       string
	Amount      Quantity
	Price       Money
	Fee         Money
}

// Validate checks the intent's own fields. Cash and holdings preconditions
// are checked against the state by the executor.
func (i TradeIntent) Validate() error {
	if i.Side != Buy && i.Side != Sell {
		return fmt.Errorf("unknown trade side %q", i.Side)
	}
	if i.PortfolioID == "" {
		return errors.New("trade portfolio id is missing")
	}
	if i.Asset == "" {
		return errors.New("trade asset name is missing")
	}
	if !i.Amount.IsPositive() {
		return fmt.Errorf("trade amount must be positive, got %s", i.Amount)
	}
	if !i.Price.IsPositive() {
		return fmt.Errorf("trade price must be positive, got %s", i.Price)
	}
	if i.Fee.IsNegative() {
		return fmt.Errorf("trade fee cannot be negative, got %s", i.Fee)
	}
	return nil
}

// TotalValue is the amount times the price of the intent.
func (i TradeIntent) TotalValue() Money { return i.Price.Mul(i.Amount) }

// chronological returns a copy of the trades sorted ascending by timestamp.
// The ledger is kept newest-first for display, so every computation that
// replays it must sort first and never rely on storage order.
func chronological(trades []Trade) []Trade {
	out := make([]Trade, len(trades))
	copy(out, trades)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

// scoped filters trades to those applied to any of the given portfolio ids.
func scoped(trades []Trade, ids []string) []Trade {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	var out []Trade
	for _, t := range trades {
		if _, ok := set[t.PortfolioID]; ok {
			out = append(out, t)
		}
	}
	return out
}

// MarshalJSON implements the json.Marshaler interface for Trade.
func (t Trade) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("portfolioId", t.PortfolioID)
	w.Append("side", t.Side)
	w.Append("asset", t.Asset)
	w.Append("amount", t.Amount)
	w.Append("price", t.Price.value)
	w.Append("totalValue", t.TotalValue.value)
	w.Append("fee", t.Fee.value)
	w.Append("time", t.Time.UTC().Format(time.RFC3339Nano))
	if t.Side == Sell {
		w.Append("realizedPnl", t.RealizedPnL.value)
	}
	return w.MarshalJSON()
}
