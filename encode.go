package papertrade

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The snapshot is a plain structured document: nested objects, arrays,
// numbers and strings only, so it can live in any tree-of-scalars store.
// Field order is kept stable by the jsonObjectWriter.

// EncodeState writes the full account snapshot as a single JSON document.
func EncodeState(w io.Writer, s *State) error {
	var o jsonObjectWriter
	o.Append("currency", s.Currency())
	o.Append("cash", s.Cash.value)
	o.Optional("secondaryCurrency", s.SecondaryCurrency)
	o.Append("secondaryRate", s.SecondaryRate)
	o.Optional("selectedPortfolioId", s.SelectedID)
	roots := s.RootPortfolios
	if roots == nil {
		roots = []Portfolio{}
	}
	o.Append("portfolios", roots)
	trades := s.TradeHistory
	if trades == nil {
		trades = []Trade{}
	}
	o.Append("trades", trades)
	history := s.NetWorthHistory
	if history == nil {
		history = []NetWorthSnapshot{}
	}
	o.Append("netWorthHistory", history)

	doc, err := o.MarshalJSON()
	if err != nil {
		return fmt.Errorf("could not encode state: %w", err)
	}
	if _, err := w.Write(doc); err != nil {
		return fmt.Errorf("could not write state: %w", err)
	}
	return nil
}

// raw decoding structs. Monetary fields are persisted as bare numbers in the
// account's base currency and rehydrated with it on load.

type rawAsset struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Amount       Quantity        `json:"amount"`
	AvgBuyPrice  decimal.Decimal `json:"avgBuyPrice"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
}

type rawPortfolio struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Allocation decimal.Decimal `json:"allocation"`
	Assets     []rawAsset      `json:"assets"`
	Children   []rawPortfolio  `json:"children"`
}

type rawTrade struct {
	ID          string          `json:"id"`
	PortfolioID string          `json:"portfolioId"`
	Side        TradeSide       `json:"side"`
	Asset       string          `json:"asset"`
	Amount      Quantity        `json:"amount"`
	Price       decimal.Decimal `json:"price"`
	TotalValue  decimal.Decimal `json:"totalValue"`
	Fee         decimal.Decimal `json:"fee"`
	Time        time.Time       `json:"time"`
	RealizedPnL decimal.Decimal `json:"realizedPnl"`
}

type rawNetWorth struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

type rawState struct {
	Currency          string          `json:"currency"`
	Cash              decimal.Decimal `json:"cash"`
	SecondaryCurrency string          `json:"secondaryCurrency"`
	SecondaryRate     decimal.Decimal `json:"secondaryRate"`
	SelectedID        string          `json:"selectedPortfolioId"`
	Portfolios        []rawPortfolio  `json:"portfolios"`
	Trades            []rawTrade      `json:"trades"`
	NetWorthHistory   []rawNetWorth   `json:"netWorthHistory"`
}

// DecodeState reads a snapshot document and rebuilds the account state.
// Missing fields are migrated best-effort rather than rejected: an absent
// net-worth history is synthesized from current cash and assets, and a zero
// secondary rate defaults to parity.
func DecodeState(r io.Reader) (*State, error) {
	var raw rawState
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("could not decode state: %w", err)
	}

	cur := raw.Currency
	s := &State{
		Cash:              M(raw.Cash, cur),
		SecondaryCurrency: raw.SecondaryCurrency,
		SecondaryRate:     raw.SecondaryRate,
		SelectedID:        raw.SelectedID,
	}
	for _, rp := range raw.Portfolios {
		s.RootPortfolios = append(s.RootPortfolios, rp.portfolio(cur))
	}
	for _, rt := range raw.Trades {
		s.TradeHistory = append(s.TradeHistory, rt.trade(cur))
	}
	for _, rn := range raw.NetWorthHistory {
		s.NetWorthHistory = append(s.NetWorthHistory, NetWorthSnapshot{Date: rn.Date, Value: M(rn.Value, cur)})
	}
	return s.migrate(time.Now()), nil
}

func (rp rawPortfolio) portfolio(cur string) Portfolio {
	p := Portfolio{
		ID:         rp.ID,
		Name:       rp.Name,
		Allocation: M(rp.Allocation, cur),
	}
	for _, ra := range rp.Assets {
		p.Assets = append(p.Assets, Asset{
			ID:           ra.ID,
			Name:         ra.Name,
			Amount:       ra.Amount,
			AvgBuyPrice:  M(ra.AvgBuyPrice, cur),
			CurrentPrice: M(ra.CurrentPrice, cur),
		})
	}
	for _, rc := range rp.Children {
		p.Children = append(p.Children, rc.portfolio(cur))
	}
	return p
}

func (rt rawTrade) trade(cur string) Trade {
	return Trade{
		ID:          rt.ID,
		PortfolioID: rt.PortfolioID,
		Side:        rt.Side,
		Asset:       rt.Asset,
		Amount:      rt.Amount,
		Price:       M(rt.Price, cur),
		TotalValue:  M(rt.TotalValue, cur),
		Fee:         M(rt.Fee, cur),
		Time:        rt.Time,
		RealizedPnL: M(rt.RealizedPnL, cur),
	}
}
