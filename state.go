package papertrade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State is the root aggregate of a trading account. It is an immutable
// snapshot: every operation is a total function from one snapshot to the
// next, and a rejected operation leaves the receiver untouched. There are no
// locks; correctness rests on installing each new snapshot atomically.
type State struct {
	Cash              Money
	SecondaryCurrency string
	SecondaryRate     decimal.Decimal // units of secondary currency per base unit
	RootPortfolios    []Portfolio
	TradeHistory      []Trade // newest-first for display; computations sort by timestamp
	NetWorthHistory   []NetWorthSnapshot
	SelectedID        string // view-only, not authoritative for computation
}

// NewState creates an account snapshot with the given seed cash.
func NewState(seed Money, at time.Time) *State {
	s := &State{
		Cash:          seed,
		SecondaryRate: decimal.NewFromInt(1),
	}
	return s.recordNetWorth(at)
}

// Currency returns the account's base currency.
func (s *State) Currency() string { return s.Cash.Currency() }

// NetWorth is cash plus the aggregate asset value across the whole tree.
func (s *State) NetWorth() Money {
	total := s.Cash
	for _, p := range s.RootPortfolios {
		total = total.Add(p.Value())
	}
	return total
}

// clone returns a shallow copy; slices are copied on write by the tree
// functions and by the history appends below.
func (s *State) clone() *State {
	next := *s
	return &next
}

// recordNetWorth appends a timestamped total-value snapshot. One entry per
// mutating operation, never deduplicated.
func (s *State) recordNetWorth(at time.Time) *State {
	history := make([]NetWorthSnapshot, len(s.NetWorthHistory), len(s.NetWorthHistory)+1)
	copy(history, s.NetWorthHistory)
	s.NetWorthHistory = append(history, NetWorthSnapshot{Date: at, Value: s.NetWorth()})
	return s
}

// appendTrade prepends the trade to the display-ordered ledger.
func (s *State) appendTrade(t Trade) *State {
	history := make([]Trade, 0, len(s.TradeHistory)+1)
	history = append(history, t)
	s.TradeHistory = append(history, s.TradeHistory...)
	return s
}

// Deposit adds cash to the account.
func (s *State) Deposit(amount Money, at time.Time) (*State, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("deposit amount must be positive, got %s", amount)
	}
	next := s.clone()
	next.Cash = s.Cash.Add(amount)
	return next.recordNetWorth(at), nil
}

// Withdraw removes cash from the account.
func (s *State) Withdraw(amount Money, at time.Time) (*State, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("withdraw amount must be positive, got %s", amount)
	}
	if s.Cash.LessThan(amount) {
		return nil, fmt.Errorf("%w: cannot withdraw %s, cash balance is %s", ErrInsufficientCash, amount, s.Cash)
	}
	next := s.clone()
	next.Cash = s.Cash.Sub(amount)
	return next.recordNetWorth(at), nil
}

// SetSecondaryRate updates the fixed display conversion rate.
func (s *State) SetSecondaryRate(currency string, rate decimal.Decimal) (*State, error) {
	if !rate.IsPositive() {
		return nil, fmt.Errorf("secondary rate must be positive, got %s", rate)
	}
	next := s.clone()
	next.SecondaryCurrency = currency
	next.SecondaryRate = rate
	return next, nil
}

// CreatePortfolio inserts a new node under parentID, or as a root when
// parentID is empty. The new allocation plus existing sibling allocations
// must not exceed the parent's allocation (or total net worth, for roots).
// This is a creation-time check only: allocations drift later via realized
// profit propagation.
func (s *State) CreatePortfolio(parentID, name string, allocation Money) (*State, error) {
	if name == "" {
		return nil, fmt.Errorf("portfolio name is missing")
	}
	if allocation.IsNegative() {
		return nil, fmt.Errorf("portfolio allocation cannot be negative, got %s", allocation)
	}
	budget := s.NetWorth()
	if parentID != "" {
		parent, ok := findPortfolio(s.RootPortfolios, parentID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPortfolioNotFound, parentID)
		}
		budget = parent.Allocation
	}
	committed := siblingAllocations(s.RootPortfolios, parentID)
	if committed.Add(allocation).GreaterThan(budget) {
		return nil, fmt.Errorf("%w: %s plus committed %s exceeds budget %s",
			ErrAllocationExceeded, allocation, committed, budget)
	}
	child := Portfolio{ID: uuid.NewString(), Name: name, Allocation: allocation}
	roots, ok := insertPortfolio(s.RootPortfolios, parentID, child)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPortfolioNotFound, parentID)
	}
	next := s.clone()
	next.RootPortfolios = roots
	return next, nil
}

// EditPortfolio renames and rebudgets a node. Budget constraints against the
// parent and children are deliberately not re-validated here.
func (s *State) EditPortfolio(id, name string, allocation Money) (*State, error) {
	p, ok := findPortfolio(s.RootPortfolios, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPortfolioNotFound, id)
	}
	if name != "" {
		p.Name = name
	}
	if !allocation.IsNegative() {
		p.Allocation = allocation
	}
	roots, _ := replacePortfolio(s.RootPortfolios, p)
	next := s.clone()
	next.RootPortfolios = roots
	return next, nil
}

// DeletePortfolio removes a node and its entire subtree. Its trades remain
// in the ledger; reconstruction treats them as orphans. The selection clears
// when it pointed inside the removed subtree.
func (s *State) DeletePortfolio(id string, at time.Time) (*State, error) {
	p, ok := findPortfolio(s.RootPortfolios, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPortfolioNotFound, id)
	}
	removedIDs := make(map[string]struct{})
	for _, rid := range p.IDs() {
		removedIDs[rid] = struct{}{}
	}
	roots, _ := removePortfolio(s.RootPortfolios, id)
	next := s.clone()
	next.RootPortfolios = roots
	if _, gone := removedIDs[s.SelectedID]; gone {
		next.SelectedID = ""
	}
	return next.recordNetWorth(at), nil
}

// SelectPortfolio records the view selection. It has no effect on any
// computation.
func (s *State) SelectPortfolio(id string) (*State, error) {
	if id != "" {
		if _, ok := findPortfolio(s.RootPortfolios, id); !ok {
			return nil, fmt.Errorf("%w: %s", ErrPortfolioNotFound, id)
		}
	}
	next := s.clone()
	next.SelectedID = id
	return next, nil
}

// SetPrice manually updates the current price of an asset in a portfolio.
func (s *State) SetPrice(portfolioID, asset string, price Money, at time.Time) (*State, error) {
	if !price.IsPositive() {
		return nil, fmt.Errorf("price must be positive, got %s", price)
	}
	p, ok := findPortfolio(s.RootPortfolios, portfolioID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPortfolioNotFound, portfolioID)
	}
	a, ok := p.Asset(asset)
	if !ok {
		return nil, fmt.Errorf("portfolio %q holds no asset %q", p.Name, asset)
	}
	a.CurrentPrice = price
	p = p.withAsset(a)
	roots, _ := replacePortfolio(s.RootPortfolios, p)
	next := s.clone()
	next.RootPortfolios = roots
	return next.recordNetWorth(at), nil
}

// Execute applies a buy or sell trade to the target portfolio. On success it
// returns the next snapshot with updated assets, cash, ledger and net-worth
// history; sells additionally propagate the realized profit net of fee into
// the target's allocation and every ancestor's.
func (s *State) Execute(intent TradeIntent, at time.Time) (*State, error) {
	if err := intent.Validate(); err != nil {
		return nil, err
	}
	p, ok := findPortfolio(s.RootPortfolios, intent.PortfolioID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPortfolioNotFound, intent.PortfolioID)
	}

	trade := Trade{
		ID:          uuid.NewString(),
		PortfolioID: intent.PortfolioID,
		Side:        intent.Side,
		Asset:       intent.Asset,
		Amount:      intent.Amount,
		Price:       intent.Price,
		TotalValue:  intent.TotalValue(),
		Fee:         intent.Fee,
		Time:        at,
	}

	next := s.clone()
	switch intent.Side {
	case Buy:
		cost := trade.TotalValue.Add(trade.Fee)
		if s.Cash.LessThan(cost) {
			return nil, fmt.Errorf("%w: cannot buy for %s, cash balance is %s", ErrInsufficientCash, cost, s.Cash)
		}
		if a, held := p.Asset(intent.Asset); held {
			p = p.withAsset(a.buy(intent.Amount, intent.Price, trade.TotalValue))
		} else {
			p = p.withAsset(Asset{
				ID:           uuid.NewString(),
				Name:         intent.Asset,
				Amount:       intent.Amount,
				AvgBuyPrice:  intent.Price,
				CurrentPrice: intent.Price,
			})
		}
		next.Cash = s.Cash.Sub(cost)
		next.RootPortfolios, _ = replacePortfolio(s.RootPortfolios, p)

	case Sell:
		a, held := p.Asset(intent.Asset)
		if !held {
			return nil, fmt.Errorf("%w: portfolio %q holds no asset %q", ErrInsufficientHoldings, p.Name, intent.Asset)
		}
		if a.Amount.LessThan(intent.Amount) {
			return nil, fmt.Errorf("%w: cannot sell %s of %q, holding is %s",
				ErrInsufficientHoldings, intent.Amount, intent.Asset, a.Amount)
		}
		trade.RealizedPnL = intent.Price.Sub(a.AvgBuyPrice).Mul(intent.Amount)
		if updated, closed := a.sell(intent.Amount, intent.Price); closed {
			p = p.withoutAsset(intent.Asset)
		} else {
			p = p.withAsset(updated)
		}
		next.Cash = s.Cash.Add(trade.TotalValue.Sub(trade.Fee))
		next.RootPortfolios, _ = replacePortfolio(s.RootPortfolios, p)
		next.RootPortfolios = propagatePnL(next.RootPortfolios, intent.PortfolioID, trade.NetPnL())
	}

	return next.appendTrade(trade).recordNetWorth(at), nil
}

// withAsset returns the portfolio with the asset upserted, keyed by name.
func (p Portfolio) withAsset(a Asset) Portfolio {
	assets := make([]Asset, len(p.Assets))
	copy(assets, p.Assets)
	for i, existing := range assets {
		if existing.Name == a.Name {
			assets[i] = a
			p.Assets = assets
			return p
		}
	}
	p.Assets = append(assets, a)
	return p
}

// withoutAsset returns the portfolio with the named asset removed.
func (p Portfolio) withoutAsset(name string) Portfolio {
	assets := make([]Asset, 0, len(p.Assets))
	for _, a := range p.Assets {
		if a.Name != name {
			assets = append(assets, a)
		}
	}
	p.Assets = assets
	return p
}
