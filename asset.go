package papertrade

// Asset is a holding of one instrument inside a single portfolio. There is at
// most one Asset per name per portfolio; it is created on the first buy and
// removed when the remaining amount falls at or below Epsilon.
type Asset struct {
	ID           string
	Name         string
	Amount       Quantity
	AvgBuyPrice  Money // weighted-average cost per unit
	CurrentPrice Money // last observed or entered price, independent of cost basis
}

// Value returns amount times the current price.
func (a Asset) Value() Money { return a.CurrentPrice.Mul(a.Amount) }

// Cost returns the cost basis, amount times the weighted-average buy price.
func (a Asset) Cost() Money { return a.AvgBuyPrice.Mul(a.Amount) }

// buy folds a purchase into the asset: the amount grows, the average buy
// price becomes the weighted average of the old basis and the new total
// value, and the current price is set to the trade price.
func (a Asset) buy(amount Quantity, price, totalValue Money) Asset {
	newAmount := a.Amount.Add(amount)
	a.AvgBuyPrice = a.Cost().Add(totalValue).Div(newAmount)
	a.Amount = newAmount
	a.CurrentPrice = price
	return a
}

// sell reduces the amount and refreshes the current price. The average buy
// price is unchanged: the cost basis of the remaining units is unaffected by
// a sale. closed reports that the remaining amount is negligible and the
// asset must be removed from the portfolio.
func (a Asset) sell(amount Quantity, price Money) (updated Asset, closed bool) {
	remaining := a.Amount.Sub(amount)
	if remaining.IsNegligible() {
		return a, true
	}
	a.Amount = remaining
	a.CurrentPrice = price
	return a, false
}

// MarshalJSON implements the json.Marshaler interface for Asset.
func (a Asset) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", a.ID)
	w.Append("name", a.Name)
	w.Append("amount", a.Amount)
	w.Append("avgBuyPrice", a.AvgBuyPrice.value)
	w.Append("currentPrice", a.CurrentPrice.value)
	return w.MarshalJSON()
}
