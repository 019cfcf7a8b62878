package papertrade

// propagatePnL grows the allocation of the target portfolio and of every
// ancestor on the path to the root by the full net amount. The amount is not
// divided between levels: allocation acts as a proxy for deployable capital
// earned by a subtree, so a realized profit compounds the budget at every
// level above it. An ancestor with several profitable descendants therefore
// accumulates the sum of all their realized profits.
func propagatePnL(roots []Portfolio, targetID string, net Money) []Portfolio {
	path, ok := portfolioPath(roots, targetID)
	if !ok {
		return roots
	}
	for _, id := range path {
		p, _ := findPortfolio(roots, id)
		p.Allocation = p.Allocation.Add(net)
		roots, _ = replacePortfolio(roots, p)
	}
	return roots
}

// reversePnL undoes a previous propagation, mirroring propagatePnL exactly:
// the same net amount is subtracted along the same ancestor path. Used when
// a historical sell trade is deleted.
func reversePnL(roots []Portfolio, targetID string, net Money) []Portfolio {
	return propagatePnL(roots, targetID, net.Neg())
}
