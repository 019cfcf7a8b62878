package papertrade

// Portfolio is a budget-allocated node in the account hierarchy. It holds
// assets and child portfolios. Each node is owned by exactly one parent, or
// is a root; trees are manipulated exclusively through the pure functions
// below, which return updated copies and never mutate their input.
type Portfolio struct {
	ID         string
	Name       string
	Allocation Money
	Assets     []Asset
	Children   []Portfolio
}

// Asset returns the asset with the given name held directly by this
// portfolio.
func (p Portfolio) Asset(name string) (Asset, bool) {
	for _, a := range p.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return Asset{}, false
}

// Value returns the aggregate market value of the subtree: the sum of
// amount times current price over this portfolio's assets and all
// descendants' assets.
func (p Portfolio) Value() Money {
	var total Money
	for _, a := range p.Assets {
		total = total.Add(a.Value())
	}
	for _, c := range p.Children {
		total = total.Add(c.Value())
	}
	return total
}

// Cost returns the aggregate cost basis of the subtree, the same shape as
// Value but priced at the weighted-average buy price.
func (p Portfolio) Cost() Money {
	var total Money
	for _, a := range p.Assets {
		total = total.Add(a.Cost())
	}
	for _, c := range p.Children {
		total = total.Add(c.Cost())
	}
	return total
}

// IDs returns the flattened id set of the subtree, in depth-first order.
// It is used to scope ledger queries to a portfolio and its descendants.
func (p Portfolio) IDs() []string {
	ids := []string{p.ID}
	for _, c := range p.Children {
		ids = append(ids, c.IDs()...)
	}
	return ids
}

// findPortfolio searches the forest depth-first for the node with the given id.
func findPortfolio(roots []Portfolio, id string) (Portfolio, bool) {
	for _, p := range roots {
		if p.ID == id {
			return p, true
		}
		if found, ok := findPortfolio(p.Children, id); ok {
			return found, true
		}
	}
	return Portfolio{}, false
}

// replacePortfolio returns a forest where the node matching updated.ID has
// been substituted, preserving every other node. It reports whether a match
// was found.
func replacePortfolio(roots []Portfolio, updated Portfolio) ([]Portfolio, bool) {
	out := make([]Portfolio, len(roots))
	copy(out, roots)
	for i, p := range out {
		if p.ID == updated.ID {
			out[i] = updated
			return out, true
		}
		if children, ok := replacePortfolio(p.Children, updated); ok {
			out[i].Children = children
			return out, true
		}
	}
	return roots, false
}

// insertPortfolio appends child to the children of parentID, or to the root
// list when parentID is empty. It reports whether the parent was found.
// Budget validation is the caller's concern, not a structural one.
func insertPortfolio(roots []Portfolio, parentID string, child Portfolio) ([]Portfolio, bool) {
	if parentID == "" {
		out := make([]Portfolio, len(roots), len(roots)+1)
		copy(out, roots)
		return append(out, child), true
	}
	parent, ok := findPortfolio(roots, parentID)
	if !ok {
		return roots, false
	}
	children := make([]Portfolio, len(parent.Children), len(parent.Children)+1)
	copy(children, parent.Children)
	parent.Children = append(children, child)
	return replacePortfolio(roots, parent)
}

// removePortfolio deletes the node with the given id and its entire subtree.
func removePortfolio(roots []Portfolio, id string) ([]Portfolio, bool) {
	for i, p := range roots {
		if p.ID == id {
			out := make([]Portfolio, 0, len(roots)-1)
			out = append(out, roots[:i]...)
			return append(out, roots[i+1:]...), true
		}
		if children, ok := removePortfolio(p.Children, id); ok {
			out := make([]Portfolio, len(roots))
			copy(out, roots)
			out[i].Children = children
			return out, true
		}
	}
	return roots, false
}

// portfolioPath returns the ids along the path from a root down to the node,
// inclusive. The profit propagator walks this path to grow every ancestor's
// allocation.
func portfolioPath(roots []Portfolio, id string) ([]string, bool) {
	for _, p := range roots {
		if p.ID == id {
			return []string{p.ID}, true
		}
		if rest, ok := portfolioPath(p.Children, id); ok {
			return append([]string{p.ID}, rest...), true
		}
	}
	return nil, false
}

// siblingAllocations sums the allocations of the children of parentID, or of
// the root list when parentID is empty.
func siblingAllocations(roots []Portfolio, parentID string) Money {
	var siblings []Portfolio
	if parentID == "" {
		siblings = roots
	} else if parent, ok := findPortfolio(roots, parentID); ok {
		siblings = parent.Children
	}
	var total Money
	for _, s := range siblings {
		total = total.Add(s.Allocation)
	}
	return total
}

// MarshalJSON implements the json.Marshaler interface for Portfolio.
func (p Portfolio) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", p.ID)
	w.Append("name", p.Name)
	w.Append("allocation", p.Allocation.value)
	assets := p.Assets
	if assets == nil {
		assets = []Asset{}
	}
	w.Append("assets", assets)
	children := p.Children
	if children == nil {
		children = []Portfolio{}
	}
	w.Append("children", children)
	return w.MarshalJSON()
}
