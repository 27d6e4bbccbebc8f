package armor

// Catalog is an ordered collection of items. Order is input order; the
// exhaustive solver maps catalog position j to bit j of its enumeration mask.
type Catalog []*Item

// Totals holds the summed cost and defense of a set of items.
type Totals struct {
	Cost    int     `json:"cost"`
	Defense float64 `json:"defense"`
}

// Sum returns the total cost and total defense of the catalog. An empty
// catalog sums to zero.
func (c Catalog) Sum() Totals {
	cost, defense := SumItems(c)
	return Totals{Cost: cost, Defense: defense}
}

// SumItems computes the total cost and defense of items.
func SumItems(items Catalog) (int, float64) {
	totalCost := 0
	totalDefense := 0.0
	for _, item := range items {
		totalCost += item.Cost()
		totalDefense += item.Defense()
	}
	return totalCost, totalDefense
}

// Solution is the subset of catalog items chosen by a solver. It references
// the catalog's items rather than copying them.
type Solution struct {
	Items Catalog
}

// TotalCost returns the gold spent by the solution.
func (s Solution) TotalCost() int {
	cost, _ := SumItems(s.Items)
	return cost
}

// TotalDefense returns the defense achieved by the solution.
func (s Solution) TotalDefense() float64 {
	_, defense := SumItems(s.Items)
	return defense
}

// Totals returns both sums at once.
func (s Solution) Totals() Totals {
	return s.Items.Sum()
}

// Len returns the number of chosen items.
func (s Solution) Len() int {
	return len(s.Items)
}

// Empty reports whether nothing was chosen.
func (s Solution) Empty() bool {
	return len(s.Items) == 0
}
