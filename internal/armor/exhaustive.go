package armor

import "fmt"

// MaxExhaustiveItems is the largest catalog ExhaustiveMaxDefense accepts.
// Each item occupies one bit of a uint64 enumeration mask.
const MaxExhaustiveItems = 63

// ExhaustiveMaxDefense chooses the subset of items with the greatest total
// defense whose total cost does not exceed budget by trying every subset.
//
// Subsets are enumerated by mask from 0 to 2^n-1, item j belonging to the
// candidate iff bit j is set. A candidate replaces the current best only when
// its defense is strictly greater and it fits the budget, so among equally
// good subsets the one with the lowest mask wins. The starting best is the
// empty subset.
//
// Time complexity: O(2^n · n). Intended for small, filtered catalogs.
func ExhaustiveMaxDefense(items Catalog, budget float64) (Solution, error) {
	n := len(items)
	if n > MaxExhaustiveItems {
		return Solution{}, fmt.Errorf("%w: got %d, limit %d", ErrTooManyItems, n, MaxExhaustiveItems)
	}
	if budget < 0 {
		return Solution{}, fmt.Errorf("%w: got %g", ErrNegativeBudget, budget)
	}

	best := make(Catalog, 0)
	bestDefense := 0.0

	subsets := uint64(1) << uint(n)
	candidate := make(Catalog, 0, n)
	for mask := uint64(0); mask < subsets; mask++ {
		candidate = candidate[:0]
		cost, defense := 0.0, 0.0
		fits := true
		for j := 0; j < n; j++ {
			if mask&(uint64(1)<<uint(j)) == 0 {
				continue
			}
			// Drop the candidate once its running cost leaves the budget.
			cost += float64(items[j].Cost())
			if cost > budget {
				fits = false
				break
			}
			defense += items[j].Defense()
			candidate = append(candidate, items[j])
		}

		if fits && defense > bestDefense {
			best = append(best[:0], candidate...)
			bestDefense = defense
		}
	}

	return Solution{Items: best}, nil
}
