package armor

// Filter returns a new catalog holding, in source order, the items whose
// defense lies in the half-open range (minDefense, maxDefense], keeping at
// most limit of them. Later qualifying items are dropped once the limit is
// reached. The source catalog is not modified.
//
// With minDefense >= 0 the lower bound alone removes items with zero or
// negative defense, which can never improve a solution.
func Filter(source Catalog, minDefense, maxDefense float64, limit int) Catalog {
	filtered := make(Catalog, 0)
	if limit <= 0 {
		return filtered
	}

	for _, item := range source {
		if len(filtered) >= limit {
			break
		}
		if minDefense < item.Defense() && item.Defense() <= maxDefense {
			filtered = append(filtered, item)
		}
	}

	return filtered
}
