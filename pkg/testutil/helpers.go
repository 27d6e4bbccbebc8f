// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/max-defense/internal/armor"
	"github.com/iwvelando/max-defense/pkg/optimization"
)

// FindSummary finds a solver summary by solver name in the results slice.
// Returns a pointer to the summary if found, nil otherwise.
func FindSummary(results []optimization.Summary, solver string) *optimization.Summary {
	for i := range results {
		if results[i].Solver == solver {
			return &results[i]
		}
	}
	return nil
}

// SampleCatalog returns the small catalog used across package tests.
// The zero-defense buckler is dropped by the default filter.
func SampleCatalog() armor.Catalog {
	return armor.Catalog{
		armor.MustNewItem("helmet", 3, 4),
		armor.MustNewItem("shield", 4, 5),
		armor.MustNewItem("boots", 2, 3),
		armor.MustNewItem("broken buckler", 1, 0),
	}
}
