// Package armor implements the defense optimizer: the armor item model, the
// candidate filter, and two exact 0/1 knapsack solvers (dynamic programming
// and exhaustive enumeration) that choose the subset of items with the
// greatest total defense within a gold budget.
package armor

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// MaxItemCost is the largest cost NewItem accepts. Keeping costs within 32
// bits means the cost of any subset of up to MaxExhaustiveItems items fits
// in an int without wrapping.
const MaxItemCost = math.MaxInt32

var (
	// ErrEmptyDescription indicates an item was constructed without a description.
	ErrEmptyDescription = errors.New("armor: item description must be non-empty")

	// ErrNonPositiveCost indicates an item cost that is zero or negative.
	ErrNonPositiveCost = errors.New("armor: item cost must be positive")

	// ErrCostTooLarge indicates an item cost above MaxItemCost.
	ErrCostTooLarge = errors.New("armor: item cost too large")

	// ErrNegativeBudget indicates a solver was called with a budget below zero.
	ErrNegativeBudget = errors.New("armor: budget must be non-negative")

	// ErrTableTooLarge indicates a dynamic-programming table whose cell count
	// cannot be allocated.
	ErrTableTooLarge = errors.New("armor: dynamic table too large")

	// ErrTooManyItems indicates the exhaustive solver received more items than
	// it can enumerate with one bit per item.
	ErrTooManyItems = errors.New("armor: too many items for exhaustive search")
)

// Item is one armor piece available for purchase. Items are immutable once
// constructed and are shared by pointer between catalogs and solutions.
type Item struct {
	description string
	cost        int
	defense     float64
}

// NewItem validates the fields and returns a new Item.
func NewItem(description string, cost int, defense float64) (*Item, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrEmptyDescription
	}
	if cost <= 0 {
		return nil, fmt.Errorf("%w: %q costs %d", ErrNonPositiveCost, description, cost)
	}
	if cost > MaxItemCost {
		return nil, fmt.Errorf("%w: %q costs %d, limit %d", ErrCostTooLarge, description, cost, MaxItemCost)
	}
	return &Item{description: description, cost: cost, defense: defense}, nil
}

// MustNewItem is like NewItem but panics on invalid fields.
func MustNewItem(description string, cost int, defense float64) *Item {
	item, err := NewItem(description, cost, defense)
	if err != nil {
		panic(err)
	}
	return item
}

// Description returns the human-readable name, e.g. "enchanted helmet".
func (i *Item) Description() string { return i.description }

// Cost returns the price in gold.
func (i *Item) Cost() int { return i.cost }

// Defense returns the defense points.
func (i *Item) Defense() float64 { return i.defense }

func (i *Item) String() string {
	return fmt.Sprintf("%s (cost=%d, defense=%g)", i.description, i.cost, i.defense)
}
