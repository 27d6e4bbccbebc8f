package armor

import (
	"fmt"
	"math"
)

// maxTableCells bounds the flat cell slice so its size in bytes (8 per
// float64) fits an int.
const maxTableCells = math.MaxInt / 8

// TableCells returns (n+1)*(budget+1), the number of cells BuildTable
// allocates for n items, or ErrTableTooLarge when that product cannot be
// represented.
func TableCells(n, budget int) (int, error) {
	if n < 0 {
		n = 0
	}
	if budget < 0 {
		return 0, fmt.Errorf("%w: got %d", ErrNegativeBudget, budget)
	}
	rows := n + 1
	if budget >= maxTableCells/rows {
		return 0, fmt.Errorf("%w: %d items with budget %d", ErrTableTooLarge, n, budget)
	}
	return rows * (budget + 1), nil
}

// Table is the dynamic-programming table for one knapsack instance.
//
// Cell (i, j) holds the greatest defense reachable using only the first i
// catalog items with total cost at most j. The empty selection satisfies every
// budget, so every cell is reachable and no sentinel value is ever stored.
//
// Algorithm Outline:
//  1. Let n = len(items). Allocate (n+1)x(budget+1) table T, all zero.
//  2. For i = 1..n, j = 0..budget, with c, v the cost and defense of item i-1:
//     T[i][j] = max(T[i-1][j], T[i-1][j-c] + v)   if c <= j
//     T[i][j] = T[i-1][j]                          otherwise
//  3. The optimal value is T[n][budget].
//  4. Backtrack from (n, budget): when T[i][j] != T[i-1][j] item i-1 was
//     taken and j drops by its cost.
//
// Complexity:
//
//	Time   = O(n·budget)
//	Memory = O(n·budget)
type Table struct {
	items Catalog
	cols  int
	cells []float64
}

// BuildTable fills the dynamic-programming table for items under budget.
func BuildTable(items Catalog, budget int) (*Table, error) {
	n := len(items)
	size, err := TableCells(n, budget)
	if err != nil {
		return nil, err
	}
	for idx, item := range items {
		if item == nil || item.Cost() <= 0 {
			return nil, fmt.Errorf("%w: catalog entry %d", ErrNonPositiveCost, idx)
		}
	}

	cols := budget + 1
	t := &Table{
		items: items,
		cols:  cols,
		cells: make([]float64, size),
	}

	for i := 1; i <= n; i++ {
		c := items[i-1].Cost()
		v := items[i-1].Defense()
		above := t.cells[(i-1)*cols : i*cols]
		row := t.cells[i*cols : (i+1)*cols]
		for j := 0; j < cols; j++ {
			skip := above[j]
			if c <= j {
				if take := above[j-c] + v; take > skip {
					row[j] = take
					continue
				}
			}
			row[j] = skip
		}
	}

	return t, nil
}

// Rows returns n+1.
func (t *Table) Rows() int {
	return len(t.items) + 1
}

// Cols returns budget+1.
func (t *Table) Cols() int {
	return t.cols
}

// Budget returns the budget the table was built for.
func (t *Table) Budget() int {
	return t.cols - 1
}

// At returns cell (i, j). It panics when the indices are out of range.
func (t *Table) At(i, j int) float64 {
	if i < 0 || i >= t.Rows() || j < 0 || j >= t.cols {
		panic(fmt.Sprintf("armor: table index (%d, %d) out of range %dx%d", i, j, t.Rows(), t.cols))
	}
	return t.cells[i*t.cols+j]
}

// Value returns the optimal total defense T[n][budget].
func (t *Table) Value() float64 {
	return t.At(len(t.items), t.Budget())
}

// Solution reconstructs an optimal subset by backtracking from the last cell.
// Items are listed in the order they are discovered, last catalog row first.
func (t *Table) Solution() Solution {
	chosen := make(Catalog, 0)
	j := t.Budget()
	for i := len(t.items); i > 0; i-- {
		if t.At(i, j) != t.At(i-1, j) {
			item := t.items[i-1]
			chosen = append(chosen, item)
			j -= item.Cost()
		}
	}
	return Solution{Items: chosen}
}

// DynamicMaxDefense chooses the subset of items with the greatest total
// defense whose total cost does not exceed budget, using dynamic programming.
func DynamicMaxDefense(items Catalog, budget int) (Solution, error) {
	table, err := BuildTable(items, budget)
	if err != nil {
		return Solution{}, err
	}
	return table.Solution(), nil
}
