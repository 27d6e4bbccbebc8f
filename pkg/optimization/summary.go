// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the outcome of one solver run in a serializable form.
type Summary struct {
	Solver       string        `json:"solver"`
	Budget       int           `json:"budget"`
	Items        []ItemSummary `json:"items"`
	TotalCost    int           `json:"totalCost"`
	TotalDefense float64       `json:"totalDefense"`
	Duration     string        `json:"duration"`
	Notes        []string      `json:"notes,omitempty"`
}

// ItemSummary describes one chosen armor item.
type ItemSummary struct {
	Description string  `json:"description"`
	Cost        int     `json:"cost"`
	Defense     float64 `json:"defense"`
}
