// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"
)

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// WithinRelativeTolerance checks if two values agree to within tolerance
// scaled by the larger magnitude, falling back to an absolute comparison near zero.
func WithinRelativeTolerance(val1, val2, tolerance float64) bool {
	scale := max(math.Abs(val1), math.Abs(val2), 1)
	return WithinTolerance(val1, val2, tolerance*scale)
}
