// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/coverage-calculator/pkg/constants"
)

// Round rounds a value to the nearest whole currency unit. Halves are rounded
// towards positive infinity, so -2.5 becomes -2 rather than -3.
func Round(val float64) float64 {
	f := math.Floor(val)
	if val-f >= 0.5 {
		f++
	}
	return f
}

// CeilToMultiple rounds a value up to the nearest multiple of step.
func CeilToMultiple(val, step float64) float64 {
	return math.Ceil(val/step) * step
}

// Min returns the minimum of two float64 values
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}
