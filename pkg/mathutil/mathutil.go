// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/mgleason/proforma/pkg/constants"
)

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsPositive checks if a value is positive (greater than tolerance)
func IsPositive(val float64) bool {
	return val > constants.CurrencyTolerance
}

// IsNegative checks if a value is negative (less than negative tolerance)
func IsNegative(val float64) bool {
	return val < -constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// WithinRelativeTolerance checks a value against a reference using the larger
// of a relative tolerance and an absolute floor. This is the conformance
// contract for monetary line items against the reference model.
func WithinRelativeTolerance(val, reference, relative, floor float64) bool {
	allowed := math.Max(math.Abs(reference)*relative, floor)
	return math.Abs(val-reference) <= allowed
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
