//go:build !mathlib_cgo

package mathlib

import "math"

// Implementation is reported in the startup log.
const Implementation = "go"

func addInts(a, b int64) int64 { return a + b }
func subInts(a, b int64) int64 { return a - b }
func mulInts(a, b int64) int64 { return a * b }

func divInts(a, b int64, quotient *int64) bool {
	if b == 0 {
		return false
	}
	// Go defines MinInt64 / -1 as MinInt64; C does not.
	if a == math.MinInt64 && b == -1 {
		*quotient = math.MinInt64
		return true
	}
	*quotient = a / b
	return true
}
