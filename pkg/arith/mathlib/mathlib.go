// Package mathlib is the native arithmetic module.
//
// The default build is pure Go. Building with the mathlib_cgo tag links the
// C routines instead; both satisfy the same contract. Add, Sub and Mul wrap
// on overflow (two's complement). Div returns false for a zero divisor and
// leaves the quotient untouched.
package mathlib

// Lib implements arith.Native.
type Lib struct{}

// New returns the native module.
func New() Lib { return Lib{} }

func (Lib) Add(a, b int64) int64 { return addInts(a, b) }
func (Lib) Sub(a, b int64) int64 { return subInts(a, b) }
func (Lib) Mul(a, b int64) int64 { return mulInts(a, b) }

func (Lib) Div(a, b int64, quotient *int64) bool {
	return divInts(a, b, quotient)
}
