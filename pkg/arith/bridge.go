// Package arith routes decoded math expressions to the native arithmetic
// module.
//
// The native side exposes four fixed routines. Every input that could reach
// undefined behaviour on that side (a zero divisor, MinInt64 / -1) is
// rejected here, before the boundary is crossed.
package arith

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrDivisionByZero  = errors.New("division by zero")
	ErrUnknownOperator = errors.New("unknown operator")
	ErrOverflow        = errors.New("quotient overflows int64")

	// ErrNativeBoundary means the native module refused an input the bridge
	// had already validated. It is an internal failure, not a user error.
	ErrNativeBoundary = errors.New("native arithmetic boundary violated")
)

// Native is the contract of the external arithmetic module: three total
// functions and a divide that reports failure through its return flag
// instead of trapping.
type Native interface {
	Add(a, b int64) int64
	Sub(a, b int64) int64
	Mul(a, b int64) int64
	Div(a, b int64, quotient *int64) bool
}

// Operator is one of the four supported symbols.
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
)

// Result is a successful evaluation.
type Result struct {
	Value int64

	// Expression is the human-readable echo "<a> <op> <b> = <value>".
	Expression string
}

// Bridge evaluates expressions against a Native implementation.
type Bridge struct {
	native Native
}

// NewBridge returns a bridge over native.
func NewBridge(native Native) *Bridge {
	return &Bridge{native: native}
}

// Evaluate applies op to a and b.
func (b *Bridge) Evaluate(op string, x, y int64) (Result, error) {
	var value int64

	switch Operator(op) {
	case OpAdd:
		value = b.native.Add(x, y)
	case OpSub:
		value = b.native.Sub(x, y)
	case OpMul:
		value = b.native.Mul(x, y)
	case OpDiv:
		if y == 0 {
			return Result{}, ErrDivisionByZero
		}
		if x == math.MinInt64 && y == -1 {
			return Result{}, ErrOverflow
		}
		if !b.native.Div(x, y, &value) {
			return Result{}, fmt.Errorf("div(%d, %d): %w", x, y, ErrNativeBoundary)
		}
	default:
		return Result{}, fmt.Errorf("%q: %w", op, ErrUnknownOperator)
	}

	return Result{
		Value:      value,
		Expression: fmt.Sprintf("%d %s %d = %d", x, op, y, value),
	}, nil
}

// IsInputError reports whether err is caused by the client's expression
// rather than by the server.
func IsInputError(err error) bool {
	return errors.Is(err, ErrDivisionByZero) ||
		errors.Is(err, ErrUnknownOperator) ||
		errors.Is(err, ErrOverflow)
}
