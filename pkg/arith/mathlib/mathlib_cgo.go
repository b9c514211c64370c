//go:build mathlib_cgo

package mathlib

/*
#include <stdint.h>
#include <stdbool.h>

static int64_t add_ints(int64_t a, int64_t b) {
	return (int64_t)((uint64_t)a + (uint64_t)b);
}

static int64_t sub_ints(int64_t a, int64_t b) {
	return (int64_t)((uint64_t)a - (uint64_t)b);
}

static int64_t mul_ints(int64_t a, int64_t b) {
	return (int64_t)((uint64_t)a * (uint64_t)b);
}

static bool div_ints(int64_t a, int64_t b, int64_t *result) {
	if (b == 0) {
		return false;
	}
	if (a == INT64_MIN && b == -1) {
		*result = INT64_MIN;
		return true;
	}
	*result = a / b;
	return true;
}
*/
import "C"

const Implementation = "cgo"

func addInts(a, b int64) int64 { return int64(C.add_ints(C.int64_t(a), C.int64_t(b))) }
func subInts(a, b int64) int64 { return int64(C.sub_ints(C.int64_t(a), C.int64_t(b))) }
func mulInts(a, b int64) int64 { return int64(C.mul_ints(C.int64_t(a), C.int64_t(b))) }

func divInts(a, b int64, quotient *int64) bool {
	var q C.int64_t
	if !bool(C.div_ints(C.int64_t(a), C.int64_t(b), &q)) {
		return false
	}
	*quotient = int64(q)
	return true
}
