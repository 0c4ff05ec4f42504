// Package invariant holds the panic-based programming-error checks shared
// by the container packages: these fire only on conditions that can only
// arise from a bug in the calling code, never on ordinary runtime
// failures, which are always reported as plain errors instead.
package invariant

import "fmt"

// Check panics if cond is false. Callers reserve this for conditions that
// can only arise from a programming error (bad capacity, negative index),
// never from normal allocation failure.
func Check(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
