// Package interval implements the half-open index range the tree engine
// uses to track its current arena frontier. The bound is just the Go int
// range, so the type needs no compile-time bound parameter.
package interval

import "pdcch/containers/internal/invariant"

// Interval is the half-open range [Start, End).
type Interval struct {
	Start, End int
}

// New returns [start, end). end must be ≥ start.
func New(start, end int) Interval {
	invariant.Check(end >= start, "interval: end %d before start %d", end, start)
	return Interval{Start: start, End: end}
}

// Len returns the number of indices covered.
func (iv Interval) Len() int {
	return iv.End - iv.Start
}

// Range returns the indices [Start, End) for iteration.
func (iv Interval) Range() []int {
	idx := make([]int, iv.Len())
	for i := range idx {
		idx[i] = iv.Start + i
	}
	return idx
}
