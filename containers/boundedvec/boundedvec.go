// Package boundedvec implements the fixed-capacity sequence the PDCCH
// core is built on: push, clear, and indexed access, failing on overflow
// instead of growing. The slice-backed storage is allocated once and
// only ever truncated by Clear, never reallocated, so a Vec used on the
// hot path never touches the allocator after construction.
package boundedvec

import (
	"errors"

	"golang.org/x/exp/slices"

	"pdcch/containers/internal/invariant"
)

// ErrFull is returned by Push once the vector is at capacity.
var ErrFull = errors.New("boundedvec: capacity exceeded")

// Vec is a fixed-capacity sequence of T.
type Vec[T any] struct {
	items []T
	cap   int
}

// New returns an empty Vec with room for capacity elements.
func New[T any](capacity int) Vec[T] {
	invariant.Check(capacity > 0, "boundedvec: non-positive capacity %d", capacity)
	return Vec[T]{items: make([]T, 0, capacity), cap: capacity}
}

// Push appends item, returning ErrFull if the vector is already full.
func (v *Vec[T]) Push(item T) error {
	if len(v.items) >= v.cap {
		return ErrFull
	}
	v.items = append(v.items, item)
	return nil
}

// Clear empties the vector without releasing its backing array.
func (v *Vec[T]) Clear() {
	v.items = v.items[:0]
}

// Len reports the number of elements currently stored.
func (v *Vec[T]) Len() int {
	return len(v.items)
}

// Cap reports the fixed capacity.
func (v *Vec[T]) Cap() int {
	return v.cap
}

// At returns the element at index i.
func (v *Vec[T]) At(i int) T {
	invariant.Check(i >= 0 && i < len(v.items), "boundedvec: index %d out of range (len %d)", i, len(v.items))
	return v.items[i]
}

// Set overwrites the element at index i.
func (v *Vec[T]) Set(i int, item T) {
	invariant.Check(i >= 0 && i < len(v.items), "boundedvec: index %d out of range (len %d)", i, len(v.items))
	v.items[i] = item
}

// Items returns the live backing slice; callers must not retain it past
// the next mutating call.
func (v *Vec[T]) Items() []T {
	return v.items
}

// Reverse reverses the vector in place.
func (v *Vec[T]) Reverse() {
	slices.Reverse(v.items)
}

// Clone returns an independent copy with its own backing array.
func (v *Vec[T]) Clone() Vec[T] {
	cp := make([]T, len(v.items), v.cap)
	copy(cp, v.items)
	return Vec[T]{items: cp, cap: v.cap}
}
