// Package bitset implements CceMask: a bounded bitset over a compile-time
// capacity, the only bitset flavor the PDCCH engines can use. It
// intentionally does NOT wrap github.com/bits-and-blooms/bitset: that
// library backs its BitSet with a []uint64, so copying one aliases the
// backing array instead of duplicating it. The tree engine in particular
// stores one CceMask per arena node — up to millions per TTI — and must
// copy them by ordinary Go struct assignment with no allocation; a fixed
// array of words is what gives that property. See DESIGN.md for the full
// justification of this standard-library-only package.
package bitset

import (
	"fmt"
	"math/bits"

	"pdcch/containers/internal/invariant"
)

// MaxCCEs is the compile-time capacity: the largest N_CCE,k a CceMask can
// represent. 128 safely exceeds any 3GPP-defined N_CCE,k (the widest
// LTE cell, 100 PRB at CFI=3, stays under 90).
const MaxCCEs = 128

const numWords = MaxCCEs / 64

// CceMask is a bounded bitset of capacity MaxCCEs, configured at
// construction to a smaller, CFI-dependent size. It is a plain value
// type: assigning or passing one by value copies its bits.
type CceMask struct {
	words [numWords]uint64
	size  uint8
}

// New returns a zeroed CceMask configured to hold size bits (size ≤
// MaxCCEs).
func New(size int) CceMask {
	invariant.Check(size >= 0 && size <= MaxCCEs, "bitset: size %d out of range [0,%d]", size, MaxCCEs)
	return CceMask{size: uint8(size)}
}

// Size reports the configured bit count.
func (m CceMask) Size() int {
	return int(m.size)
}

// Get reports whether bit i is set.
func (m CceMask) Get(i int) bool {
	invariant.Check(i >= 0 && i < int(m.size), "bitset: get index %d out of range [0,%d)", i, m.size)
	return m.words[i/64]&(uint64(1)<<(uint(i)%64)) != 0
}

// Set sets or clears bit i.
func (m *CceMask) Set(i int, value bool) {
	invariant.Check(i >= 0 && i < int(m.size), "bitset: set index %d out of range [0,%d)", i, m.size)
	bit := uint64(1) << (uint(i) % 64)
	if value {
		m.words[i/64] |= bit
	} else {
		m.words[i/64] &^= bit
	}
}

// Fill sets [start, start+length) to value, failing if the run runs past
// the configured size.
func (m *CceMask) Fill(start, length int, value bool) error {
	if start < 0 || length < 0 || start+length > int(m.size) {
		return fmt.Errorf("bitset: fill(%d,%d) exceeds size %d", start, length, m.size)
	}
	for i := start; i < start+length; i++ {
		m.Set(i, value)
	}
	return nil
}

// Union returns the bitwise OR of m and other; both must share the same
// configured size.
func (m CceMask) Union(other CceMask) CceMask {
	invariant.Check(m.size == other.size, "bitset: union size mismatch %d vs %d", m.size, other.size)
	var out CceMask
	out.size = m.size
	for i := range out.words {
		out.words[i] = m.words[i] | other.words[i]
	}
	return out
}

// Intersect returns the bitwise AND of m and other; both must share the
// same configured size.
func (m CceMask) Intersect(other CceMask) CceMask {
	invariant.Check(m.size == other.size, "bitset: intersect size mismatch %d vs %d", m.size, other.size)
	var out CceMask
	out.size = m.size
	for i := range out.words {
		out.words[i] = m.words[i] & other.words[i]
	}
	return out
}

// Any reports whether any bit is set.
func (m CceMask) Any() bool {
	for _, w := range m.words {
		if w != 0 {
			return true
		}
	}
	return false
}

// PopCount returns the number of set bits.
func (m CceMask) PopCount() int {
	n := 0
	for _, w := range m.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Equal reports whether m and other have the same size and bits.
func (m CceMask) Equal(other CceMask) bool {
	return m.size == other.size && m.words == other.words
}
