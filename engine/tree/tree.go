// Package tree implements an exhaustive, forward-branching placement
// engine: every candidate start-CCE at depth 0 becomes a root, and every
// subsequent DCI fans each surviving path out over its own candidates,
// keeping only paths whose cumulative mask stays disjoint. Any leaf at
// the final depth is a valid placement, since every surviving path has
// the same depth.
package tree

import (
	"errors"

	"pdcch/agg"
	"pdcch/alloc"
	"pdcch/containers/bitset"
	"pdcch/containers/boundedvec"
	"pdcch/containers/interval"
	"pdcch/rnti"
	"pdcch/searchspace"
)

var errNoFit = errors.New("tree: no surviving path at this depth")

// noParent marks a root node: an arena-plus-index back-reference in
// place of an optional pointer.
const noParent = -1

// node is one arena entry: a parent back-reference (or noParent), the
// DCI placed at this node, its own mask, and the cumulative mask along
// the path from the root.
type node struct {
	parent    int
	alloc     alloc.PdcchAllocation
	mask      bitset.CceMask
	totalMask bitset.CceMask
}

// DefaultNodeCapacity bounds the arena for ordinary 16-DCI TTIs without
// reserving the full 2^25-entry worst case under the full branching
// factor; callers expecting denser candidate sets should construct with
// NewWithCapacity instead.
const DefaultNodeCapacity = 1 << 16

// MaxNodeCapacity is the worst-case bound: 2^25 entries, sufficient for
// 10 DCIs under the full branching factor.
const MaxNodeCapacity = 1 << 25

// Engine is the placement engine for one CFI. It implements alloc.Engine.
type Engine struct {
	cceCount   uint8
	allocCount int
	arena      boundedvec.Vec[node]
	lastLayer  interval.Interval
}

var _ alloc.Engine = (*Engine)(nil)

// New returns a reset Engine sized for DefaultNodeCapacity arena nodes.
func New(cceCount uint8) *Engine {
	return NewWithCapacity(cceCount, DefaultNodeCapacity)
}

// NewWithCapacity returns a reset Engine with an arena sized for
// capacity nodes, allocated once here and only ever cleared (not
// reallocated) by Reset.
func NewWithCapacity(cceCount uint8, capacity int) *Engine {
	e := &Engine{cceCount: cceCount, arena: boundedvec.New[node](capacity)}
	e.Reset()
	return e
}

// Reset implements alloc.Engine.
func (e *Engine) Reset() {
	e.allocCount = 0
	e.arena.Clear()
	e.lastLayer = interval.New(0, 0)
}

// TryAlloc implements alloc.Engine.
func (e *Engine) TryAlloc(level agg.Level, space searchspace.CfiSearchSpace, id rnti.RNTI) error {
	candidates := space[level.Index()]
	oldEnd := e.lastLayer.End

	if e.allocCount == 0 {
		for ci := 0; ci < candidates.Len(); ci++ {
			e.tryExpand(noParent, bitset.New(int(e.cceCount)), level, candidates.At(ci), id)
		}
	} else {
		for i := e.lastLayer.Start; i < e.lastLayer.End; i++ {
			parentTotal := e.arena.At(i).totalMask
			for ci := 0; ci < candidates.Len(); ci++ {
				e.tryExpand(i, parentTotal, level, candidates.At(ci), id)
			}
		}
	}

	if e.arena.Len() == oldEnd {
		return errNoFit
	}

	e.lastLayer = interval.New(oldEnd, e.arena.Len())
	e.allocCount++
	return nil
}

// tryExpand pushes one child node for candidate start if it survives
// against parentTotal, silently skipping candidates that don't fit or
// that overflow the arena — the TryAlloc-level frontier-growth check is
// what ultimately reports NoFit.
func (e *Engine) tryExpand(parent int, parentTotal bitset.CceMask, level agg.Level, start uint8, id rnti.RNTI) {
	mask := bitset.New(int(e.cceCount))
	if err := mask.Fill(int(start), level.Size(), true); err != nil {
		return
	}
	if mask.Intersect(parentTotal).Any() {
		return
	}

	_ = e.arena.Push(node{
		parent: parent,
		alloc: alloc.PdcchAllocation{
			AggregationLevel: level,
			StartCCE:         start,
			RNTI:             id,
		},
		mask:      mask,
		totalMask: mask.Union(parentTotal),
	})
}

// Allocations implements alloc.Engine: picks the first (any, since all
// are equally deep) surviving leaf and walks parents back to the root.
func (e *Engine) Allocations() []alloc.PdcchAllocation {
	if e.allocCount == 0 {
		return nil
	}

	out := boundedvec.New[alloc.PdcchAllocation](alloc.MaxPDCCH)
	idx := e.lastLayer.Start
	for idx != noParent {
		n := e.arena.At(idx)
		_ = out.Push(n.alloc)
		idx = n.parent
	}
	out.Reverse()
	return out.Items()
}

// TotalMask implements alloc.Engine.
func (e *Engine) TotalMask() bitset.CceMask {
	if e.allocCount == 0 {
		return bitset.New(int(e.cceCount))
	}
	return e.arena.At(e.lastLayer.Start).totalMask
}
