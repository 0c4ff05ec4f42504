// Package sequential implements a greedy, randomized-probe placement
// engine: O(K) per DCI, no backtracking.
package sequential

import (
	"errors"
	"math/rand"

	"pdcch/agg"
	"pdcch/alloc"
	"pdcch/containers/bitset"
	"pdcch/containers/boundedvec"
	"pdcch/rnti"
	"pdcch/searchspace"
)

// errNoFit is an internal failure kept out of the public API; the CFI
// driver converts it into an escalation attempt, never surfacing it
// itself.
var errNoFit = errors.New("sequential: no candidate fits")

// Engine is the placement engine for one CFI. It implements alloc.Engine.
type Engine struct {
	cceCount    uint8
	allocations boundedvec.Vec[alloc.PdcchAllocation]
	totalMask   bitset.CceMask
	rng         *rand.Rand
}

var _ alloc.Engine = (*Engine)(nil)

// New returns a reset Engine for a CFI with the given CCE budget, probing
// candidates with rng — an explicit, caller-owned PRNG so placements stay
// reproducible under a fixed seed.
func New(cceCount uint8, rng *rand.Rand) *Engine {
	e := &Engine{cceCount: cceCount, rng: rng}
	e.Reset()
	return e
}

// Reset implements alloc.Engine.
func (e *Engine) Reset() {
	e.allocations = boundedvec.New[alloc.PdcchAllocation](alloc.MaxPDCCH)
	e.totalMask = bitset.New(int(e.cceCount))
}

// TryAlloc implements alloc.Engine.
func (e *Engine) TryAlloc(level agg.Level, space searchspace.CfiSearchSpace, id rnti.RNTI) error {
	candidates := space[level.Index()]
	k := candidates.Len()
	if k == 0 {
		return errNoFit
	}

	start := e.rng.Intn(k)
	for i := 0; i < k; i++ {
		c := candidates.At((start + i) % k)

		allocMask := bitset.New(int(e.cceCount))
		if err := allocMask.Fill(int(c), level.Size(), true); err != nil {
			// An out-of-range fill is a programming error, treated as
			// NoFit for this attempt.
			continue
		}
		if allocMask.Intersect(e.totalMask).Any() {
			continue
		}

		if err := e.allocations.Push(alloc.PdcchAllocation{
			AggregationLevel: level,
			StartCCE:         c,
			RNTI:             id,
		}); err != nil {
			return errNoFit
		}
		e.totalMask = e.totalMask.Union(allocMask)
		return nil
	}

	return errNoFit
}

// Allocations implements alloc.Engine.
func (e *Engine) Allocations() []alloc.PdcchAllocation {
	return e.allocations.Items()
}

// TotalMask implements alloc.Engine.
func (e *Engine) TotalMask() bitset.CceMask {
	return e.totalMask
}
