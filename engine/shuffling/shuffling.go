// Package shuffling implements a placement engine that runs the same
// greedy probe as the sequential package (its own copy, in probe below),
// extended with a single-level
// "kick-out" repair pass that relocates an earlier, conflicting
// placement within its own candidate list before giving up on the new
// DCI.
package shuffling

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

var errNoFit = errors.New("shuffling: no candidate fits, even after repair")

// placement is a committed DCI plus the data the repair pass needs to
// relocate it later: its own mask and the CfiSearchSpace it was placed
// from, so a later conflicting DCI can scan its alternatives.
type placement struct {
	alloc.PdcchAllocation
	mask  bitset.CceMask
	space searchspace.CfiSearchSpace
}

// Engine is the placement engine for one CFI. It implements alloc.Engine.
type Engine struct {
	cceCount   uint8
	placements boundedvec.Vec[placement]
	totalMask  bitset.CceMask
	rng        *rand.Rand
}

var _ alloc.Engine = (*Engine)(nil)

// New returns a reset Engine for a CFI with the given CCE budget.
func New(cceCount uint8, rng *rand.Rand) *Engine {
	e := &Engine{cceCount: cceCount, rng: rng}
	e.Reset()
	return e
}

// Reset implements alloc.Engine.
func (e *Engine) Reset() {
	e.placements = boundedvec.New[placement](alloc.MaxPDCCH)
	e.totalMask = bitset.New(int(e.cceCount))
}

// TryAlloc implements alloc.Engine.
func (e *Engine) TryAlloc(level agg.Level, space searchspace.CfiSearchSpace, id rnti.RNTI) error {
	if e.probe(level, space, id) {
		return nil
	}
	if e.shuffle(level, space, id) {
		return nil
	}
	return errNoFit
}

// probe is the greedy pass: the first thing TryAlloc tries.
func (e *Engine) probe(level agg.Level, space searchspace.CfiSearchSpace, id rnti.RNTI) bool {
	candidates := space[level.Index()]
	k := candidates.Len()
	if k == 0 {
		return false
	}

	start := e.rng.Intn(k)
	for i := 0; i < k; i++ {
		c := candidates.At((start + i) % k)

		allocMask := bitset.New(int(e.cceCount))
		if err := allocMask.Fill(int(c), level.Size(), true); err != nil {
			continue
		}
		if allocMask.Intersect(e.totalMask).Any() {
			continue
		}

		if err := e.commit(level, c, id, allocMask, space); err != nil {
			return false
		}
		return true
	}
	return false
}

// shuffle runs when probe fails: try every candidate of the new DCI in
// order, relocating conflicting earlier placements within their own
// search space before giving up on that candidate.
func (e *Engine) shuffle(level agg.Level, space searchspace.CfiSearchSpace, id rnti.RNTI) bool {
	candidates := space[level.Index()]
	for ci := 0; ci < candidates.Len(); ci++ {
		s := candidates.At(ci)

		allocMask := bitset.New(int(e.cceCount))
		if err := allocMask.Fill(int(s), level.Size(), true); err != nil {
			continue
		}

		allResolved := true
		for idx := 0; idx < e.placements.Len(); idx++ {
			p := e.placements.At(idx)
			if !p.mask.Intersect(allocMask).Any() {
				continue
			}
			if !e.relocate(idx, allocMask) {
				allResolved = false
			}
		}

		if allResolved {
			if err := e.commit(level, s, id, allocMask, space); err != nil {
				return false
			}
			return true
		}
	}
	return false
}

// relocate scans placement idx's own candidate list for an alternative
// start-CCE that conflicts with neither allocMask (the new DCI being
// placed) nor the current total mask, committing the first one found.
func (e *Engine) relocate(idx int, allocMask bitset.CceMask) bool {
	p := e.placements.At(idx)
	altCandidates := p.space[p.AggregationLevel.Index()]

	for ai := 0; ai < altCandidates.Len(); ai++ {
		alt := altCandidates.At(ai)

		tempMask := bitset.New(int(e.cceCount))
		if err := tempMask.Fill(int(alt), p.AggregationLevel.Size(), true); err != nil {
			continue
		}
		if tempMask.Intersect(allocMask).Any() || tempMask.Intersect(e.totalMask).Any() {
			continue
		}

		p.StartCCE = alt
		p.mask = tempMask
		e.placements.Set(idx, p)
		e.rebuildTotalMask()
		return true
	}
	return false
}

// rebuildTotalMask recomputes total_mask from scratch by OR-ing every
// placement's mask, which a relocation can change.
func (e *Engine) rebuildTotalMask() {
	total := bitset.New(int(e.cceCount))
	for i := 0; i < e.placements.Len(); i++ {
		total = total.Union(e.placements.At(i).mask)
	}
	e.totalMask = total
}

func (e *Engine) commit(level agg.Level, startCCE uint8, id rnti.RNTI, allocMask bitset.CceMask, space searchspace.CfiSearchSpace) error {
	if err := e.placements.Push(placement{
		PdcchAllocation: alloc.PdcchAllocation{
			AggregationLevel: level,
			StartCCE:         startCCE,
			RNTI:             id,
		},
		mask:  allocMask,
		space: space,
	}); err != nil {
		return errNoFit
	}
	e.totalMask = e.totalMask.Union(allocMask)
	return nil
}

// Allocations implements alloc.Engine.
func (e *Engine) Allocations() []alloc.PdcchAllocation {
	out := make([]alloc.PdcchAllocation, e.placements.Len())
	for i := range out {
		out[i] = e.placements.At(i).PdcchAllocation
	}
	return out
}

// TotalMask implements alloc.Engine.
func (e *Engine) TotalMask() bitset.CceMask {
	return e.totalMask
}
