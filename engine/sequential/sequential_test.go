package sequential

import (
	"math/rand"
	"testing"

	"pdcch/agg"
	"pdcch/cfi"
	"pdcch/rnti"
	"pdcch/searchspace"
)

func newSpace(id rnti.RNTI, table searchspace.CceCountTable) searchspace.CfiSearchSpace {
	return searchspace.Calculate(id, table)[0][cfi.One.Index()]
}

func TestSingleDCIAllocates(t *testing.T) {
	table := searchspace.CceCountTable{6, 12, 18}
	e := New(6, rand.New(rand.NewSource(1)))

	space := newSpace(rnti.RNTI(70), table)
	if err := e.TryAlloc(agg.L1, space, rnti.RNTI(70)); err != nil {
		t.Fatalf("TryAlloc: %v", err)
	}

	allocs := e.Allocations()
	if len(allocs) != 1 {
		t.Fatalf("len(Allocations()) = %d, want 1", len(allocs))
	}
	if allocs[0].RNTI != 70 || allocs[0].AggregationLevel != agg.L1 {
		t.Fatalf("unexpected allocation: %+v", allocs[0])
	}
	if e.TotalMask().PopCount() != 1 {
		t.Fatalf("TotalMask().PopCount() = %d, want 1", e.TotalMask().PopCount())
	}
}

func TestAllocationsStayDisjoint(t *testing.T) {
	table := searchspace.CceCountTable{6, 12, 18}
	e := New(6, rand.New(rand.NewSource(42)))

	placed := 0
	for id := rnti.RNTI(70); id < 70+32; id++ {
		space := newSpace(id, table)
		if err := e.TryAlloc(agg.L1, space, id); err == nil {
			placed++
		}
	}

	if placed == 0 {
		t.Fatalf("expected at least one successful placement")
	}
	if placed > 6 {
		t.Fatalf("placed %d DCIs into a 6-CCE mask, want at most 6", placed)
	}
	if e.TotalMask().PopCount() != placed {
		t.Fatalf("TotalMask().PopCount() = %d, want %d (one CCE per L1 placement)", e.TotalMask().PopCount(), placed)
	}
	if len(e.Allocations()) != placed {
		t.Fatalf("len(Allocations()) = %d, want %d", len(e.Allocations()), placed)
	}
}

func TestResetClearsState(t *testing.T) {
	table := searchspace.CceCountTable{6, 12, 18}
	e := New(6, rand.New(rand.NewSource(7)))

	space := newSpace(rnti.RNTI(70), table)
	if err := e.TryAlloc(agg.L1, space, rnti.RNTI(70)); err != nil {
		t.Fatalf("TryAlloc: %v", err)
	}

	e.Reset()
	if len(e.Allocations()) != 0 {
		t.Fatalf("Allocations() after Reset: len = %d, want 0", len(e.Allocations()))
	}
	if e.TotalMask().PopCount() != 0 {
		t.Fatalf("TotalMask().PopCount() after Reset = %d, want 0", e.TotalMask().PopCount())
	}
}

func TestDeterministicUnderFixedSeed(t *testing.T) {
	table := searchspace.CceCountTable{6, 12, 18}
	run := func(seed int64) []uint8 {
		e := New(6, rand.New(rand.NewSource(seed)))
		var starts []uint8
		for id := rnti.RNTI(70); id < 70+6; id++ {
			space := newSpace(id, table)
			if err := e.TryAlloc(agg.L1, space, id); err == nil {
				starts = append(starts, e.Allocations()[len(e.Allocations())-1].StartCCE)
			}
		}
		return starts
	}

	a := run(99)
	b := run(99)
	if len(a) != len(b) {
		t.Fatalf("run lengths differ under identical seed: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("start CCE at %d differs under identical seed: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestNoCandidatesFailsImmediately(t *testing.T) {
	table := searchspace.CceCountTable{0, 12, 18}
	e := New(0, rand.New(rand.NewSource(1)))
	space := newSpace(rnti.RNTI(1), table)
	if err := e.TryAlloc(agg.L1, space, rnti.RNTI(1)); err == nil {
		t.Fatalf("TryAlloc with zero CCE budget: want error, got nil")
	}
}
