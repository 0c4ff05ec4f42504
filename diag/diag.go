// Package diag holds benchmark-only diagnostics: a per-RNTI allocation
// audit trail and a whole-run CCE occupancy heatmap. Neither is on the
// core allocator's hot path — both are built and queried only by
// cmd/pdcchbench, after a TTI's driver.GetAllocs call returns, which is
// why they can afford the allocating, slice-backed third-party types
// (go-immutable-radix, bits-and-blooms/bitset) the core's own containers
// packages avoid.
package diag

import (
	"strconv"

	iradix "github.com/hashicorp/go-immutable-radix"

	blbitset "github.com/bits-and-blooms/bitset"

	"pdcch/alloc"
	corebitset "pdcch/containers/bitset"
	"pdcch/rnti"
)

// Entry is one recorded placement, timestamped by the TTI it landed in.
type Entry struct {
	TTI        int
	Allocation alloc.PdcchAllocation
}

// AuditLog keeps the last perRNTI placements for each RNTI seen, keyed by
// the RNTI's decimal string in an immutable radix tree — each Record call
// produces a new tree sharing structure with the last, so a harness can
// hold onto a snapshot from an earlier TTI without it mutating under it.
type AuditLog struct {
	tree    *iradix.Tree
	perRNTI int
}

// NewAuditLog returns an empty log retaining at most perRNTI entries per
// RNTI.
func NewAuditLog(perRNTI int) *AuditLog {
	return &AuditLog{tree: iradix.New(), perRNTI: perRNTI}
}

// Record appends one placement to id's history, trimming to perRNTI
// entries.
func (a *AuditLog) Record(id rnti.RNTI, tti int, placement alloc.PdcchAllocation) {
	key := []byte(strconv.Itoa(int(id)))

	var history []Entry
	if v, ok := a.tree.Get(key); ok {
		history = v.([]Entry)
	}
	history = append(history, Entry{TTI: tti, Allocation: placement})
	if len(history) > a.perRNTI {
		history = history[len(history)-a.perRNTI:]
	}

	newTree, _, _ := a.tree.Insert(key, history)
	a.tree = newTree
}

// History returns id's recorded placements, oldest first.
func (a *AuditLog) History(id rnti.RNTI) []Entry {
	v, ok := a.tree.Get([]byte(strconv.Itoa(int(id))))
	if !ok {
		return nil
	}
	return v.([]Entry)
}

// TrackedUEs returns the number of distinct RNTIs with recorded history.
func (a *AuditLog) TrackedUEs() int {
	return a.tree.Len()
}

// OccupancyHeatmap accumulates, over a whole benchmark run, which CCE
// indices were ever occupied by a successful placement.
type OccupancyHeatmap struct {
	seen *blbitset.BitSet
}

// NewOccupancyHeatmap returns an empty heatmap over [0, capacity).
func NewOccupancyHeatmap(capacity uint) *OccupancyHeatmap {
	return &OccupancyHeatmap{seen: blbitset.New(capacity)}
}

// Record folds one TTI's total occupancy mask into the heatmap.
func (h *OccupancyHeatmap) Record(mask corebitset.CceMask) {
	for i := 0; i < mask.Size(); i++ {
		if mask.Get(i) {
			h.seen.Set(uint(i))
		}
	}
}

// EverUsedCount reports how many distinct CCE indices were occupied at
// least once across every recorded TTI.
func (h *OccupancyHeatmap) EverUsedCount() int {
	return int(h.seen.Count())
}
