package diag

import (
	"testing"

	"pdcch/agg"
	"pdcch/alloc"
	"pdcch/containers/bitset"
	"pdcch/rnti"
)

func TestAuditLogRetainsRecentEntriesPerRNTI(t *testing.T) {
	log := NewAuditLog(2)
	id := rnti.RNTI(70)

	for tti := 0; tti < 3; tti++ {
		log.Record(id, tti, alloc.PdcchAllocation{AggregationLevel: agg.L1, StartCCE: uint8(tti), RNTI: id})
	}

	history := log.History(id)
	if len(history) != 2 {
		t.Fatalf("len(History()) = %d, want 2 (capped at perRNTI)", len(history))
	}
	if history[0].TTI != 1 || history[1].TTI != 2 {
		t.Fatalf("History() = %+v, want TTIs [1, 2]", history)
	}
}

func TestAuditLogTracksDistinctRNTIs(t *testing.T) {
	log := NewAuditLog(4)
	log.Record(rnti.RNTI(70), 0, alloc.PdcchAllocation{RNTI: 70})
	log.Record(rnti.RNTI(71), 0, alloc.PdcchAllocation{RNTI: 71})
	log.Record(rnti.RNTI(70), 1, alloc.PdcchAllocation{RNTI: 70})

	if log.TrackedUEs() != 2 {
		t.Fatalf("TrackedUEs() = %d, want 2", log.TrackedUEs())
	}
	if len(log.History(rnti.RNTI(72))) != 0 {
		t.Fatalf("History() for an unseen RNTI: want empty")
	}
}

func TestOccupancyHeatmapAccumulatesAcrossTTIs(t *testing.T) {
	h := NewOccupancyHeatmap(8)

	m1 := bitset.New(8)
	_ = m1.Fill(0, 2, true)
	h.Record(m1)

	m2 := bitset.New(8)
	_ = m2.Fill(4, 1, true)
	h.Record(m2)

	if h.EverUsedCount() != 3 {
		t.Fatalf("EverUsedCount() = %d, want 3", h.EverUsedCount())
	}

	// Recording an all-zero mask must not shrink the accumulated count.
	h.Record(bitset.New(8))
	if h.EverUsedCount() != 3 {
		t.Fatalf("EverUsedCount() after empty mask = %d, want 3", h.EverUsedCount())
	}
}
