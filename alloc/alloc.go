// Package alloc holds the types and capability interface shared by the
// three placement engines and the CFI driver: the PdcchAllocation
// record, the Engine capability every per-CFI placement engine
// implements, and the single boundary error callers ever see.
package alloc

import (
	"errors"

	"pdcch/agg"
	"pdcch/containers/bitset"
	"pdcch/rnti"
	"pdcch/searchspace"
)

// MaxPDCCH is the standard-defined maximum number of DCIs per TTI.
const MaxPDCCH = 16

// ErrNoCchSpace is the single boundary error: the allocator has no
// remaining CFI to escalate to.
var ErrNoCchSpace = errors.New("pdcch: no control-channel space remaining at any CFI")

// PdcchAllocation is one placed DCI.
type PdcchAllocation struct {
	AggregationLevel agg.Level
	StartCCE         uint8
	RNTI             rnti.RNTI
}

// Engine is the capability a per-CFI placement engine exposes: reset,
// attempt one placement, and report the committed state. The three
// engines (sequential, shuffling, tree) each implement Engine as a
// concrete, non-interface-boxed type; driver.Driver is generic over the
// concrete engine type so calls are monomorphized per engine rather than
// dispatched through a shared vtable on the hot path.
type Engine interface {
	// Reset clears all placements and the occupancy mask, per new_tti.
	Reset()

	// TryAlloc attempts to place one DCI of the given aggregation level
	// using the UE's candidates for this engine's CFI. It returns nil on
	// success and a non-nil error (internal to the engine; never
	// ErrNoCchSpace) when no candidate fits.
	TryAlloc(level agg.Level, space searchspace.CfiSearchSpace, id rnti.RNTI) error

	// Allocations returns the placements committed so far, in dci_id
	// order.
	Allocations() []PdcchAllocation

	// TotalMask returns the bitwise union of every placement's mask.
	TotalMask() bitset.CceMask
}
