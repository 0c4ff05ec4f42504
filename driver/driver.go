// Package driver implements the CFI escalator: the shared control logic
// every engine variant (sequential, shuffling, tree) plugs into. Driver
// is generic over the concrete engine type so that Driver[*sequential.Engine],
// Driver[*shuffling.Engine], and Driver[*tree.Engine] are three distinct
// instantiated types rather than one type holding a boxed alloc.Engine
// interface value — no virtual dispatch on the hot path.
package driver

import (
	"pdcch/agg"
	"pdcch/alloc"
	"pdcch/cfi"
	"pdcch/containers/bitset"
	"pdcch/rnti"
	"pdcch/searchspace"
)

// Driver holds one placement engine per CFI value and steps CFI upward
// on failure.
type Driver[E alloc.Engine] struct {
	engines    [cfi.NumCFI]E
	currentCFI cfi.CFI
	dciIndex   uint8
}

// New builds a Driver with one engine per CFI, constructed via newEngine
// with that CFI's N_CCE,k.
func New[E alloc.Engine](cceTable searchspace.CceCountTable, newEngine func(cceCount uint8) E) *Driver[E] {
	d := &Driver[E]{}
	for _, c := range cfi.List() {
		d.engines[c.Index()] = newEngine(cceTable[c.Index()])
	}
	d.NewTTI()
	return d
}

// NewTTI resets CFI to One, the DCI counter to zero, and every engine.
func (d *Driver[E]) NewTTI() {
	d.currentCFI = cfi.One
	d.dciIndex = 0
	for _, c := range cfi.List() {
		d.engines[c.Index()].Reset()
	}
}

// incrementCFI steps the CFI forward: One → Two → Three → fail.
func (d *Driver[E]) incrementCFI() error {
	next, ok := d.currentCFI.Next()
	if !ok {
		return alloc.ErrNoCchSpace
	}
	d.currentCFI = next
	return nil
}

// AllocateDCI tries the current CFI upward, escalating on each engine
// failure, and breaks on the first success rather than continuing to
// iterate past it. The DCI index only advances on success.
func (d *Driver[E]) AllocateDCI(level agg.Level, sfSearchSpace searchspace.SfSearchSpace, id rnti.RNTI) (uint8, error) {
	for {
		engine := d.engines[d.currentCFI.Index()]
		if err := engine.TryAlloc(level, sfSearchSpace[d.currentCFI.Index()], id); err == nil {
			break
		}
		if err := d.incrementCFI(); err != nil {
			return 0, alloc.ErrNoCchSpace
		}
	}

	dciID := d.dciIndex
	d.dciIndex++
	return dciID, nil
}

// GetAllocs delegates to the engine at the current CFI.
func (d *Driver[E]) GetAllocs() ([]alloc.PdcchAllocation, bitset.CceMask, cfi.CFI) {
	engine := d.engines[d.currentCFI.Index()]
	return engine.Allocations(), engine.TotalMask(), d.currentCFI
}

// CurrentCFI reports the CFI the next AllocateDCI call will start from.
func (d *Driver[E]) CurrentCFI() cfi.CFI {
	return d.currentCFI
}
