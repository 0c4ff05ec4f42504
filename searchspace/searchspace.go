// Package searchspace implements the per-UE search-space hash: a pure
// function from (RNTI, per-CFI CCE counts) to the 10×3×4 table of
// candidate start-CCE lists the placement engines draw from.
//
// The running hash state Y is a single value threaded through the
// subframe → CFI → aggregation-level → location loop nest in that exact
// order and must not be refactored into independent per-cell
// computations, so Calculate below is written as one straight-line walk
// over a single y variable, not as independent calls keyed by
// (sf, cfi, level, m).
package searchspace

import (
	"pdcch/agg"
	"pdcch/cfi"
	"pdcch/containers/boundedvec"
	"pdcch/rnti"

	"github.com/zeebo/xxh3"
)

// NumSubframes is the number of subframes per radio frame the search
// space is computed over.
const NumSubframes = 10

// hash recurrence constants from 3GPP TS 36.213 §9.1.1.
const (
	hashA uint32 = 39827
	hashD uint32 = 65537
)

// CceCountTable gives the number of CCEs available at each CFI, N_CCE,k.
type CceCountTable [cfi.NumCFI]uint8

// CcePositions is the ordered list of up to 6 candidate start-CCE
// indices for one (subframe, CFI, aggregation level).
type CcePositions = boundedvec.Vec[uint8]

// CfiSearchSpace holds the per-aggregation-level candidates for one CFI.
type CfiSearchSpace [agg.NumLevels]CcePositions

// SfSearchSpace holds the per-CFI candidates for one subframe.
type SfSearchSpace [cfi.NumCFI]CfiSearchSpace

// SearchSpace holds the per-subframe candidates for one UE.
type SearchSpace [NumSubframes]SfSearchSpace

// Calculate walks the hash recurrence exactly once per UE: Y advances
// across sf → cfi → level → m in that order, seeded solely from rnti.
func Calculate(id rnti.RNTI, cceCountTable CceCountTable) SearchSpace {
	var space SearchSpace
	y := id.AsSeed()

	for sf := 0; sf < NumSubframes; sf++ {
		for _, c := range cfi.List() {
			cceCount := uint32(cceCountTable[c.Index()])

			for _, level := range agg.List() {
				positions := boundedvec.New[uint8](6)
				sizeU32 := uint32(level.Size())
				m := cceCount / sizeU32
				if m != 0 {
					for loc := uint32(0); loc < uint32(level.LocationCount()); loc++ {
						y = (hashA * y) % hashD
						start := sizeU32 * ((y + loc) % m)
						if err := positions.Push(uint8(start)); err != nil {
							// location_count() ≤ 6 == the vector's capacity;
							// this cannot happen without a data-model bug.
							panic("searchspace: candidate list overflow: " + err.Error())
						}
					}
				}
				space[sf][c.Index()][level.Index()] = positions
			}
		}
	}

	return space
}

// DeterministicSeed hashes (rnti, subframe, cfi) into a reproducible
// uint64 PRNG seed. A caller can use it to build the *rand.Rand handed
// to engine/sequential or engine/shuffling, whose sequence is then
// reproducible across runs, since each engine owns its PRNG explicitly
// rather than drawing from a hidden global one. No package in this
// module calls it; the engines' own tests seed rand.NewSource directly.
func DeterministicSeed(id rnti.RNTI, subframe int, c cfi.CFI) uint64 {
	var buf [5]byte
	buf[0] = byte(id)
	buf[1] = byte(id >> 8)
	buf[2] = byte(subframe)
	buf[3] = byte(subframe >> 8)
	buf[4] = byte(c.Index())
	return xxh3.Hash(buf[:])
}
