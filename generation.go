// generation.go: a single table generation (spec §3 "Generation header", §4.B).
//
// A generation is a fixed-size, power-of-two slot array plus an immutable
// header (capacity, threshold, predecessor link) and two fields that do
// change after publication: count and assimilated. Grounded on
// original_source/elfht_64/include/lfht.h's lfht_hdr_t.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xtable

import (
	"sync/atomic"
	"unsafe"
)

const slotSize = unsafe.Sizeof(slot{})

// generation is one version of the table. It is allocated once at a fixed
// capacity and never resized in place; growth always creates a new
// generation and links it via predecessor.
type generation struct {
	// Immutable after allocation.
	capacity  uint32
	mask      uint32
	threshold uint32
	slots     []slot
	region    []byte // backing memory, passed to RegionAllocator.Free on teardown

	// Mutated after publication.
	count       uint32 // atomic: non-vacant slot count, monotone non-decreasing
	assimilated uint32 // atomic bool (0/1): true once fully drained

	// predecessor is the older generation this one was grown from, or nil
	// for the first generation. It is set at allocation and never cleared,
	// so every generation but the first keeps a link; only the head's
	// predecessor is ever drained.
	predecessor *generation
}

// allocateGeneration obtains a zero-initialized region from allocator sized
// for capacity slots, and returns the generation header overlaying it.
// capacity must already be a power of two.
func allocateGeneration(capacity uint32, predecessor *generation, allocator RegionAllocator) (*generation, error) {
	region, err := allocator.Alloc(uintptr(capacity) * slotSize)
	if err != nil {
		return nil, NewErrRegionAllocFailed(uintptr(capacity)*slotSize, err)
	}

	threshold := uint32(float64(capacity) * loadFactor)
	if threshold < 1 {
		threshold = 1
	}

	return &generation{
		capacity:    capacity,
		mask:        capacity - 1,
		threshold:   threshold,
		slots:       unsafe.Slice((*slot)(unsafe.Pointer(&region[0])), capacity),
		region:      region,
		predecessor: predecessor,
	}, nil
}

// free releases the generation's backing region. Callers must ensure no
// other goroutine can still observe this generation (used only for the
// expander's losing allocation, and for Destroy's final chain teardown).
func (g *generation) free(allocator RegionAllocator) error {
	return allocator.Free(g.region)
}

func (g *generation) loadCount() uint32 {
	return atomic.LoadUint32(&g.count)
}

// incrementCount bumps the live-slot count and reports the new value.
func (g *generation) incrementCount() uint32 {
	return atomic.AddUint32(&g.count, 1)
}

func (g *generation) isAssimilated() bool {
	return atomic.LoadUint32(&g.assimilated) != 0
}

func (g *generation) markAssimilated() {
	atomic.StoreUint32(&g.assimilated, 1)
}

// slotAt returns a pointer to the slot at index i (caller-validated against mask).
func (g *generation) slotAt(i uint32) *slot {
	return &g.slots[i]
}
