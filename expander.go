// expander.go: the expander (spec §4.D).
//
// Fired from Add whenever a generation's count crosses its threshold and
// capacity has not reached MaxCapacity. At most one goroutine's CAS on the
// map's head wins per generational step; the loser frees the generation it
// allocated and the caller carries on against whichever generation is now
// current.
//
// Grounded on original_source/elfht_64/src/lfht.c's _grow_table.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xtable

// tryExpand attempts to publish a new generation at 2x the capacity of old,
// with old as its predecessor. It is a best-effort operation: failure (lost
// race, allocator error, or MaxCapacity reached) is not an error condition,
// it simply means the caller keeps operating on the current head.
func (m *Map) tryExpand(old *generation) {
	maxCapacity := m.loadMaxCapacity()
	if old.capacity >= maxCapacity {
		return
	}

	if m.loadHead() != old {
		// Someone else already grew the table past `old`.
		return
	}

	// Capacities stay powers of two, so a doubling that would exceed
	// maxCapacity is not done at all. With maxCapacity held at or below
	// DefaultMaxCapacity (2^31) by Config.Validate and SetMaxCapacity,
	// old.capacity*2 never overflows uint32.
	if old.capacity > maxCapacity/2 {
		return
	}
	newCapacity := old.capacity * 2

	next, err := allocateGeneration(newCapacity, old, m.allocator)
	if err != nil {
		// Allocation failure aborts this particular expansion; the map
		// keeps operating on `old`, which may mean longer probe chains
		// (spec §4 "Failure semantics").
		m.logger.Warn("xtable: generation allocation failed", "capacity", newCapacity, "error", err)
		return
	}

	if !m.casHead(old, next) {
		_ = next.free(m.allocator)
		return
	}

	m.storePhase(phaseExpanding)
	m.metrics.RecordExpansion(old.capacity, next.capacity)
}
