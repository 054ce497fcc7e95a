// map.go: the Map facade (spec §4.F) — Init/Destroy/Add/Remove/Find/Len/Cap.
//
// Every external operation follows the same shape: read head once, pay the
// migration tax against it, run the slot protocol, then check whether head
// was assimilated underfoot while we were running — if so, the generation
// we just operated on is stale and we retry from a freshly read head (the
// "slow-thread last gasp" of spec §4.F).
//
// Grounded on cache.go's Set/Get/Delete retry-loop shape and on
// original_source/elfht_64/src/lfht.c's lfht_add/lfht_remove/lfht_find.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xtable

import (
	"sync/atomic"
	"unsafe"
)

// Map phase tracks whether an expansion is currently in flight.
const (
	phaseInitial   int32 = iota // no expansion has ever happened
	phaseExpanding              // a newer generation exists, predecessor draining
	phaseExpanded               // predecessor fully drained, steady state
)

// Map is a concurrent, expanding, open-addressed hash table keyed by
// non-zero uint64s with the low bit clear, mapping to non-zero uint64
// values. The zero value is not usable; construct one with Init.
type Map struct {
	head unsafe.Pointer // *generation, atomic

	phase int32 // atomic, one of the phase* constants
	closed int32 // atomic bool

	migrationTax int32  // atomic; hot-reloadable via HotConfig
	maxCapacity  uint32 // atomic; hot-reloadable via HotConfig

	allocator    RegionAllocator
	logger       Logger
	timeProvider TimeProvider
	metrics      MetricsCollector
}

// Init constructs a Map with the given configuration, allocating its first
// generation. Unset fields in config take their documented defaults.
func Init(config Config) (*Map, error) {
	config.Validate()

	capacity := nextPowerOf2(config.CapacityHint)
	first, err := allocateGeneration(capacity, nil, config.RegionAllocator)
	if err != nil {
		return nil, err
	}

	m := &Map{
		migrationTax: int32(config.MigrationTax),
		maxCapacity:  config.MaxCapacity,
		allocator:    config.RegionAllocator,
		logger:       config.Logger,
		timeProvider: config.TimeProvider,
		metrics:      config.MetricsCollector,
	}
	atomic.StorePointer(&m.head, unsafe.Pointer(first))

	m.logger.Info("xtable: map initialized", "capacity", capacity, "migration_tax", config.MigrationTax, "max_capacity", m.maxCapacity)
	return m, nil
}

func (m *Map) loadMigrationTax() int {
	return int(atomic.LoadInt32(&m.migrationTax))
}

// SetMigrationTax adjusts how many predecessor entries each operation helps
// assimilate while an expansion is in progress. Safe to call concurrently
// with running operations; takes effect on the next migration-tax payment.
func (m *Map) SetMigrationTax(tax int) {
	if tax <= 0 {
		tax = DefaultMigrationTax
	}
	atomic.StoreInt32(&m.migrationTax, int32(tax))
}

func (m *Map) loadMaxCapacity() uint32 {
	return atomic.LoadUint32(&m.maxCapacity)
}

// SetMaxCapacity adjusts the ceiling on generation growth. Safe to call
// concurrently; takes effect on the next expansion decision. Shrinking it
// below the current generation's capacity does not shrink the table, it
// only prevents further growth. DefaultMaxCapacity (2^31) is a hard ceiling
// that this knob cannot raise: a generation capacity beyond it would
// overflow the uint32 doubling in the expander.
func (m *Map) SetMaxCapacity(cap uint32) {
	if cap == 0 || cap > DefaultMaxCapacity {
		cap = DefaultMaxCapacity
	}
	atomic.StoreUint32(&m.maxCapacity, cap)
}

// Destroy releases every generation in the chain. The Map must not be used
// afterward; concurrent operations racing with Destroy are not safe, the
// same contract the teacher's Cache.Close carries.
func (m *Map) Destroy() error {
	atomic.StoreInt32(&m.closed, 1)

	g := m.loadHead()
	for g != nil {
		next := g.predecessor
		if err := g.free(m.allocator); err != nil {
			return NewErrInternal("destroy", err)
		}
		g = next
	}
	return nil
}

func (m *Map) loadHead() *generation {
	return (*generation)(atomic.LoadPointer(&m.head))
}

func (m *Map) casHead(old, next *generation) bool {
	return atomic.CompareAndSwapPointer(&m.head, unsafe.Pointer(old), unsafe.Pointer(next))
}

func (m *Map) loadPhase() int32 {
	return atomic.LoadInt32(&m.phase)
}

func (m *Map) storePhase(p int32) {
	atomic.StoreInt32(&m.phase, p)
}

func (m *Map) isClosed() bool {
	return atomic.LoadInt32(&m.closed) != 0
}

// Add inserts key with value, or updates value if key is already present.
// It reports whether the key now holds value, true for both an insert and an
// update; it returns false when the generation has no vacant slot left for a
// new key, or on a closed map. key must be non-zero with
// its low bit clear; value must be non-zero (0 is the tombstone). Either
// violation is treated as a no-op failure rather than a panic, matching the
// map's wait-free, error-return-free operation contract.
func (m *Map) Add(key, value uint64) bool {
	if m.isClosed() || key == 0 || isAssimilated(key) || value == tombstone {
		return false
	}

	began := m.timeProvider.Now()
	ok := m.addRetrying(key, value)
	m.metrics.RecordAdd(m.timeProvider.Now()-began, ok)
	return ok
}

func (m *Map) addRetrying(key, value uint64) bool {
	for {
		head := m.loadHead()
		m.payMigrationTax(head, key)
		ok := m.addSlots(head, key, value)
		if !head.isAssimilated() {
			return ok
		}
		m.metrics.RecordRetry()
	}
}

// addSlots runs the slot-claim/update protocol against gen directly, with no
// migration tax and no staleness retry. Used both by Add (against the
// current head) and by the migrator (to place an entry it just drained into
// the generation replacing the one it came from).
func (m *Map) addSlots(gen *generation, key, value uint64) bool {
	mask := gen.mask
	start := homeIndex(key, mask)
	i := start

	for {
		s := gen.slotAt(i)
		k := s.loadKey()

		if k == 0 {
			if s.casKey(0, key) {
				s.storeValue(value)
				if gen.incrementCount() > gen.threshold {
					m.tryExpand(gen)
				}
				return true
			}
			continue // lost the claim race, re-read this same slot
		}

		if k == key {
			for {
				v := s.loadValue()
				if s.casValue(v, value) {
					return true
				}
			}
		}

		i = (i + 1) & mask
		if i == start {
			return false // table walked fully without a vacant slot
		}
	}
}

// Remove deletes key, reporting whether it was present and not already
// tombstoned.
func (m *Map) Remove(key uint64) bool {
	if m.isClosed() || key == 0 || isAssimilated(key) {
		return false
	}

	began := m.timeProvider.Now()
	ok := m.removeRetrying(key)
	m.metrics.RecordRemove(m.timeProvider.Now()-began, ok)
	return ok
}

func (m *Map) removeRetrying(key uint64) bool {
	for {
		head := m.loadHead()
		m.payMigrationTax(head, key)
		ok := m.removeSlots(head, key)
		if !head.isAssimilated() {
			return ok
		}
		m.metrics.RecordRetry()
	}
}

func (m *Map) removeSlots(gen *generation, key uint64) bool {
	mask := gen.mask
	start := homeIndex(key, mask)
	i := start

	for {
		s := gen.slotAt(i)
		k := s.loadKey()

		if k == 0 {
			return false
		}

		if k == key {
			for {
				v := s.loadValue()
				if v == tombstone {
					return false
				}
				if s.casValue(v, tombstone) {
					return true
				}
			}
		}

		i = (i + 1) & mask
		if i == start {
			return false
		}
	}
}

// Find reports the value stored for key, and whether key is present with a
// non-tombstone value.
func (m *Map) Find(key uint64) (uint64, bool) {
	if m.isClosed() || key == 0 || isAssimilated(key) {
		return 0, false
	}

	began := m.timeProvider.Now()
	v, ok := m.findRetrying(key)
	m.metrics.RecordFind(m.timeProvider.Now()-began, ok)
	return v, ok
}

func (m *Map) findRetrying(key uint64) (uint64, bool) {
	for {
		head := m.loadHead()
		m.payMigrationTax(head, key)
		v, ok := m.findSlots(head, key)
		if !head.isAssimilated() {
			return v, ok
		}
		m.metrics.RecordRetry()
	}
}

func (m *Map) findSlots(gen *generation, key uint64) (uint64, bool) {
	mask := gen.mask
	start := homeIndex(key, mask)
	i := start

	for {
		s := gen.slotAt(i)
		k := s.loadKey()

		if k == 0 {
			return 0, false
		}

		if k == key {
			v := s.loadValue()
			if v == tombstone {
				return 0, false
			}
			return v, true
		}

		i = (i + 1) & mask
		if i == start {
			return 0, false
		}
	}
}

// Len returns the current generation's live-slot counter. Because removed
// keys remain counted until their slot is reclaimed by a future generation,
// this is an upper bound on the number of present keys, not an exact count.
func (m *Map) Len() int {
	return int(m.loadHead().loadCount())
}

// Cap returns the capacity of the current generation.
func (m *Map) Cap() int {
	return int(m.loadHead().capacity)
}
