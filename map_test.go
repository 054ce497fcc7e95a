// map_test.go: unit tests and benchmarks for Map.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xtable

import (
	"testing"
)

func newTestMap(t *testing.T, capacityHint int) *Map {
	t.Helper()
	m, err := Init(Config{CapacityHint: capacityHint})
	if err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	t.Cleanup(func() { _ = m.Destroy() })
	return m
}

func TestInit_Defaults(t *testing.T) {
	m, err := Init(Config{})
	if err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	defer m.Destroy()

	if m.Cap() != DefaultCapacityHint {
		t.Errorf("Cap() = %d, want %d", m.Cap(), DefaultCapacityHint)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestMap_AddFind_Basic(t *testing.T) {
	m := newTestMap(t, 64)

	if !m.Add(16, 100) {
		t.Fatal("Add should return true for a new key")
	}

	v, found := m.Find(16)
	if !found {
		t.Fatal("expected to find key 16")
	}
	if v != 100 {
		t.Errorf("Find(16) = %d, want 100", v)
	}

	if _, found := m.Find(32); found {
		t.Error("expected not to find key 32")
	}
}

func TestMap_Add_UpdatesExisting(t *testing.T) {
	m := newTestMap(t, 64)

	m.Add(16, 100)
	m.Add(16, 200)

	v, found := m.Find(16)
	if !found || v != 200 {
		t.Errorf("Find(16) = (%d, %v), want (200, true)", v, found)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after update", m.Len())
	}
}

func TestMap_Remove(t *testing.T) {
	m := newTestMap(t, 64)

	m.Add(16, 100)
	if !m.Remove(16) {
		t.Fatal("Remove should return true for a present key")
	}
	if _, found := m.Find(16); found {
		t.Error("expected key to be gone after Remove")
	}
	if m.Remove(16) {
		t.Error("Remove on an already-tombstoned key should return false")
	}
	if m.Remove(9999) {
		t.Error("Remove on a never-inserted key should return false")
	}
}

func TestMap_AddRemoveAddRoundTrip(t *testing.T) {
	m := newTestMap(t, 64)

	m.Add(16, 100)
	m.Remove(16)
	if !m.Add(16, 200) {
		t.Fatal("re-Add after Remove should succeed")
	}
	v, found := m.Find(16)
	if !found || v != 200 {
		t.Errorf("Find(16) = (%d, %v), want (200, true)", v, found)
	}
}

func TestMap_InvalidKeyValueRejected(t *testing.T) {
	m := newTestMap(t, 64)

	if m.Add(0, 1) {
		t.Error("Add with zero key should fail")
	}
	if m.Add(16, 0) {
		t.Error("Add with zero value (tombstone) should fail")
	}
	if m.Add(17, 1) { // low bit set
		t.Error("Add with low-bit-set key should fail")
	}
	if m.Remove(0) {
		t.Error("Remove with zero key should fail")
	}
	if _, found := m.Find(0); found {
		t.Error("Find with zero key should fail")
	}
}

func TestMap_GrowsAcrossThreshold(t *testing.T) {
	m := newTestMap(t, 16) // threshold floor(16*0.6) = 9

	for i := uint64(1); i <= 30; i++ {
		if !m.Add(i*2, i) {
			t.Fatalf("Add(%d) failed", i*2)
		}
	}

	if m.Cap() <= 16 {
		t.Errorf("Cap() = %d, expected growth past initial 16", m.Cap())
	}

	for i := uint64(1); i <= 30; i++ {
		v, found := m.Find(i * 2)
		if !found || v != i {
			t.Errorf("Find(%d) = (%d, %v), want (%d, true)", i*2, v, found, i)
		}
	}
}

func TestMap_MigrationDrainsPredecessor(t *testing.T) {
	m := newTestMap(t, 16)

	for i := uint64(1); i <= 100; i++ {
		m.Add(i*2, i)
	}

	// Enough further operations should fully drain the active generation's
	// immediate predecessor (predecessors are never unlinked while the map
	// is live, per DESIGN.md, only marked assimilated).
	for i := 0; i < 10000; i++ {
		m.Find(2)
	}

	stats := m.Stats()
	if stats.Phase != phaseExpanded {
		t.Errorf("Stats().Phase = %d, want phaseExpanded", stats.Phase)
	}
	// Only the active generation's immediate predecessor is ever drained;
	// a predecessor further back in the chain (left over from a growth
	// spurt that outran migration) is never revisited. That matches
	// original_source/elfht_64: _migrate_table only ever touches hdr->next.
	if len(stats.Generations) > 1 && !stats.Generations[1].Assimilated {
		t.Error("expected the active generation's immediate predecessor to be assimilated")
	}
}

func TestMap_DestroyRejectsFurtherOps(t *testing.T) {
	m, err := Init(Config{CapacityHint: 64})
	if err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	m.Add(16, 1)
	if err := m.Destroy(); err != nil {
		t.Fatalf("Destroy returned error: %v", err)
	}

	if m.Add(32, 1) {
		t.Error("Add after Destroy should fail")
	}
	if _, found := m.Find(16); found {
		t.Error("Find after Destroy should fail")
	}
}

func TestMap_SetMigrationTaxAndMaxCapacity(t *testing.T) {
	m := newTestMap(t, 64)

	m.SetMigrationTax(10)
	if got := m.loadMigrationTax(); got != 10 {
		t.Errorf("loadMigrationTax() = %d, want 10", got)
	}
	m.SetMigrationTax(0) // invalid, falls back to default
	if got := m.loadMigrationTax(); got != DefaultMigrationTax {
		t.Errorf("loadMigrationTax() = %d, want default %d", got, DefaultMigrationTax)
	}

	m.SetMaxCapacity(1024)
	if got := m.loadMaxCapacity(); got != 1024 {
		t.Errorf("loadMaxCapacity() = %d, want 1024", got)
	}
}

func TestMap_SetMaxCapacityClampsAboveCeiling(t *testing.T) {
	m := newTestMap(t, 64)

	// DefaultMaxCapacity (2^31) is a fixed ceiling, not just a default: a
	// generation capacity above it would overflow the uint32 doubling in
	// tryExpand. SetMaxCapacity must clamp rather than accept it verbatim.
	m.SetMaxCapacity(1 << 31 + 1024)
	if got := m.loadMaxCapacity(); got != DefaultMaxCapacity {
		t.Errorf("loadMaxCapacity() = %d, want clamped to %d", got, DefaultMaxCapacity)
	}

	m.SetMaxCapacity(^uint32(0)) // max uint32
	if got := m.loadMaxCapacity(); got != DefaultMaxCapacity {
		t.Errorf("loadMaxCapacity() = %d, want clamped to %d", got, DefaultMaxCapacity)
	}

	// The map must stay usable after the clamp: no overflowed doubling, no
	// panic on the next expansion decision.
	if !m.Add(16, 100) {
		t.Fatal("Add should still succeed after an out-of-range SetMaxCapacity")
	}
	if v, found := m.Find(16); !found || v != 100 {
		t.Errorf("Find(16) = (%d, %v), want (100, true)", v, found)
	}
}

func TestMap_MaxCapacityStopsGrowth(t *testing.T) {
	m, err := Init(Config{CapacityHint: 8, MaxCapacity: 8})
	if err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	defer m.Destroy()

	inserted := 0
	for i := uint64(1); i <= 20; i++ {
		if m.Add(i*2, i) {
			inserted++
		}
	}

	if m.Cap() != 8 {
		t.Errorf("Cap() = %d, want 8 (growth should be capped)", m.Cap())
	}
	if inserted == 0 {
		t.Error("expected at least some inserts to succeed before the table filled")
	}
}

func BenchmarkMap_Add(b *testing.B) {
	m, _ := Init(Config{CapacityHint: 1 << 16})
	defer m.Destroy()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Add(uint64(i+1)*2, uint64(i+1))
	}
}

func BenchmarkMap_Find(b *testing.B) {
	m, _ := Init(Config{CapacityHint: 1 << 16})
	defer m.Destroy()
	for i := 0; i < 1<<14; i++ {
		m.Add(uint64(i+1)*2, uint64(i+1))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Find(uint64(i%(1<<14)+1) * 2)
	}
}

func BenchmarkMap_Add_Parallel(b *testing.B) {
	m, _ := Init(Config{CapacityHint: 1 << 16})
	defer m.Destroy()

	b.RunParallel(func(pb *testing.PB) {
		var i uint64
		for pb.Next() {
			i++
			m.Add(i*2, i)
		}
	})
}
