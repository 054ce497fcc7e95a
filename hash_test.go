// hash_test.go: unit tests for Jenkins lookup3 hashing.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xtable

import "testing"

func TestJenkinsMix64_Deterministic(t *testing.T) {
	a := jenkinsMix64(42)
	b := jenkinsMix64(42)
	if a != b {
		t.Errorf("jenkinsMix64 not deterministic: %d != %d", a, b)
	}
}

func TestJenkinsMix64_Distributes(t *testing.T) {
	seen := make(map[uint32]uint64)
	for k := uint64(2); k < 4002; k += 2 {
		h := jenkinsMix64(k)
		if prev, ok := seen[h]; ok {
			t.Logf("hash collision between %d and %d (not necessarily a bug)", prev, k)
		}
		seen[h] = k
	}
	if len(seen) < 1990 {
		t.Errorf("expected reasonable hash distribution, got only %d distinct values from 2000 keys", len(seen))
	}
}

func TestHomeIndex_WithinMask(t *testing.T) {
	mask := uint32(1023) // capacity 1024
	for k := uint64(2); k < 10000; k += 2 {
		idx := homeIndex(k, mask)
		if idx > mask {
			t.Fatalf("homeIndex(%d) = %d exceeds mask %d", k, idx, mask)
		}
	}
}

func TestRot(t *testing.T) {
	if rot(1, 1) != 2 {
		t.Errorf("rot(1,1) = %d, want 2", rot(1, 1))
	}
	// the top bit rotated left by one wraps around to bit 0
	if rot(0x80000000, 1) != 1 {
		t.Errorf("rot(0x80000000,1) = %#x, want 1", rot(0x80000000, 1))
	}
}
