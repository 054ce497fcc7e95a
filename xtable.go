// Package xtable provides a concurrent, expanding, open-addressed hash table
// for 64-bit key/value pairs, built from single-word compare-and-swap and
// sequentially consistent loads.
//
// Growth is cooperative: every operation that touches the table helps move a
// bounded number of entries from the previous generation into the current
// one, so no caller ever blocks on a resize.
//
// Example usage:
//
//	m, err := xtable.Init(xtable.Config{CapacityHint: 1024})
//	if err != nil {
//	    return err
//	}
//	defer m.Destroy()
//
//	m.Add(16, 1)
//	value, found := m.Find(16)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xtable

const (
	// Version of the xtable module.
	Version = "v0.1.0-dev"

	// DefaultCapacityHint is used when Config.CapacityHint is <= 0.
	DefaultCapacityHint = 1024

	// loadFactor is the fraction of a generation's capacity that may be
	// occupied (live entries + tombstones) before it must grow.
	loadFactor = 0.6

	// DefaultMigrationTax is the number of predecessor entries each
	// operation helps assimilate while an expansion is in progress.
	DefaultMigrationTax = 3

	// DefaultMaxCapacity is the largest a single generation is allowed to
	// grow to. Beyond it, expansion is disabled and the table degrades to
	// a fixed-capacity open-addressed table.
	DefaultMaxCapacity = 1 << 31

	// keyAlignment is the 16-byte alignment of pointer keys into aligned
	// allocations, which always leaves the low bit (the assimilation mark)
	// clear. The map itself only rejects keys that are zero or have the low
	// bit set; it does not check this alignment.
	keyAlignment = 0x10
)
