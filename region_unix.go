//go:build unix

// region_unix.go: anonymous-mmap-backed RegionAllocator (spec §6's "Unix-like
// kernel... anonymous private page mappings" note), grounded directly on the
// reference implementation's alloc_lfht_hdr/free_lfht_hdr
// (original_source/elfht_64/src/lfht.c), which call mmap/munmap with
// PROT_READ|PROT_WRITE and MAP_ANONYMOUS|MAP_PRIVATE.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xtable

import "syscall"

// mmapRegionAllocator obtains regions as anonymous private page mappings.
// Pages returned by mmap are zero-filled by the kernel, satisfying the
// zero-initialization requirement of spec §4.B without a separate pass.
type mmapRegionAllocator struct{}

// NewMmapRegionAllocator returns a RegionAllocator backed by anonymous mmap.
// It is the closest Go equivalent to the reference C implementation's
// allocator and is intended for production deployments that want generations
// backed by real page mappings rather than heap slices.
func NewMmapRegionAllocator() RegionAllocator {
	return mmapRegionAllocator{}
}

func (mmapRegionAllocator) Alloc(bytes uintptr) ([]byte, error) {
	region, err := syscall.Mmap(-1, 0, int(bytes),
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_ANON|syscall.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return region, nil
}

func (mmapRegionAllocator) Free(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	return syscall.Munmap(region)
}
