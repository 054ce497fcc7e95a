// slot.go: the slot protocol (spec §4.C) — the core CAS contract.
//
// A slot is a (key, value) pair of independent 64-bit words, mutated by
// single-word CAS, never as a pair. Grounded directly on the reference
// implementation's lfht_add/lfht_remove/lfht_find
// (original_source/elfht_64/src/lfht.c) and on cache.go's entry type, which
// shows the same "CAS the identity word first, plain-store the payload
// second" discipline this package follows for keys/values instead of
// keys/SeqLock-guarded strings.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xtable

import "sync/atomic"

// tombstone is the reserved value meaning "this key was removed".
const tombstone uint64 = 0

// assimilatedMark is the low bit of the key word: when set, this slot's
// key/value pair has been (or is being) copied to a newer generation.
const assimilatedMark uint64 = 0x1

// slot is a single (key, value) pair inside a generation's table. Its two
// words are never read or written as a pair: every access is an independent
// 64-bit atomic load, store, or CAS on slot.key or slot.value.
type slot struct {
	key   uint64
	value uint64
}

func isAssimilated(key uint64) bool {
	return key&assimilatedMark != 0
}

func markAssimilated(key uint64) uint64 {
	return key | assimilatedMark
}

// loadKey returns the slot's key word with sequentially consistent ordering.
func (s *slot) loadKey() uint64 {
	return atomic.LoadUint64(&s.key)
}

// loadValue returns the slot's value word with sequentially consistent ordering.
func (s *slot) loadValue() uint64 {
	return atomic.LoadUint64(&s.value)
}

// casKey attempts to CAS the slot's key word from old to updated.
func (s *slot) casKey(old, updated uint64) bool {
	return atomic.CompareAndSwapUint64(&s.key, old, updated)
}

// casValue attempts to CAS the slot's value word from old to updated.
func (s *slot) casValue(old, updated uint64) bool {
	return atomic.CompareAndSwapUint64(&s.value, old, updated)
}

// storeValue plain-stores the slot's value word. Only safe to call
// immediately after winning the CAS that claims this slot's key — no other
// writer can yet have observed the key, so the value word is still
// exclusively ours.
func (s *slot) storeValue(v uint64) {
	atomic.StoreUint64(&s.value, v)
}

