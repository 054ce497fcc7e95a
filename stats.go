// stats.go: a point-in-time snapshot of map state (supplemented from
// original_source/elfht_64/src/lfht.c's lfht_dump, which walks the
// generation chain printing per-generation size/count/assimilated).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xtable

// GenerationStats describes one generation in the chain, head first.
type GenerationStats struct {
	Capacity    uint32
	Count       uint32
	Assimilated bool
}

// Stats is a point-in-time snapshot of a Map's internal state. It is
// assembled from plain atomic loads with no cross-field consistency
// guarantee: the map may have moved on between reading one field and the
// next.
type Stats struct {
	// Phase is the current migration phase: phaseInitial, phaseExpanding,
	// or phaseExpanded.
	Phase int32

	// Generations lists every generation currently reachable from head,
	// newest first.
	Generations []GenerationStats

	// Depth is len(Generations): how many generations are in the chain,
	// the active one included.
	Depth int
}

// Stats returns a snapshot of the map's current generation chain.
func (m *Map) Stats() Stats {
	s := Stats{Phase: m.loadPhase()}

	for g := m.loadHead(); g != nil; g = g.predecessor {
		s.Generations = append(s.Generations, GenerationStats{
			Capacity:    g.capacity,
			Count:       g.loadCount(),
			Assimilated: g.isAssimilated(),
		})
	}
	s.Depth = len(s.Generations)

	return s
}
