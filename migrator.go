// migrator.go: the migration tax (spec §4.E).
//
// Paid at the top of every externally invoked Add/Remove/Find against the
// active generation's predecessor, moving a bounded number of entries
// forward so no single caller ever pays for a full rehash. Grounded on
// original_source/elfht_64/src/lfht.c's assimilate/_migrate_table.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xtable

// payMigrationTax drains up to m.migrationTax additional entries from head's
// predecessor into head, if head has one and an expansion is in progress.
// It is a no-op once the predecessor has been fully assimilated.
func (m *Map) payMigrationTax(head *generation, key uint64) {
	if m.loadPhase() != phaseExpanding {
		return
	}

	pred := head.predecessor
	if pred == nil {
		return
	}

	moved := m.assimilate(head, pred, key)
	m.metrics.RecordMigrationTax(moved)

	tax := m.loadMigrationTax()
	if moved < tax {
		// Walked the whole predecessor without finding migrationTax more
		// work to do: it's drained. Mark it so the "slow-thread last gasp"
		// check (spec §4.F) can detect stale operations against it, and
		// flip the phase back to steady state if head hasn't moved again
		// underfoot.
		pred.markAssimilated()
		if m.loadHead() == head {
			m.storePhase(phaseExpanded)
		}
	}
}

// assimilate walks pred's table starting at key's home index, moving
// unassimilated entries into head until either migrationTax entries have
// been moved past the point where key's own fate is known, or the whole
// table has been walked. It returns the number of entries it marked
// assimilated (tombstoned entries are marked but not copied, and still count).
//
// A triggering key's own slot (if found) is always finished, even past
// quota, so the caller's own operation never has to re-walk looking for it.
func (m *Map) assimilate(head, pred *generation, key uint64) int {
	if pred.isAssimilated() {
		return 0
	}

	mask := pred.mask
	start := homeIndex(key, mask)
	i := start
	dkey := markAssimilated(key)
	tax := m.loadMigrationTax()

	moved := 0
	success := false
	moveit := false

	for {
		s := pred.slotAt(i)
		k := s.loadKey()

		switch {
		case k == 0 || k == dkey:
			success = true
		case k == key:
			success = true
			moveit = true
		}

		if moveit || moved < tax {
			moveit = false
			if k != 0 && !isAssimilated(k) {
				marked := markAssimilated(k)
				if s.casKey(k, marked) {
					v := s.loadValue()
					if v != tombstone {
						m.addSlots(head, k, v)
					}
					moved++
				}
			}
		} else if success && moved >= tax {
			break
		}

		i = (i + 1) & mask
		if i == start {
			break
		}
	}

	return moved
}
