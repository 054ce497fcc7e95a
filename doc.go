// Package xtable provides a concurrent, expanding, open-addressed hash table
// for 64-bit key/value pairs.
//
// # Overview
//
// xtable is designed for workloads that need a growable map shared across
// many goroutines without ever blocking a reader or writer on a resize:
//
//   - Wait-free reads and writes: every Add/Remove/Find terminates in a
//     bounded number of probes plus, at most, helping move a bounded number
//     of entries out of the previous generation.
//   - No stop-the-world rehash: growth allocates a new generation alongside
//     the old one and drains it cooperatively, a few entries per caller.
//   - Single-word CAS only: no 128-bit compare-and-swap anywhere; keys and
//     values are independent 64-bit atomics.
//
// # Quick Start
//
//	import "github.com/lfht/xtable"
//
//	m, err := xtable.Init(xtable.Config{CapacityHint: 1 << 16})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Destroy()
//
//	m.Add(16, 100)
//	if value, found := m.Find(16); found {
//	    fmt.Println(value)
//	}
//	m.Remove(16)
//
// # Key and Value Contract
//
// Keys must be non-zero uint64s with the low bit clear: the low bit is
// reserved internally as the "this entry has moved to a newer generation"
// mark, so 16-byte-aligned pointers, sequence numbers shifted left by one,
// or any other scheme that leaves bit 0 free all work as keys. Values must
// be non-zero; 0 is the tombstone written on Remove. Add/Remove/Find treat a
// contract violation as a no-op failure (false / 0, false) rather than a
// panic, matching a wait-free operation's "never allocate, never block"
// contract — there's nowhere to construct and return a rich error from
// inside the probe loop.
//
// # Growth
//
// A generation expands once its live-slot count crosses 60% of capacity.
// The goroutine that crosses the threshold allocates a new generation at
// twice the capacity, with the current one as its predecessor, and CASes it
// onto the map's head pointer. Exactly one concurrent attempt wins; losers
// free the generation they allocated and continue against whichever
// generation is now current. Growth stops once MaxCapacity is reached: the
// table then degrades to a fixed-capacity probe, and once every slot is
// taken, Add of a new key returns false.
//
// Every Add, Remove, and Find pays a small "migration tax" at the top of
// the call: it moves up to MigrationTax additional entries from the active
// generation's predecessor forward, so the predecessor drains in bounded
// increments rather than all at once. A generation whose predecessor has
// fully drained is marked assimilated; an operation that finishes against a
// generation it later discovers was assimilated underfoot retries against
// a freshly read head, repeating until it completes against a generation
// that has not been assimilated.
//
// # Configuration
//
//	m, err := xtable.Init(xtable.Config{
//	    CapacityHint:     1 << 16,                     // sized at construction only
//	    MigrationTax:     5,                            // entries moved per op while expanding
//	    MaxCapacity:      1 << 24,                      // growth ceiling
//	    RegionAllocator:  xtable.NewMmapRegionAllocator(), // or NewSliceRegionAllocator()
//	    Logger:           myLogger,
//	    MetricsCollector: myCollector,
//	})
//
// MigrationTax and MaxCapacity can also be adjusted on a running Map with
// SetMigrationTax/SetMaxCapacity, or wired to a config file with HotConfig;
// CapacityHint only applies at Init.
//
// # Error Handling
//
// Construction-time failures (Init, region allocation) return structured
// errors built with go-errors, carrying an error code and context:
//
//	m, err := xtable.Init(cfg)
//	if err != nil {
//	    if xtable.IsRegionAllocFailed(err) {
//	        log.Printf("region allocator unavailable: %v", err)
//	    }
//	    return err
//	}
//
// Per-operation calls (Add/Remove/Find) never return an error: they report
// success as a bool, consistent with a data structure that must never block
// to construct an error value.
//
// # Thread Safety
//
// All Map operations are safe for concurrent use from any number of
// goroutines, with no locks anywhere in the hot path:
//
//	m, _ := xtable.Init(xtable.Config{CapacityHint: 1024})
//	go func() { m.Add(2, 1) }()
//	go func() { m.Find(2) }()
//	go func() { m.Remove(2) }()
//	go func() { stats := m.Stats() }()
//
// Destroy is not safe to call concurrently with other operations: callers
// must ensure all operations have quiesced first, the same contract a plain
// map has around close/teardown.
//
// # License
//
// See LICENSE file in the repository.
package xtable
