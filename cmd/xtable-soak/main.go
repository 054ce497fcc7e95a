// main.go implements the xtable soak CLI: it drives a Map with a mix of
// concurrent Add/Remove/Find goroutines for a configured duration, then
// prints a final Stats() snapshot. Useful for exercising growth and
// migration behavior under load outside of `go test`.
//
// Grounded on Voskan-arena-cache/cmd/arena-cache-inspect's flag-driven,
// context-cancelable CLI shape, using flash-flags for argument parsing in
// place of the standard library flag package.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	flashflags "github.com/agilira/flash-flags"

	"github.com/lfht/xtable"
)

type options struct {
	capacityHint int
	migrationTax int
	maxCapacity  int
	workers      int
	keyspace     int
	duration     time.Duration
	json         bool
}

func parseFlags(args []string) (*options, error) {
	fs := flashflags.New("xtable-soak")

	capacityHint := fs.Int("capacity-hint", 1024, "initial generation capacity hint")
	migrationTax := fs.Int("migration-tax", xtable.DefaultMigrationTax, "entries moved per operation while expanding")
	maxCapacity := fs.Int("max-capacity", 1<<20, "growth ceiling")
	workers := fs.Int("workers", 8, "number of concurrent goroutines")
	keyspace := fs.Int("keyspace", 100_000, "number of distinct keys to exercise")
	duration := fs.Duration("duration", 10*time.Second, "how long to run the soak")
	jsonOut := fs.Bool("json", false, "print the final stats snapshot as JSON")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &options{
		capacityHint: *capacityHint,
		migrationTax: *migrationTax,
		maxCapacity:  *maxCapacity,
		workers:      *workers,
		keyspace:     *keyspace,
		duration:     *duration,
		json:         *jsonOut,
	}, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fatal(err)
	}

	m, err := xtable.Init(xtable.Config{
		CapacityHint: opts.capacityHint,
		MigrationTax: opts.migrationTax,
		MaxCapacity:  uint32(opts.maxCapacity),
	})
	if err != nil {
		fatal(err)
	}
	defer m.Destroy()

	ctx, cancel := context.WithTimeout(context.Background(), opts.duration)
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	var adds, removes, finds, hits uint64
	var wg sync.WaitGroup
	wg.Add(opts.workers)

	for w := 0; w < opts.workers; w++ {
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				key := (uint64(rng.Intn(opts.keyspace)) + 1) * 2
				switch rng.Intn(10) {
				case 0, 1:
					m.Remove(key)
					atomic.AddUint64(&removes, 1)
				case 2, 3, 4:
					m.Add(key, key/2)
					atomic.AddUint64(&adds, 1)
				default:
					if _, found := m.Find(key); found {
						atomic.AddUint64(&hits, 1)
					}
					atomic.AddUint64(&finds, 1)
				}
			}
		}(int64(w) + 1)
	}

	wg.Wait()

	stats := m.Stats()
	if opts.json {
		printJSON(stats, adds, removes, finds, hits)
		return
	}
	printText(stats, adds, removes, finds, hits)
}

func printText(stats xtable.Stats, adds, removes, finds, hits uint64) {
	fmt.Printf("operations: add=%d remove=%d find=%d (hits=%d)\n", adds, removes, finds, hits)
	fmt.Printf("phase: %d, generation depth: %d\n", stats.Phase, stats.Depth)
	for i, g := range stats.Generations {
		fmt.Printf("  gen[%d]: capacity=%d count=%d assimilated=%v\n", i, g.Capacity, g.Count, g.Assimilated)
	}
}

func printJSON(stats xtable.Stats, adds, removes, finds, hits uint64) {
	fmt.Printf(`{"add":%d,"remove":%d,"find":%d,"hits":%d,"phase":%d,"depth":%d}`+"\n",
		adds, removes, finds, hits, stats.Phase, stats.Depth)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "xtable-soak:", err)
	os.Exit(1)
}
