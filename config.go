// config.go: configuration for xtable.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xtable

import (
	"github.com/agilira/go-timecache"
)

// Config holds configuration parameters for a Map.
type Config struct {
	// CapacityHint is the slot capacity of the initial generation, rounded
	// up to the next power of two. The generation grows once 60% of those
	// slots are occupied.
	// Construction-time only: changing it later requires a new Map.
	// Default: DefaultCapacityHint.
	CapacityHint int

	// MigrationTax is the number of predecessor entries each operation
	// helps assimilate while an expansion is in progress (spec §4.E).
	// Default: DefaultMigrationTax.
	MigrationTax int

	// MaxCapacity bounds how large a single generation may grow. Beyond
	// it, expansion is disabled (spec §4.D). Default: DefaultMaxCapacity.
	MaxCapacity uint32

	// RegionAllocator supplies the memory regions backing each generation
	// (spec §6). If nil, a slice-backed allocator is used.
	RegionAllocator RegionAllocator

	// Logger is used for debugging and monitoring. Default: NoOpLogger.
	Logger Logger

	// TimeProvider provides current time for metrics timestamps.
	// Default: go-timecache backed system clock.
	TimeProvider TimeProvider

	// MetricsCollector collects operation metrics. Default: NoOpMetricsCollector.
	MetricsCollector MetricsCollector
}

// Validate normalizes a Config in place, applying defaults to unset fields.
// It never returns an error: out-of-range values are clamped to sane
// defaults rather than rejected, matching the teacher library's convention
// of normalization over construction-time validation errors.
func (c *Config) Validate() {
	if c.CapacityHint <= 0 {
		c.CapacityHint = DefaultCapacityHint
	}

	if c.MigrationTax <= 0 {
		c.MigrationTax = DefaultMigrationTax
	}

	if c.MaxCapacity == 0 || c.MaxCapacity > DefaultMaxCapacity {
		c.MaxCapacity = DefaultMaxCapacity
	}

	if c.RegionAllocator == nil {
		c.RegionAllocator = NewSliceRegionAllocator()
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}
}

// DefaultConfig returns a Config with sensible defaults applied.
func DefaultConfig() Config {
	c := Config{}
	c.Validate()
	return c
}

// systemTimeProvider is the default time provider, backed by go-timecache
// for ~121x faster access than time.Now() with zero allocations.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}
