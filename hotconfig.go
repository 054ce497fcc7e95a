// hotconfig.go: dynamic configuration with Argus integration.
//
// Grounded on hot-reload.go's HotConfig/HotConfigOptions/UniversalConfigWatcher
// pattern. Only migration_tax and max_capacity are hot-reloadable: both are
// read fresh on every operation, so a file-driven change takes effect without
// disruption. capacity_hint sizes the first generation at Init time and, like
// the teacher's MaxSize, can't be applied without reconstructing the Map.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xtable

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// HotConfig watches a configuration file and applies migration_tax and
// max_capacity changes to a running Map as they're detected.
type HotConfig struct {
	m       *Map
	watcher *argus.Watcher
	mu      sync.RWMutex

	migrationTax int
	maxCapacity  uint32

	// OnReload is called after a configuration change has been applied.
	// Optional; must be fast and non-blocking.
	OnReload func(oldTax int, oldMaxCapacity uint32, newTax int, newMaxCapacity uint32)
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch. Supports
	// JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	OnReload func(oldTax int, oldMaxCapacity uint32, newTax int, newMaxCapacity uint32)

	// Logger for hot reload operations. If nil, uses NoOpLogger.
	Logger Logger
}

// NewHotConfig creates a hot-reloadable configuration wrapper for m and
// starts watching opts.ConfigPath immediately.
//
// Example configuration file (YAML):
//
//	xtable:
//	  migration_tax: 5
//	  max_capacity: 4194304
//
// Supported configuration keys:
//   - xtable.migration_tax (int): entries each operation helps assimilate
//   - xtable.max_capacity (int): ceiling on generation growth
func NewHotConfig(m *Map, opts HotConfigOptions) (*HotConfig, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	if opts.Logger == nil {
		opts.Logger = NoOpLogger{}
	}

	hc := &HotConfig{
		m:            m,
		OnReload:     opts.OnReload,
		migrationTax: m.loadMigrationTax(),
		maxCapacity:  m.loadMaxCapacity(),
	}

	argusConfig := argus.Config{
		PollInterval: opts.PollInterval,
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
func (hc *HotConfig) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotConfig) Stop() error {
	return hc.watcher.Stop()
}

// Current returns the migration tax and max capacity HotConfig last applied.
func (hc *HotConfig) Current() (migrationTax int, maxCapacity uint32) {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.migrationTax, hc.maxCapacity
}

func (hc *HotConfig) handleConfigChange(configData map[string]interface{}) {
	hc.mu.Lock()
	oldTax, oldMax := hc.migrationTax, hc.maxCapacity
	newTax, newMax := hc.parseConfig(configData, oldTax, oldMax)
	hc.migrationTax, hc.maxCapacity = newTax, newMax
	hc.mu.Unlock()

	if newTax != oldTax {
		hc.m.SetMigrationTax(newTax)
	}
	if newMax != oldMax {
		hc.m.SetMaxCapacity(newMax)
	}

	if hc.OnReload != nil {
		hc.OnReload(oldTax, oldMax, newTax, newMax)
	}
}

func parsePositiveInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		if v > 0 {
			return v, true
		}
	case float64:
		if v > 0 {
			return int(v), true
		}
	}
	return 0, false
}

// parseIntInRange extracts an integer within the specified range [min, max].
// Supports both int and float64 types, matching the dynamic typing JSON/YAML
// decoders hand back through Argus.
func parseIntInRange(value interface{}, min, max int) (int, bool) {
	switch v := value.(type) {
	case int:
		if v >= min && v <= max {
			return v, true
		}
	case float64:
		if v >= float64(min) && v <= float64(max) {
			return int(v), true
		}
	}
	return 0, false
}

// parseConfig extracts migration_tax/max_capacity from Argus config data,
// falling back to the previously applied values for anything missing or
// malformed. max_capacity is range-checked against DefaultMaxCapacity: that
// ceiling is fixed by spec, not just a default, since a generation capacity
// beyond it would overflow the uint32 doubling in the expander.
func (hc *HotConfig) parseConfig(data map[string]interface{}, prevTax int, prevMax uint32) (int, uint32) {
	tax, maxCapacity := prevTax, prevMax

	section, ok := data["xtable"].(map[string]interface{})
	if !ok {
		if _, hasTax := data["migration_tax"]; hasTax {
			section = data
		} else {
			return tax, maxCapacity
		}
	}

	if v, ok := parsePositiveInt(section["migration_tax"]); ok {
		tax = v
	}

	if v, ok := parseIntInRange(section["max_capacity"], 1, DefaultMaxCapacity); ok {
		maxCapacity = uint32(v)
	}

	return tax, maxCapacity
}
