// Package refcheck detects allocator-level leaks: blocks that were
// allocated for managed objects but never returned. A Tracker wraps any
// alloc.Allocator, counts live blocks and bytes, exports the counts as
// prometheus metrics, and reports whatever is still live on demand.
//
// The tracker is purely observational: it never changes what the wrapped
// allocator returns and never alters object lifetime.
package refcheck

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls leak tracking.
type Config struct {
	// Enabled turns tracking on. When disabled, Wrap returns the inner
	// allocator untouched.
	Enabled bool `yaml:"enabled"`

	// MaxLiveBytes, when non-zero, is the live-byte level above which
	// every further allocation logs a warning.
	MaxLiveBytes uint64 `yaml:"max_live_bytes"`

	// LeakLogLimit caps the number of per-block lines a leak report
	// logs. Zero means the default of 10.
	LeakLogLimit int `yaml:"leak_log_limit"`
}

func (c Config) Validate() error {
	if c.LeakLogLimit < 0 {
		return fmt.Errorf("leak-log-limit must be non-negative, got: %d", c.LeakLogLimit)
	}
	return nil
}

// LoadConfig reads a yaml Config from path and validates it.
func LoadConfig(path string) (Config, error) {
	var c Config
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read refcheck config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse refcheck config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}
