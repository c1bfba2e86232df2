// Package config holds the compiler's explicit configuration value.
//
// There is no package-level mutable singleton here: every pass that needs
// configuration receives a *Config parameter, the way a symbol table or
// loader gets threaded explicitly through analyzer walkers elsewhere in
// this codebase.
package config

import "github.com/google/uuid"

// Config is the resolved set of CLI switches for one compiler invocation.
type Config struct {
	Jobs             int
	ProfilePath      string // "" if --profile was not given; consumed by an external profiler.
	DebugReportPath  string // consumed by an external debug-report renderer.
	Show             []string
	SuppressWarnings []string // relation names, or ["*"] for all.
	Legacy           bool     // weakens the sink-kind check for legacy programs.
	NoWarn           bool
	LibraryDir       string
	Libraries        []string

	// RunID correlates every diagnostic and log line emitted by one compiler
	// invocation. It is never used to name synthesized AST/RAM nodes --
	// those must stay deterministic across runs for golden RAM snapshots.
	RunID string
}

// New returns a Config with a fresh RunID and Jobs defaulted to 1.
func New() *Config {
	return &Config{Jobs: 1, RunID: uuid.NewString()}
}

// SuppressesWarningsFor reports whether warnings for relName should be
// dropped, honoring the "*" wildcard and the global --no-warn switch.
func (c *Config) SuppressesWarningsFor(relName string) bool {
	if c.NoWarn {
		return true
	}
	for _, s := range c.SuppressWarnings {
		if s == "*" || s == relName {
			return true
		}
	}
	return false
}

// ShowsSection reports whether --show=name was requested.
func (c *Config) ShowsSection(name string) bool {
	for _, s := range c.Show {
		if s == name {
			return true
		}
	}
	return false
}
