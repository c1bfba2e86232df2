package main

import (
	"fmt"
	"strings"

	"github.com/dlogc/dlogc/internal/config"
)

// cliOptions holds the raw CLI switches, parsed from os.Args with a manual
// switch over each argument rather than the standard library's flag
// package, matching this codebase's other command-line entry points.
type cliOptions struct {
	jobs             int
	jobsSet          bool
	profilePath      string
	profileSet       bool
	debugReportPath  string
	show             []string
	suppressWarnings []string
	legacy           bool
	noWarn           bool
	libraryDir       string
	libraries        []string
}

func parseArgs(args []string) (*cliOptions, string, error) {
	opts := &cliOptions{}
	var path string
	for _, a := range args {
		switch {
		case a == "--legacy":
			opts.legacy = true
		case a == "--no-warn":
			opts.noWarn = true
		case a == "--profile":
			opts.profileSet = true
		case strings.HasPrefix(a, "--profile="):
			opts.profileSet = true
			opts.profilePath = strings.TrimPrefix(a, "--profile=")
		case strings.HasPrefix(a, "--jobs="):
			n, err := parseInt(strings.TrimPrefix(a, "--jobs="))
			if err != nil {
				return nil, "", fmt.Errorf("--jobs: %w", err)
			}
			opts.jobs = n
			opts.jobsSet = true
		case strings.HasPrefix(a, "--debug-report="):
			opts.debugReportPath = strings.TrimPrefix(a, "--debug-report=")
		case strings.HasPrefix(a, "--show="):
			opts.show = splitNonEmpty(strings.TrimPrefix(a, "--show="))
		case strings.HasPrefix(a, "--suppress-warnings="):
			opts.suppressWarnings = splitNonEmpty(strings.TrimPrefix(a, "--suppress-warnings="))
		case strings.HasPrefix(a, "--library-dir="):
			opts.libraryDir = strings.TrimPrefix(a, "--library-dir=")
		case strings.HasPrefix(a, "--libraries="):
			opts.libraries = splitNonEmpty(strings.TrimPrefix(a, "--libraries="))
		case strings.HasPrefix(a, "--"):
			return nil, "", fmt.Errorf("unrecognized switch %q", a)
		default:
			path = a
		}
	}
	return opts, path, nil
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseInt(s string) (int, error) {
	n := 0
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a number: %q", s)
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}

// applyTo overlays the parsed CLI switches onto cfg, which may already
// carry dlc.yaml project defaults for LibraryDir/Libraries -- explicit
// flags always win.
func (o *cliOptions) applyTo(cfg *config.Config) {
	if o.jobsSet {
		cfg.Jobs = o.jobs
	}
	if o.profileSet {
		cfg.ProfilePath = o.profilePath
	}
	if o.debugReportPath != "" {
		cfg.DebugReportPath = o.debugReportPath
	}
	if len(o.show) > 0 {
		cfg.Show = o.show
	}
	if len(o.suppressWarnings) > 0 {
		cfg.SuppressWarnings = o.suppressWarnings
	}
	if o.legacy {
		cfg.Legacy = true
	}
	if o.noWarn {
		cfg.NoWarn = true
	}
	if o.libraryDir != "" {
		cfg.LibraryDir = o.libraryDir
	}
	if len(o.libraries) > 0 {
		cfg.Libraries = o.libraries
	}
}
