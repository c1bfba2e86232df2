// Command dlc drives the semantic middle-end over a JSON-encoded program
// (internal/astjson), the thin boundary in front of the surface parser
// this repository treats as an external collaborator.
package main

import (
	"fmt"
	"os"
)

func main() {
	opts, path, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		printUsage(os.Stderr)
		os.Exit(2)
	}
	if path == "" {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := loadProjectDefaults("dlc.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "dlc.yaml: %v\n", err)
		os.Exit(2)
	}
	opts.applyTo(cfg)

	os.Exit(run(cfg, path, opts))
}

func printUsage(w *os.File) {
	fmt.Fprintln(w, "usage: dlc [--jobs=N] [--profile[=path]] [--debug-report=path]")
	fmt.Fprintln(w, "           [--show=name,...] [--suppress-warnings=rel,...|*]")
	fmt.Fprintln(w, "           [--legacy] [--no-warn] [--library-dir=dir] [--libraries=name,...]")
	fmt.Fprintln(w, "           <program.json>")
}
