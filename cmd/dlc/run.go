package main

import (
	"fmt"
	"os"

	"github.com/dlogc/dlogc/internal/astjson"
	"github.com/dlogc/dlogc/internal/config"
	"github.com/dlogc/dlogc/internal/diagnostics"
	"github.com/dlogc/dlogc/internal/pipeline"
	"github.com/dlogc/dlogc/internal/ram"
)

// run drives one compile invocation end to end and returns the process
// exit code: non-zero iff an error-severity diagnostic was recorded.
func run(cfg *config.Config, path string, opts *cliOptions) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return 2
	}

	program, err := astjson.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return 2
	}

	tu := pipeline.NewTranslationUnit(program, cfg)
	pipeline.Default().Run(tu)

	printer := diagnostics.NewPrinter(os.Stderr)
	filtered := diagnostics.NewReport()
	for _, e := range tu.Report.Entries() {
		if e.Severity == diagnostics.SeverityWarning && cfg.NoWarn {
			continue
		}
		filtered.Add(e)
	}
	printer.Print(filtered)
	printer.Summary(filtered)

	if len(opts.show) > 0 {
		showSections(os.Stdout, tu, opts.show)
	}

	if tu.RAM != nil {
		fmt.Fprintln(os.Stdout, ram.PrintProgram(tu.RAM))
	}

	if filtered.HasErrors() {
		return 1
	}
	return 0
}
