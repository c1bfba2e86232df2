package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Printer renders a Report to an io.Writer, colorizing severities when the
// destination is a terminal, detected via isatty before deciding whether
// to emit ANSI.
type Printer struct {
	w      io.Writer
	color  bool
}

// NewPrinter builds a Printer. Color is auto-detected via isatty unless the
// caller forces it off (e.g. --no-warn scripted invocations, CI logs).
func NewPrinter(w io.Writer) *Printer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Printer{w: w, color: color}
}

// SetColor overrides auto-detection.
func (p *Printer) SetColor(on bool) { p.color = on }

func (p *Printer) sevColor(s Severity) (string, string) {
	if !p.color {
		return "", ""
	}
	switch s {
	case SeverityError:
		return "\x1b[31m", "\x1b[0m"
	default:
		return "\x1b[33m", "\x1b[0m"
	}
}

// Print writes every entry in the report, one diagnostic per logical group
// (primary message followed by its related locations, indented).
func (p *Printer) Print(r *Report) {
	for _, e := range r.Entries() {
		start, end := p.sevColor(e.Severity)
		fmt.Fprintf(p.w, "%s%s: %s: [%s] %s%s\n", start, e.Location, e.Severity, e.Code, e.Message, end)
		for _, rel := range e.Related {
			fmt.Fprintf(p.w, "    %s: %s\n", rel.Location, rel.Message)
		}
	}
}

// Summary prints the trailing "N errors, M warnings" line.
func (p *Printer) Summary(r *Report) {
	errs, warns := 0, 0
	for _, e := range r.entries {
		if e.Severity == SeverityError {
			errs++
		} else {
			warns++
		}
	}
	fmt.Fprintf(p.w, "%d error(s), %d warning(s)\n", errs, warns)
}
