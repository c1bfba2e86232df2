// Package diagnostics is the single error/warning sink for every pass in the
// pipeline (§6 Error-report entry, §7 Error handling design).
package diagnostics

import (
	"fmt"
	"sort"

	"github.com/dlogc/dlogc/internal/token"
)

// Severity distinguishes hard errors (affect exit code) from warnings.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Related is a secondary location attached to a diagnostic, e.g. the
// offending negated literal in an unstratifiable SCC (§4.9).
type Related struct {
	Message  string
	Location token.Token
}

// DiagnosticError is one entry in the report (§6).
type DiagnosticError struct {
	Severity Severity
	Code     string
	Message  string
	Location token.Token
	File     string
	Related  []Related
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("%s: [%s] %s (%s)", e.Severity, e.Code, e.Message, e.Location)
}

// NewError builds an error-severity diagnostic.
func NewError(code string, loc token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Severity: SeverityError, Code: code, Message: message, Location: loc, File: loc.File}
}

// NewWarning builds a warning-severity diagnostic.
func NewWarning(code string, loc token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Severity: SeverityWarning, Code: code, Message: message, Location: loc, File: loc.File}
}

// WithRelated attaches secondary locations and returns the receiver for
// chaining at the call site.
func (e *DiagnosticError) WithRelated(message string, loc token.Token) *DiagnosticError {
	e.Related = append(e.Related, Related{Message: message, Location: loc})
	return e
}

// Report accumulates diagnostics across the whole pipeline run. Passes only
// ever append; nothing is ever removed (§5, Shared-resource policy).
type Report struct {
	seen    map[string]*DiagnosticError
	order   []string
	entries []*DiagnosticError
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{seen: make(map[string]*DiagnosticError)}
}

// Add appends a diagnostic, deduplicating by file:line:col:code the way the
// teacher's walker.addError does.
func (r *Report) Add(e *DiagnosticError) {
	if e == nil {
		return
	}
	key := fmt.Sprintf("%s:%d:%d:%s", e.File, e.Location.Line, e.Location.Column, e.Code)
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = e
	r.order = append(r.order, key)
	r.entries = append(r.entries, e)
}

// AddAll appends every diagnostic in errs.
func (r *Report) AddAll(errs []*DiagnosticError) {
	for _, e := range errs {
		r.Add(e)
	}
}

// HasErrors reports whether any error-severity diagnostic (not warning) was
// recorded. This is the pipeline's short-circuit predicate (§7).
func (r *Report) HasErrors() bool {
	for _, e := range r.entries {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error-severity diagnostics.
func (r *Report) ErrorCount() int {
	n := 0
	for _, e := range r.entries {
		if e.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Entries returns all diagnostics sorted by file, then position, for
// deterministic reporting.
func (r *Report) Entries() []*DiagnosticError {
	out := make([]*DiagnosticError, len(r.entries))
	copy(out, r.entries)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Location.Line != b.Location.Line {
			return a.Location.Line < b.Location.Line
		}
		if a.Location.Column != b.Location.Column {
			return a.Location.Column < b.Location.Column
		}
		return a.Code < b.Code
	})
	return out
}
