// Package pipeline sequences the semantic middle-end's analysis passes into
// one ordered run: type environment, per-clause type
// inference/groundedness/aggregate normalization, semantic/type checking,
// stratification, and RAM translation, all reporting into one shared
// diagnostics.Report.
package pipeline

import (
	"github.com/dlogc/dlogc/internal/ast"
	"github.com/dlogc/dlogc/internal/config"
	"github.com/dlogc/dlogc/internal/diagnostics"
	"github.com/dlogc/dlogc/internal/ground"
	"github.com/dlogc/dlogc/internal/infer"
	"github.com/dlogc/dlogc/internal/ram"
	"github.com/dlogc/dlogc/internal/stratify"
	"github.com/dlogc/dlogc/internal/typeenv"
	"github.com/dlogc/dlogc/internal/typesystem"
)

// ClauseAnalysis bundles one clause's per-clause analysis results, kept
// alongside each other since later stages (the checker, RAM translation)
// need more than one of them at once.
type ClauseAnalysis struct {
	Clause   *ast.Clause
	Grounded *ground.Result
	Types    *infer.Result
}

// TranslationUnit is the value every Stage reads from and writes to: one
// program, its resolved configuration, and the accumulating results of
// each analysis pass run over it so far.
type TranslationUnit struct {
	Program *ast.Program
	Config  *config.Config
	Report  *diagnostics.Report

	Env       *typesystem.Environment
	EnvResult *typeenv.Result

	Clauses []*ClauseAnalysis

	Strat *stratify.Result
	RAM   *ram.Program

	// typeDeclsInvalid is set by the type-environment stage when the
	// declared types themselves don't resolve; the checkpoint of §7(a).
	typeDeclsInvalid bool
}

// NewTranslationUnit starts a fresh run over program under cfg.
func NewTranslationUnit(program *ast.Program, cfg *config.Config) *TranslationUnit {
	return &TranslationUnit{
		Program: program,
		Config:  cfg,
		Report:  diagnostics.NewReport(),
	}
}

// Halt records that the type environment itself is unusable, the §7(a)
// checkpoint: type inference and the semantic/type checker's per-clause
// checks both skip when this is set.
func (tu *TranslationUnit) Halt() {
	tu.typeDeclsInvalid = true
}

// Halted reports whether Halt has been called.
func (tu *TranslationUnit) Halted() bool {
	return tu.typeDeclsInvalid
}

// HasErrors reports whether the shared report carries any error-severity
// diagnostic, the §7(b) checkpoint RAM translation gates on.
func (tu *TranslationUnit) HasErrors() bool {
	return tu.Report.HasErrors()
}

// ClauseAnalysisFor finds the stored analysis for clause, or nil if the
// clause-analysis stage never ran (or was skipped) for it.
func (tu *TranslationUnit) ClauseAnalysisFor(clause *ast.Clause) *ClauseAnalysis {
	for _, ca := range tu.Clauses {
		if ca.Clause == clause {
			return ca
		}
	}
	return nil
}
