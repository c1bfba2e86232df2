package pipeline

import (
	"github.com/dlogc/dlogc/internal/aggregate"
	"github.com/dlogc/dlogc/internal/ast"
	"github.com/dlogc/dlogc/internal/ground"
	"github.com/dlogc/dlogc/internal/infer"
	"github.com/dlogc/dlogc/internal/poly"
)

// ClauseAnalysisStage runs, per clause, the per-clause chain of §4.4-§4.7:
// groundedness, type inference, polymorphism resolution written back onto
// the clause, and aggregate normalization. Normalization can synthesize
// new relations and clauses (§4.7c); this stage splices them into the
// program and re-runs the chain over the synthesized clauses too, exactly
// as aggregate.Result's doc comment requires.
//
// Skipped entirely when the type environment halted the unit (§7(a)).
type ClauseAnalysisStage struct{}

func (s *ClauseAnalysisStage) Name() string { return "clause-analysis" }

func (s *ClauseAnalysisStage) Run(tu *TranslationUnit) {
	if tu.Halted() {
		return
	}
	overloads := infer.DefaultOverloads()

	pending := append([]*ast.Clause(nil), tu.Program.Clauses...)
	for len(pending) > 0 {
		cl := pending[0]
		pending = pending[1:]

		grounded := ground.Analyze(cl, tu.isInline)
		types := infer.Analyze(cl, tu.Program, tu.Env, overloads)
		q := poly.New(types, tu.Program)
		poly.Apply(cl, q)

		agg := aggregate.Normalize(cl, grounded)
		tu.Report.AddAll(agg.Errors)

		tu.Clauses = append(tu.Clauses, &ClauseAnalysis{Clause: agg.Clause, Grounded: grounded, Types: types})

		if len(agg.Relations) > 0 || len(agg.Clauses) > 0 {
			tu.Program.Relations = append(tu.Program.Relations, agg.Relations...)
			tu.Program.Clauses = append(tu.Program.Clauses, agg.Clauses...)
			pending = append(pending, agg.Clauses...)
		}

		// agg.Clause may be a rewritten copy of cl (witness grounding and
		// body materialization both clone); keep the program's own slice
		// in sync so later stages (stratification, RAM translation) see
		// the normalized body.
		for i, progCl := range tu.Program.Clauses {
			if progCl == cl {
				tu.Program.Clauses[i] = agg.Clause
				break
			}
		}
	}
}

// isInline reports whether name is a relation qualified inline, mirroring
// check.Checker's own private predicate of the same shape (§3).
func (tu *TranslationUnit) isInline(name ast.QualifiedName) bool {
	r := tu.Program.RelationByName(name)
	return r != nil && r.HasQualifier(ast.QualInline)
}
