package pipeline

import "github.com/dlogc/dlogc/internal/check"

// CheckStage runs the semantic/type checker (§4.8): whole-program checks
// first, then every clause's per-clause checks against its stored
// groundedness and type-inference results.
//
// Skipped entirely when the type environment halted the unit (§7(a)).
type CheckStage struct{}

func (s *CheckStage) Name() string { return "check" }

func (s *CheckStage) Run(tu *TranslationUnit) {
	if tu.Halted() {
		return
	}
	c := check.New(tu.Program, tu.Env)
	c.CheckProgram()
	for _, ca := range tu.Clauses {
		c.CheckClause(ca.Clause, ca.Grounded, ca.Types)
	}
	tu.Report.AddAll(c.Report().Entries())
}
