package pipeline

import "github.com/dlogc/dlogc/internal/stratify"

// StratifyStage computes the precedence graph and strongly-connected
// component ordering over the program's relations. It always runs, even
// when the type environment halted the unit: stratification depends on
// relation and clause shape, not on resolved types, and only clause
// analysis and checking are gated behind that checkpoint.
type StratifyStage struct{}

func (s *StratifyStage) Name() string { return "stratify" }

func (s *StratifyStage) Run(tu *TranslationUnit) {
	result := stratify.Stratify(tu.Program)
	tu.Strat = result
	tu.Report.AddAll(result.Errors)
}
