package pipeline

// Pipeline is an ordered sequence of Stages run over one TranslationUnit.
type Pipeline struct {
	stages []Stage
}

// New builds a Pipeline running stages in the given order.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes every stage over tu and returns it. Every stage always
// runs -- continuing on error lets later stages keep reporting
// diagnostics of their own (a type error in one clause should not silence
// a stratification error in another) -- so the only short-circuiting
// happens inside the three stages that check tu.Halted()/tu.HasErrors()
// themselves (§7).
func (p *Pipeline) Run(tu *TranslationUnit) *TranslationUnit {
	for _, stage := range p.stages {
		stage.Run(tu)
	}
	return tu
}

// Default builds the standard pipeline of §2's data-flow order: type
// environment, per-clause analysis, semantic/type checking,
// stratification, RAM translation.
func Default() *Pipeline {
	return New(
		&TypeEnvironmentStage{},
		&ClauseAnalysisStage{},
		&CheckStage{},
		&StratifyStage{},
		&RAMTranslateStage{},
	)
}
