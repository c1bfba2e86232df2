package pipeline

import "github.com/dlogc/dlogc/internal/typeenv"

// TypeEnvironmentStage builds the type environment from the program's
// type declarations (§4.2). An invalid declaration set halts the unit
// (§7(a)): clause analysis and the checker's per-clause checks both need
// a usable environment to mean anything.
type TypeEnvironmentStage struct{}

func (s *TypeEnvironmentStage) Name() string { return "type-environment" }

func (s *TypeEnvironmentStage) Run(tu *TranslationUnit) {
	result := typeenv.Build(tu.Program.Types)
	tu.EnvResult = result
	tu.Env = result.Env
	tu.Report.AddAll(result.Errors)
	if tu.Report.HasErrors() {
		tu.Halt()
	}
}
