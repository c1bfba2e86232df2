package pipeline

import "github.com/dlogc/dlogc/internal/ram"

// RAMTranslateStage lowers the stratified, checked program to a RAM tree
// (§4.10-§4.11). Skipped when any error-severity diagnostic has already
// been recorded (§7(b)) -- Translate assumes a program that passed every
// earlier pass and gives undefined output otherwise.
type RAMTranslateStage struct{}

func (s *RAMTranslateStage) Name() string { return "ram-translate" }

func (s *RAMTranslateStage) Run(tu *TranslationUnit) {
	if tu.HasErrors() {
		return
	}
	tu.RAM = ram.Translate(tu.Program, tu.Env, tu.Strat)
}
