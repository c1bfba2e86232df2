// Package aggregate implements aggregate normalization (§4.7): witness
// grounding, variable-scope uniqueness, and body materialization, each an
// ordered sub-pass over a single clause.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/dlogc/dlogc/internal/ast"
	"github.com/dlogc/dlogc/internal/diagnostics"
	"github.com/dlogc/dlogc/internal/ground"
)

// Result is the outcome of normalizing one clause: the rewritten clause
// plus any relations/clauses synthesized by body materialization (§4.7c),
// which the caller must splice into the program before re-running
// groundedness/type inference and the checker over them.
type Result struct {
	Clause    *ast.Clause
	Relations []*ast.Relation
	Clauses   []*ast.Clause
	Errors    []*diagnostics.DiagnosticError
}

type nameGen struct{ next int }

func (g *nameGen) fresh(prefix string) string {
	g.next++
	return fmt.Sprintf("%s_w%d", prefix, g.next)
}

type builder struct {
	clause    *ast.Clause
	gen       *nameGen
	relations []*ast.Relation
	clauses   []*ast.Clause
	errors    []*diagnostics.DiagnosticError
}

// Normalize runs §4.7a-c over clause. outerGrounded is the clause's own
// groundedness result (§4.4): a variable name counts as already available
// outside an aggregator if some occurrence of it in the clause was proven
// grounded.
func Normalize(clause *ast.Clause, outerGrounded *ground.Result) *Result {
	b := &builder{clause: clause.Clone(), gen: &nameGen{}}
	outerNames := groundedNames(clause, outerGrounded)
	b.witnessGrounding(outerNames)
	b.variableUniqueness()
	b.materializeBodies()
	return &Result{Clause: b.clause, Relations: b.relations, Clauses: b.clauses, Errors: b.errors}
}

// groundedNames collects the set of variable names the clause's own
// groundedness analysis proved grounded from some occurrence, by replaying
// IsGrounded over every *ast.Variable node in the clause as it stood before
// normalization rewrote it.
func groundedNames(clause *ast.Clause, res *ground.Result) map[string]bool {
	out := map[string]bool{}
	if res == nil {
		return out
	}
	var visit func(ast.Argument)
	visit = func(arg ast.Argument) {
		if arg == nil {
			return
		}
		if v, ok := arg.(*ast.Variable); ok {
			if res.IsGrounded(v) {
				out[v.Name] = true
			}
		}
		if agg, ok := arg.(*ast.Aggregator); ok {
			if agg.Target != nil {
				visit(agg.Target)
			}
			return // aggregator bodies are a separate scope for groundedness, §4.4.
		}
		for _, child := range ast.ArgumentChildren(arg) {
			visit(child)
		}
	}
	if clause.Head != nil {
		for _, a := range clause.Head.Args {
			visit(a)
		}
	}
	for _, lit := range clause.Body {
		visitLiteralArgs(lit, visit)
	}
	return out
}

func visitLiteralArgs(lit ast.Literal, visit func(ast.Argument)) {
	switch l := lit.(type) {
	case *ast.Atom:
		for _, a := range l.Args {
			visit(a)
		}
	case *ast.Negation:
		for _, a := range l.Atom.Args {
			visit(a)
		}
	case *ast.BinaryConstraint:
		visit(l.Left)
		visit(l.Right)
	case *ast.FunctionalConstraint:
		visit(l.Key)
		for _, a := range l.Vars {
			visit(a)
		}
	}
}

// collectAggregators gathers every aggregator in the clause, depth-first,
// descending into nested aggregator bodies.
func collectAggregators(clause *ast.Clause) []*ast.Aggregator {
	var out []*ast.Aggregator
	var visitArg func(ast.Argument)
	var visitLit func(ast.Literal)
	visitArg = func(arg ast.Argument) {
		if arg == nil {
			return
		}
		if agg, ok := arg.(*ast.Aggregator); ok {
			out = append(out, agg)
			if agg.Target != nil {
				visitArg(agg.Target)
			}
			for _, lit := range agg.Body {
				visitLit(lit)
			}
			return
		}
		for _, child := range ast.ArgumentChildren(arg) {
			visitArg(child)
		}
	}
	visitLit = func(lit ast.Literal) { visitLiteralArgs(lit, visitArg) }

	if clause.Head != nil {
		for _, a := range clause.Head.Args {
			visitArg(a)
		}
	}
	for _, lit := range clause.Body {
		visitLit(lit)
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
