package stratify

import (
	"testing"

	"github.com/dlogc/dlogc/internal/ast"
	"github.com/dlogc/dlogc/internal/diagnostics"
)

func qn(name string) ast.QualifiedName { return ast.NewQualifiedName(name) }

func variable(name string) *ast.Variable { return &ast.Variable{Name: name} }

func relation(name string) *ast.Relation {
	return &ast.Relation{Name: qn(name), Attributes: []*ast.Attribute{{Name: "x", TypeName: qn("number")}}}
}

func atom(name string, args ...ast.Argument) *ast.Atom {
	return &ast.Atom{Name: qn(name), Args: args}
}

func clause(head *ast.Atom, body ...ast.Literal) *ast.Clause {
	return &ast.Clause{Head: head, Body: body}
}

func stratumOf(res *Result, relName string) int {
	for _, s := range res.Strata {
		for _, r := range s.Relations {
			if r == relName {
				return s.Index
			}
		}
	}
	return -1
}

func hasCode(res *Result, code string) bool {
	for _, e := range res.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestStratifyOrdersDependentChainTopologically(t *testing.T) {
	// path(x) :- edge(x). path(y) :- path(x), edge(x,y).
	program := &ast.Program{
		Relations: []*ast.Relation{relation("edge"), relation("path")},
		Clauses: []*ast.Clause{
			clause(atom("path", variable("x")), atom("edge", variable("x"))),
			clause(atom("path", variable("y")), atom("path", variable("x")), atom("edge", variable("x"), variable("y"))),
		},
	}

	res := Stratify(program)
	if len(res.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", res.Errors)
	}
	edgeStratum := stratumOf(res, "edge")
	pathStratum := stratumOf(res, "path")
	if edgeStratum < 0 || pathStratum < 0 {
		t.Fatalf("expected both relations to be assigned a stratum, got strata %v", res.Strata)
	}
	if !(edgeStratum < pathStratum) {
		t.Fatalf("expected edge's stratum (%d) to precede path's stratum (%d)", edgeStratum, pathStratum)
	}
}

func TestStratifyAllowsPurelyPositiveRecursion(t *testing.T) {
	// reach(x,y) :- edge(x,y). reach(x,y) :- reach(x,z), edge(z,y).
	program := &ast.Program{
		Relations: []*ast.Relation{relation("edge"), relation("reach")},
		Clauses: []*ast.Clause{
			clause(atom("reach", variable("x"), variable("y")), atom("edge", variable("x"), variable("y"))),
			clause(atom("reach", variable("x"), variable("y")),
				atom("reach", variable("x"), variable("z")),
				atom("edge", variable("z"), variable("y"))),
		},
	}

	res := Stratify(program)
	if len(res.Errors) != 0 {
		t.Fatalf("expected a purely positive recursive cycle to be stratifiable, got errors %v", res.Errors)
	}
	reachStratum := -1
	for _, s := range res.Strata {
		for _, r := range s.Relations {
			if r == "reach" {
				reachStratum = s.Index
				if !s.Recursive {
					t.Fatalf("expected reach's component to be marked recursive")
				}
			}
		}
	}
	if reachStratum < 0 {
		t.Fatalf("expected reach to appear in some stratum")
	}
}

func TestStratifyRejectsNegationCycle(t *testing.T) {
	// even(x) :- num(x), !odd(x). odd(x) :- num(x), !even(x).
	program := &ast.Program{
		Relations: []*ast.Relation{relation("num"), relation("even"), relation("odd")},
		Clauses: []*ast.Clause{
			clause(atom("even", variable("x")), atom("num", variable("x")),
				&ast.Negation{Atom: atom("odd", variable("x"))}),
			clause(atom("odd", variable("x")), atom("num", variable("x")),
				&ast.Negation{Atom: atom("even", variable("x"))}),
		},
	}

	res := Stratify(program)
	if !hasCode(res, diagnostics.ErrUnstratifiable) {
		t.Fatalf("expected %s for a negation cycle, got errors %v", diagnostics.ErrUnstratifiable, res.Errors)
	}
}

func TestStratifyRejectsAggregationCycle(t *testing.T) {
	// count(x, c) :- node(x), c = count : { count(y, _), edge(x, y) }.
	agg := &ast.Aggregator{
		Op:     "count",
		Target: nil,
		Body: []ast.Literal{
			atom("count", variable("y"), &ast.UnnamedVariable{}),
			atom("edge", variable("x"), variable("y")),
		},
	}
	program := &ast.Program{
		Relations: []*ast.Relation{relation("node"), relation("edge"), relation("count")},
		Clauses: []*ast.Clause{
			clause(atom("count", variable("x"), variable("c")),
				atom("node", variable("x")),
				&ast.BinaryConstraint{Left: variable("c"), Right: agg}),
		},
	}

	res := Stratify(program)
	if !hasCode(res, diagnostics.ErrUnstratifiable) {
		t.Fatalf("expected %s for an aggregate self-dependency, got errors %v", diagnostics.ErrUnstratifiable, res.Errors)
	}
}

func TestStratifyAssignsEachDisjointRelationItsOwnStratum(t *testing.T) {
	program := &ast.Program{
		Relations: []*ast.Relation{relation("a"), relation("b")},
		Clauses:   []*ast.Clause{clause(atom("a", variable("x"))), clause(atom("b", variable("x")))},
	}

	res := Stratify(program)
	if len(res.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", res.Errors)
	}
	if len(res.Strata) != 2 {
		t.Fatalf("expected two independent strata, got %d: %v", len(res.Strata), res.Strata)
	}
}
