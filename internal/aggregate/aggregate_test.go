package aggregate

import (
	"testing"

	"github.com/dlogc/dlogc/internal/ast"
	"github.com/dlogc/dlogc/internal/ground"
)

func qn(name string) ast.QualifiedName { return ast.NewQualifiedName(name) }

func variable(name string) *ast.Variable { return &ast.Variable{Name: name} }

func TestWitnessGroundingCopiesMinBodyOutward(t *testing.T) {
	agg := &ast.Aggregator{
		Op:     "min",
		Target: variable("c"),
		Body: []ast.Literal{
			&ast.Atom{Name: qn("edge"), Args: []ast.Argument{variable("x"), variable("c")}},
			&ast.Atom{Name: qn("label"), Args: []ast.Argument{variable("c"), variable("y")}},
		},
	}
	clause := &ast.Clause{
		Head: &ast.Atom{Name: qn("best"), Args: []ast.Argument{variable("x"), variable("y")}},
		Body: []ast.Literal{
			&ast.Atom{Name: qn("node"), Args: []ast.Argument{variable("x")}},
			&ast.Atom{Name: qn("holder"), Args: []ast.Argument{agg}},
		},
	}

	outer := ground.Analyze(clause, nil)
	result := Normalize(clause, outer)

	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}
	if len(result.Clause.Body) != 4 {
		t.Fatalf("expected the min body to be copied out as two appended literals, got body %v", result.Clause.Body)
	}
	last := result.Clause.Body[len(result.Clause.Body)-1].(*ast.Atom)
	if last.Name.String() != "label" {
		t.Fatalf("expected the appended copy's last literal to be label(...), got %s", last.Name.String())
	}
	witnessArg, ok := last.Args[1].(*ast.Variable)
	if !ok || witnessArg.Name != "y" {
		t.Fatalf("expected the witness variable y to keep its name in the appended copy, got %v", last.Args[1])
	}
	edgeCopy := result.Clause.Body[len(result.Clause.Body)-2].(*ast.Atom)
	if v, ok := edgeCopy.Args[1].(*ast.Variable); !ok || v.Name == "c" {
		t.Fatalf("expected the aggregator's own local variable c to be renamed fresh in the copy, got %v", edgeCopy.Args[1])
	}
}

func TestWitnessEscapeRejectedForSum(t *testing.T) {
	agg := &ast.Aggregator{
		Op:     "sum",
		Target: variable("c"),
		Body: []ast.Literal{
			&ast.Atom{Name: qn("edge"), Args: []ast.Argument{variable("x"), variable("c")}},
			&ast.Atom{Name: qn("label"), Args: []ast.Argument{variable("c"), variable("y")}},
		},
	}
	clause := &ast.Clause{
		Head: &ast.Atom{Name: qn("best"), Args: []ast.Argument{variable("x"), variable("y")}},
		Body: []ast.Literal{
			&ast.Atom{Name: qn("node"), Args: []ast.Argument{variable("x")}},
			&ast.Atom{Name: qn("holder"), Args: []ast.Argument{agg}},
		},
	}

	outer := ground.Analyze(clause, nil)
	result := Normalize(clause, outer)

	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly one witness-escape error, got %v", result.Errors)
	}
	if result.Errors[0].Code != "E-AGG-001" {
		t.Errorf("expected E-AGG-001, got %s", result.Errors[0].Code)
	}
	if len(result.Clause.Body) != 2 {
		t.Fatalf("expected the body to be left untouched after a rejected witness, got %v", result.Clause.Body)
	}
}

func TestVariableUniquenessKeepsNameSharedBySiblings(t *testing.T) {
	agg1 := &ast.Aggregator{
		Op:     "sum",
		Target: variable("v"),
		Body:   []ast.Literal{&ast.Atom{Name: qn("weight"), Args: []ast.Argument{variable("x"), variable("v")}}},
	}
	agg2 := &ast.Aggregator{
		Op:     "sum",
		Target: variable("v"),
		Body:   []ast.Literal{&ast.Atom{Name: qn("weight"), Args: []ast.Argument{variable("y"), variable("v")}}},
	}
	clause := &ast.Clause{
		Head: &ast.Atom{Name: qn("totals"), Args: []ast.Argument{variable("x"), variable("y"), agg1, agg2}},
		Body: []ast.Literal{
			&ast.Atom{Name: qn("node"), Args: []ast.Argument{variable("x")}},
			&ast.Atom{Name: qn("node"), Args: []ast.Argument{variable("y")}},
		},
	}

	outer := ground.Analyze(clause, nil)
	result := Normalize(clause, outer)

	// "v" occurs in both agg1 and agg2, so it is not local to either one:
	// each aggregator sees it used outside itself (in its sibling), and
	// uniqueness renaming leaves it as "v" in both.
	h := result.Clause.Head
	a1 := h.Args[2].(*ast.Aggregator)
	a2 := h.Args[3].(*ast.Aggregator)
	n1 := a1.Target.(*ast.Variable).Name
	n2 := a2.Target.(*ast.Variable).Name
	if n1 != "v" {
		t.Fatalf("expected the sibling-shared target variable v to keep its name in the first aggregator, got %q", n1)
	}
	if n2 != "v" {
		t.Fatalf("expected the sibling-shared target variable v to keep its name in the second aggregator, got %q", n2)
	}
}

func TestMaterializationOutlinesMultiAtomBody(t *testing.T) {
	agg := &ast.Aggregator{
		Op:     "sum",
		Target: variable("w"),
		Body: []ast.Literal{
			&ast.Atom{Name: qn("edge"), Args: []ast.Argument{variable("x"), variable("mid")}},
			&ast.Atom{Name: qn("weight"), Args: []ast.Argument{variable("mid"), variable("w")}},
		},
	}
	clause := &ast.Clause{
		Head: &ast.Atom{Name: qn("total"), Args: []ast.Argument{variable("x"), agg}},
		Body: []ast.Literal{
			&ast.Atom{Name: qn("node"), Args: []ast.Argument{variable("x")}},
		},
	}

	outer := ground.Analyze(clause, nil)
	result := Normalize(clause, outer)

	if len(result.Relations) != 1 || len(result.Clauses) != 1 {
		t.Fatalf("expected exactly one synthesized relation+clause, got %d/%d", len(result.Relations), len(result.Clauses))
	}
	outAgg := result.Clause.Head.Args[1].(*ast.Aggregator)
	if len(outAgg.Body) != 1 {
		t.Fatalf("expected the aggregator's body to be replaced by a single scan atom, got %v", outAgg.Body)
	}
	scan := outAgg.Body[0].(*ast.Atom)
	if !scan.Name.Equal(result.Relations[0].Name) {
		t.Fatalf("expected the replacement atom to reference the synthesized relation %s, got %s", result.Relations[0].Name, scan.Name)
	}
	if len(result.Clauses[0].Body) != 2 {
		t.Fatalf("expected the synthesized clause to carry the original two-atom body, got %v", result.Clauses[0].Body)
	}
}

func TestMaterializationOutlinesRepeatedVariableAtom(t *testing.T) {
	agg := &ast.Aggregator{
		Op: "count",
		Body: []ast.Literal{
			&ast.Atom{Name: qn("reflexive"), Args: []ast.Argument{variable("x"), variable("x")}},
		},
	}
	clause := &ast.Clause{
		Head: &ast.Atom{Name: qn("cnt"), Args: []ast.Argument{agg}},
	}

	outer := ground.Analyze(clause, nil)
	result := Normalize(clause, outer)

	if len(result.Relations) != 1 {
		t.Fatalf("expected a repeated-variable atom to force materialization, got %d relations", len(result.Relations))
	}
}

func TestMaterializationGivesUnnamedVariablesTheirOwnAttribute(t *testing.T) {
	agg := &ast.Aggregator{
		Op: "count",
		Body: []ast.Literal{
			&ast.Atom{Name: qn("p"), Args: []ast.Argument{variable("x"), &ast.UnnamedVariable{}}},
			&ast.Atom{Name: qn("q"), Args: []ast.Argument{variable("x")}},
		},
	}
	clause := &ast.Clause{Head: &ast.Atom{Name: qn("cnt"), Args: []ast.Argument{agg}}}

	outer := ground.Analyze(clause, nil)
	result := Normalize(clause, outer)

	if len(result.Relations) != 1 {
		t.Fatalf("expected the two-atom count body to materialize, got %d relations", len(result.Relations))
	}
	if len(result.Relations[0].Attributes) != 1 {
		t.Fatalf("expected one attribute for the unnamed variable (count has no target), got %v", result.Relations[0].Attributes)
	}
}
