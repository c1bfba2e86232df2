package ram

import (
	"strings"
	"testing"

	"github.com/dlogc/dlogc/internal/ast"
	"github.com/dlogc/dlogc/internal/stratify"
	"github.com/dlogc/dlogc/internal/typesystem"
)

func qn(name string) ast.QualifiedName { return ast.NewQualifiedName(name) }

func variable(name string) *ast.Variable { return &ast.Variable{Name: name} }

func numConst(lexeme string) *ast.NumericConstant { return &ast.NumericConstant{Lexeme: lexeme} }

func attr(name, typeName string) *ast.Attribute {
	return &ast.Attribute{Name: name, TypeName: qn(typeName)}
}

func testRelation(name string, attrs ...*ast.Attribute) *ast.Relation {
	return &ast.Relation{Name: qn(name), Attributes: attrs}
}

func atom(name string, args ...ast.Argument) *ast.Atom {
	return &ast.Atom{Name: qn(name), Args: args}
}

func ruleClause(head *ast.Atom, body ...ast.Literal) *ast.Clause {
	return &ast.Clause{Head: head, Body: body}
}

func newTestTranslator(program *ast.Program) *translator {
	t := &translator{
		program:      program,
		env:          typesystem.NewEnvironment(),
		clausesByRel: map[string][]*ast.Clause{},
	}
	for _, cl := range program.Clauses {
		name := cl.Head.Name.String()
		t.clausesByRel[name] = append(t.clausesByRel[name], cl)
	}
	t.buildRelations()
	return t
}

func TestLowerClauseScansBodyAndInsertsIntoHead(t *testing.T) {
	// path(x) :- edge(x, y).
	program := &ast.Program{
		Relations: []*ast.Relation{
			testRelation("edge", attr("x", "number"), attr("y", "number")),
			testRelation("path", attr("x", "number")),
		},
		Clauses: []*ast.Clause{
			ruleClause(atom("path", variable("x")), atom("edge", variable("x"), variable("y"))),
		},
	}
	tr := newTestTranslator(program)
	cl := program.Clauses[0]

	got := tr.lowerClause(cl, "path", nil, -1)

	want := &Scan{Relation: "edge", Level: 0, Body: &Insert{
		Relation: "path",
		Args:     []Expression{&TupleElement{Level: 0, Column: 0}},
	}}
	if !Equal(got, want) {
		t.Fatalf("lowerClause mismatch:\n got: %s\nwant: %s", nodeString(got), nodeString(want))
	}
}

func TestLowerClauseRepeatedVariableBecomesEqualityFilter(t *testing.T) {
	// loop(x) :- edge(x, x).
	program := &ast.Program{
		Relations: []*ast.Relation{
			testRelation("edge", attr("x", "number"), attr("y", "number")),
			testRelation("loop", attr("x", "number")),
		},
		Clauses: []*ast.Clause{
			ruleClause(atom("loop", variable("x")), atom("edge", variable("x"), variable("x"))),
		},
	}
	tr := newTestTranslator(program)
	cl := program.Clauses[0]

	got := tr.lowerClause(cl, "loop", nil, -1)

	t0x := &TupleElement{Level: 0, Column: 0}
	want := &Scan{Relation: "edge", Level: 0, Body: &Filter{
		Cond: &Constraint{Op: "=", Lhs: &TupleElement{Level: 0, Column: 1}, Rhs: t0x},
		Body: &Insert{Relation: "loop", Args: []Expression{t0x}},
	}}
	if !Equal(got, want) {
		t.Fatalf("lowerClause mismatch:\n got: %s\nwant: %s", nodeString(got), nodeString(want))
	}
}

func TestLowerClauseConstantOnlyAtomBecomesBreak(t *testing.T) {
	// out() :- edge(1, 2).
	program := &ast.Program{
		Relations: []*ast.Relation{
			testRelation("edge", attr("x", "number"), attr("y", "number")),
			testRelation("out"),
		},
		Clauses: []*ast.Clause{
			ruleClause(atom("out"), atom("edge", numConst("1"), numConst("2"))),
		},
	}
	tr := newTestTranslator(program)
	cl := program.Clauses[0]

	got := tr.lowerClause(cl, "out", nil, -1)

	want := &Break{
		Cond: &Negation{Cond: &ExistenceCheck{
			Relation: "edge",
			Args:     []Expression{&SignedConstant{Value: 1}, &SignedConstant{Value: 2}},
		}},
		Body: &Filter{
			Cond: &EmptinessCheck{Relation: "out"},
			Body: &Insert{Relation: "out"},
		},
	}
	if !Equal(got, want) {
		t.Fatalf("lowerClause mismatch:\n got: %s\nwant: %s", nodeString(got), nodeString(want))
	}
}

func TestLowerClauseFreshVariableAtomNeverTakesBreakPath(t *testing.T) {
	// reached(x) :- node(x), edge(x, x), edge(x, y). -- node(x) binds x, so
	// edge(x, x) is all-bound and takes Break; in edge(x, y) y is fresh, so
	// that atom must Scan, not Break, even though x is already bound.
	program := &ast.Program{
		Relations: []*ast.Relation{
			testRelation("node", attr("x", "number")),
			testRelation("edge", attr("x", "number"), attr("y", "number")),
			testRelation("reached", attr("x", "number")),
		},
		Clauses: []*ast.Clause{
			ruleClause(atom("reached", variable("x")),
				atom("node", variable("x")),
				atom("edge", variable("x"), variable("x")),
				atom("edge", variable("x"), variable("y"))),
		},
	}
	tr := newTestTranslator(program)
	cl := program.Clauses[0]

	got := tr.lowerClause(cl, "reached", nil, -1)

	var sawBreak, sawScan bool
	Walk(got, func(n Node) {
		switch n.(type) {
		case *Break:
			sawBreak = true
		case *Scan:
			sawScan = true
		}
	})
	if !sawBreak {
		t.Fatalf("expected the all-bound edge(x, x) atom to take the Break fast path: %s", nodeString(got))
	}
	if !sawScan {
		t.Fatalf("expected the edge(x, y) atom (fresh y) to Scan rather than Break: %s", nodeString(got))
	}
}

func TestLowerClauseNegationBecomesExistenceFilter(t *testing.T) {
	// single(x) :- node(x), !paired(x).
	program := &ast.Program{
		Relations: []*ast.Relation{
			testRelation("node", attr("x", "number")),
			testRelation("paired", attr("x", "number")),
			testRelation("single", attr("x", "number")),
		},
		Clauses: []*ast.Clause{
			ruleClause(atom("single", variable("x")),
				atom("node", variable("x")),
				&ast.Negation{Atom: atom("paired", variable("x"))}),
		},
	}
	tr := newTestTranslator(program)
	cl := program.Clauses[0]

	got := tr.lowerClause(cl, "single", nil, -1)

	t0x := &TupleElement{Level: 0, Column: 0}
	want := &Scan{Relation: "node", Level: 0, Body: &Filter{
		Cond: &Negation{Cond: &ExistenceCheck{Relation: "paired", Args: []Expression{t0x}}},
		Body: &Insert{Relation: "single", Args: []Expression{t0x}},
	}}
	if !Equal(got, want) {
		t.Fatalf("lowerClause mismatch:\n got: %s\nwant: %s", nodeString(got), nodeString(want))
	}
}

func TestLowerClauseFunctionalDependencyUsesGuardedInsert(t *testing.T) {
	// choice(k, v) :- pair(k, v). with an FD over "k".
	rel := testRelation("choice", attr("k", "number"), attr("v", "number"))
	rel.FDs = []ast.FunctionalDependency{{Attributes: []string{"k"}}}
	program := &ast.Program{
		Relations: []*ast.Relation{
			testRelation("pair", attr("k", "number"), attr("v", "number")),
			rel,
		},
		Clauses: []*ast.Clause{
			ruleClause(atom("choice", variable("k"), variable("v")), atom("pair", variable("k"), variable("v"))),
		},
	}
	tr := newTestTranslator(program)
	cl := program.Clauses[0]

	got := tr.lowerClause(cl, "choice", nil, -1)

	var guarded *GuardedInsert
	Walk(got, func(n Node) {
		if gi, ok := n.(*GuardedInsert); ok {
			guarded = gi
		}
	})
	if guarded == nil {
		t.Fatalf("expected a GuardedInsert for a head relation with a functional dependency, got %s", nodeString(got))
	}
	if len(guarded.KeyColumns) != 1 || guarded.KeyColumns[0] != 0 {
		t.Fatalf("expected KeyColumns [0] for the FD over attribute k, got %v", guarded.KeyColumns)
	}
}

func TestLowerClauseAggregatorLowersToAggregateOperation(t *testing.T) {
	// total(x, c) :- node(x), c = count : { edge(x, _) }.
	agg := &ast.Aggregator{
		Op:   "count",
		Body: []ast.Literal{atom("edge", variable("x"), &ast.UnnamedVariable{})},
	}
	program := &ast.Program{
		Relations: []*ast.Relation{
			testRelation("node", attr("x", "number")),
			testRelation("edge", attr("x", "number"), attr("y", "number")),
			testRelation("total", attr("x", "number"), attr("c", "number")),
		},
		Clauses: []*ast.Clause{
			ruleClause(atom("total", variable("x"), variable("c")),
				atom("node", variable("x")),
				&ast.BinaryConstraint{Op: "=", Left: variable("c"), Right: agg}),
		},
	}
	tr := newTestTranslator(program)
	cl := program.Clauses[0]

	got := tr.lowerClause(cl, "total", nil, -1)

	var aggOp *Aggregate
	var insert *Insert
	Walk(got, func(n Node) {
		switch v := n.(type) {
		case *Aggregate:
			aggOp = v
		case *Insert:
			insert = v
		}
	})
	if aggOp == nil {
		t.Fatalf("expected an Aggregate operation for the count aggregator, got %s", nodeString(got))
	}
	if aggOp.Op != "count" || aggOp.Relation != "edge" {
		t.Fatalf("expected Aggregate{Op: count, Relation: edge}, got %+v", aggOp)
	}
	if insert == nil || len(insert.Args) != 2 {
		t.Fatalf("expected a two-column Insert into total, got %v", insert)
	}
	if !Equal(insert.Args[1], &TupleElement{Level: aggOp.Level, Column: 0}) {
		t.Fatalf("expected total's second column to reference the aggregate's bound result, got %s", nodeString(insert.Args[1]))
	}
}

func TestLowerClauseChoiceDomainBindsButEmitsNoFilter(t *testing.T) {
	// picked(k, v) :- pair(k, v), choice-domain k, v.
	program := &ast.Program{
		Relations: []*ast.Relation{
			testRelation("pair", attr("k", "number"), attr("v", "number")),
			testRelation("picked", attr("k", "number"), attr("v", "number")),
		},
		Clauses: []*ast.Clause{
			ruleClause(atom("picked", variable("k"), variable("v")),
				atom("pair", variable("k"), variable("v")),
				&ast.FunctionalConstraint{Key: variable("k"), Vars: []ast.Argument{variable("v")}}),
		},
	}
	tr := newTestTranslator(program)
	cl := program.Clauses[0]

	got := tr.lowerClause(cl, "picked", nil, -1)

	want := &Scan{Relation: "pair", Level: 0, Body: &Insert{
		Relation: "picked",
		Args:     []Expression{&TupleElement{Level: 0, Column: 0}, &TupleElement{Level: 0, Column: 1}},
	}}
	if !Equal(got, want) {
		t.Fatalf("choice-domain literal should only bind, never filter:\n got: %s\nwant: %s", nodeString(got), nodeString(want))
	}
}

func TestTranslateRecursiveStratumSubstitutesDeltaPerVersion(t *testing.T) {
	// reach(x, y) :- edge(x, y).
	// reach(x, y) :- reach(x, z), edge(z, y).
	program := &ast.Program{
		Relations: []*ast.Relation{
			testRelation("edge", attr("x", "number"), attr("y", "number")),
			testRelation("reach", attr("x", "number"), attr("y", "number")),
		},
		Clauses: []*ast.Clause{
			ruleClause(atom("reach", variable("x"), variable("y")), atom("edge", variable("x"), variable("y"))),
			ruleClause(atom("reach", variable("x"), variable("y")),
				atom("reach", variable("x"), variable("z")),
				atom("edge", variable("z"), variable("y"))),
		},
	}
	tr := newTestTranslator(program)
	stratum := stratify.Stratum{Index: 0, Relations: []string{"reach"}, Recursive: true}

	got := tr.translateRecursiveStratum(stratum)
	printed := PrintProgram(&Program{Main: got})

	if !strings.Contains(printed, DeltaName("reach")) {
		t.Fatalf("expected the recursive clause's loop body to scan @delta_reach, got:\n%s", printed)
	}
	if !strings.Contains(printed, "INSERT") || !strings.Contains(printed, NewName("reach")) {
		t.Fatalf("expected recursive-clause inserts to target @new_reach, got:\n%s", printed)
	}
	if !strings.Contains(printed, "SWAP") {
		t.Fatalf("expected the update step to SWAP @new_reach and @delta_reach, got:\n%s", printed)
	}
	if !strings.Contains(printed, "EXIT") {
		t.Fatalf("expected an EXIT condition guarding the loop, got:\n%s", printed)
	}
}

func TestTranslateRecursiveStratumUsesExtendForEquivalenceRelations(t *testing.T) {
	rel := testRelation("sameAs", attr("x", "number"), attr("y", "number"))
	rel.Qualifiers = map[ast.Qualifier]bool{ast.QualEquivalence: true}
	program := &ast.Program{
		Relations: []*ast.Relation{
			testRelation("base", attr("x", "number"), attr("y", "number")),
			rel,
		},
		Clauses: []*ast.Clause{
			ruleClause(atom("sameAs", variable("x"), variable("y")), atom("base", variable("x"), variable("y"))),
			ruleClause(atom("sameAs", variable("x"), variable("y")),
				atom("sameAs", variable("x"), variable("z")),
				atom("base", variable("z"), variable("y"))),
		},
	}
	tr := newTestTranslator(program)
	stratum := stratify.Stratum{Index: 0, Relations: []string{"sameAs"}, Recursive: true}

	got := tr.translateRecursiveStratum(stratum)
	printed := PrintProgram(&Program{Main: got})

	if !strings.Contains(printed, "EXTEND sameAs WITH "+DeltaName("sameAs")) {
		t.Fatalf("expected the preamble to seed @delta_sameAs via EXTEND, got:\n%s", printed)
	}
	if !strings.Contains(printed, "EXTEND "+NewName("sameAs")+" WITH sameAs") {
		t.Fatalf("expected the update step to merge @new_sameAs via EXTEND, got:\n%s", printed)
	}
}

func TestTranslateRecursiveStratumExitConditionIncludesLimitsize(t *testing.T) {
	rel := testRelation("capped", attr("x", "number"))
	rel.HasLimit = true
	rel.LimitSize = 10
	program := &ast.Program{
		Relations: []*ast.Relation{testRelation("seed", attr("x", "number")), rel},
		Clauses: []*ast.Clause{
			ruleClause(atom("capped", variable("x")), atom("seed", variable("x"))),
			ruleClause(atom("capped", variable("x")), atom("capped", variable("x"))),
		},
	}
	tr := newTestTranslator(program)
	stratum := stratify.Stratum{Index: 0, Relations: []string{"capped"}, Recursive: true}

	cond := tr.recursiveExitCondition(stratum)
	printed := NewPrinter()
	printed.printStatement(&Exit{Cond: cond})
	if !strings.Contains(printed.String(), "capped") || !strings.Contains(printed.String(), ">=") {
		t.Fatalf("expected the exit condition to reference capped's RelationSize, got: %s", printed.String())
	}
}

func TestBuildRelationsAllocatesSubproofForProvenanceRelations(t *testing.T) {
	rel := testRelation("derived", attr("x", "number"))
	rel.Repr = ast.ReprProvenance
	program := &ast.Program{
		Relations: []*ast.Relation{rel},
		Clauses:   []*ast.Clause{ruleClause(atom("derived", variable("x")))},
	}
	tr := newTestTranslator(program)

	sp := tr.relByName[SubproofName("derived")]
	if sp == nil {
		t.Fatalf("expected a @subproof_derived relation to be allocated for a provenance relation")
	}
	if sp.Arity != 3 || sp.AuxArity != 2 {
		t.Fatalf("expected @subproof_derived to carry the base arity plus a rule/height pair, got arity=%d auxArity=%d", sp.Arity, sp.AuxArity)
	}
}

func TestBuildRelationsAllocatesStagingOnlyForSelfReferencingRelations(t *testing.T) {
	program := &ast.Program{
		Relations: []*ast.Relation{
			testRelation("edge", attr("x", "number"), attr("y", "number")),
			testRelation("path", attr("x", "number"), attr("y", "number")),
		},
		Clauses: []*ast.Clause{
			ruleClause(atom("path", variable("x"), variable("y")), atom("edge", variable("x"), variable("y"))),
		},
	}
	tr := newTestTranslator(program)

	if _, ok := tr.relByName[DeltaName("path")]; ok {
		t.Fatalf("a non-recursive relation should not get @delta/@new staging relations")
	}
	if _, ok := tr.relByName[DeltaName("edge")]; ok {
		t.Fatalf("edge is never a body atom of its own clauses, should not get staging relations")
	}
}

func TestTranslateEmitsOneSubroutinePerStratumInOrder(t *testing.T) {
	// edge is a fact base; path is a single non-recursive derivation over it.
	program := &ast.Program{
		Relations: []*ast.Relation{
			testRelation("edge", attr("x", "number"), attr("y", "number")),
			testRelation("path", attr("x", "number"), attr("y", "number")),
		},
		Clauses: []*ast.Clause{
			ruleClause(atom("edge", variable("x"), variable("y"))),
			ruleClause(atom("path", variable("x"), variable("y")), atom("edge", variable("x"), variable("y"))),
		},
	}
	strat := &stratify.Result{Strata: []stratify.Stratum{
		{Index: 0, Relations: []string{"edge"}},
		{Index: 1, Relations: []string{"path"}},
	}}

	prog := Translate(program, typesystem.NewEnvironment(), strat)

	if len(prog.Subroutines) != 2 {
		t.Fatalf("expected one subroutine per stratum, got %d", len(prog.Subroutines))
	}
	if _, ok := prog.Subroutines["stratum_0"]; !ok {
		t.Fatalf("expected a stratum_0 subroutine")
	}
	if _, ok := prog.Subroutines["stratum_1"]; !ok {
		t.Fatalf("expected a stratum_1 subroutine")
	}
	printed := PrintProgram(prog)
	if strings.Index(printed, "CALL stratum_0") > strings.Index(printed, "CALL stratum_1") {
		t.Fatalf("expected stratum_0 to be called before stratum_1, got:\n%s", printed)
	}
}

func TestTranslateClearsRelationsAfterLastConsumingStratum(t *testing.T) {
	// edge is only ever read by path's stratum, and carries no io qualifier,
	// so it should be cleared right after path's subroutine runs.
	program := &ast.Program{
		Relations: []*ast.Relation{
			testRelation("edge", attr("x", "number"), attr("y", "number")),
			testRelation("path", attr("x", "number"), attr("y", "number")),
		},
		Clauses: []*ast.Clause{
			ruleClause(atom("edge", variable("x"), variable("y"))),
			ruleClause(atom("path", variable("x"), variable("y")), atom("edge", variable("x"), variable("y"))),
		},
	}
	strat := &stratify.Result{Strata: []stratify.Stratum{
		{Index: 0, Relations: []string{"edge"}},
		{Index: 1, Relations: []string{"path"}},
	}}

	prog := Translate(program, typesystem.NewEnvironment(), strat)
	printed := PrintProgram(prog)

	callIdx := strings.Index(printed, "CALL stratum_1")
	clearIdx := strings.Index(printed, "CLEAR edge")
	if callIdx < 0 || clearIdx < 0 || clearIdx < callIdx {
		t.Fatalf("expected CLEAR edge to follow CALL stratum_1, got:\n%s", printed)
	}
}

func TestTranslateNeverClearsIOQualifiedRelations(t *testing.T) {
	edge := testRelation("edge", attr("x", "number"), attr("y", "number"))
	edge.Qualifiers = map[ast.Qualifier]bool{ast.QualOutput: true}
	program := &ast.Program{
		Relations: []*ast.Relation{
			edge,
			testRelation("path", attr("x", "number"), attr("y", "number")),
		},
		Clauses: []*ast.Clause{
			ruleClause(atom("edge", variable("x"), variable("y"))),
			ruleClause(atom("path", variable("x"), variable("y")), atom("edge", variable("x"), variable("y"))),
		},
	}
	strat := &stratify.Result{Strata: []stratify.Stratum{
		{Index: 0, Relations: []string{"edge"}},
		{Index: 1, Relations: []string{"path"}},
	}}

	prog := Translate(program, typesystem.NewEnvironment(), strat)
	printed := PrintProgram(prog)
	if strings.Contains(printed, "CLEAR edge") {
		t.Fatalf("an output-qualified relation must survive past main for the IO pass, got:\n%s", printed)
	}
}

func TestQualifierForMapsAttributeTypesToRAMQualifiers(t *testing.T) {
	tr := &translator{env: typesystem.NewEnvironment()}
	cases := []struct {
		typeName string
		want     AttrQualifier
	}{
		{"number", QualSigned},
		{"unsigned", QualUnsigned},
		{"float", QualFloat},
		{"symbol", QualSymbol},
		{"nonexistent", QualSymbol},
	}
	for _, c := range cases {
		if got := tr.qualifierFor(c.typeName); got != c.want {
			t.Errorf("qualifierFor(%q) = %q, want %q", c.typeName, got, c.want)
		}
	}
}

func TestCopyAllBuildsFullRelationScanInsert(t *testing.T) {
	got := copyAll("src", "dst", 2)
	want := &Query{Op: &Scan{Relation: "src", Level: 0, Body: &Insert{
		Relation: "dst",
		Args:     []Expression{&TupleElement{Level: 0, Column: 0}, &TupleElement{Level: 0, Column: 1}},
	}}}
	if !Equal(got, want) {
		t.Fatalf("copyAll mismatch:\n got: %s\nwant: %s", nodeString(got), nodeString(want))
	}
}

func TestOrCondsBuildsDeMorganDisjunction(t *testing.T) {
	a := &EmptinessCheck{Relation: "a"}
	b := &EmptinessCheck{Relation: "b"}

	got := orConds(a, b)
	want := &Negation{Cond: &Conjunction{Terms: []Condition{
		&Negation{Cond: a},
		&Negation{Cond: b},
	}}}
	if !Equal(got, want) {
		t.Fatalf("orConds mismatch:\n got: %s\nwant: %s", nodeString(got), nodeString(want))
	}

	if !Equal(orConds(a), a) {
		t.Fatalf("orConds of a single condition should return it unchanged")
	}
	if _, ok := orConds().(*False); !ok {
		t.Fatalf("orConds of no conditions should be False")
	}
}
