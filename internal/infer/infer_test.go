package infer

import (
	"testing"

	"github.com/dlogc/dlogc/internal/ast"
	"github.com/dlogc/dlogc/internal/typesystem"
)

func qn(parts ...string) ast.QualifiedName { return ast.NewQualifiedName(parts...) }

func variable(name string) *ast.Variable { return &ast.Variable{Name: name} }

// newEnv builds an Environment with the four primitive aliases plus an Age
// subset of number, for tests that need a non-trivial declared type.
func newEnv() (*typesystem.Environment, *typesystem.Type) {
	env := typesystem.NewEnvironment()
	number, _ := env.Lookup("number")
	age := env.CreateSubset("Age", number)
	return env, age
}

func newProgram(rel *ast.Relation) *ast.Program {
	return &ast.Program{Relations: []*ast.Relation{rel}}
}

func TestSinkAtomConstrainsToKindRoot(t *testing.T) {
	env, age := newEnv()
	rel := &ast.Relation{
		Name:       qn("adult"),
		Attributes: []*ast.Attribute{{Name: "a", TypeName: qn("Age")}},
	}
	program := newProgram(rel)

	x := variable("x")
	clause := &ast.Clause{
		Head: &ast.Atom{Name: qn("adult"), Args: []ast.Argument{x}},
	}

	res := Analyze(clause, program, env, DefaultOverloads())
	ts := res.TypeOf(x)
	root, _ := env.Lookup(typesystem.ConstantRootName(typesystem.KindSigned))
	if !ts.Equal(typesystem.Singleton(root)) {
		t.Fatalf("expected head (sink) arg to narrow to the signed constant root, got %v", ts)
	}
	_ = age
}

func TestSourceAtomConstrainsToDeclaredType(t *testing.T) {
	env, age := newEnv()
	rel := &ast.Relation{
		Name:       qn("adult"),
		Attributes: []*ast.Attribute{{Name: "a", TypeName: qn("Age")}},
	}
	program := newProgram(rel)

	x := variable("x")
	headX := variable("x")
	clause := &ast.Clause{
		Head: &ast.Atom{Name: qn("p"), Args: []ast.Argument{headX}},
		Body: []ast.Literal{
			&ast.Atom{Name: qn("adult"), Args: []ast.Argument{x}},
		},
	}

	res := Analyze(clause, program, env, DefaultOverloads())
	ts := res.TypeOf(headX)
	if !ts.Equal(typesystem.Singleton(age)) {
		t.Fatalf("expected x to narrow to Age via the source atom, got %v", ts)
	}
}

func TestStringConstantIsSymbolKind(t *testing.T) {
	env, _ := newEnv()
	str := &ast.StringConstant{Value: "hi"}
	clause := &ast.Clause{Head: &ast.Atom{Name: qn("p"), Args: []ast.Argument{str}}}

	res := Analyze(clause, &ast.Program{}, env, DefaultOverloads())
	symbolRoot, _ := env.Lookup(typesystem.ConstantRootName(typesystem.KindSymbol))
	if !res.TypeOf(str).Equal(typesystem.Singleton(symbolRoot)) {
		t.Fatalf("expected a string constant to be symbol-kind, got %v", res.TypeOf(str))
	}
}

func TestNumericConstantCandidateKinds(t *testing.T) {
	env, _ := newEnv()
	num := &ast.NumericConstant{Lexeme: "-3"}
	clause := &ast.Clause{Head: &ast.Atom{Name: qn("p"), Args: []ast.Argument{num}}}

	res := Analyze(clause, &ast.Program{}, env, DefaultOverloads())
	ts := res.TypeOf(num)
	signedRoot, _ := env.Lookup(typesystem.ConstantRootName(typesystem.KindSigned))
	floatRoot, _ := env.Lookup(typesystem.ConstantRootName(typesystem.KindFloat))
	if !ts.Contains(signedRoot) || !ts.Contains(floatRoot) {
		t.Fatalf("expected -3 to be a signed/float candidate, got %v", ts)
	}
	if ts.Contains(func() *typesystem.Type { t, _ := env.Lookup(typesystem.ConstantRootName(typesystem.KindUnsigned)); return t }()) {
		t.Errorf("expected -3 not to be a candidate unsigned constant")
	}
}

func TestNumericConstantFixedSuffixNarrows(t *testing.T) {
	env, _ := newEnv()
	num := &ast.NumericConstant{Lexeme: "3u", FixedKind: "unsigned"}
	clause := &ast.Clause{Head: &ast.Atom{Name: qn("p"), Args: []ast.Argument{num}}}

	res := Analyze(clause, &ast.Program{}, env, DefaultOverloads())
	ts := res.TypeOf(num)
	if ts.IsUniverse() || ts.Len() != 1 {
		t.Fatalf("expected a single candidate kind after the explicit suffix, got %v", ts)
	}
	unsignedRoot, _ := env.Lookup(typesystem.ConstantRootName(typesystem.KindUnsigned))
	if !ts.Contains(unsignedRoot) {
		t.Errorf("expected the unsigned suffix to pin the candidate to unsigned, got %v", ts)
	}
}

func TestIntrinsicFunctorOverloadResolvesFromArgKinds(t *testing.T) {
	env, age := newEnv()
	rel := &ast.Relation{
		Name:       qn("adult"),
		Attributes: []*ast.Attribute{{Name: "a", TypeName: qn("Age")}},
	}
	program := newProgram(rel)

	x := variable("x")
	sum := &ast.IntrinsicFunctor{Symbol: "+", Args: []ast.Argument{variable("x"), &ast.NumericConstant{Lexeme: "1"}}}
	clause := &ast.Clause{
		Head: &ast.Atom{Name: qn("p"), Args: []ast.Argument{sum}},
		Body: []ast.Literal{
			&ast.Atom{Name: qn("adult"), Args: []ast.Argument{x}},
		},
	}

	res := Analyze(clause, program, env, DefaultOverloads())
	overload, ok := res.ResolvedOverload(sum)
	if !ok {
		t.Fatalf("expected the + overload to resolve once x narrowed to a signed-kind type")
	}
	if overload.ReturnKind != typesystem.KindSigned {
		t.Errorf("expected the resolved overload to return signed, got %v", overload.ReturnKind)
	}
	_ = age
}

func TestAggregateSumUnifiesWithTarget(t *testing.T) {
	env, _ := newEnv()
	rel := &ast.Relation{
		Name:       qn("score"),
		Attributes: []*ast.Attribute{{Name: "a", TypeName: qn("number")}},
	}
	program := newProgram(rel)

	v := variable("v")
	agg := &ast.Aggregator{
		Op:     "sum",
		Target: variable("v"),
		Body: []ast.Literal{
			&ast.Atom{Name: qn("score"), Args: []ast.Argument{v}},
		},
	}
	clause := &ast.Clause{Head: &ast.Atom{Name: qn("p"), Args: []ast.Argument{agg}}}

	res := Analyze(clause, program, env, DefaultOverloads())
	ts := res.TypeOf(agg)
	numberType, _ := env.Lookup("number")
	if !ts.Equal(typesystem.Singleton(numberType)) {
		t.Fatalf("expected the sum aggregator's type to unify with its target's number type, got %v", ts)
	}
}

func TestRecordInitFieldsResolveOnceContainerSettles(t *testing.T) {
	env, _ := newEnv()
	list := env.ForwardAllocateRecord("Pair")
	list.Fields = []typesystem.Field{
		{Name: "a", Type: mustLookup(env, "number")},
		{Name: "b", Type: mustLookup(env, "symbol")},
	}

	rel := &ast.Relation{
		Name:       qn("p"),
		Attributes: []*ast.Attribute{{Name: "x", TypeName: qn("Pair")}},
	}
	program := newProgram(rel)

	a, b := variable("a"), variable("b")
	rec := &ast.RecordInit{Args: []ast.Argument{a, b}}
	clause := &ast.Clause{Head: &ast.Atom{Name: qn("p"), Args: []ast.Argument{rec}}}

	res := Analyze(clause, program, env, DefaultOverloads())
	if !res.TypeOf(a).Equal(typesystem.Singleton(mustLookup(env, "number"))) {
		t.Errorf("expected field a to resolve to number, got %v", res.TypeOf(a))
	}
	if !res.TypeOf(b).Equal(typesystem.Singleton(mustLookup(env, "symbol"))) {
		t.Errorf("expected field b to resolve to symbol, got %v", res.TypeOf(b))
	}
}

func mustLookup(env *typesystem.Environment, name string) *typesystem.Type {
	t, ok := env.Lookup(name)
	if !ok {
		panic("missing type " + name)
	}
	return t
}
