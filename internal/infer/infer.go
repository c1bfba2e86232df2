// Package infer implements type inference (§4.5): per clause, one
// constraint variable per distinct argument subterm (named-variable
// occurrences unified by name, clause-wide, including inside aggregator
// targets and bodies), solved to a fixpoint over the TypeSet lattice by the
// generic solver in internal/constraint.
package infer

import (
	"strconv"
	"strings"

	"github.com/dlogc/dlogc/internal/ast"
	"github.com/dlogc/dlogc/internal/constraint"
	"github.com/dlogc/dlogc/internal/typesystem"
)

// Result is the outcome of analyzing one clause.
type Result struct {
	nodeVar   map[ast.Argument]constraint.Variable
	values    *constraint.Assignment[typesystem.TypeSet]
	overloads map[*ast.IntrinsicFunctor]*overloadConstraint
}

// TypeOf returns the inferred TypeSet for arg. Nodes never visited by the
// analysis report Universe, matching "nothing known".
func (r *Result) TypeOf(arg ast.Argument) typesystem.TypeSet {
	v, ok := r.nodeVar[arg]
	if !ok {
		return typesystem.Universe()
	}
	return r.values.Get(v)
}

// ResolvedOverload reports the intrinsic overload pinned for f, if the
// narrowing constraint reached exactly one candidate (§4.6).
func (r *Result) ResolvedOverload(f *ast.IntrinsicFunctor) (Overload, bool) {
	oc, ok := r.overloads[f]
	if !ok || oc.resolved == nil {
		return Overload{}, false
	}
	return *oc.resolved, true
}

func typeSpace() constraint.Space[typesystem.TypeSet] {
	return constraint.Space[typesystem.TypeSet]{
		Meet:   typesystem.GCSSets,
		Bottom: typesystem.Universe,
		Equal:  func(a, b typesystem.TypeSet) bool { return a.Equal(b) },
	}
}

type builder struct {
	problem   *constraint.Problem[typesystem.TypeSet]
	nodeVar   map[ast.Argument]constraint.Variable
	varByName map[string]constraint.Variable
	program   *ast.Program
	env       *typesystem.Environment
	overloads OverloadTable

	literals    []ast.Literal
	aggregators []*ast.Aggregator
	resolutions map[*ast.IntrinsicFunctor]*overloadConstraint
}

// Analyze runs §4.5's constraint schema over clause and solves it to a
// fixpoint. program resolves relation attribute types and user-defined
// functor signatures; env resolves declared type names to *typesystem.Type;
// overloads is the intrinsic functor signature table (DefaultOverloads, or
// a caller-supplied variant).
func Analyze(clause *ast.Clause, program *ast.Program, env *typesystem.Environment, overloads OverloadTable) *Result {
	b := &builder{
		problem:     constraint.NewProblem(typeSpace()),
		nodeVar:     make(map[ast.Argument]constraint.Variable),
		varByName:   make(map[string]constraint.Variable),
		program:     program,
		env:         env,
		overloads:   overloads,
		resolutions: make(map[*ast.IntrinsicFunctor]*overloadConstraint),
	}

	if clause.Head != nil {
		for _, arg := range clause.Head.Args {
			b.visit(arg)
		}
	}
	for _, lit := range clause.Body {
		b.literals = append(b.literals, lit)
		b.visitLiteralArgs(lit)
	}

	if clause.Head != nil {
		b.emitAtomRule(clause.Head, true)
	}
	for _, lit := range b.literals {
		b.emitLiteralRule(lit)
	}
	for arg := range b.nodeVar {
		b.emitNodeRule(arg)
	}
	for _, agg := range b.aggregators {
		b.emitAggregatorRule(agg)
	}

	assignment := b.problem.Solve()
	return &Result{nodeVar: b.nodeVar, values: assignment, overloads: b.resolutions}
}

func (b *builder) getVar(arg ast.Argument) constraint.Variable {
	if existing, ok := b.nodeVar[arg]; ok {
		return existing
	}
	if v, ok := arg.(*ast.Variable); ok {
		if existing, ok := b.varByName[v.Name]; ok {
			b.nodeVar[arg] = existing
			return existing
		}
		nv := b.problem.NewVariable(v.Name)
		b.varByName[v.Name] = nv
		b.nodeVar[arg] = nv
		return nv
	}
	nv := b.problem.NewVariable(describe(arg))
	b.nodeVar[arg] = nv
	return nv
}

func describe(arg ast.Argument) string {
	switch arg.(type) {
	case *ast.UnnamedVariable:
		return "_"
	case *ast.NumericConstant:
		return "numeric-constant"
	case *ast.StringConstant:
		return "string-constant"
	case *ast.NilConstant:
		return "nil"
	case *ast.Counter:
		return "$"
	case *ast.IntrinsicFunctor:
		return "intrinsic-functor"
	case *ast.UserDefinedFunctor:
		return "user-functor"
	case *ast.TypeCast:
		return "type-cast"
	case *ast.RecordInit:
		return "record-init"
	case *ast.BranchInit:
		return "branch-init"
	case *ast.Aggregator:
		return "aggregator"
	default:
		return "arg"
	}
}

// visit registers arg and recurses into its owned children. Unlike
// groundedness (§4.4), an aggregator is NOT an opaque leaf here: its target
// expression and body share the enclosing clause's variable scope for type
// purposes (§4.5, "the target expression and the aggregator's own variable
// share the same type"), so visit descends into both.
func (b *builder) visit(arg ast.Argument) {
	if arg == nil {
		return
	}
	b.getVar(arg)
	if agg, ok := arg.(*ast.Aggregator); ok {
		b.aggregators = append(b.aggregators, agg)
		if agg.Target != nil {
			b.visit(agg.Target)
		}
		for _, lit := range agg.Body {
			b.literals = append(b.literals, lit)
			b.visitLiteralArgs(lit)
		}
		return
	}
	for _, child := range ast.ArgumentChildren(arg) {
		b.visit(child)
	}
}

func (b *builder) visitLiteralArgs(lit ast.Literal) {
	switch l := lit.(type) {
	case *ast.Atom:
		for _, a := range l.Args {
			b.visit(a)
		}
	case *ast.Negation:
		for _, a := range l.Atom.Args {
			b.visit(a)
		}
	case *ast.BinaryConstraint:
		b.visit(l.Left)
		b.visit(l.Right)
	case *ast.FunctionalConstraint:
		b.visit(l.Key)
		for _, a := range l.Vars {
			b.visit(a)
		}
	}
}

func (b *builder) emitLiteralRule(lit ast.Literal) {
	switch l := lit.(type) {
	case *ast.Atom:
		b.emitAtomRule(l, false)
	case *ast.Negation:
		b.emitAtomRule(l.Atom, true)
	case *ast.BinaryConstraint:
		b.emitBinaryConstraint(l)
	}
}

var orderingOps = map[string]bool{"<": true, "<=": true, ">": true, ">=": true, "!=": true}

// emitAtomRule applies §4.5's literal atom rule: a sink position (the head,
// or a negated body atom) constrains its argument to the attribute's
// constant-kind root; a source position constrains it to the attribute's
// declared type.
func (b *builder) emitAtomRule(atom *ast.Atom, isSink bool) {
	if atom == nil || b.program == nil {
		return
	}
	rel := b.program.RelationByName(atom.Name)
	if rel == nil {
		return
	}
	n := len(atom.Args)
	if len(rel.Attributes) < n {
		n = len(rel.Attributes)
	}
	for i := 0; i < n; i++ {
		declared, ok := b.env.Lookup(rel.Attributes[i].TypeName.String())
		if !ok {
			continue
		}
		v := b.getVar(atom.Args[i])
		// Sink positions constrain to the attribute's constant-kind root
		// when it has one; a record/ADT attribute has no looser root to
		// constrain to, so it falls back to the declared type itself, same
		// as a source position.
		target := typesystem.Singleton(declared)
		if isSink {
			if k, ok := typesystem.KindOf(declared); ok {
				if root, ok := b.env.Lookup(typesystem.ConstantRootName(k)); ok {
					target = typesystem.Singleton(root)
				}
			}
		}
		b.problem.AddConstraint(constraint.Func[typesystem.TypeSet]{
			Label: "atom-arg:" + v.String(),
			Apply: func(asg *constraint.Assignment[typesystem.TypeSet]) bool {
				return asg.Tighten(v, target)
			},
		})
	}
}

// emitBinaryConstraint applies §4.5's binary literal rule: both sides
// mutually unify toward their greatest common subtype; ordering operators
// additionally filter each side down to kinds the other side can take on,
// since `<`/`>`/... compare across unrelated same-kind types that GCSSets
// alone would reject.
func (b *builder) emitBinaryConstraint(lit *ast.BinaryConstraint) {
	if lit.Left == nil || lit.Right == nil {
		return
	}
	left, right := b.getVar(lit.Left), b.getVar(lit.Right)
	isOrdering := orderingOps[lit.Op]
	b.problem.AddConstraint(constraint.Func[typesystem.TypeSet]{
		Label: "binary:" + lit.Op + ":" + left.String() + "," + right.String(),
		Apply: func(asg *constraint.Assignment[typesystem.TypeSet]) bool {
			changed := false
			merged := typesystem.GCSSets(asg.Get(left), asg.Get(right))
			if asg.Tighten(left, merged) {
				changed = true
			}
			if asg.Tighten(right, merged) {
				changed = true
			}
			if isOrdering {
				lv, rv := asg.Get(left), asg.Get(right)
				lk, rk := kindsIn(lv), kindsIn(rv)
				if asg.Tighten(left, filterToKinds(lv, rk)) {
					changed = true
				}
				if asg.Tighten(right, filterToKinds(rv, lk)) {
					changed = true
				}
			}
			return changed
		},
	})
}

func kindsIn(ts typesystem.TypeSet) map[typesystem.Kind]bool {
	if ts.IsUniverse() {
		return nil
	}
	out := map[typesystem.Kind]bool{}
	for _, t := range ts.Items() {
		if k, ok := typesystem.KindOf(t); ok {
			out[k] = true
		}
	}
	return out
}

func filterToKinds(ts typesystem.TypeSet, kinds map[typesystem.Kind]bool) typesystem.TypeSet {
	if ts.IsUniverse() || kinds == nil {
		return ts
	}
	return ts.Filter(func(t *typesystem.Type) bool {
		k, ok := typesystem.KindOf(t)
		return ok && kinds[k]
	})
}

func (b *builder) numericRoots() []*typesystem.Type {
	var out []*typesystem.Type
	for _, k := range []typesystem.Kind{typesystem.KindSigned, typesystem.KindUnsigned, typesystem.KindFloat} {
		if root, ok := b.env.Lookup(typesystem.ConstantRootName(k)); ok {
			out = append(out, root)
		}
	}
	return out
}

func (b *builder) rootOf(k typesystem.Kind) (typesystem.TypeSet, bool) {
	root, ok := b.env.Lookup(typesystem.ConstantRootName(k))
	if !ok {
		return typesystem.TypeSet{}, false
	}
	return typesystem.Singleton(root), true
}

// emitNodeRule adds the per-node-type constraint of §4.5 for a single
// subterm.
func (b *builder) emitNodeRule(arg ast.Argument) {
	v := b.getVar(arg)
	switch n := arg.(type) {
	case *ast.StringConstant:
		if target, ok := b.rootOf(typesystem.KindSymbol); ok {
			b.tightenConst(v, target)
		}

	case *ast.NumericConstant:
		roots := b.numericConstantKinds(n)
		if len(roots) == 0 {
			return
		}
		target := typesystem.FromSlice(roots)
		b.tightenConst(v, target)

	case *ast.Counter:
		if target, ok := b.rootOf(typesystem.KindSigned); ok {
			b.tightenConst(v, target)
		}

	case *ast.IntrinsicFunctor:
		b.emitOverloadConstraint(n, v)

	case *ast.UserDefinedFunctor:
		b.emitUserFunctorConstraint(n, v)

	case *ast.TypeCast:
		if target, ok := b.env.Lookup(n.TargetType.String()); ok {
			ts := typesystem.Singleton(target)
			b.tightenConst(v, ts)
		}

	case *ast.RecordInit:
		fieldVars := make([]constraint.Variable, len(n.Args))
		for i, a := range n.Args {
			fieldVars[i] = b.getVar(a)
		}
		b.problem.AddConstraint(&recordFieldConstraint{container: v, fieldVars: fieldVars})

	case *ast.BranchInit:
		fieldVars := make([]constraint.Variable, len(n.Args))
		for i, a := range n.Args {
			fieldVars[i] = b.getVar(a)
		}
		b.problem.AddConstraint(&branchFieldConstraint{container: v, constructor: n.Constructor, fieldVars: fieldVars})
	}
}

func (b *builder) tightenConst(v constraint.Variable, target typesystem.TypeSet) {
	b.problem.AddConstraint(constraint.Func[typesystem.TypeSet]{
		Label: "const:" + v.String(),
		Apply: func(asg *constraint.Assignment[typesystem.TypeSet]) bool {
			return asg.Tighten(v, target)
		},
	})
}

// numericConstantKinds computes the candidate kind roots for a numeric
// literal: whichever of signed/unsigned/float the lexeme actually parses
// as, narrowed to the explicit suffix kind when the lexeme carries one
// (§4.5).
func (b *builder) numericConstantKinds(n *ast.NumericConstant) []*typesystem.Type {
	lexeme := strings.TrimSuffix(strings.TrimSuffix(n.Lexeme, "u"), "f")
	var kinds []typesystem.Kind
	if _, err := strconv.ParseInt(lexeme, 0, 64); err == nil {
		kinds = append(kinds, typesystem.KindSigned)
	}
	if _, err := strconv.ParseUint(lexeme, 0, 64); err == nil {
		kinds = append(kinds, typesystem.KindUnsigned)
	}
	if _, err := strconv.ParseFloat(lexeme, 64); err == nil {
		kinds = append(kinds, typesystem.KindFloat)
	}
	if n.FixedKind != "" {
		var want typesystem.Kind
		switch n.FixedKind {
		case "signed":
			want = typesystem.KindSigned
		case "unsigned":
			want = typesystem.KindUnsigned
		case "float":
			want = typesystem.KindFloat
		default:
			return nil
		}
		found := false
		for _, k := range kinds {
			if k == want {
				found = true
			}
		}
		if !found {
			return nil
		}
		kinds = []typesystem.Kind{want}
	}
	var out []*typesystem.Type
	for _, k := range kinds {
		if root, ok := b.env.Lookup(typesystem.ConstantRootName(k)); ok {
			out = append(out, root)
		}
	}
	return out
}

func (b *builder) emitUserFunctorConstraint(n *ast.UserDefinedFunctor, v constraint.Variable) {
	if b.program == nil {
		return
	}
	decl := b.program.FunctorByName(n.Name)
	if decl == nil {
		return // E-REF-003 undefined functor is flagged by the checker, §4.8.
	}
	if ret, ok := b.env.Lookup(decl.ReturnType.String()); ok {
		target := typesystem.Singleton(ret)
		b.tightenConst(v, target)
	}
	count := len(n.Args)
	if len(decl.ParamTypes) < count {
		count = len(decl.ParamTypes)
	}
	for i := 0; i < count; i++ {
		pt, ok := b.env.Lookup(decl.ParamTypes[i].String())
		if !ok {
			continue
		}
		pv := b.getVar(n.Args[i])
		target := typesystem.Singleton(pt)
		b.tightenConst(pv, target)
	}
}

func (b *builder) emitOverloadConstraint(n *ast.IntrinsicFunctor, v constraint.Variable) {
	table := b.overloads[n.Symbol]
	if len(table) == 0 {
		return // E-FUNCTOR-002 unresolved intrinsic flagged by the checker.
	}
	paramVars := make([]constraint.Variable, 0, len(n.Args))
	for _, a := range n.Args {
		paramVars = append(paramVars, b.getVar(a))
	}
	alive := make([]int, len(table))
	for i := range table {
		alive[i] = i
	}
	oc := &overloadConstraint{
		symbol:     n.Symbol,
		table:      table,
		returnVar:  v,
		paramVars:  paramVars,
		alive:      alive,
		rootOfKind: b.rootOf,
	}
	b.resolutions[n] = oc
	b.problem.AddConstraint(oc)
}
