// Package poly implements operator-overload resolution: after type
// inference's fixpoint has settled, every polymorphic node (an intrinsic
// functor call, a binary constraint, an aggregator) carries a resolved
// concrete operator. This package both answers queries over that
// resolution directly and, via Apply, writes it back onto the AST nodes
// that already carry a field for it (IntrinsicFunctor.ResolvedOverload,
// BinaryConstraint.ResolvedKind, Aggregator.ResolvedKind) so later stages
// (the checker, RAM translation) can read it without re-deriving it.
package poly

import (
	"strings"

	"github.com/dlogc/dlogc/internal/ast"
	"github.com/dlogc/dlogc/internal/infer"
	"github.com/dlogc/dlogc/internal/typesystem"
)

// Queries wraps one clause's inference result with named lookups over
// its resolved overloads.
type Queries struct {
	result  *infer.Result
	program *ast.Program
}

// New builds a Queries view over a solved inference result.
func New(result *infer.Result, program *ast.Program) *Queries {
	return &Queries{result: result, program: program}
}

// InferredNumericKind reports the single kind a node settled on, if its
// TypeSet narrowed to types that all share one constant kind.
func (q *Queries) InferredNumericKind(arg ast.Argument) (typesystem.Kind, bool) {
	return singleKind(q.result.TypeOf(arg))
}

// ResolvedIntrinsic reports the overload an intrinsic functor call pinned
// to, or false if resolution never reached a single candidate (the
// checker flags that as E-FUNCTOR-002).
func (q *Queries) ResolvedIntrinsic(f *ast.IntrinsicFunctor) (infer.Overload, bool) {
	return q.result.ResolvedOverload(f)
}

// ResolvedAggregatorOp reports the concrete numeric kind an aggregator's
// count/mean/min/max/sum resolved to.
func (q *Queries) ResolvedAggregatorOp(agg *ast.Aggregator) (typesystem.Kind, bool) {
	return singleKind(q.result.TypeOf(agg))
}

// ResolvedBinaryOp reports the shared kind both sides of a binary
// constraint settled on.
func (q *Queries) ResolvedBinaryOp(bc *ast.BinaryConstraint) (typesystem.Kind, bool) {
	if bc.Left == nil {
		return 0, false
	}
	return singleKind(q.result.TypeOf(bc.Left))
}

// FunctorReturnKind reports the constant kind of a declared user functor's
// return type, if it resolves to one (a record/ADT return type has none).
func (q *Queries) FunctorReturnKind(name string) (typesystem.Kind, bool) {
	decl := q.program.FunctorByName(name)
	if decl == nil {
		return 0, false
	}
	return kindOfDeclaredName(decl.ReturnType, q)
}

// FunctorParamKind reports the constant kind of a declared user functor's
// i-th parameter type.
func (q *Queries) FunctorParamKind(name string, i int) (typesystem.Kind, bool) {
	decl := q.program.FunctorByName(name)
	if decl == nil || i < 0 || i >= len(decl.ParamTypes) {
		return 0, false
	}
	return kindOfDeclaredName(decl.ParamTypes[i], q)
}

// IsStateful reports whether a declared user functor carries hidden state
// across calls (§1, §3).
func (q *Queries) IsStateful(name string) bool {
	decl := q.program.FunctorByName(name)
	return decl != nil && decl.Stateful
}

func kindOfDeclaredName(name ast.QualifiedName, q *Queries) (typesystem.Kind, bool) {
	// FunctorByName only carries a type name, not a resolved *typesystem.Type
	// (§4.2 owns that resolution); callers that already have an Environment
	// in scope should prefer typesystem.KindOf directly. Here we only have
	// the inference result's own environment-free view, so this falls back
	// to recognizing the four primitive names directly.
	switch name.String() {
	case "number":
		return typesystem.KindSigned, true
	case "unsigned":
		return typesystem.KindUnsigned, true
	case "float":
		return typesystem.KindFloat, true
	case "symbol":
		return typesystem.KindSymbol, true
	default:
		return 0, false
	}
}

func singleKind(ts typesystem.TypeSet) (typesystem.Kind, bool) {
	if ts.IsUniverse() || ts.IsEmpty() {
		return 0, false
	}
	items := ts.Items()
	k, ok := typesystem.KindOf(items[0])
	if !ok {
		return 0, false
	}
	for _, t := range items[1:] {
		tk, ok := typesystem.KindOf(t)
		if !ok || tk != k {
			return 0, false
		}
	}
	return k, true
}

// FormatOverload renders a resolved overload as a compact signature string
// ("signed,signed->signed"), the form Apply writes onto
// IntrinsicFunctor.ResolvedOverload for later lowering stages to parse.
func FormatOverload(o infer.Overload) string {
	parts := make([]string, len(o.ParamKinds))
	for i, k := range o.ParamKinds {
		parts[i] = k.String()
	}
	return strings.Join(parts, ",") + "->" + o.ReturnKind.String()
}

// Apply walks clause and writes every resolved polymorphic operator back
// onto its AST node, mutating IntrinsicFunctor.ResolvedOverload,
// BinaryConstraint.ResolvedKind, and Aggregator.ResolvedKind in place.
func Apply(clause *ast.Clause, q *Queries) {
	if clause.Head != nil {
		applyAtom(clause.Head, q)
	}
	applyLiterals(clause.Body, q)
}

func applyLiterals(lits []ast.Literal, q *Queries) {
	for _, lit := range lits {
		switch l := lit.(type) {
		case *ast.Atom:
			applyAtom(l, q)
		case *ast.Negation:
			applyAtom(l.Atom, q)
		case *ast.BinaryConstraint:
			if k, ok := q.ResolvedBinaryOp(l); ok {
				l.ResolvedKind = k.String()
			}
			applyArg(l.Left, q)
			applyArg(l.Right, q)
		case *ast.FunctionalConstraint:
			applyArg(l.Key, q)
			for _, a := range l.Vars {
				applyArg(a, q)
			}
		}
	}
}

func applyAtom(atom *ast.Atom, q *Queries) {
	if atom == nil {
		return
	}
	for _, a := range atom.Args {
		applyArg(a, q)
	}
}

func applyArg(arg ast.Argument, q *Queries) {
	if arg == nil {
		return
	}
	switch a := arg.(type) {
	case *ast.IntrinsicFunctor:
		if overload, ok := q.ResolvedIntrinsic(a); ok {
			a.ResolvedOverload = FormatOverload(overload)
		}
		for _, child := range a.Args {
			applyArg(child, q)
		}
	case *ast.UserDefinedFunctor:
		for _, child := range a.Args {
			applyArg(child, q)
		}
	case *ast.TypeCast:
		applyArg(a.Value, q)
	case *ast.RecordInit:
		for _, child := range a.Args {
			applyArg(child, q)
		}
	case *ast.BranchInit:
		for _, child := range a.Args {
			applyArg(child, q)
		}
	case *ast.Aggregator:
		if k, ok := q.ResolvedAggregatorOp(a); ok {
			a.ResolvedKind = k.String()
		}
		if a.Target != nil {
			applyArg(a.Target, q)
		}
		applyLiterals(a.Body, q)
	}
}
