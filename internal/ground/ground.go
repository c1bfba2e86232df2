// Package ground implements groundedness analysis (§4.4): for each clause,
// a map from every argument subterm to "provably grounded by the body",
// computed as the Boolean-disjunct instantiation of the monotone fixpoint
// solver in internal/constraint.
package ground

import (
	"github.com/dlogc/dlogc/internal/ast"
	"github.com/dlogc/dlogc/internal/constraint"
)

// Result is the outcome of analyzing one clause.
type Result struct {
	nodeVar map[ast.Argument]constraint.Variable
	values  *constraint.Assignment[bool]
}

// IsGrounded reports whether arg was proven grounded. Nodes never visited
// by the analysis (nil, or not part of the analyzed clause) report false.
func (r *Result) IsGrounded(arg ast.Argument) bool {
	v, ok := r.nodeVar[arg]
	if !ok {
		return false
	}
	return r.values.Get(v)
}

func boolSpace() constraint.Space[bool] {
	return constraint.Space[bool]{
		Meet:   func(a, b bool) bool { return a || b },
		Bottom: func() bool { return false },
		Equal:  func(a, b bool) bool { return a == b },
	}
}

type builder struct {
	problem   *constraint.Problem[bool]
	nodeVar   map[ast.Argument]constraint.Variable
	varByName map[string]constraint.Variable
}

// Analyze runs §4.4's constraint schema over clause and solves it to a
// fixpoint. isInline reports whether a relation name is qualified inline
// (§3); it only affects whether the head atom is classified as a sink
// versus left uncategorized, which does not change the computed grounding
// (neither classification forces its arguments true), so a nil isInline
// is accepted and treated as "never inline".
func Analyze(clause *ast.Clause, isInline func(ast.QualifiedName) bool) *Result {
	b := &builder{
		problem:   constraint.NewProblem(boolSpace()),
		nodeVar:   make(map[ast.Argument]constraint.Variable),
		varByName: make(map[string]constraint.Variable),
	}

	if clause.Head != nil {
		for _, arg := range clause.Head.Args {
			b.visit(arg)
		}
	}
	for _, lit := range clause.Body {
		b.visitLiteralArgs(lit)
	}

	for _, lit := range clause.Body {
		b.emitLiteralRule(lit)
	}
	for arg := range b.nodeVar {
		b.emitNodeRule(arg)
	}

	assignment := b.problem.Solve()
	return &Result{nodeVar: b.nodeVar, values: assignment}
}

// getVar returns the constraint variable for arg, unifying named variable
// occurrences by name and giving every other subterm its own handle keyed
// by node identity.
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

// visit registers arg and recurses into its owned children, except that an
// aggregator is treated as atomic from the enclosing clause's point of
// view: its target expression and body belong to a separate scope handled
// by aggregate normalization (§4.7), not by this clause's grounding
// problem.
func (b *builder) visit(arg ast.Argument) {
	if arg == nil {
		return
	}
	b.getVar(arg)
	if _, isAgg := arg.(*ast.Aggregator); isAgg {
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

// emitLiteralRule adds the per-literal constraints of §4.4: positive body
// atoms are sources (their top-level arguments are forced true); negated
// atoms are sinks (no constraint); equality binary constraints propagate
// groundedness both ways.
func (b *builder) emitLiteralRule(lit ast.Literal) {
	switch l := lit.(type) {
	case *ast.Atom:
		for _, a := range l.Args {
			v := b.getVar(a)
			b.problem.AddConstraint(constraint.Func[bool]{
				Label: "source-atom-arg:" + v.String(),
				Apply: func(asg *constraint.Assignment[bool]) bool {
					return asg.Tighten(v, true)
				},
			})
		}
	case *ast.BinaryConstraint:
		if l.Op != "=" || l.Left == nil || l.Right == nil {
			return
		}
		left, right := b.getVar(l.Left), b.getVar(l.Right)
		b.problem.AddConstraint(constraint.Func[bool]{
			Label: "eq:" + left.String() + "<=>" + right.String(),
			Apply: func(asg *constraint.Assignment[bool]) bool {
				merged := asg.Get(left) || asg.Get(right)
				changed := false
				if merged && asg.Tighten(left, true) {
					changed = true
				}
				if merged && asg.Tighten(right, true) {
					changed = true
				}
				return changed
			},
		})
	}
}

// emitNodeRule adds the per-node-type constraint of §4.4 for a single
// subterm, independent of where it occurs in the clause.
func (b *builder) emitNodeRule(arg ast.Argument) {
	v := b.getVar(arg)
	switch n := arg.(type) {
	case *ast.NumericConstant, *ast.StringConstant, *ast.NilConstant, *ast.Counter, *ast.Aggregator:
		b.problem.AddConstraint(constraint.Func[bool]{
			Label: "const-or-agg:" + v.String(),
			Apply: func(asg *constraint.Assignment[bool]) bool {
				return asg.Tighten(v, true)
			},
		})

	case *ast.IntrinsicFunctor:
		b.emitAndRule(v, n.Args)
	case *ast.UserDefinedFunctor:
		b.emitAndRule(v, n.Args)

	case *ast.RecordInit:
		b.emitAndRule(v, n.Args)
		b.emitBroadcastRule(v, n.Args)
	case *ast.BranchInit:
		b.emitAndRule(v, n.Args)
		b.emitBroadcastRule(v, n.Args)

	case *ast.TypeCast:
		if n.Value == nil {
			return
		}
		value := b.getVar(n.Value)
		b.problem.AddConstraint(constraint.Func[bool]{
			Label: "cast:" + value.String() + "=>" + v.String(),
			Apply: func(asg *constraint.Assignment[bool]) bool {
				if asg.Get(value) {
					return asg.Tighten(v, true)
				}
				return false
			},
		})
	}
}

// emitAndRule: "all argument vars ⇒ the node's var is true."
func (b *builder) emitAndRule(result constraint.Variable, args []ast.Argument) {
	vars := make([]constraint.Variable, len(args))
	for i, a := range args {
		vars[i] = b.getVar(a)
	}
	b.problem.AddConstraint(constraint.Func[bool]{
		Label: "and:" + result.String(),
		Apply: func(asg *constraint.Assignment[bool]) bool {
			for _, av := range vars {
				if !asg.Get(av) {
					return false
				}
			}
			return asg.Tighten(result, true)
		},
	})
}

// emitBroadcastRule: "container true forces every arg true."
func (b *builder) emitBroadcastRule(container constraint.Variable, args []ast.Argument) {
	vars := make([]constraint.Variable, len(args))
	for i, a := range args {
		vars[i] = b.getVar(a)
	}
	b.problem.AddConstraint(constraint.Func[bool]{
		Label: "broadcast:" + container.String(),
		Apply: func(asg *constraint.Assignment[bool]) bool {
			if !asg.Get(container) {
				return false
			}
			changed := false
			for _, av := range vars {
				if asg.Tighten(av, true) {
					changed = true
				}
			}
			return changed
		},
	})
}
