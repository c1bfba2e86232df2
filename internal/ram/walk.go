package ram

// Walk visits n and every node reachable through its Children(), calling
// visit once per node in pre-order -- the RAM-level equivalent of
// ast.WalkArgument, built on the same Children()-style accessor instead
// of a double-dispatch Visitor, since §4.11 only asks for "a child-
// sequence accessor and an apply-mapper", not a full visitor interface.
func Walk(n Node, visit func(Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, child := range childrenOf(n) {
		Walk(child, visit)
	}
}

func childrenOf(n Node) []Node {
	switch v := n.(type) {
	case Statement:
		return v.Children()
	case Operation:
		return v.Children()
	case Expression:
		return v.Children()
	case Condition:
		return v.Children()
	default:
		return nil
	}
}

// Equal reports whether a and b are structurally identical, compared by
// their canonical printed form -- sufficient for the golden-snapshot and
// dedup uses this package actually has (SPEC_FULL's own test format is a
// textual RAM dump), and considerably simpler than a field-by-field
// comparator across every node kind of §4.11's four families.
func Equal(a, b Node) bool {
	return nodeString(a) == nodeString(b)
}

func nodeString(n Node) string {
	p := NewPrinter()
	switch v := n.(type) {
	case Statement:
		p.printStatement(v)
	case Operation:
		p.printOperation(v)
	case Expression:
		return p.exprString(v)
	case Condition:
		return p.condString(v)
	case nil:
		return "<nil>"
	}
	return p.String()
}

// MapExpression applies fn bottom-up to e and every expression reachable
// through it, rebuilding each level with its (possibly already-rewritten)
// children -- e.g. RenumberLevels uses it to shift tuple-element levels.
func MapExpression(e Expression, fn func(Expression) Expression) Expression {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case *IntrinsicOperator:
		cp := *v
		cp.Args = mapExprSlice(v.Args, fn)
		return fn(&cp)
	case *UserDefinedOperator:
		cp := *v
		cp.Args = mapExprSlice(v.Args, fn)
		return fn(&cp)
	case *PackRecord:
		cp := *v
		cp.Args = mapExprSlice(v.Args, fn)
		return fn(&cp)
	default:
		return fn(e.Clone())
	}
}

func mapExprSlice(args []Expression, fn func(Expression) Expression) []Expression {
	if args == nil {
		return nil
	}
	out := make([]Expression, len(args))
	for i, a := range args {
		out[i] = MapExpression(a, fn)
	}
	return out
}

// RenumberLevels returns a copy of e with every TupleElement's Level
// shifted by delta.
func RenumberLevels(e Expression, delta int) Expression {
	return MapExpression(e, func(ex Expression) Expression {
		if te, ok := ex.(*TupleElement); ok {
			cp := *te
			cp.Level += delta
			return &cp
		}
		return ex
	})
}
