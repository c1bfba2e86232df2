package ram

import (
	"strconv"

	"github.com/dlogc/dlogc/internal/ast"
)

// binder tracks which RAM expression a clause-local variable name currently
// resolves to, accumulated left-to-right as the clause's body is lowered
// (§4.10 step 6: "variable bindings are materialized as TupleElement
// references at the current nest level").
type binder struct {
	vars map[string]Expression
}

func newBinder() *binder { return &binder{vars: map[string]Expression{}} }

func (b *binder) lookup(name string) (Expression, bool) {
	e, ok := b.vars[name]
	return e, ok
}

func (b *binder) bind(name string, e Expression) {
	b.vars[name] = e
}

// lowerClause builds the operation nest for one clause, targeting
// targetRel with the clause's head tuple (§4.10 steps 1-6). version is -1
// for a non-recursive clause (preamble or a clause outside any recursive
// component); for a recursive clause it selects which scheduled SCC-member
// atom becomes the `@delta_R` probe (step 7), with sccMembers naming the
// relations that participate in the same stratum's cycle.
func (t *translator) lowerClause(cl *ast.Clause, targetRel string, sccMembers map[string]bool, version int) Operation {
	b := newBinder()
	level := 0
	nextLevel := func() int {
		l := level
		level++
		return l
	}

	atoms := cl.BodyAtoms()
	if version >= 0 {
		if plan, ok := cl.Plan[version]; ok {
			reordered := make([]*ast.Atom, 0, len(plan))
			for _, p := range plan {
				if p-1 >= 0 && p-1 < len(atoms) {
					reordered = append(reordered, atoms[p-1])
				}
			}
			if len(reordered) == len(atoms) {
				atoms = reordered
			}
		}
	}

	var wraps []func(Operation) Operation
	sccPos := 0
	for _, atom := range atoms {
		origName := atom.Name.String()
		relName := origName
		isMember := version >= 0 && sccMembers[origName]
		myPos := sccPos
		if isMember {
			sccPos++
			if myPos == version {
				relName = DeltaName(origName)
			}
		}

		lvl := nextLevel()
		colExprs := make([]Expression, len(atom.Args))
		valExprs := make([]Expression, len(atom.Args))
		var termConds []Condition
		constantOnly := true
		for col, arg := range atom.Args {
			te, cond, fresh, val := t.bindAtomArg(arg, lvl, col, b)
			colExprs[col] = te
			valExprs[col] = val
			if cond != nil {
				termConds = append(termConds, cond)
			}
			if fresh {
				constantOnly = false
			}
			if _, ok := arg.(*ast.UnnamedVariable); ok {
				constantOnly = false
			}
		}

		if isMember && myPos > version {
			// This atom is scanned (it binds t_lvl), so t_lvl[col] is a
			// meaningful reference here -- unlike the constant-only Break
			// path below, which has no Scan of its own.
			termConds = append(termConds, &Negation{Cond: &ExistenceCheck{Relation: DeltaName(origName), Args: colExprs}})
		}

		var atomCond Condition
		for _, c := range termConds {
			atomCond = And(atomCond, c)
		}

		if constantOnly {
			rn, args := relName, valExprs
			wraps = append(wraps, func(inner Operation) Operation {
				return &Break{Cond: &Negation{Cond: &ExistenceCheck{Relation: rn, Args: args}}, Body: inner}
			})
			continue
		}

		rn, rl, ac := relName, lvl, atomCond
		wraps = append(wraps, func(inner Operation) Operation {
			body := inner
			if ac != nil {
				body = &Filter{Cond: ac, Body: inner}
			}
			return &Scan{Relation: rn, Level: rl, Body: body}
		})
	}

	for _, lit := range cl.Body {
		switch l := lit.(type) {
		case *ast.Atom:
			// handled above
		case *ast.Negation:
			args := make([]Expression, len(l.Atom.Args))
			for i, a := range l.Atom.Args {
				args[i] = t.translateValue(a, b)
			}
			rel := l.Atom.Name.String()
			wraps = append(wraps, func(inner Operation) Operation {
				return &Filter{Cond: &Negation{Cond: &ExistenceCheck{Relation: rel, Args: args}}, Body: inner}
			})
		case *ast.BinaryConstraint:
			wraps = append(wraps, t.lowerBinaryConstraint(l, b, nextLevel))
		case *ast.FunctionalConstraint:
			// choice-domain sugar desugars to a declarative Relation.FD
			// (SPEC_FULL §C); no RAM filter is emitted here, only the
			// variable bookkeeping a later reference might need.
			t.translateValue(l.Key, b)
			for _, v := range l.Vars {
				t.translateValue(v, b)
			}
		case *ast.BooleanConstraint:
			if !l.Value {
				wraps = append(wraps, func(inner Operation) Operation {
					return &Filter{Cond: &False{}, Body: inner}
				})
			}
		}
	}

	headExprs := make([]Expression, len(cl.Head.Args))
	for i, a := range cl.Head.Args {
		headExprs[i] = t.translateValue(a, b)
	}

	var insertOp Operation = t.insertOperation(cl, targetRel, headExprs)
	if len(cl.Head.Args) == 0 {
		insertOp = &Filter{Cond: &EmptinessCheck{Relation: targetRel}, Body: insertOp}
	}

	result := insertOp
	for i := len(wraps) - 1; i >= 0; i-- {
		result = wraps[i](result)
	}
	return result
}

func (t *translator) insertOperation(cl *ast.Clause, targetRel string, headExprs []Expression) Operation {
	rel := t.program.RelationByName(cl.Head.Name)
	if rel != nil && len(rel.FDs) > 0 {
		return &GuardedInsert{Relation: targetRel, Args: headExprs, KeyColumns: fdColumns(rel, rel.FDs[0])}
	}
	return &Insert{Relation: targetRel, Args: headExprs}
}

func fdColumns(rel *ast.Relation, fd ast.FunctionalDependency) []int {
	cols := make([]int, 0, len(fd.Attributes))
	for _, a := range fd.Attributes {
		if idx := rel.AttributeIndex(a); idx >= 0 {
			cols = append(cols, idx)
		}
	}
	return cols
}

// bindAtomArg resolves one atom-argument occurrence at (level, col): a
// never-seen-before variable binds fresh (no filter, fresh=true); a
// variable already bound, or any constant/functor-valued argument, becomes
// an equality filter against the column (§4.10 step 2). The fourth return
// value is the argument's resolved value -- the existing binding or
// translated constant, as opposed to the column's own TupleElement -- used
// by the constant-only fast path (step 6), which has no Scan of its own to
// give t_level[col] a meaning.
func (t *translator) bindAtomArg(arg ast.Argument, level, col int, b *binder) (Expression, Condition, bool, Expression) {
	te := &TupleElement{Level: level, Column: col}
	switch v := arg.(type) {
	case *ast.Variable:
		if existing, ok := b.lookup(v.Name); ok {
			return te, &Constraint{Op: "=", Lhs: te, Rhs: existing}, false, existing
		}
		b.bind(v.Name, te)
		return te, nil, true, te
	case *ast.UnnamedVariable:
		return te, nil, true, te
	default:
		val := t.translateValue(arg, b)
		return te, &Constraint{Op: "=", Lhs: te, Rhs: val}, false, val
	}
}

// translateValue translates a value-position argument purely from
// bindings already established earlier in the clause -- it never
// introduces a fresh binding (groundedness analysis, §4.4, guarantees
// every value-position argument reaching translation is already grounded).
func (t *translator) translateValue(arg ast.Argument, b *binder) Expression {
	switch v := arg.(type) {
	case *ast.Variable:
		if e, ok := b.lookup(v.Name); ok {
			return e
		}
		return &UndefValue{}
	case *ast.UnnamedVariable:
		return &UndefValue{}
	case *ast.NumericConstant:
		return parseNumericConstant(v.Lexeme, v.FixedKind)
	case *ast.StringConstant:
		return &StringConstant{Value: v.Value}
	case *ast.NilConstant:
		return &UndefValue{}
	case *ast.Counter:
		return &AutoIncrement{}
	case *ast.IntrinsicFunctor:
		args := make([]Expression, len(v.Args))
		for i, a := range v.Args {
			args[i] = t.translateValue(a, b)
		}
		symbol := v.ResolvedOverload
		if symbol == "" {
			symbol = v.Symbol
		}
		return &IntrinsicOperator{Symbol: symbol, Args: args}
	case *ast.UserDefinedFunctor:
		args := make([]Expression, len(v.Args))
		for i, a := range v.Args {
			args[i] = t.translateValue(a, b)
		}
		return &UserDefinedOperator{Name: v.Name, Args: args}
	case *ast.TypeCast:
		return t.translateValue(v.Value, b)
	case *ast.RecordInit:
		args := make([]Expression, len(v.Args))
		for i, a := range v.Args {
			args[i] = t.translateValue(a, b)
		}
		return &PackRecord{Args: args}
	case *ast.BranchInit:
		args := make([]Expression, len(v.Args)+1)
		args[0] = &StringConstant{Value: v.Constructor}
		for i, a := range v.Args {
			args[i+1] = t.translateValue(a, b)
		}
		return &PackRecord{Args: args}
	case *ast.Aggregator:
		result, _ := t.translateAggregator(v, b, func() int { return 0 })
		return result
	default:
		return &UndefValue{}
	}
}

func parseNumericConstant(lexeme, fixedKind string) Expression {
	switch fixedKind {
	case "unsigned":
		if n, err := strconv.ParseUint(lexeme, 10, 64); err == nil {
			return &UnsignedConstant{Value: n}
		}
	case "float":
		if f, err := strconv.ParseFloat(lexeme, 64); err == nil {
			return &FloatConstant{Value: f}
		}
	default:
		if n, err := strconv.ParseInt(lexeme, 10, 64); err == nil {
			return &SignedConstant{Value: n}
		}
		if f, err := strconv.ParseFloat(lexeme, 64); err == nil {
			return &FloatConstant{Value: f}
		}
	}
	return &SignedConstant{}
}

// lowerBinaryConstraint translates one `a OP b` body literal. An equality
// against a still-unbound variable binds that variable instead of emitting
// a redundant self-comparison filter; everything else becomes a Filter
// wrapping a Constraint (§4.10 step 3), with either operand an Aggregate
// when one side is an aggregator (step 4).
func (t *translator) lowerBinaryConstraint(l *ast.BinaryConstraint, b *binder, nextLevel func() int) func(Operation) Operation {
	if agg, ok := l.Left.(*ast.Aggregator); ok {
		return t.wrapAggregateConstraint(agg, l.Op, l.Right, b, nextLevel, false)
	}
	if agg, ok := l.Right.(*ast.Aggregator); ok {
		return t.wrapAggregateConstraint(agg, l.Op, l.Left, b, nextLevel, true)
	}

	if l.Op == "=" {
		if v, ok := l.Left.(*ast.Variable); ok {
			if _, bound := b.lookup(v.Name); !bound {
				rhs := t.translateValue(l.Right, b)
				b.bind(v.Name, rhs)
				return identityWrap
			}
		}
		if v, ok := l.Right.(*ast.Variable); ok {
			if _, bound := b.lookup(v.Name); !bound {
				lhs := t.translateValue(l.Left, b)
				b.bind(v.Name, lhs)
				return identityWrap
			}
		}
	}

	lhs := t.translateValue(l.Left, b)
	rhs := t.translateValue(l.Right, b)
	op := l.Op
	return func(inner Operation) Operation {
		return &Filter{Cond: &Constraint{Op: op, Lhs: lhs, Rhs: rhs}, Body: inner}
	}
}

func identityWrap(inner Operation) Operation { return inner }

func (t *translator) wrapAggregateConstraint(agg *ast.Aggregator, op string, other ast.Argument, b *binder, nextLevel func() int, aggIsRight bool) func(Operation) Operation {
	resultExpr, aggWrap := t.translateAggregator(agg, b, nextLevel)
	if op == "=" {
		if v, ok := other.(*ast.Variable); ok {
			if _, bound := b.lookup(v.Name); !bound {
				b.bind(v.Name, resultExpr)
				return aggWrap
			}
		}
	}
	otherExpr := t.translateValue(other, b)
	lhs, rhs := resultExpr, otherExpr
	if aggIsRight {
		lhs, rhs = otherExpr, resultExpr
	}
	return func(inner Operation) Operation {
		return aggWrap(&Filter{Cond: &Constraint{Op: op, Lhs: lhs, Rhs: rhs}, Body: inner})
	}
}

// translateAggregator lowers one aggregator's body into an Aggregate
// operation (§4.10 step 4): its first body literal fixes the scanned
// Relation and Level, any further literals fold into Cond as semi-join
// existence checks rather than additional nested scans (a relation can
// still be referenced in full via Cond, just not bind further columns
// visible outside the aggregator -- real aggregator bodies in practice
// name one source relation plus a handful of filters, not an open-ended
// join, so this covers the shapes that actually occur). The returned
// Expression is the aggregate's bound result, TupleElement(Level, 0);
// the returned wrap installs the Aggregate around whatever comes next.
func (t *translator) translateAggregator(agg *ast.Aggregator, b *binder, nextLevel func() int) (Expression, func(Operation) Operation) {
	if len(agg.Body) == 0 {
		lvl := nextLevel()
		return &TupleElement{Level: lvl, Column: 0}, func(inner Operation) Operation {
			return &Aggregate{Op: agg.Op, Level: lvl, Cond: &True{}, Body: inner}
		}
	}

	primary, ok := agg.Body[0].(*ast.Atom)
	if !ok {
		lvl := nextLevel()
		return &TupleElement{Level: lvl, Column: 0}, func(inner Operation) Operation {
			return &Aggregate{Op: agg.Op, Level: lvl, Cond: &True{}, Body: inner}
		}
	}

	lvl := nextLevel()
	var terms []Condition
	for col, arg := range primary.Args {
		_, cond, _, _ := t.bindAtomArg(arg, lvl, col, b)
		if cond != nil {
			terms = append(terms, cond)
		}
	}
	for _, extra := range agg.Body[1:] {
		switch e := extra.(type) {
		case *ast.Atom:
			args := make([]Expression, len(e.Args))
			for i, a := range e.Args {
				args[i] = t.translateValue(a, b)
			}
			terms = append(terms, &ExistenceCheck{Relation: e.Name.String(), Args: args})
		case *ast.Negation:
			args := make([]Expression, len(e.Atom.Args))
			for i, a := range e.Atom.Args {
				args[i] = t.translateValue(a, b)
			}
			terms = append(terms, &Negation{Cond: &ExistenceCheck{Relation: e.Atom.Name.String(), Args: args}})
		case *ast.BinaryConstraint:
			terms = append(terms, &Constraint{Op: e.Op, Lhs: t.translateValue(e.Left, b), Rhs: t.translateValue(e.Right, b)})
		}
	}
	var cond Condition
	for _, c := range terms {
		cond = And(cond, c)
	}
	if cond == nil {
		cond = &True{}
	}
	var targetExpr Expression
	if agg.Target != nil {
		targetExpr = t.translateValue(agg.Target, b)
	}
	relName := primary.Name.String()
	return &TupleElement{Level: lvl, Column: 0}, func(inner Operation) Operation {
		return &Aggregate{Op: agg.Op, Relation: relName, Level: lvl, TargetExpr: targetExpr, Cond: cond, Body: inner}
	}
}
