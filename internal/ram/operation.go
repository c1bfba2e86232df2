package ram

import "github.com/dlogc/dlogc/internal/token"

// Scan: iterate every tuple of Relation, binding it at nest level Level,
// then run Body (§4.10 step 6).
type Scan struct {
	Tok      token.Token
	Relation string
	Level    int
	Body     Operation
}

func (o *Scan) GetToken() token.Token {
	if o == nil {
		return token.Token{}
	}
	return o.Tok
}
func (o *Scan) operationNode() {}
func (o *Scan) Children() []Node {
	return bodyChild(o.Body)
}
func (o *Scan) Clone() Operation {
	if o == nil {
		return nil
	}
	cp := *o
	if o.Body != nil {
		cp.Body = o.Body.Clone()
	}
	return &cp
}

// ParallelScan: a Scan the emitter marks as a safe parallel-for point
// (§5) -- structurally identical, kept as a distinct type so the printer
// and the "mark recursive SCC members parallel" pass (§4.10 loop body)
// can tell the two apart without a flag field.
type ParallelScan struct {
	Tok      token.Token
	Relation string
	Level    int
	Body     Operation
}

func (o *ParallelScan) GetToken() token.Token {
	if o == nil {
		return token.Token{}
	}
	return o.Tok
}
func (o *ParallelScan) operationNode() {}
func (o *ParallelScan) Children() []Node {
	return bodyChild(o.Body)
}
func (o *ParallelScan) Clone() Operation {
	if o == nil {
		return nil
	}
	cp := *o
	if o.Body != nil {
		cp.Body = o.Body.Clone()
	}
	return &cp
}

// IndexScan: a Scan restricted to tuples matching Bound key columns,
// chosen by the emitter when a body atom's leading arguments are already
// materialized from an earlier nest level.
type IndexScan struct {
	Tok      token.Token
	Relation string
	Level    int
	Bound    []Expression // nil entry = unbound column
	Body     Operation
}

func (o *IndexScan) GetToken() token.Token {
	if o == nil {
		return token.Token{}
	}
	return o.Tok
}
func (o *IndexScan) operationNode() {}
func (o *IndexScan) Children() []Node {
	out := exprNodes(nonNilExprs(o.Bound))
	return append(out, bodyChild(o.Body)...)
}
func (o *IndexScan) Clone() Operation {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Bound = cloneExprPtrs(o.Bound)
	if o.Body != nil {
		cp.Body = o.Body.Clone()
	}
	return &cp
}

// IfExists: like Scan, but stops after the first matching tuple -- used
// where the emitter only needs a witness, not every tuple (e.g. a
// Guarded Insert's existence probe folded into the scan itself).
type IfExists struct {
	Tok      token.Token
	Relation string
	Level    int
	Cond     Condition
	Body     Operation
}

func (o *IfExists) GetToken() token.Token {
	if o == nil {
		return token.Token{}
	}
	return o.Tok
}
func (o *IfExists) operationNode() {}
func (o *IfExists) Children() []Node {
	var out []Node
	if o.Cond != nil {
		out = append(out, o.Cond)
	}
	return append(out, bodyChild(o.Body)...)
}
func (o *IfExists) Clone() Operation {
	if o == nil {
		return nil
	}
	cp := *o
	if o.Cond != nil {
		cp.Cond = o.Cond.Clone()
	}
	if o.Body != nil {
		cp.Body = o.Body.Clone()
	}
	return &cp
}

// IndexIfExists: IfExists restricted to an indexed key, IndexScan's
// single-witness counterpart.
type IndexIfExists struct {
	Tok      token.Token
	Relation string
	Level    int
	Bound    []Expression
	Cond     Condition
	Body     Operation
}

func (o *IndexIfExists) GetToken() token.Token {
	if o == nil {
		return token.Token{}
	}
	return o.Tok
}
func (o *IndexIfExists) operationNode() {}
func (o *IndexIfExists) Children() []Node {
	out := exprNodes(nonNilExprs(o.Bound))
	if o.Cond != nil {
		out = append(out, o.Cond)
	}
	return append(out, bodyChild(o.Body)...)
}
func (o *IndexIfExists) Clone() Operation {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Bound = cloneExprPtrs(o.Bound)
	if o.Cond != nil {
		cp.Cond = o.Cond.Clone()
	}
	if o.Body != nil {
		cp.Body = o.Body.Clone()
	}
	return &cp
}

// Aggregate: the (resolved operator, source relation, target expression,
// condition, tuple id) quintuple of §4.10 step 4, wrapping Body so the
// aggregate's result is bound at Level for the rest of the nest.
type Aggregate struct {
	Tok        token.Token
	Op         string // "min", "max", "sum", "count", "mean"
	Relation   string
	Level      int
	TargetExpr Expression // nil for count
	Cond       Condition
	Body       Operation
}

func (o *Aggregate) GetToken() token.Token {
	if o == nil {
		return token.Token{}
	}
	return o.Tok
}
func (o *Aggregate) operationNode() {}
func (o *Aggregate) Children() []Node {
	var out []Node
	if o.TargetExpr != nil {
		out = append(out, o.TargetExpr)
	}
	if o.Cond != nil {
		out = append(out, o.Cond)
	}
	return append(out, bodyChild(o.Body)...)
}
func (o *Aggregate) Clone() Operation {
	if o == nil {
		return nil
	}
	cp := *o
	if o.TargetExpr != nil {
		cp.TargetExpr = o.TargetExpr.Clone()
	}
	if o.Cond != nil {
		cp.Cond = o.Cond.Clone()
	}
	if o.Body != nil {
		cp.Body = o.Body.Clone()
	}
	return &cp
}

// IndexAggregate: Aggregate restricted to an indexed key, for when the
// aggregator's body atom shares bound columns with an outer nest level.
type IndexAggregate struct {
	Tok        token.Token
	Op         string
	Relation   string
	Level      int
	Bound      []Expression
	TargetExpr Expression
	Cond       Condition
	Body       Operation
}

func (o *IndexAggregate) GetToken() token.Token {
	if o == nil {
		return token.Token{}
	}
	return o.Tok
}
func (o *IndexAggregate) operationNode() {}
func (o *IndexAggregate) Children() []Node {
	out := exprNodes(nonNilExprs(o.Bound))
	if o.TargetExpr != nil {
		out = append(out, o.TargetExpr)
	}
	if o.Cond != nil {
		out = append(out, o.Cond)
	}
	return append(out, bodyChild(o.Body)...)
}
func (o *IndexAggregate) Clone() Operation {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Bound = cloneExprPtrs(o.Bound)
	if o.TargetExpr != nil {
		cp.TargetExpr = o.TargetExpr.Clone()
	}
	if o.Cond != nil {
		cp.Cond = o.Cond.Clone()
	}
	if o.Body != nil {
		cp.Body = o.Body.Clone()
	}
	return &cp
}

// UnpackRecord: destructures the record/ADT value bound at SourceLevel
// into fresh tuple-element columns at Level, the translation target of a
// record/branch pattern appearing as an atom argument.
type UnpackRecord struct {
	Tok         token.Token
	SourceLevel int
	SourceCol   int
	Level       int
	Arity       int
	Body        Operation
}

func (o *UnpackRecord) GetToken() token.Token {
	if o == nil {
		return token.Token{}
	}
	return o.Tok
}
func (o *UnpackRecord) operationNode() {}
func (o *UnpackRecord) Children() []Node {
	return bodyChild(o.Body)
}
func (o *UnpackRecord) Clone() Operation {
	if o == nil {
		return nil
	}
	cp := *o
	if o.Body != nil {
		cp.Body = o.Body.Clone()
	}
	return &cp
}

// Filter: wraps Body, pruning iterations where Cond is false (§4.10 step
// 2-3's equality/constraint filters).
type Filter struct {
	Tok  token.Token
	Cond Condition
	Body Operation
}

func (o *Filter) GetToken() token.Token {
	if o == nil {
		return token.Token{}
	}
	return o.Tok
}
func (o *Filter) operationNode() {}
func (o *Filter) Children() []Node {
	var out []Node
	if o.Cond != nil {
		out = append(out, o.Cond)
	}
	return append(out, bodyChild(o.Body)...)
}
func (o *Filter) Clone() Operation {
	if o == nil {
		return nil
	}
	cp := *o
	if o.Cond != nil {
		cp.Cond = o.Cond.Clone()
	}
	if o.Body != nil {
		cp.Body = o.Body.Clone()
	}
	return &cp
}

// Break: like Filter, but aborts the entire enclosing scan rather than
// just skipping the current tuple -- the non-emptiness probe §4.10 step 6
// calls for when a body atom introduces no fresh variables.
type Break struct {
	Tok  token.Token
	Cond Condition
	Body Operation
}

func (o *Break) GetToken() token.Token {
	if o == nil {
		return token.Token{}
	}
	return o.Tok
}
func (o *Break) operationNode() {}
func (o *Break) Children() []Node {
	var out []Node
	if o.Cond != nil {
		out = append(out, o.Cond)
	}
	return append(out, bodyChild(o.Body)...)
}
func (o *Break) Clone() Operation {
	if o == nil {
		return nil
	}
	cp := *o
	if o.Cond != nil {
		cp.Cond = o.Cond.Clone()
	}
	if o.Body != nil {
		cp.Body = o.Body.Clone()
	}
	return &cp
}

// Insert: append a tuple built from Args into Relation -- the
// innermost, always-present operation of every clause lowering (§4.10
// step 1).
type Insert struct {
	Tok      token.Token
	Relation string
	Args     []Expression
}

func (o *Insert) GetToken() token.Token {
	if o == nil {
		return token.Token{}
	}
	return o.Tok
}
func (o *Insert) operationNode() {}
func (o *Insert) Children() []Node {
	return exprNodes(o.Args)
}
func (o *Insert) Clone() Operation {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Args = cloneExprs(o.Args)
	return &cp
}

// GuardedInsert: Insert guarded by "not exists in Relation with matching
// KeyColumns" when Relation carries a functional dependency (§4.10 step
// 1) -- KeyColumns names the positions the Insert's Args must not
// duplicate; every other column is "bottom elsewhere" (UndefValue) in
// the probe.
type GuardedInsert struct {
	Tok        token.Token
	Relation   string
	Args       []Expression
	KeyColumns []int
}

func (o *GuardedInsert) GetToken() token.Token {
	if o == nil {
		return token.Token{}
	}
	return o.Tok
}
func (o *GuardedInsert) operationNode() {}
func (o *GuardedInsert) Children() []Node {
	return exprNodes(o.Args)
}
func (o *GuardedInsert) Clone() Operation {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Args = cloneExprs(o.Args)
	cp.KeyColumns = append([]int(nil), o.KeyColumns...)
	return &cp
}

// NestedIntrinsicOperator: wraps Body, binding TupleID to one result of a
// multi-result functor (e.g. `range`) each iteration (§4.10 step 5).
type NestedIntrinsicOperator struct {
	Tok    token.Token
	Symbol string
	Args   []Expression
	TupleID int
	Body   Operation
}

func (o *NestedIntrinsicOperator) GetToken() token.Token {
	if o == nil {
		return token.Token{}
	}
	return o.Tok
}
func (o *NestedIntrinsicOperator) operationNode() {}
func (o *NestedIntrinsicOperator) Children() []Node {
	out := exprNodes(o.Args)
	return append(out, bodyChild(o.Body)...)
}
func (o *NestedIntrinsicOperator) Clone() Operation {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Args = cloneExprs(o.Args)
	if o.Body != nil {
		cp.Body = o.Body.Clone()
	}
	return &cp
}

// SubroutineReturn: the terminal operation of a subroutine invoked from
// a Guarded Insert's existence probe or a functional-dependency check,
// returning Args to the caller.
type SubroutineReturn struct {
	Tok  token.Token
	Args []Expression
}

func (o *SubroutineReturn) GetToken() token.Token {
	if o == nil {
		return token.Token{}
	}
	return o.Tok
}
func (o *SubroutineReturn) operationNode() {}
func (o *SubroutineReturn) Children() []Node {
	return exprNodes(o.Args)
}
func (o *SubroutineReturn) Clone() Operation {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Args = cloneExprs(o.Args)
	return &cp
}

func bodyChild(body Operation) []Node {
	if body == nil {
		return nil
	}
	return []Node{body}
}

func nonNilExprs(args []Expression) []Expression {
	var out []Expression
	for _, a := range args {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}

func cloneExprPtrs(args []Expression) []Expression {
	if args == nil {
		return nil
	}
	out := make([]Expression, len(args))
	for i, a := range args {
		if a != nil {
			out[i] = a.Clone()
		}
	}
	return out
}
