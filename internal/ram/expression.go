package ram

import "github.com/dlogc/dlogc/internal/token"

// TupleElement: a reference to column Column of the tuple bound at nest
// Level (§4.10 step 6, "variable bindings are materialized as TupleElement
// references at the current nest level").
type TupleElement struct {
	Tok    token.Token
	Level  int
	Column int
}

func (e *TupleElement) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Tok
}
func (e *TupleElement) expressionNode()  {}
func (e *TupleElement) Children() []Node { return nil }
func (e *TupleElement) Clone() Expression {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}

// SignedConstant, UnsignedConstant, FloatConstant, StringConstant: the
// four literal-kind expressions (§4.11).
type SignedConstant struct {
	Tok   token.Token
	Value int64
}

func (e *SignedConstant) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Tok
}
func (e *SignedConstant) expressionNode()  {}
func (e *SignedConstant) Children() []Node { return nil }
func (e *SignedConstant) Clone() Expression {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}

type UnsignedConstant struct {
	Tok   token.Token
	Value uint64
}

func (e *UnsignedConstant) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Tok
}
func (e *UnsignedConstant) expressionNode()  {}
func (e *UnsignedConstant) Children() []Node { return nil }
func (e *UnsignedConstant) Clone() Expression {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}

type FloatConstant struct {
	Tok   token.Token
	Value float64
}

func (e *FloatConstant) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Tok
}
func (e *FloatConstant) expressionNode()  {}
func (e *FloatConstant) Children() []Node { return nil }
func (e *FloatConstant) Clone() Expression {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}

type StringConstant struct {
	Tok   token.Token
	Value string
}

func (e *StringConstant) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Tok
}
func (e *StringConstant) expressionNode()  {}
func (e *StringConstant) Children() []Node { return nil }
func (e *StringConstant) Clone() Expression {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}

// IntrinsicOperator: a resolved built-in functor call (§4.6's overload
// selection has already run by translation time -- Symbol names the
// concrete overload, not the surface functor name).
type IntrinsicOperator struct {
	Tok    token.Token
	Symbol string
	Args   []Expression
}

func (e *IntrinsicOperator) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Tok
}
func (e *IntrinsicOperator) expressionNode() {}
func (e *IntrinsicOperator) Children() []Node {
	return exprNodes(e.Args)
}
func (e *IntrinsicOperator) Clone() Expression {
	if e == nil {
		return nil
	}
	cp := *e
	cp.Args = cloneExprs(e.Args)
	return &cp
}

// UserDefinedOperator: a call to a user-declared functor.
type UserDefinedOperator struct {
	Tok  token.Token
	Name string
	Args []Expression
}

func (e *UserDefinedOperator) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Tok
}
func (e *UserDefinedOperator) expressionNode() {}
func (e *UserDefinedOperator) Children() []Node {
	return exprNodes(e.Args)
}
func (e *UserDefinedOperator) Clone() Expression {
	if e == nil {
		return nil
	}
	cp := *e
	cp.Args = cloneExprs(e.Args)
	return &cp
}

// AutoIncrement: the `$` counter, resolved at translation time to a
// stateful per-relation (or global) sequence read.
type AutoIncrement struct {
	Tok token.Token
}

func (e *AutoIncrement) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Tok
}
func (e *AutoIncrement) expressionNode()  {}
func (e *AutoIncrement) Children() []Node { return nil }
func (e *AutoIncrement) Clone() Expression {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}

// PackRecord: the RAM-level record constructor, translated from an
// ast.RecordInit/ast.BranchInit.
type PackRecord struct {
	Tok  token.Token
	Args []Expression
}

func (e *PackRecord) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Tok
}
func (e *PackRecord) expressionNode() {}
func (e *PackRecord) Children() []Node {
	return exprNodes(e.Args)
}
func (e *PackRecord) Clone() Expression {
	if e == nil {
		return nil
	}
	cp := *e
	cp.Args = cloneExprs(e.Args)
	return &cp
}

// SubroutineArgument: the Index-th argument passed to the enclosing
// subroutine (used by functional-dependency-guarded inserts and by the
// provenance subproof generator to read the calling rule's own tuple).
type SubroutineArgument struct {
	Tok   token.Token
	Index int
}

func (e *SubroutineArgument) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Tok
}
func (e *SubroutineArgument) expressionNode()  {}
func (e *SubroutineArgument) Children() []Node { return nil }
func (e *SubroutineArgument) Clone() Expression {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}

// UndefValue: the "bottom elsewhere" placeholder a Guarded Insert's key
// columns carry outside the functional-dependency key (§4.10 step 1).
type UndefValue struct {
	Tok token.Token
}

func (e *UndefValue) GetToken() token.Token {
	if e == nil {
		return token.Token{}
	}
	return e.Tok
}
func (e *UndefValue) expressionNode()  {}
func (e *UndefValue) Children() []Node { return nil }
func (e *UndefValue) Clone() Expression {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}

func exprNodes(args []Expression) []Node {
	if args == nil {
		return nil
	}
	out := make([]Node, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}

func cloneExprs(args []Expression) []Expression {
	if args == nil {
		return nil
	}
	out := make([]Expression, len(args))
	for i, a := range args {
		out[i] = a.Clone()
	}
	return out
}
