package ast

import "github.com/dlogc/dlogc/internal/token"

// Variable: a named variable, e.g. `x` (§3).
type Variable struct {
	Tok  token.Token
	Name string
}

func (a *Variable) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Tok
}
func (a *Variable) Accept(v Visitor) { v.VisitVariable(a) }
func (a *Variable) argumentNode()    {}
func (a *Variable) Clone() Argument {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// UnnamedVariable: `_`, distinguished from every other unnamed variable by
// a position-unique ID assigned at parse time (§3).
type UnnamedVariable struct {
	Tok token.Token
	ID  int
}

func (a *UnnamedVariable) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Tok
}
func (a *UnnamedVariable) Accept(v Visitor) { v.VisitUnnamedVariable(a) }
func (a *UnnamedVariable) argumentNode()    {}
func (a *UnnamedVariable) Clone() Argument {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// NumericConstant carries the raw lexeme (so parsing is deferred to type
// inference, §4.5) and an optional fixed kind suffix (e.g. `1u`, `2.0f`).
type NumericConstant struct {
	Tok        token.Token
	Lexeme     string
	FixedKind  string // "", "signed", "unsigned", "float"
}

func (a *NumericConstant) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Tok
}
func (a *NumericConstant) Accept(v Visitor) { v.VisitNumericConstant(a) }
func (a *NumericConstant) argumentNode()    {}
func (a *NumericConstant) Clone() Argument {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// StringConstant: a quoted symbol-kind literal.
type StringConstant struct {
	Tok   token.Token
	Value string
}

func (a *StringConstant) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Tok
}
func (a *StringConstant) Accept(v Visitor) { v.VisitStringConstant(a) }
func (a *StringConstant) argumentNode()    {}
func (a *StringConstant) Clone() Argument {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// NilConstant: the record/ADT nil literal.
type NilConstant struct {
	Tok token.Token
}

func (a *NilConstant) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Tok
}
func (a *NilConstant) Accept(v Visitor) { v.VisitNilConstant(a) }
func (a *NilConstant) argumentNode()    {}
func (a *NilConstant) Clone() Argument {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// Counter: the `$` autoincrement pseudo-argument.
type Counter struct {
	Tok token.Token
}

func (a *Counter) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Tok
}
func (a *Counter) Accept(v Visitor) { v.VisitCounter(a) }
func (a *Counter) argumentNode()    {}
func (a *Counter) Clone() Argument {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// IntrinsicFunctor: a built-in polymorphic operator applied to arguments,
// e.g. `+`, `cat`, `range` (§3, §4.5). Symbol identifies which overload
// family to resolve against; ResolvedOverload is filled in by polymorphism
// resolution (§4.6) and is empty until then.
type IntrinsicFunctor struct {
	Tok              token.Token
	Symbol           string
	Args             []Argument
	ResolvedOverload string // set by §4.6; empty until resolved.
}

func (a *IntrinsicFunctor) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Tok
}
func (a *IntrinsicFunctor) Accept(v Visitor) { v.VisitIntrinsicFunctor(a) }
func (a *IntrinsicFunctor) argumentNode()    {}
func (a *IntrinsicFunctor) Clone() Argument {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Args = cloneArgs(a.Args)
	return &cp
}

// UserDefinedFunctor: a call to a user-declared (possibly stateful/native)
// functor (§3, §4.5).
type UserDefinedFunctor struct {
	Tok  token.Token
	Name string
	Args []Argument
}

func (a *UserDefinedFunctor) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Tok
}
func (a *UserDefinedFunctor) Accept(v Visitor) { v.VisitUserDefinedFunctor(a) }
func (a *UserDefinedFunctor) argumentNode()    {}
func (a *UserDefinedFunctor) Clone() Argument {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Args = cloneArgs(a.Args)
	return &cp
}

// TypeCast: `value as TargetType`.
type TypeCast struct {
	Tok        token.Token
	TargetType QualifiedName
	Value      Argument
}

func (a *TypeCast) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Tok
}
func (a *TypeCast) Accept(v Visitor) { v.VisitTypeCast(a) }
func (a *TypeCast) argumentNode()    {}
func (a *TypeCast) Clone() Argument {
	if a == nil {
		return nil
	}
	cp := *a
	if a.Value != nil {
		cp.Value = a.Value.Clone()
	}
	return &cp
}

// RecordInit: `[a, b, c]` as a value-level record initializer.
type RecordInit struct {
	Tok  token.Token
	Args []Argument
}

func (a *RecordInit) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Tok
}
func (a *RecordInit) Accept(v Visitor) { v.VisitRecordInit(a) }
func (a *RecordInit) argumentNode()    {}
func (a *RecordInit) Clone() Argument {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Args = cloneArgs(a.Args)
	return &cp
}

// BranchInit: `$Ctor(a, b)`, constructing an ADT value.
type BranchInit struct {
	Tok         token.Token
	Constructor string
	Args        []Argument
}

func (a *BranchInit) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Tok
}
func (a *BranchInit) Accept(v Visitor) { v.VisitBranchInit(a) }
func (a *BranchInit) argumentNode()    {}
func (a *BranchInit) Clone() Argument {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Args = cloneArgs(a.Args)
	return &cp
}

// Aggregator: `min|max|sum|count|mean [target] : { body }` (§3).
type Aggregator struct {
	Tok    token.Token
	Op     string // "min", "max", "sum", "count", "mean"
	Target Argument // nil for count
	Body   []Literal

	// ResolvedKind records the concrete numeric kind chosen by type
	// inference / polymorphism resolution (§4.5/§4.6); empty until then.
	ResolvedKind string
}

func (a *Aggregator) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Tok
}
func (a *Aggregator) Accept(v Visitor) { v.VisitAggregator(a) }
func (a *Aggregator) argumentNode()    {}
func (a *Aggregator) Clone() Argument {
	if a == nil {
		return nil
	}
	cp := *a
	if a.Target != nil {
		cp.Target = a.Target.Clone()
	}
	cp.Body = cloneLiterals(a.Body)
	return &cp
}

func cloneArgs(args []Argument) []Argument {
	if args == nil {
		return nil
	}
	out := make([]Argument, len(args))
	for i, a := range args {
		out[i] = a.Clone()
	}
	return out
}
