package ast

import "github.com/dlogc/dlogc/internal/token"

// Atom: a predicate applied to arguments, e.g. `edge(x,y)` (GLOSSARY).
type Atom struct {
	Tok  token.Token
	Name QualifiedName
	Args []Argument
}

func (a *Atom) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Tok
}
func (a *Atom) Accept(v Visitor) { v.VisitAtom(a) }
func (a *Atom) literalNode()     {}
func (a *Atom) Clone() Literal {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Args = cloneArgs(a.Args)
	return &cp
}

// CloneAtom is a typed convenience wrapper over Clone for call sites that
// need the concrete *Atom (e.g. building a Negation from a cloned atom).
func (a *Atom) CloneAtom() *Atom {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Args = cloneArgs(a.Args)
	return &cp
}

// Negation: `!atom(...)`.
type Negation struct {
	Tok  token.Token
	Atom *Atom
}

func (n *Negation) GetToken() token.Token {
	if n == nil {
		return token.Token{}
	}
	return n.Tok
}
func (n *Negation) Accept(v Visitor) { v.VisitNegation(n) }
func (n *Negation) literalNode()     {}
func (n *Negation) Clone() Literal {
	if n == nil {
		return nil
	}
	cp := *n
	cp.Atom = n.Atom.CloneAtom()
	return &cp
}

// BinaryConstraint: `a OP b`, e.g. `x = y`, `x < y` (§3).
type BinaryConstraint struct {
	Tok   token.Token
	Op    string
	Left  Argument
	Right Argument

	// ResolvedKind is the concrete primitive kind both sides were unified
	// to, filled in by §4.6.
	ResolvedKind string
}

func (b *BinaryConstraint) GetToken() token.Token {
	if b == nil {
		return token.Token{}
	}
	return b.Tok
}
func (b *BinaryConstraint) Accept(v Visitor) { v.VisitBinaryConstraint(b) }
func (b *BinaryConstraint) literalNode()     {}
func (b *BinaryConstraint) Clone() Literal {
	if b == nil {
		return nil
	}
	cp := *b
	if b.Left != nil {
		cp.Left = b.Left.Clone()
	}
	if b.Right != nil {
		cp.Right = b.Right.Clone()
	}
	return &cp
}

// FunctionalConstraint: `choice-domain key, v1, v2, ...` (§3, supplemented
// by the `choice-domain` sugar in SPEC_FULL §C).
type FunctionalConstraint struct {
	Tok  token.Token
	Key  Argument
	Vars []Argument
}

func (f *FunctionalConstraint) GetToken() token.Token {
	if f == nil {
		return token.Token{}
	}
	return f.Tok
}
func (f *FunctionalConstraint) Accept(v Visitor) { v.VisitFunctionalConstraint(f) }
func (f *FunctionalConstraint) literalNode()     {}
func (f *FunctionalConstraint) Clone() Literal {
	if f == nil {
		return nil
	}
	cp := *f
	if f.Key != nil {
		cp.Key = f.Key.Clone()
	}
	cp.Vars = cloneArgs(f.Vars)
	return &cp
}

// BooleanConstraint: the literal `true` or `false`.
type BooleanConstraint struct {
	Tok   token.Token
	Value bool
}

func (b *BooleanConstraint) GetToken() token.Token {
	if b == nil {
		return token.Token{}
	}
	return b.Tok
}
func (b *BooleanConstraint) Accept(v Visitor) { v.VisitBooleanConstraint(b) }
func (b *BooleanConstraint) literalNode()     {}
func (b *BooleanConstraint) Clone() Literal {
	if b == nil {
		return nil
	}
	cp := *b
	return &cp
}

func cloneLiterals(lits []Literal) []Literal {
	if lits == nil {
		return nil
	}
	out := make([]Literal, len(lits))
	for i, l := range lits {
		out[i] = l.Clone()
	}
	return out
}
