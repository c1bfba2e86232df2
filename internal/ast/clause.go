package ast

import "github.com/dlogc/dlogc/internal/token"

// Clause is a fact (head only) or a rule (head and body) (GLOSSARY).
// Plan, if non-nil, maps a version index to a 1-based permutation of the
// body atom positions for that version (§4.10, Atom ordering).
type Clause struct {
	Tok  token.Token
	Head *Atom
	Body []Literal
	Plan map[int][]int
}

func (c *Clause) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Tok
}
func (c *Clause) Accept(v Visitor) { v.VisitClause(c) }

// IsFact reports whether the clause has an empty body.
func (c *Clause) IsFact() bool { return len(c.Body) == 0 }

// BodyAtoms returns every positive, non-negated Atom in the body, in
// source order -- the literals the RAM translator scans over (§4.10).
func (c *Clause) BodyAtoms() []*Atom {
	var out []*Atom
	for _, lit := range c.Body {
		if a, ok := lit.(*Atom); ok {
			out = append(out, a)
		}
	}
	return out
}

// Clone deep-copies the clause, preserving locations (§3).
func (c *Clause) Clone() *Clause {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Head = c.Head.CloneAtom()
	cp.Body = cloneLiterals(c.Body)
	if c.Plan != nil {
		cp.Plan = make(map[int][]int, len(c.Plan))
		for k, v := range c.Plan {
			cp.Plan[k] = append([]int(nil), v...)
		}
	}
	return &cp
}

// Program is the root node of the translation unit (§3).
type Program struct {
	File       string
	Types      []TypeDecl
	Relations  []*Relation
	Clauses    []*Clause
	Directives []*Directive
	Functors   []*FunctorDecl
}

func (p *Program) GetToken() token.Token { return token.Token{File: p.File} }
func (p *Program) Accept(v Visitor)      { v.VisitProgram(p) }

// RelationByName finds a declared relation by qualified name, or nil.
func (p *Program) RelationByName(name QualifiedName) *Relation {
	for _, r := range p.Relations {
		if r.Name.Equal(name) {
			return r
		}
	}
	return nil
}

// FunctorByName finds a declared user-defined functor by name, or nil.
func (p *Program) FunctorByName(name string) *FunctorDecl {
	for _, f := range p.Functors {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// TypeDeclByName finds a declared type by name, or nil.
func (p *Program) TypeDeclByName(name string) TypeDecl {
	for _, t := range p.Types {
		if t.TypeName() == name {
			return t
		}
	}
	return nil
}
