package ast

import "github.com/dlogc/dlogc/internal/token"

// Qualifier is a relation-level flag (§3).
type Qualifier int

const (
	QualInput Qualifier = iota
	QualOutput
	QualPrintsize
	QualInline
	QualSuppressed
	QualOverridable
	QualEquivalence
)

// Representation is the physical-representation hint attached to a
// relation; actual representation selection is the storage planner's job
// (§1, external collaborator) -- the compiler only carries the hint through.
type Representation int

const (
	ReprDefault Representation = iota
	ReprBTree
	ReprBrie
	ReprEqrel
	ReprProvenance
)

func (r Representation) String() string {
	switch r {
	case ReprBTree:
		return "btree"
	case ReprBrie:
		return "brie"
	case ReprEqrel:
		return "eqrel"
	case ReprProvenance:
		return "provenance"
	default:
		return "default"
	}
}

// FunctionalDependency is a set of attribute names that functionally
// determine the rest of a tuple (a "choice-domain" over those attributes).
type FunctionalDependency struct {
	Attributes []string
}

// Attribute is a relation/record/branch field: a name plus a declared type
// name (§3). Type name resolution against the type environment happens in
// the type-environment builder (§4.2) and type inference (§4.5); the AST
// only carries the name the parser produced.
type Attribute struct {
	Tok      token.Token
	Name     string
	TypeName QualifiedName
}

func (a *Attribute) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Tok
}

// Clone deep-copies the attribute, preserving its location (§3).
func (a *Attribute) Clone() *Attribute {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// Relation is a qualified name, an ordered list of attributes, a set of
// qualifiers, a representation hint, and a set of functional dependencies
// (§3).
type Relation struct {
	Tok        token.Token
	Name       QualifiedName
	Attributes []*Attribute
	Qualifiers map[Qualifier]bool
	Repr       Representation
	FDs        []FunctionalDependency
	LimitSize  int  // 0 means no limitsize directive attached.
	HasLimit   bool
}

func (r *Relation) GetToken() token.Token {
	if r == nil {
		return token.Token{}
	}
	return r.Tok
}

func (r *Relation) Accept(v Visitor) { v.VisitRelation(r) }

// Arity is the number of declared attributes.
func (r *Relation) Arity() int { return len(r.Attributes) }

// HasQualifier reports whether q is set.
func (r *Relation) HasQualifier(q Qualifier) bool {
	return r.Qualifiers != nil && r.Qualifiers[q]
}

// AttributeIndex returns the position of the named attribute, or -1.
func (r *Relation) AttributeIndex(name string) int {
	for i, a := range r.Attributes {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// Clone deep-copies the relation.
func (r *Relation) Clone() *Relation {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Attributes = make([]*Attribute, len(r.Attributes))
	for i, a := range r.Attributes {
		cp.Attributes[i] = a.Clone()
	}
	cp.Qualifiers = make(map[Qualifier]bool, len(r.Qualifiers))
	for k, v := range r.Qualifiers {
		cp.Qualifiers[k] = v
	}
	cp.FDs = append([]FunctionalDependency(nil), r.FDs...)
	return &cp
}

// Directive represents an IO directive (§6): .input/.output/.printsize on a
// relation, or a standalone .limitsize n on a relation name.
type Directive struct {
	Tok       token.Token
	Operation string // "input", "output", "printsize", "limitsize"
	Relation  QualifiedName
	IO        string // "stdin", "stdout", "file", ...
	Delimiter string
	TypesJSON string // JSON-encoded attribute-kind description, §6.
	N         int    // for limitsize.
}

func (d *Directive) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Tok
}

func (d *Directive) Accept(v Visitor) { v.VisitDirective(d) }
