package ast

import "github.com/dlogc/dlogc/internal/token"

// SubsetTypeDecl: `name <: base` (§3).
type SubsetTypeDecl struct {
	Tok  token.Token
	Name string
	Base QualifiedName
}

func (d *SubsetTypeDecl) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Tok
}
func (d *SubsetTypeDecl) Accept(v Visitor)  { v.VisitSubsetType(d) }
func (d *SubsetTypeDecl) typeDeclNode()     {}
func (d *SubsetTypeDecl) TypeName() string  { return d.Name }

// UnionTypeDecl: `name = t1 | t2 | ...` (§3).
type UnionTypeDecl struct {
	Tok      token.Token
	Name     string
	Elements []QualifiedName
}

func (d *UnionTypeDecl) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Tok
}
func (d *UnionTypeDecl) Accept(v Visitor) { v.VisitUnionType(d) }
func (d *UnionTypeDecl) typeDeclNode()    {}
func (d *UnionTypeDecl) TypeName() string { return d.Name }

// RecordTypeDecl: `name = [ field... ]` (§3).
type RecordTypeDecl struct {
	Tok    token.Token
	Name   string
	Fields []*Attribute
}

func (d *RecordTypeDecl) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Tok
}
func (d *RecordTypeDecl) Accept(v Visitor) { v.VisitRecordType(d) }
func (d *RecordTypeDecl) typeDeclNode()    {}
func (d *RecordTypeDecl) TypeName() string { return d.Name }

// BranchDecl is one constructor of an algebraic data type: a name and an
// ordered list of fields (§3).
type BranchDecl struct {
	Tok    token.Token
	Name   string
	Fields []*Attribute
}

func (b *BranchDecl) GetToken() token.Token {
	if b == nil {
		return token.Token{}
	}
	return b.Tok
}

// ADTTypeDecl: `name = Ctor1 { field... } | Ctor2 { field... } | ...` (§3).
type ADTTypeDecl struct {
	Tok      token.Token
	Name     string
	Branches []*BranchDecl
}

func (d *ADTTypeDecl) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Tok
}
func (d *ADTTypeDecl) Accept(v Visitor) { v.VisitADTType(d) }
func (d *ADTTypeDecl) typeDeclNode()    {}
func (d *ADTTypeDecl) TypeName() string { return d.Name }
