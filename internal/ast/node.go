package ast

import "github.com/dlogc/dlogc/internal/token"

// Node is the base interface implemented by every AST node. Every node
// carries a source location (§3); GetToken exposes it for diagnostics.
type Node interface {
	GetToken() token.Token
	Accept(v Visitor)
}

// Literal is a body element: an atom, a negation, or a constraint (GLOSSARY).
type Literal interface {
	Node
	literalNode()
	Clone() Literal
}

// Argument is any term that can appear as an atom/functor/aggregator
// argument (§3).
type Argument interface {
	Node
	argumentNode()
	Clone() Argument
}

// TypeDecl is one of subset/union/record/ADT (§3).
type TypeDecl interface {
	Node
	typeDeclNode()
	TypeName() string
}

// Visitor drives analyses over the AST: one Visit method per concrete node
// type, dispatched by each node's Accept, so a single driver serves every
// tree family of closed tagged variants.
type Visitor interface {
	VisitProgram(*Program)
	VisitRelation(*Relation)
	VisitSubsetType(*SubsetTypeDecl)
	VisitUnionType(*UnionTypeDecl)
	VisitRecordType(*RecordTypeDecl)
	VisitADTType(*ADTTypeDecl)
	VisitDirective(*Directive)
	VisitClause(*Clause)
	VisitAtom(*Atom)
	VisitNegation(*Negation)
	VisitBinaryConstraint(*BinaryConstraint)
	VisitFunctionalConstraint(*FunctionalConstraint)
	VisitBooleanConstraint(*BooleanConstraint)
	VisitVariable(*Variable)
	VisitUnnamedVariable(*UnnamedVariable)
	VisitNumericConstant(*NumericConstant)
	VisitStringConstant(*StringConstant)
	VisitNilConstant(*NilConstant)
	VisitCounter(*Counter)
	VisitIntrinsicFunctor(*IntrinsicFunctor)
	VisitUserDefinedFunctor(*UserDefinedFunctor)
	VisitTypeCast(*TypeCast)
	VisitRecordInit(*RecordInit)
	VisitBranchInit(*BranchInit)
	VisitAggregator(*Aggregator)
}

// BaseVisitor implements Visitor with no-ops, so analyses can embed it and
// override only the cases they care about.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(*Program)                             {}
func (BaseVisitor) VisitRelation(*Relation)                           {}
func (BaseVisitor) VisitSubsetType(*SubsetTypeDecl)                   {}
func (BaseVisitor) VisitUnionType(*UnionTypeDecl)                     {}
func (BaseVisitor) VisitRecordType(*RecordTypeDecl)                   {}
func (BaseVisitor) VisitADTType(*ADTTypeDecl)                         {}
func (BaseVisitor) VisitDirective(*Directive)                         {}
func (BaseVisitor) VisitClause(*Clause)                               {}
func (BaseVisitor) VisitAtom(*Atom)                                   {}
func (BaseVisitor) VisitNegation(*Negation)                           {}
func (BaseVisitor) VisitBinaryConstraint(*BinaryConstraint)           {}
func (BaseVisitor) VisitFunctionalConstraint(*FunctionalConstraint)   {}
func (BaseVisitor) VisitBooleanConstraint(*BooleanConstraint)         {}
func (BaseVisitor) VisitVariable(*Variable)                           {}
func (BaseVisitor) VisitUnnamedVariable(*UnnamedVariable)             {}
func (BaseVisitor) VisitNumericConstant(*NumericConstant)             {}
func (BaseVisitor) VisitStringConstant(*StringConstant)               {}
func (BaseVisitor) VisitNilConstant(*NilConstant)                     {}
func (BaseVisitor) VisitCounter(*Counter)                             {}
func (BaseVisitor) VisitIntrinsicFunctor(*IntrinsicFunctor)           {}
func (BaseVisitor) VisitUserDefinedFunctor(*UserDefinedFunctor)       {}
func (BaseVisitor) VisitTypeCast(*TypeCast)                           {}
func (BaseVisitor) VisitRecordInit(*RecordInit)                       {}
func (BaseVisitor) VisitBranchInit(*BranchInit)                       {}
func (BaseVisitor) VisitAggregator(*Aggregator)                       {}
