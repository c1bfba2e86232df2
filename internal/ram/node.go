// Package ram is the intermediate representation translated from (§4.11)
// and emitted by (§4.10) the semantic middle-end: relational algebra
// machine programs -- statements that sequence relation-level operations
// (scan, insert, aggregate) against an explicit delta/new staging scheme
// for recursive evaluation.
package ram

import (
	"strconv"
	"strings"

	"github.com/dlogc/dlogc/internal/token"
)

// Node is the common root every statement, operation, expression and
// condition implements, mirroring the ast package's own Node/Literal/
// Argument split (internal/ast/node.go) one level down the IR pipeline.
type Node interface {
	GetToken() token.Token
}

// Statement is a program-level instruction: sequencing, control flow, or a
// Query wrapping an operation nest.
type Statement interface {
	Node
	statementNode()
	Children() []Node
	Clone() Statement
}

// Operation is a node inside a Query's operation nest: scans, filters,
// inserts, aggregates.
type Operation interface {
	Node
	operationNode()
	Children() []Node
	Clone() Operation
}

// Expression is a value-producing leaf or tree inside an operation or
// condition.
type Expression interface {
	Node
	expressionNode()
	Children() []Node
	Clone() Expression
}

// Condition is a boolean-valued tree guarding a Filter/Break/Exit/IfExists.
type Condition interface {
	Node
	conditionNode()
	Children() []Node
	Clone() Condition
}

// AttrQualifier is the stable-ABI attribute type qualifier prefix (§6):
// i: signed, u: unsigned, f: float, s: symbol, r: record, +: ADT.
type AttrQualifier byte

const (
	QualSigned AttrQualifier = 'i'
	QualUnsigned AttrQualifier = 'u'
	QualFloat    AttrQualifier = 'f'
	QualSymbol   AttrQualifier = 's'
	QualRecord   AttrQualifier = 'r'
	QualADT      AttrQualifier = '+'
)

func (q AttrQualifier) String() string { return string(q) }

// Attribute is one column of a Relation's signature: a name plus the
// stable-ABI qualifier prefix and the declared type name it abbreviates.
type Attribute struct {
	Name      string
	Qualifier AttrQualifier
	TypeName  string
}

func (a Attribute) String() string {
	return a.Name + ":" + string(a.Qualifier) + ":" + a.TypeName
}

// Representation mirrors ast.Representation one level down, since RAM
// relations carry the same storage hint through to the emitter.
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

// Relation is a RAM relation's signature (§4.11): name, arity, auxiliary
// arity (extra columns appended past the source arity, e.g. a provenance
// relation's rule-number/height pair), attribute list and representation.
type Relation struct {
	Name       string
	Arity      int
	AuxArity   int
	Attributes []Attribute
	Repr       Representation
}

// Signature renders "<name>(arity=N, attrs=[name:qualifier,…], repr=…)",
// the serialization §6 fixes as the stable wire form.
func (r *Relation) Signature() string {
	var b strings.Builder
	b.WriteString(r.Name)
	b.WriteString("(arity=")
	b.WriteString(strconv.Itoa(r.Arity))
	b.WriteString(", attrs=[")
	for i, a := range r.Attributes {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(a.Name)
		b.WriteString(":")
		b.WriteString(string(a.Qualifier))
	}
	b.WriteString("], repr=")
	b.WriteString(r.Repr.String())
	b.WriteString(")")
	return b.String()
}

// DeltaName returns the staging relation name for R during recursive
// evaluation of its stratum (§4.10).
func DeltaName(relName string) string { return "@delta_" + relName }

// NewName returns the accumulator relation name for R's recursive clauses.
func NewName(relName string) string { return "@new_" + relName }

// SubproofName returns the provenance companion relation name for R,
// carrying a rule-number/height pair alongside the tuple when R's
// representation hint is provenance (SPEC_FULL §C, ast2ram/provenance).
func SubproofName(relName string) string { return "@subproof_" + relName }

// Meta carries per-run identifiers threaded into the program but never
// into synthesized relation/variable names, so golden RAM snapshots stay
// deterministic across runs (SPEC_FULL §A, §B).
type Meta struct {
	RunID           string
	ProvenanceRunTag string
}

// Program is a RAM program's root: relations, the main statement, and a
// name-to-subroutine mapping (§4.11).
type Program struct {
	Relations   []*Relation
	Main        Statement
	Subroutines map[string]Statement
	Meta        Meta
}

// RelationByName finds a declared RAM relation by name, or nil.
func (p *Program) RelationByName(name string) *Relation {
	for _, r := range p.Relations {
		if r.Name == name {
			return r
		}
	}
	return nil
}
