package ram

import "github.com/dlogc/dlogc/internal/token"

// True, False: the two nullary boolean conditions.
type True struct{ Tok token.Token }

func (c *True) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Tok
}
func (c *True) conditionNode()       {}
func (c *True) Children() []Node     { return nil }
func (c *True) Clone() Condition {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

type False struct{ Tok token.Token }

func (c *False) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Tok
}
func (c *False) conditionNode()   {}
func (c *False) Children() []Node { return nil }
func (c *False) Clone() Condition {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// Conjunction: a left-associated AND of its operands, built up one body
// literal at a time by the clause lowering (§4.10 step 2-3).
type Conjunction struct {
	Tok   token.Token
	Terms []Condition
}

func (c *Conjunction) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Tok
}
func (c *Conjunction) conditionNode() {}
func (c *Conjunction) Children() []Node {
	return condNodes(c.Terms)
}
func (c *Conjunction) Clone() Condition {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Terms = cloneConds(c.Terms)
	return &cp
}

// And appends rhs to the conjunction, flattening nested conjunctions so
// the printed form never nests AND inside AND.
func And(lhs, rhs Condition) Condition {
	if lhs == nil {
		return rhs
	}
	if rhs == nil {
		return lhs
	}
	if _, ok := lhs.(*True); ok {
		return rhs
	}
	if _, ok := rhs.(*True); ok {
		return lhs
	}
	if conj, ok := lhs.(*Conjunction); ok {
		cp := &Conjunction{Tok: conj.Tok, Terms: append(append([]Condition(nil), conj.Terms...), rhs)}
		return cp
	}
	return &Conjunction{Tok: lhs.GetToken(), Terms: []Condition{lhs, rhs}}
}

// Negation: the boolean NOT of a single condition (distinct from
// ast.Negation, which negates an atom at the Datalog level).
type Negation struct {
	Tok  token.Token
	Cond Condition
}

func (c *Negation) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Tok
}
func (c *Negation) conditionNode() {}
func (c *Negation) Children() []Node {
	if c.Cond == nil {
		return nil
	}
	return []Node{c.Cond}
}
func (c *Negation) Clone() Condition {
	if c == nil {
		return nil
	}
	cp := *c
	if c.Cond != nil {
		cp.Cond = c.Cond.Clone()
	}
	return &cp
}

// EmptinessCheck: whether Relation currently holds no tuples.
type EmptinessCheck struct {
	Tok      token.Token
	Relation string
}

func (c *EmptinessCheck) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Tok
}
func (c *EmptinessCheck) conditionNode()   {}
func (c *EmptinessCheck) Children() []Node { return nil }
func (c *EmptinessCheck) Clone() Condition {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// ExistenceCheck: whether Relation contains a tuple matching Args at the
// current nest level (the "no fresh variables, only constants" fast path
// of §4.10 step 6).
type ExistenceCheck struct {
	Tok      token.Token
	Relation string
	Args     []Expression
}

func (c *ExistenceCheck) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Tok
}
func (c *ExistenceCheck) conditionNode() {}
func (c *ExistenceCheck) Children() []Node {
	return exprNodes(c.Args)
}
func (c *ExistenceCheck) Clone() Condition {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Args = cloneExprs(c.Args)
	return &cp
}

// ProvenanceExistenceCheck: ExistenceCheck's provenance-mode counterpart,
// also comparing the subproof relation's rule-number/height columns
// (SPEC_FULL §C).
type ProvenanceExistenceCheck struct {
	Tok      token.Token
	Relation string
	Args     []Expression
}

func (c *ProvenanceExistenceCheck) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Tok
}
func (c *ProvenanceExistenceCheck) conditionNode() {}
func (c *ProvenanceExistenceCheck) Children() []Node {
	return exprNodes(c.Args)
}
func (c *ProvenanceExistenceCheck) Clone() Condition {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Args = cloneExprs(c.Args)
	return &cp
}

// Constraint: a binary comparison (`=`, `!=`, `<`, …) between two
// expressions -- the translation target of both argument-aliasing
// equality filters (§4.10 step 2) and ast.BinaryConstraint (§4.10 step 3).
type Constraint struct {
	Tok token.Token
	Op  string
	Lhs Expression
	Rhs Expression
}

func (c *Constraint) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Tok
}
func (c *Constraint) conditionNode() {}
func (c *Constraint) Children() []Node {
	var out []Node
	if c.Lhs != nil {
		out = append(out, c.Lhs)
	}
	if c.Rhs != nil {
		out = append(out, c.Rhs)
	}
	return out
}
func (c *Constraint) Clone() Condition {
	if c == nil {
		return nil
	}
	cp := *c
	if c.Lhs != nil {
		cp.Lhs = c.Lhs.Clone()
	}
	if c.Rhs != nil {
		cp.Rhs = c.Rhs.Clone()
	}
	return &cp
}

// RelationSize: compares Relation's cardinality against N, the RAM
// condition backing a `limitsize` directive's stratum-exit check
// (SPEC_FULL §C, grounded in src/ram/RelationSize.h).
type RelationSize struct {
	Tok      token.Token
	Relation string
	Op       string
	N        int
}

func (c *RelationSize) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Tok
}
func (c *RelationSize) conditionNode()   {}
func (c *RelationSize) Children() []Node { return nil }
func (c *RelationSize) Clone() Condition {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func condNodes(terms []Condition) []Node {
	if terms == nil {
		return nil
	}
	out := make([]Node, len(terms))
	for i, t := range terms {
		out[i] = t
	}
	return out
}

func cloneConds(terms []Condition) []Condition {
	if terms == nil {
		return nil
	}
	out := make([]Condition, len(terms))
	for i, t := range terms {
		out[i] = t.Clone()
	}
	return out
}
