package ram

import (
	"github.com/dlogc/dlogc/internal/ast"
	"github.com/dlogc/dlogc/internal/stratify"
)

// translateStratum builds one stratum's subroutine body: a plain sequence
// of clause evaluations for a non-recursive stratum, or the semi-naive
// preamble/loop/postamble shape of §4.10 for a recursive one.
func (t *translator) translateStratum(index int, stratum stratify.Stratum) Statement {
	if !stratum.Recursive {
		var stmts []Statement
		for _, relName := range stratum.Relations {
			for _, cl := range t.clausesByRel[relName] {
				stmts = append(stmts, &Query{Op: t.lowerClause(cl, relName, nil, -1)})
			}
		}
		return Seq(stmts...)
	}
	return t.translateRecursiveStratum(stratum)
}

func (t *translator) translateRecursiveStratum(stratum stratify.Stratum) Statement {
	members := make(map[string]bool, len(stratum.Relations))
	for _, r := range stratum.Relations {
		members[r] = true
	}

	var preamble []Statement
	var loopBody []Statement
	var update []Statement

	for _, relName := range stratum.Relations {
		rel := t.relByName[relName]
		for _, cl := range t.clausesByRel[relName] {
			k := sccAtomCount(cl, members)
			if k == 0 {
				preamble = append(preamble, &Query{Op: t.lowerClause(cl, relName, members, -1)})
				continue
			}
			for v := 0; v < k; v++ {
				loopBody = append(loopBody, &Query{Op: t.lowerClause(cl, NewName(relName), members, v)})
			}
		}
		astRel := t.astRel[relName]
		equivalence := astRel != nil && astRel.HasQualifier(ast.QualEquivalence)

		if equivalence {
			preamble = append(preamble, &Extend{A: relName, B: DeltaName(relName)})
			update = append(update, &Extend{A: NewName(relName), B: relName})
		} else {
			preamble = append(preamble, copyAll(relName, DeltaName(relName), rel.Arity))
			update = append(update, copyAll(NewName(relName), relName, rel.Arity))
		}
		update = append(update, &Swap{A: NewName(relName), B: DeltaName(relName)})
		update = append(update, &Clear{Relation: NewName(relName)})
	}

	exitCond := t.recursiveExitCondition(stratum)

	loop := &Loop{Body: Seq(
		&Parallel{Stmts: loopBody},
		&Exit{Cond: exitCond},
		Seq(update...),
	)}

	var postamble []Statement
	for _, relName := range stratum.Relations {
		postamble = append(postamble, &Clear{Relation: DeltaName(relName)})
		postamble = append(postamble, &Clear{Relation: NewName(relName)})
	}

	return Seq(append(append(preamble, loop), postamble...)...)
}

// sccAtomCount is the number of positive body atoms of cl whose relation
// belongs to members -- the version count §4.10 step 7 runs the clause
// through, one `@delta_R` substitution per member atom.
func sccAtomCount(cl *ast.Clause, members map[string]bool) int {
	n := 0
	for _, atom := range cl.BodyAtoms() {
		if members[atom.Name.String()] {
			n++
		}
	}
	return n
}

// recursiveExitCondition is "every @new_R is empty" OR-ed with "some
// limitsize-declared member relation has reached its limit" (SPEC_FULL §C,
// src/ram/RelationSize.h).
func (t *translator) recursiveExitCondition(stratum stratify.Stratum) Condition {
	var allEmpty Condition
	for _, relName := range stratum.Relations {
		allEmpty = And(allEmpty, &EmptinessCheck{Relation: NewName(relName)})
	}
	if allEmpty == nil {
		allEmpty = &True{}
	}

	var limitConds []Condition
	for _, relName := range stratum.Relations {
		astRel := t.astRel[relName]
		if astRel != nil && astRel.HasLimit {
			limitConds = append(limitConds, &RelationSize{Relation: relName, Op: ">=", N: astRel.LimitSize})
		}
	}
	if len(limitConds) == 0 {
		return allEmpty
	}
	return orConds(append([]Condition{allEmpty}, limitConds...)...)
}

// copyAll builds `FOR t0 IN src INSERT (t0[0], ..., t0[arity-1]) INTO dst`,
// the plain (non-equivalence) relation merge the stratum update step needs
// -- no dedicated "merge" Statement exists since a Scan+Insert nest already
// expresses it (§6).
func copyAll(src, dst string, arity int) Statement {
	args := make([]Expression, arity)
	for i := range args {
		args[i] = &TupleElement{Level: 0, Column: i}
	}
	return &Query{Op: &Scan{Relation: src, Level: 0, Body: &Insert{Relation: dst, Args: args}}}
}

// orConds builds the logical OR of conds via De Morgan (NOT (NOT a AND NOT
// b ...)) since Condition has no dedicated disjunction node (§4.11 lists
// Conjunction but not its dual -- the RAM forms that need OR, like a
// stratum's exit test, are rare enough not to warrant one).
func orConds(conds ...Condition) Condition {
	var filtered []Condition
	for _, c := range conds {
		if c != nil {
			filtered = append(filtered, c)
		}
	}
	switch len(filtered) {
	case 0:
		return &False{}
	case 1:
		return filtered[0]
	}
	negs := make([]Condition, len(filtered))
	for i, c := range filtered {
		negs[i] = &Negation{Cond: c}
	}
	return &Negation{Cond: &Conjunction{Terms: negs}}
}
