package ram

import (
	"sort"

	"github.com/dlogc/dlogc/internal/ast"
	"github.com/dlogc/dlogc/internal/stratify"
	"github.com/dlogc/dlogc/internal/typesystem"
)

// Translate lowers a checked, stratified program into a RAM Program
// (§4.10): one subroutine per stratum, called from main in the order
// strat.Strata already gives them, plus the staging relations a recursive
// stratum's semi-naive loop needs.
//
// Translate assumes program has already passed type inference, aggregate
// normalization, the semantic/type checker and stratification -- it does
// not re-validate groundedness or re-reject a cyclic negation; a caller
// that hands it a program stratify.Stratify rejected gets undefined output.
func Translate(program *ast.Program, env *typesystem.Environment, strat *stratify.Result) *Program {
	t := &translator{
		program:      program,
		env:          env,
		clausesByRel: map[string][]*ast.Clause{},
	}
	for _, cl := range program.Clauses {
		if cl.Head == nil {
			continue
		}
		name := cl.Head.Name.String()
		t.clausesByRel[name] = append(t.clausesByRel[name], cl)
	}
	t.buildRelations()
	t.computeExpiry(strat)

	prog := &Program{Relations: t.relations, Subroutines: map[string]Statement{}}

	var main []Statement
	for i, stratum := range strat.Strata {
		subName := stratumSubroutineName(i)
		prog.Subroutines[subName] = t.translateStratum(i, stratum)
		main = append(main, &Call{Name: subName})
		main = append(main, t.expiryClears(i)...)
	}
	prog.Main = Seq(main...)
	return prog
}

func stratumSubroutineName(i int) string {
	return "stratum_" + itoa(i)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

type translator struct {
	program      *ast.Program
	env          *typesystem.Environment
	clausesByRel map[string][]*ast.Clause
	relations    []*Relation
	relByName    map[string]*Relation
	astRel       map[string]*ast.Relation
	// lastConsumer[relName] is the highest stratum index whose clauses read
	// relName in a body atom -- a relation expires (is cleared) right after
	// that stratum finishes, unless it carries an io qualifier.
	lastConsumer map[string]int
}

func (t *translator) buildRelations() {
	t.relByName = map[string]*Relation{}
	t.astRel = map[string]*ast.Relation{}
	for _, r := range t.program.Relations {
		rr := t.ramRelation(r)
		t.relByName[rr.Name] = rr
		t.astRel[rr.Name] = r
		t.relations = append(t.relations, rr)
		if needsRecursiveStaging(r, t.clausesByRel[r.Name.String()]) {
			delta := &Relation{Name: DeltaName(rr.Name), Arity: rr.Arity, Attributes: rr.Attributes, Repr: rr.Repr}
			newr := &Relation{Name: NewName(rr.Name), Arity: rr.Arity, Attributes: rr.Attributes, Repr: rr.Repr}
			t.relByName[delta.Name] = delta
			t.relByName[newr.Name] = newr
			t.relations = append(t.relations, delta, newr)
		}
		if r.Repr == ast.ReprProvenance {
			sp := &Relation{
				Name:     SubproofName(rr.Name),
				Arity:    rr.Arity + 2,
				AuxArity: 2,
				Attributes: append(append([]Attribute(nil), rr.Attributes...),
					Attribute{Name: "__rule", Qualifier: QualSigned, TypeName: "number"},
					Attribute{Name: "__height", Qualifier: QualSigned, TypeName: "number"}),
				Repr: ReprDefault,
			}
			t.relByName[sp.Name] = sp
			t.relations = append(t.relations, sp)
		}
	}
}

// needsRecursiveStaging reports whether R requires delta/new relations:
// some clause with head R has at least one body atom whose relation
// belongs to the same stratum's recursive component. Computed per relation
// from clause shape alone; the caller re-derives which stratum R belongs
// to when it actually emits the stratum (sccMembers), so this is only a
// coarse "does R ever recur" test used to decide whether to allocate the
// staging relations at all.
func needsRecursiveStaging(r *ast.Relation, clauses []*ast.Clause) bool {
	name := r.Name.String()
	for _, cl := range clauses {
		for _, lit := range cl.Body {
			if refsRelation(lit, name) {
				return true
			}
		}
	}
	return false
}

func refsRelation(lit ast.Literal, name string) bool {
	switch l := lit.(type) {
	case *ast.Atom:
		return l.Name.String() == name
	case *ast.Negation:
		return l.Atom.Name.String() == name
	case *ast.BinaryConstraint:
		return argRefsRelation(l.Left, name) || argRefsRelation(l.Right, name)
	}
	return false
}

func argRefsRelation(arg ast.Argument, name string) bool {
	agg, ok := arg.(*ast.Aggregator)
	if !ok {
		return false
	}
	for _, bodyLit := range agg.Body {
		if refsRelation(bodyLit, name) {
			return true
		}
	}
	return false
}

func (t *translator) ramRelation(r *ast.Relation) *Relation {
	attrs := make([]Attribute, len(r.Attributes))
	for i, a := range r.Attributes {
		attrs[i] = Attribute{Name: a.Name, Qualifier: t.qualifierFor(a.TypeName.String()), TypeName: a.TypeName.String()}
	}
	return &Relation{
		Name:       r.Name.String(),
		Arity:      len(attrs),
		Attributes: attrs,
		Repr:       Representation(r.Repr),
	}
}

func (t *translator) qualifierFor(typeName string) AttrQualifier {
	ty, ok := t.env.Lookup(typeName)
	if !ok {
		return QualSymbol
	}
	if ty.TypeKind == typesystem.TKRecord {
		return QualRecord
	}
	if ty.TypeKind == typesystem.TKADT {
		return QualADT
	}
	kind, ok := typesystem.KindOf(ty)
	if !ok {
		return QualSymbol
	}
	switch kind {
	case typesystem.KindSigned:
		return QualSigned
	case typesystem.KindUnsigned:
		return QualUnsigned
	case typesystem.KindFloat:
		return QualFloat
	default:
		return QualSymbol
	}
}

// computeExpiry records, for every relation, the last stratum (by index)
// whose clause bodies read it -- used to clear a relation as soon as
// nothing further will scan it (§4.10).
func (t *translator) computeExpiry(strat *stratify.Result) {
	t.lastConsumer = map[string]int{}
	stratumOf := map[string]int{}
	for i, s := range strat.Strata {
		for _, rel := range s.Relations {
			stratumOf[rel] = i
		}
	}
	for _, cl := range t.program.Clauses {
		if cl.Head == nil {
			continue
		}
		headStratum, ok := stratumOf[cl.Head.Name.String()]
		if !ok {
			continue
		}
		for _, lit := range cl.Body {
			for _, name := range readRelationNames(lit) {
				if cur, ok := t.lastConsumer[name]; !ok || headStratum > cur {
					t.lastConsumer[name] = headStratum
				}
			}
		}
	}
}

func readRelationNames(lit ast.Literal) []string {
	switch l := lit.(type) {
	case *ast.Atom:
		return []string{l.Name.String()}
	case *ast.Negation:
		return []string{l.Atom.Name.String()}
	case *ast.BinaryConstraint:
		var out []string
		out = append(out, aggRelationNames(l.Left)...)
		out = append(out, aggRelationNames(l.Right)...)
		return out
	}
	return nil
}

func aggRelationNames(arg ast.Argument) []string {
	agg, ok := arg.(*ast.Aggregator)
	if !ok {
		return nil
	}
	var out []string
	for _, bodyLit := range agg.Body {
		out = append(out, readRelationNames(bodyLit)...)
	}
	return out
}

// expiryClears returns the Clear statements for relations whose last
// consumer was stratum i, skipped for input/output/printsize relations
// since their tuples must survive for the IO pass that runs after main.
func (t *translator) expiryClears(i int) []Statement {
	var names []string
	for name, last := range t.lastConsumer {
		if last != i {
			continue
		}
		rel := t.astRel[name]
		if rel != nil && (rel.HasQualifier(ast.QualOutput) || rel.HasQualifier(ast.QualPrintsize) || rel.HasQualifier(ast.QualInput)) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Statement, len(names))
	for idx, n := range names {
		out[idx] = &Clear{Relation: n}
	}
	return out
}
