// Package check implements the semantic/type checker (§4.8): the final
// validation pass run after groundedness, type inference, and aggregate
// normalization have all settled, before stratification. It never mutates
// the program -- only appends diagnostics to a Report.
package check

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dlogc/dlogc/internal/ast"
	"github.com/dlogc/dlogc/internal/diagnostics"
	"github.com/dlogc/dlogc/internal/ground"
	"github.com/dlogc/dlogc/internal/graph"
	"github.com/dlogc/dlogc/internal/infer"
	"github.com/dlogc/dlogc/internal/poly"
	"github.com/dlogc/dlogc/internal/typesystem"
)

// Checker accumulates diagnostics across one program.
type Checker struct {
	program *ast.Program
	env     *typesystem.Environment
	report  *diagnostics.Report
}

// New builds a Checker over a program and its resolved type environment.
func New(program *ast.Program, env *typesystem.Environment) *Checker {
	return &Checker{program: program, env: env, report: diagnostics.NewReport()}
}

// Report returns the diagnostics collected so far.
func (c *Checker) Report() *diagnostics.Report { return c.report }

// CheckProgram runs the whole-program checks that do not depend on a
// specific clause's groundedness/inference results: namespace
// disjointness, type declaration invariants not already enforced by
// internal/typeenv, equivalence relation shape, and inlining restrictions
// that only need the relation table and the clause bodies' atom
// references.
func (c *Checker) CheckProgram() {
	c.checkNamespaces()
	c.checkRecordFieldNames()
	c.checkBranchNamesGloballyUnique()
	c.checkEquivalenceRelations()
	c.checkInlineCycle()
	c.checkInlineDirectives()
}

func (c *Checker) checkNamespaces() {
	types := map[string]bool{}
	for _, t := range c.program.Types {
		types[t.TypeName()] = true
	}
	for _, r := range c.program.Relations {
		if name := r.Name.String(); types[name] {
			c.report.Add(diagnostics.NewError(diagnostics.ErrNameClash, r.GetToken(),
				fmt.Sprintf("%q is declared as both a type and a relation", name)))
		}
	}
}

func (c *Checker) checkRecordFieldNames() {
	for _, t := range c.program.Types {
		rec, ok := t.(*ast.RecordTypeDecl)
		if !ok {
			continue
		}
		seen := map[string]bool{}
		for _, f := range rec.Fields {
			if seen[f.Name] {
				c.report.Add(diagnostics.NewError(diagnostics.ErrDuplicateAttribute, f.GetToken(),
					fmt.Sprintf("record %q declares field %q more than once", rec.Name, f.Name)))
				continue
			}
			seen[f.Name] = true
		}
	}
}

func (c *Checker) checkBranchNamesGloballyUnique() {
	owner := map[string]string{}
	for _, t := range c.program.Types {
		adt, ok := t.(*ast.ADTTypeDecl)
		if !ok {
			continue
		}
		for _, br := range adt.Branches {
			if first, exists := owner[br.Name]; exists {
				c.report.Add(diagnostics.NewError(diagnostics.ErrDuplicateBranch, br.GetToken(),
					fmt.Sprintf("branch constructor %q is declared in both %q and %q", br.Name, first, adt.Name)))
				continue
			}
			owner[br.Name] = adt.Name
		}
	}
}

func (c *Checker) checkEquivalenceRelations() {
	for _, r := range c.program.Relations {
		if !r.HasQualifier(ast.QualEquivalence) {
			continue
		}
		if r.Arity() != 2 {
			c.report.Add(diagnostics.NewError(diagnostics.ErrEquivNotBinary, r.GetToken(),
				fmt.Sprintf("equivalence relation %q must be binary, has arity %d", r.Name, r.Arity())))
			continue
		}
		a, b := r.Attributes[0], r.Attributes[1]
		at, aok := c.env.Lookup(a.TypeName.String())
		bt, bok := c.env.Lookup(b.TypeName.String())
		if !aok || !bok || !typesystem.AreEquivalent(at, bt) {
			c.report.Add(diagnostics.NewError(diagnostics.ErrEquivNotBinary, r.GetToken(),
				fmt.Sprintf("equivalence relation %q must have identical attribute domains, got %q and %q",
					r.Name, a.TypeName, b.TypeName)))
		}
	}
}

// checkInlineCycle rejects a cycle formed entirely of inline relations: the
// precedence graph restricted to the subset of relations qualified
// `inline`, since Soufflé-style inlining is a textual substitution that
// cannot terminate on a self-referential (even mutually) inline chain.
func (c *Checker) checkInlineCycle() {
	inline := map[string]bool{}
	for _, r := range c.program.Relations {
		if r.HasQualifier(ast.QualInline) {
			inline[r.Name.String()] = true
		}
	}
	if len(inline) == 0 {
		return
	}
	g := graph.New()
	for name := range inline {
		g.AddNode(name)
	}
	for _, cl := range c.program.Clauses {
		if cl.Head == nil {
			continue
		}
		head := cl.Head.Name.String()
		if !inline[head] {
			continue
		}
		for _, atom := range cl.BodyAtoms() {
			if dep := atom.Name.String(); inline[dep] {
				g.AddEdge(head, dep)
			}
		}
	}
	for _, comp := range graph.SCC(g) {
		if !comp.IsRecursive(g) {
			continue
		}
		names := append([]string(nil), comp.Nodes...)
		sort.Strings(names)
		loc := c.program.Relations[0].GetToken()
		for _, r := range c.program.Relations {
			if r.Name.String() == names[0] {
				loc = r.GetToken()
				break
			}
		}
		c.report.Add(diagnostics.NewError(diagnostics.ErrInlineCycle, loc,
			fmt.Sprintf("inline relations form a cycle: %s", strings.Join(names, ", "))))
	}
}

func (c *Checker) checkInlineDirectives() {
	for _, r := range c.program.Relations {
		if !r.HasQualifier(ast.QualInline) {
			continue
		}
		if r.HasQualifier(ast.QualInput) || r.HasQualifier(ast.QualOutput) || r.HasQualifier(ast.QualPrintsize) {
			c.report.Add(diagnostics.NewError(diagnostics.ErrInlineIsIO, r.GetToken(),
				fmt.Sprintf("inline relation %q cannot also be an input/output/printsize relation", r.Name)))
		}
	}
}

func (c *Checker) isInline(name ast.QualifiedName) bool {
	r := c.program.RelationByName(name)
	return r != nil && r.HasQualifier(ast.QualInline)
}

// CheckClause runs the per-clause checks of §4.8. grounded, types, and
// polyQ may be nil (degrading the checks that need them); a caller
// building up a program incrementally can call this once groundedness and
// type inference have been run for the clause.
func (c *Checker) CheckClause(clause *ast.Clause, grounded *ground.Result, types *infer.Result) {
	var polyQ *poly.Queries
	if types != nil {
		polyQ = poly.New(types, c.program)
	}

	c.checkAtomReferences(clause)
	c.checkFactConstants(clause)
	c.checkHeadUnnamed(clause)
	c.checkSingletons(clause)
	c.checkCounterMisuse(clause)
	c.checkAtomKinds(clause, polyQ)
	c.checkFunctorOverloads(clause, polyQ)
	c.checkMutualAggregates(clause)
	c.checkInlineUsage(clause)
}

func (c *Checker) checkAtomReferences(clause *ast.Clause) {
	check := func(atom *ast.Atom) {
		if atom == nil {
			return
		}
		r := c.program.RelationByName(atom.Name)
		if r == nil {
			c.report.Add(diagnostics.NewError(diagnostics.ErrUndefinedRelation, atom.GetToken(),
				fmt.Sprintf("relation %q is not declared", atom.Name)))
			return
		}
		if len(atom.Args) != r.Arity() {
			c.report.Add(diagnostics.NewError(diagnostics.ErrAtomArity, atom.GetToken(),
				fmt.Sprintf("%q expects %d argument(s), got %d", atom.Name, r.Arity(), len(atom.Args))))
		}
	}
	if clause.Head != nil {
		check(clause.Head)
	}
	for _, lit := range clause.Body {
		switch l := lit.(type) {
		case *ast.Atom:
			check(l)
		case *ast.Negation:
			check(l.Atom)
		}
	}
}

// checkFactConstants enforces that a fact's head carries only constants
// (possibly nested inside typecasts, records, and ADT branches).
func (c *Checker) checkFactConstants(clause *ast.Clause) {
	if !clause.IsFact() || clause.Head == nil {
		return
	}
	var walk func(ast.Argument) bool
	walk = func(arg ast.Argument) bool {
		switch a := arg.(type) {
		case *ast.StringConstant, *ast.NumericConstant, *ast.NilConstant:
			return true
		case *ast.TypeCast:
			return a.Value == nil || walk(a.Value)
		case *ast.RecordInit:
			for _, child := range a.Args {
				if !walk(child) {
					return false
				}
			}
			return true
		case *ast.BranchInit:
			for _, child := range a.Args {
				if !walk(child) {
					return false
				}
			}
			return true
		default:
			return false
		}
	}
	for _, a := range clause.Head.Args {
		if !walk(a) {
			c.report.Add(diagnostics.NewError(diagnostics.ErrFactNotConstant, a.GetToken(),
				"a fact's arguments must be constants"))
		}
	}
}

func (c *Checker) checkHeadUnnamed(clause *ast.Clause) {
	if clause.Head == nil {
		return
	}
	for _, a := range clause.Head.Args {
		if _, ok := a.(*ast.UnnamedVariable); ok {
			c.report.Add(diagnostics.NewError(diagnostics.ErrUnderscoreInHead, a.GetToken(),
				fmt.Sprintf("head of %q cannot contain an unnamed variable", clause.Head.Name)))
		}
	}
}

// checkSingletons implements the occurrence-count half of §4.8: an
// underscore-prefixed variable occurring more than once warns (it looks
// like it should be unnamed but isn't), and a plain variable occurring
// exactly once warns the opposite way (it looks like it should matter but
// only appears once). Unnamed variables (`_` itself) are exempt from
// both -- each occurrence is already a distinct binding by construction.
func (c *Checker) checkSingletons(clause *ast.Clause) {
	counts := map[string]int{}
	var firstTok = map[string]ast.Argument{}
	var collect func(ast.Argument)
	collect = func(arg ast.Argument) {
		if arg == nil {
			return
		}
		if v, ok := arg.(*ast.Variable); ok {
			counts[v.Name]++
			if _, ok := firstTok[v.Name]; !ok {
				firstTok[v.Name] = v
			}
			return
		}
		if agg, ok := arg.(*ast.Aggregator); ok {
			if agg.Target != nil {
				collect(agg.Target)
			}
			for _, lit := range agg.Body {
				collectLiteral(lit, collect)
			}
			return
		}
		for _, child := range ast.ArgumentChildren(arg) {
			collect(child)
		}
	}
	if clause.Head != nil {
		for _, a := range clause.Head.Args {
			collect(a)
		}
	}
	for _, lit := range clause.Body {
		collectLiteral(lit, collect)
	}

	var names []string
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, name := range names {
		n := counts[name]
		tok := firstTok[name].GetToken()
		if strings.HasPrefix(name, "_") {
			if n > 1 {
				c.report.Add(diagnostics.NewWarning(diagnostics.WarnMultiUnderscore, tok,
					fmt.Sprintf("variable %q looks unnamed but occurs %d times", name, n)))
			}
			continue
		}
		if n == 1 {
			c.report.Add(diagnostics.NewWarning(diagnostics.WarnSingleOccurrence, tok,
				fmt.Sprintf("variable %q occurs only once", name)))
		}
	}
}

func collectLiteral(lit ast.Literal, visit func(ast.Argument)) {
	switch l := lit.(type) {
	case *ast.Atom:
		for _, a := range l.Args {
			visit(a)
		}
	case *ast.Negation:
		for _, a := range l.Atom.Args {
			visit(a)
		}
	case *ast.BinaryConstraint:
		visit(l.Left)
		visit(l.Right)
	case *ast.FunctionalConstraint:
		visit(l.Key)
		for _, a := range l.Vars {
			visit(a)
		}
	}
}

// checkCounterMisuse rejects `$` inside an inlined relation's clause, or
// inside a recursive rule (the head relation depends, directly or
// transitively, on itself). Recursion here is a lightweight single-purpose
// precedence graph over just this program's clauses, not the full
// stratifier's output -- the checker runs before stratification (§4.8
// precedes §4.9) so it cannot reuse the real result.
func (c *Checker) checkCounterMisuse(clause *ast.Clause) {
	if clause.Head == nil {
		return
	}
	headName := clause.Head.Name.String()
	hasCounter := false
	var find func(ast.Argument)
	find = func(arg ast.Argument) {
		if arg == nil || hasCounter {
			return
		}
		if _, ok := arg.(*ast.Counter); ok {
			hasCounter = true
			return
		}
		if agg, ok := arg.(*ast.Aggregator); ok {
			if agg.Target != nil {
				find(agg.Target)
			}
			for _, lit := range agg.Body {
				collectLiteral(lit, find)
			}
			return
		}
		for _, child := range ast.ArgumentChildren(arg) {
			find(child)
		}
	}
	for _, a := range clause.Head.Args {
		find(a)
	}
	for _, lit := range clause.Body {
		collectLiteral(lit, find)
	}
	if !hasCounter {
		return
	}
	if c.isInline(clause.Head.Name) {
		c.report.Add(diagnostics.NewError(diagnostics.ErrCounterMisuse, clause.Head.GetToken(),
			fmt.Sprintf("counter $ cannot appear in inlined relation %q", clause.Head.Name)))
		return
	}
	if c.relationDependsOnItself(headName) {
		c.report.Add(diagnostics.NewError(diagnostics.ErrCounterMisuse, clause.Head.GetToken(),
			fmt.Sprintf("counter $ cannot appear in a recursive rule for %q", clause.Head.Name)))
	}
}

func (c *Checker) relationDependsOnItself(name string) bool {
	g := graph.New()
	for _, r := range c.program.Relations {
		g.AddNode(r.Name.String())
	}
	for _, cl := range c.program.Clauses {
		if cl.Head == nil {
			continue
		}
		head := cl.Head.Name.String()
		for _, atom := range cl.BodyAtoms() {
			g.AddEdge(head, atom.Name.String())
		}
	}
	for _, comp := range graph.SCC(g) {
		if !comp.IsRecursive(g) {
			continue
		}
		for _, n := range comp.Nodes {
			if n == name {
				return true
			}
		}
	}
	return false
}

// checkAtomKinds matches each body atom argument's inferred kind against
// the declared attribute's constant-kind root: an exact kind match for a
// positive (source) occurrence, or any type sharing the root for a negated
// (sink) occurrence -- the weaker check §4.8 calls for.
func (c *Checker) checkAtomKinds(clause *ast.Clause, polyQ *poly.Queries) {
	if polyQ == nil {
		return
	}
	check := func(atom *ast.Atom, negated bool) {
		r := c.program.RelationByName(atom.Name)
		if r == nil {
			return
		}
		for i, arg := range atom.Args {
			if i >= len(r.Attributes) {
				return
			}
			declared, ok := c.env.Lookup(r.Attributes[i].TypeName.String())
			if !ok {
				continue
			}
			rootKind, hasKind := typesystem.KindOf(declared)
			if !hasKind {
				continue
			}
			actual, ok := polyQ.InferredNumericKind(arg)
			if !ok {
				continue
			}
			if actual == rootKind {
				continue
			}
			code := diagnostics.ErrKindMismatch
			if negated {
				code = diagnostics.ErrKindMismatchNeg
			}
			c.report.Add(diagnostics.NewError(code, arg.GetToken(),
				fmt.Sprintf("argument %d of %q has kind %s, expected %s", i+1, atom.Name, actual, rootKind)))
		}
	}
	for _, lit := range clause.Body {
		switch l := lit.(type) {
		case *ast.Atom:
			check(l, false)
		case *ast.Negation:
			check(l.Atom, true)
		}
	}
}

// checkFunctorOverloads flags intrinsic functor calls that polymorphism
// resolution (§4.6) never pinned to exactly one overload: an arity
// mismatch against every candidate overload is reported distinctly from
// "no candidate survived narrowing at all".
func (c *Checker) checkFunctorOverloads(clause *ast.Clause, polyQ *poly.Queries) {
	if polyQ == nil {
		return
	}
	table := infer.DefaultOverloads()
	var walk func(ast.Argument)
	walk = func(arg ast.Argument) {
		if arg == nil {
			return
		}
		if f, ok := arg.(*ast.IntrinsicFunctor); ok {
			if _, resolved := polyQ.ResolvedIntrinsic(f); !resolved {
				overloads := table[f.Symbol]
				arityOK := false
				for _, o := range overloads {
					if o.Arity() == len(f.Args) {
						arityOK = true
						break
					}
				}
				if !arityOK && len(overloads) > 0 {
					c.report.Add(diagnostics.NewError(diagnostics.ErrFunctorArity, f.GetToken(),
						fmt.Sprintf("invalid overload for %q (arity mismatch)", f.Symbol)))
				} else {
					c.report.Add(diagnostics.NewError(diagnostics.ErrFunctorNoOverload, f.GetToken(),
						fmt.Sprintf("no valid overloads for %q", f.Symbol)))
				}
			}
		}
		for _, child := range ast.ArgumentChildren(arg) {
			walk(child)
		}
	}
	if clause.Head != nil {
		for _, a := range clause.Head.Args {
			walk(a)
		}
	}
	for _, lit := range clause.Body {
		collectLiteral(lit, walk)
	}
}

// checkMutualAggregates rejects two aggregators appearing in the same
// literal whose bodies both ground a common variable name. Variable
// uniqueness renaming (§4.7b) treats a sibling aggregator's own variables
// as "used elsewhere" and never renames a name two siblings share, so a
// name surviving in both bodies after normalization is a cross-reference
// between the two, which has no well-defined evaluation order.
func (c *Checker) checkMutualAggregates(clause *ast.Clause) {
	checkAtom := func(atom *ast.Atom) {
		var aggs []*ast.Aggregator
		for _, a := range atom.Args {
			if agg, ok := a.(*ast.Aggregator); ok {
				aggs = append(aggs, agg)
			}
		}
		if len(aggs) < 2 {
			return
		}
		grounds := make([]map[string]bool, len(aggs))
		for i, agg := range aggs {
			grounds[i] = groundedInAggregateBody(agg)
		}
		for i := range aggs {
			for j := i + 1; j < len(aggs); j++ {
				for name := range grounds[i] {
					if grounds[j][name] {
						c.report.Add(diagnostics.NewError(diagnostics.ErrMutualAggregates, aggs[i].GetToken(),
							fmt.Sprintf("aggregators in the same literal both ground %q", name)))
						break
					}
				}
			}
		}
	}
	if clause.Head != nil {
		checkAtom(clause.Head)
	}
	for _, lit := range clause.Body {
		if atom, ok := lit.(*ast.Atom); ok {
			checkAtom(atom)
		}
	}
}

func groundedInAggregateBody(agg *ast.Aggregator) map[string]bool {
	res := ground.Analyze(&ast.Clause{Body: agg.Body}, nil)
	out := map[string]bool{}
	var visit func(ast.Argument)
	visit = func(arg ast.Argument) {
		if arg == nil {
			return
		}
		if v, ok := arg.(*ast.Variable); ok {
			if res.IsGrounded(v) {
				out[v.Name] = true
			}
			return
		}
		if _, isAgg := arg.(*ast.Aggregator); isAgg {
			return
		}
		for _, child := range ast.ArgumentChildren(arg) {
			visit(child)
		}
	}
	for _, lit := range agg.Body {
		collectLiteral(lit, visit)
	}
	return out
}

// checkInlineUsage enforces the remaining inlining restrictions that are
// about how an inline relation is referenced from a clause: not negated
// with fresh variables, not used inside an aggregator body, and not
// negated with unnamed-variable arguments outside an aggregator.
func (c *Checker) checkInlineUsage(clause *ast.Clause) {
	outerNames := map[string]bool{}
	if clause.Head != nil {
		for _, a := range clause.Head.Args {
			ast.CollectVariableNames(a, outerNames)
		}
	}
	for _, lit := range clause.Body {
		collectLiteral(lit, func(a ast.Argument) { ast.CollectVariableNames(a, outerNames) })
	}

	for _, lit := range clause.Body {
		neg, ok := lit.(*ast.Negation)
		if !ok || !c.isInline(neg.Atom.Name) {
			continue
		}
		hasUnnamed := false
		freshCount := 0
		for _, a := range neg.Atom.Args {
			if _, ok := a.(*ast.UnnamedVariable); ok {
				hasUnnamed = true
				continue
			}
			if v, ok := a.(*ast.Variable); ok {
				occursElsewhere := false
				for _, other := range clause.Body {
					if other == lit {
						continue
					}
					names := map[string]bool{}
					collectLiteral(other, func(x ast.Argument) { ast.CollectVariableNames(x, names) })
					if names[v.Name] {
						occursElsewhere = true
						break
					}
				}
				if !occursElsewhere && clause.Head != nil {
					headNames := map[string]bool{}
					for _, ha := range clause.Head.Args {
						ast.CollectVariableNames(ha, headNames)
					}
					if headNames[v.Name] {
						occursElsewhere = true
					}
				}
				if !occursElsewhere {
					freshCount++
				}
			}
		}
		if freshCount > 0 {
			c.report.Add(diagnostics.NewError(diagnostics.ErrInlineNegatedFree, neg.GetToken(),
				fmt.Sprintf("negated inline relation %q introduces new variables", neg.Atom.Name)))
		}
		if hasUnnamed {
			c.report.Add(diagnostics.NewError(diagnostics.ErrInlineNegatedUnnamed, neg.GetToken(),
				fmt.Sprintf("negated inline relation %q cannot take unnamed-variable arguments outside an aggregator", neg.Atom.Name)))
		}
	}

	for _, agg := range collectAggregatorsInClause(clause) {
		for _, lit := range agg.Body {
			var atom *ast.Atom
			switch l := lit.(type) {
			case *ast.Atom:
				atom = l
			case *ast.Negation:
				atom = l.Atom
			}
			if atom != nil && c.isInline(atom.Name) {
				c.report.Add(diagnostics.NewError(diagnostics.ErrInlineInAggregate, atom.GetToken(),
					fmt.Sprintf("inline relation %q cannot appear in an aggregator body", atom.Name)))
			}
		}
	}
}

func collectAggregatorsInClause(clause *ast.Clause) []*ast.Aggregator {
	var out []*ast.Aggregator
	var visit func(ast.Argument)
	visit = func(arg ast.Argument) {
		if arg == nil {
			return
		}
		if agg, ok := arg.(*ast.Aggregator); ok {
			out = append(out, agg)
			if agg.Target != nil {
				visit(agg.Target)
			}
			for _, lit := range agg.Body {
				collectLiteral(lit, visit)
			}
			return
		}
		for _, child := range ast.ArgumentChildren(arg) {
			visit(child)
		}
	}
	if clause.Head != nil {
		for _, a := range clause.Head.Args {
			visit(a)
		}
	}
	for _, lit := range clause.Body {
		collectLiteral(lit, visit)
	}
	return out
}
