package aggregate

import (
	"fmt"

	"github.com/dlogc/dlogc/internal/ast"
	"github.com/dlogc/dlogc/internal/diagnostics"
	"github.com/dlogc/dlogc/internal/ground"
)

// namesUsedOutside collects every variable name appearing anywhere in
// clause except inside target's own Target/Body subtree. Sibling
// aggregators are descended into (their variables count as "outside" for
// the aggregator under test), only target itself is excluded.
func namesUsedOutside(clause *ast.Clause, target *ast.Aggregator) map[string]bool {
	out := map[string]bool{}
	var visitArg func(ast.Argument)
	var visitLit func(ast.Literal)
	visitArg = func(arg ast.Argument) {
		if arg == nil {
			return
		}
		if v, ok := arg.(*ast.Variable); ok {
			out[v.Name] = true
			return
		}
		if agg, ok := arg.(*ast.Aggregator); ok {
			if agg == target {
				return
			}
			if agg.Target != nil {
				visitArg(agg.Target)
			}
			for _, lit := range agg.Body {
				visitLit(lit)
			}
			return
		}
		for _, child := range ast.ArgumentChildren(arg) {
			visitArg(child)
		}
	}
	visitLit = func(lit ast.Literal) { visitLiteralArgs(lit, visitArg) }

	if clause.Head != nil {
		for _, a := range clause.Head.Args {
			visitArg(a)
		}
	}
	for _, lit := range clause.Body {
		visitLit(lit)
	}
	return out
}

// groundedInBody runs groundedness analysis (§4.4) over body in isolation,
// as if it were its own headless clause, and reports which variable names
// it proves grounded. The literal slice passed in must be the same slice
// (same node pointers) the caller intends to query, since Result.IsGrounded
// keys off node identity.
func groundedInBody(body []ast.Literal) map[string]bool {
	synthetic := &ast.Clause{Body: body}
	res := ground.Analyze(synthetic, nil)
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
	for _, lit := range body {
		visitLiteralArgs(lit, visit)
	}
	return out
}

// witnessGrounding implements §4.7a: a variable grounded only inside a
// min/max aggregator's body, but referenced elsewhere in the clause, is
// made available outside by copying the aggregator's body (with every
// other local variable renamed fresh) and appending it to the outer
// clause's body. The same situation under any other aggregator op is
// rejected -- sum/count/mean have no notion of "the row that achieved
// this value" to copy out.
func (b *builder) witnessGrounding(outerNames map[string]bool) {
	for _, agg := range collectAggregators(b.clause) {
		usedElsewhere := namesUsedOutside(b.clause, agg)
		innerGrounded := groundedInBody(agg.Body)

		var witnesses []string
		for name := range innerGrounded {
			if usedElsewhere[name] && !outerNames[name] {
				witnesses = append(witnesses, name)
			}
		}
		if len(witnesses) == 0 {
			continue
		}
		if agg.Op != "min" && agg.Op != "max" {
			for _, w := range sortedKeys(toSet(witnesses)) {
				b.errors = append(b.errors, diagnostics.NewError(
					diagnostics.ErrWitnessEscapes, agg.GetToken(),
					fmt.Sprintf("variable %q is grounded only inside a %s aggregator and cannot escape its scope", w, agg.Op)))
			}
			continue
		}

		local := map[string]bool{}
		for _, lit := range agg.Body {
			ast.CollectVariableNamesInLiteral(lit, local)
		}
		witnessSet := toSet(witnesses)
		rename := map[string]string{}
		for _, name := range sortedKeys(local) {
			if !witnessSet[name] {
				rename[name] = b.gen.fresh(name)
			}
		}
		copyOfBody := ast.RenameVariablesInLiterals(agg.Body, rename)
		b.clause.Body = append(b.clause.Body, copyOfBody...)
	}
}

func toSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

// variableUniqueness implements §4.7b: a variable used only within one
// aggregator's own Target/Body -- not elsewhere in the clause -- is
// renamed to a clause-unique fresh name, so later passes (materialization,
// RAM translation) never have to reason about two aggregators' purely
// local variables accidentally sharing a name.
func (b *builder) variableUniqueness() {
	for _, agg := range collectAggregators(b.clause) {
		outside := namesUsedOutside(b.clause, agg)
		local := map[string]bool{}
		if agg.Target != nil {
			ast.CollectVariableNames(agg.Target, local)
		}
		for _, lit := range agg.Body {
			ast.CollectVariableNamesInLiteral(lit, local)
		}
		rename := map[string]string{}
		for _, name := range sortedKeys(local) {
			if !outside[name] {
				rename[name] = b.gen.fresh(name)
			}
		}
		if len(rename) == 0 {
			continue
		}
		if agg.Target != nil {
			agg.Target = ast.RenameVariables(agg.Target, rename)
		}
		agg.Body = ast.RenameVariablesInLiterals(agg.Body, rename)
	}
}

// materializeBodies implements §4.7c: repeatedly finds the innermost
// aggregator whose body cannot be scanned as-is -- more than one atom, a
// nested aggregator, or a repeated variable within its sole atom -- and
// outlines that body into a synthesized relation, replacing the
// aggregator's body with a single atom over it.
func (b *builder) materializeBodies() {
	for {
		target := b.findInnermostNeedingMaterialization()
		if target == nil {
			return
		}
		b.materializeOne(target)
	}
}

func (b *builder) findInnermostNeedingMaterialization() *ast.Aggregator {
	clauses := append([]*ast.Clause{b.clause}, b.clauses...)
	for _, cl := range clauses {
		for _, agg := range collectAggregators(cl) {
			if !needsMaterialization(agg) {
				continue
			}
			pending := false
			for _, nested := range collectAggregators(&ast.Clause{Body: agg.Body}) {
				if needsMaterialization(nested) {
					pending = true
					break
				}
			}
			if !pending {
				return agg
			}
		}
	}
	return nil
}

func needsMaterialization(agg *ast.Aggregator) bool {
	if len(agg.Body) != 1 {
		return true
	}
	if containsNestedAggregator(agg.Body) {
		return true
	}
	atom, ok := agg.Body[0].(*ast.Atom)
	if !ok {
		return true
	}
	return hasRepeatedVariable(atom)
}

func containsNestedAggregator(body []ast.Literal) bool {
	return len(collectAggregators(&ast.Clause{Body: body})) > 0
}

func hasRepeatedVariable(atom *ast.Atom) bool {
	counts := map[string]int{}
	for _, a := range atom.Args {
		ast.WalkArgument(a, func(x ast.Argument) {
			if v, ok := x.(*ast.Variable); ok {
				counts[v.Name]++
			}
		})
	}
	for _, c := range counts {
		if c > 1 {
			return true
		}
	}
	return false
}

// materializeOne outlines agg's body into a synthesized relation and
// clause, then rewrites agg.Body to a single atom scanning it.
//
// The synthesized relation's attributes are: every variable referenced by
// agg.Target (so the outer evaluation can still read the aggregated
// value), plus a fresh named variable for every unnamed variable appearing
// at top level in the body (count's per-row singleton requirement, §3).
// Purely-local body variables that feed neither the target nor a count
// singleton are not exposed -- the synthesized clause binds them
// internally and they never leave it.
//
// Attribute types are a placeholder (qn("number")); the caller is
// expected to re-run type inference (§4.5) over newly synthesized clauses
// before the checker runs, the same way it would for any other clause.
func (b *builder) materializeOne(agg *ast.Aggregator) {
	var extra []*ast.Variable
	renamedBody := make([]ast.Literal, len(agg.Body))
	for i, lit := range agg.Body {
		renamedBody[i] = replaceUnnamedInLiteral(lit, b.gen, &extra)
	}

	targetNames := map[string]bool{}
	if agg.Target != nil {
		ast.CollectVariableNames(agg.Target, targetNames)
	}
	var headVars []*ast.Variable
	for _, name := range sortedKeys(targetNames) {
		headVars = append(headVars, &ast.Variable{Name: name})
	}
	headVars = append(headVars, extra...)

	relName := ast.NewQualifiedName(b.gen.fresh("agg"))
	attrs := make([]*ast.Attribute, len(headVars))
	headArgs := make([]ast.Argument, len(headVars))
	for i, v := range headVars {
		attrs[i] = &ast.Attribute{Name: v.Name, TypeName: ast.NewQualifiedName("number")}
		headArgs[i] = &ast.Variable{Name: v.Name}
	}

	rel := &ast.Relation{Name: relName, Attributes: attrs}
	clause := &ast.Clause{
		Head: &ast.Atom{Name: relName, Args: headArgs},
		Body: renamedBody,
	}
	b.relations = append(b.relations, rel)
	b.clauses = append(b.clauses, clause)

	scanArgs := make([]ast.Argument, len(headVars))
	for i, v := range headVars {
		scanArgs[i] = &ast.Variable{Name: v.Name}
	}
	agg.Body = []ast.Literal{&ast.Atom{Name: relName, Args: scanArgs}}
}

func replaceUnnamedInArg(arg ast.Argument, gen *nameGen, extra *[]*ast.Variable) ast.Argument {
	return ast.MapArgument(arg, func(a ast.Argument) ast.Argument {
		if _, ok := a.(*ast.UnnamedVariable); ok {
			v := &ast.Variable{Name: gen.fresh("u")}
			*extra = append(*extra, v)
			return v
		}
		return a
	})
}

func replaceUnnamedInLiteral(lit ast.Literal, gen *nameGen, extra *[]*ast.Variable) ast.Literal {
	switch l := lit.(type) {
	case *ast.Atom:
		cp := *l
		cp.Args = make([]ast.Argument, len(l.Args))
		for i, a := range l.Args {
			cp.Args[i] = replaceUnnamedInArg(a, gen, extra)
		}
		return &cp
	case *ast.Negation:
		cp := *l
		cp.Atom = replaceUnnamedInLiteral(l.Atom, gen, extra).(*ast.Atom)
		return &cp
	case *ast.BinaryConstraint:
		cp := *l
		if l.Left != nil {
			cp.Left = replaceUnnamedInArg(l.Left, gen, extra)
		}
		if l.Right != nil {
			cp.Right = replaceUnnamedInArg(l.Right, gen, extra)
		}
		return &cp
	case *ast.FunctionalConstraint:
		cp := *l
		if l.Key != nil {
			cp.Key = replaceUnnamedInArg(l.Key, gen, extra)
		}
		cp.Vars = make([]ast.Argument, len(l.Vars))
		for i, v := range l.Vars {
			cp.Vars[i] = replaceUnnamedInArg(v, gen, extra)
		}
		return &cp
	default:
		return lit
	}
}
