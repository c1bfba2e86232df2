// Package stratify implements stratification (§4.9): a precedence graph
// over relations, strongly-connected components in topological order, and
// rejection of any recursive component whose cycle carries a negation or
// aggregation dependency.
package stratify

import (
	"fmt"
	"sort"

	"github.com/dlogc/dlogc/internal/ast"
	"github.com/dlogc/dlogc/internal/diagnostics"
	"github.com/dlogc/dlogc/internal/graph"
)

// EdgeKind distinguishes how one relation's clauses depend on another.
type EdgeKind int

const (
	// EdgePositive is an ordinary body-atom scan.
	EdgePositive EdgeKind = iota
	// EdgeNegative is a dependency through a negated atom.
	EdgeNegative
	// EdgeAggregate is a dependency through an aggregator body.
	EdgeAggregate
)

// edge records one dependency discovered while scanning a clause, kept
// around so an unstratifiable SCC's diagnostic can cite the offending
// literal rather than just the two relation names.
type edge struct {
	from, to string
	kind     EdgeKind
	lit      ast.Node // the GetToken() source for the diagnostic
}

// Stratum is one strongly-connected component of the precedence graph,
// assigned an index in topological (dependency-first) order.
type Stratum struct {
	Index     int
	Relations []string
	Recursive bool
}

// Result is stratification's output.
type Result struct {
	Strata []Stratum
	Errors []*diagnostics.DiagnosticError
}

// Stratify builds the precedence graph over program's relations and
// computes its strata.
func Stratify(program *ast.Program) *Result {
	g := graph.New()
	for _, r := range program.Relations {
		g.AddNode(r.Name.String())
	}

	var edges []edge
	for _, cl := range program.Clauses {
		if cl.Head == nil {
			continue
		}
		head := cl.Head.Name.String()
		for _, lit := range cl.Body {
			collectEdges(head, lit, false, g, &edges)
		}
	}

	comps := graph.SCC(g)
	res := &Result{}
	// Edges run from a clause's head to the relations its body reads, and
	// graph.SCC emits a component only after every component its edges
	// reach, so the slice is already dependency-first: number it in order.
	for i := 0; i < len(comps); i++ {
		comp := comps[i]
		names := append([]string(nil), comp.Nodes...)
		sort.Strings(names)
		recursive := comp.IsRecursive(g)
		res.Strata = append(res.Strata, Stratum{
			Index:     len(res.Strata),
			Relations: names,
			Recursive: recursive,
		})
		if !recursive {
			continue
		}
		member := make(map[string]bool, len(names))
		for _, n := range names {
			member[n] = true
		}
		res.Errors = append(res.Errors, unstratifiableErrors(names, member, edges)...)
	}
	return res
}

// unstratifiableErrors reports one E-STRAT-001 per negation/aggregation
// edge whose endpoints both lie in the same recursive component -- every
// such edge necessarily participates in a cycle, since both endpoints are
// mutually reachable by definition of a non-trivial SCC.
func unstratifiableErrors(names []string, member map[string]bool, edges []edge) []*diagnostics.DiagnosticError {
	var out []*diagnostics.DiagnosticError
	for _, e := range edges {
		if e.kind == EdgePositive {
			continue
		}
		if !member[e.from] || !member[e.to] {
			continue
		}
		kind := "negation"
		if e.kind == EdgeAggregate {
			kind = "aggregation"
		}
		out = append(out, diagnostics.NewError(diagnostics.ErrUnstratifiable, e.lit.GetToken(),
			fmt.Sprintf("relations %v form a cycle through a %s dependency (%s -> %s)", names, kind, e.from, e.to)))
	}
	return out
}

// collectEdges walks one body literal of head's clause, recording a
// positive or negative edge for a plain atom/negation and recursing into
// any aggregator found among its arguments. insideAggregate forces every
// edge recorded by this call and its recursive descendants to EdgeAggregate,
// regardless of whether the individual atom underneath is itself negated --
// once any relation reference sits inside an aggregator's body, the whole
// aggregator must be evaluated to completion before its result is usable,
// which is the same stratification hazard a direct negation creates.
func collectEdges(head string, lit ast.Literal, insideAggregate bool, g *graph.Graph, out *[]edge) {
	switch l := lit.(type) {
	case *ast.Atom:
		for _, arg := range l.Args {
			collectArgEdges(head, arg, g, out)
		}
		addEdge(head, l.Name.String(), edgeKind(insideAggregate, false), l, g, out)
	case *ast.Negation:
		for _, arg := range l.Atom.Args {
			collectArgEdges(head, arg, g, out)
		}
		addEdge(head, l.Atom.Name.String(), edgeKind(insideAggregate, true), l, g, out)
	case *ast.BinaryConstraint:
		collectArgEdges(head, l.Left, g, out)
		collectArgEdges(head, l.Right, g, out)
	case *ast.FunctionalConstraint:
		collectArgEdges(head, l.Key, g, out)
		for _, v := range l.Vars {
			collectArgEdges(head, v, g, out)
		}
	}
}

func edgeKind(insideAggregate, negated bool) EdgeKind {
	switch {
	case insideAggregate:
		return EdgeAggregate
	case negated:
		return EdgeNegative
	default:
		return EdgePositive
	}
}

func addEdge(from, to string, kind EdgeKind, lit ast.Node, g *graph.Graph, out *[]edge) {
	g.AddEdge(from, to)
	*out = append(*out, edge{from: from, to: to, kind: kind, lit: lit})
}

// collectArgEdges walks arg looking for aggregators, recursing into one's
// body with every descendant edge forced to EdgeAggregate.
func collectArgEdges(head string, arg ast.Argument, g *graph.Graph, out *[]edge) {
	if arg == nil {
		return
	}
	if agg, ok := arg.(*ast.Aggregator); ok {
		for _, bodyLit := range agg.Body {
			collectEdges(head, bodyLit, true, g, out)
		}
		if agg.Target != nil {
			collectArgEdges(head, agg.Target, g, out)
		}
		return
	}
	for _, child := range ast.ArgumentChildren(arg) {
		collectArgEdges(head, child, g, out)
	}
}
