// Package typeenv builds a typesystem.Environment from a program's type
// declarations (§4.2): it resolves dependency order, rejects cyclic and
// reserved-name declarations, and forward-allocates self-referential
// records and algebraic data types.
package typeenv

import (
	"fmt"
	"sort"

	"github.com/dlogc/dlogc/internal/ast"
	"github.com/dlogc/dlogc/internal/diagnostics"
	"github.com/dlogc/dlogc/internal/graph"
	"github.com/dlogc/dlogc/internal/typesystem"
)

// Result is the builder's output: a populated environment plus two side
// maps needed by later stages.
type Result struct {
	Env *typesystem.Environment

	// Cyclic holds every declared name that is reachable from itself
	// through subset/union edges.
	Cyclic map[string]bool

	// UnionClosure maps each union type name to the flattened set of
	// non-union (leaf) type names reachable through its elements -- the
	// primitive-types-in-union closure used downstream by
	// operator-overload resolution to enumerate a union's concrete member
	// types without re-walking nested unions each time.
	UnionClosure map[string][]string

	Errors []*diagnostics.DiagnosticError
}

type builder struct {
	env     *typesystem.Environment
	decls   map[string]ast.TypeDecl
	cyclic  map[string]bool
	built   map[string]*typesystem.Type
	errs    []*diagnostics.DiagnosticError
	visited map[string]bool // guards against re-entrant construct() on a name already in progress
}

// Build runs the four-step procedure of §4.2 over decls.
func Build(decls []ast.TypeDecl) *Result {
	env := typesystem.NewEnvironment()
	b := &builder{
		env:     env,
		decls:   make(map[string]ast.TypeDecl, len(decls)),
		built:   make(map[string]*typesystem.Type),
		visited: make(map[string]bool),
	}

	for _, d := range decls {
		name := d.TypeName()
		if _, exists := b.decls[name]; exists {
			b.errs = append(b.errs, diagnostics.NewError(diagnostics.ErrNameClash, d.GetToken(),
				fmt.Sprintf("type %q is already declared", name)))
			continue
		}
		b.decls[name] = d
	}

	g := graph.New()
	for _, d := range decls {
		name := d.TypeName()
		g.AddNode(name)
		switch t := d.(type) {
		case *ast.SubsetTypeDecl:
			g.AddEdge(name, t.Base.String())
		case *ast.UnionTypeDecl:
			for _, e := range t.Elements {
				g.AddEdge(name, e.String())
			}
		case *ast.RecordTypeDecl, *ast.ADTTypeDecl:
			// Field types are resolved lazily (step 4); no edges here.
		}
	}

	cyclic := make(map[string]bool)
	for _, comp := range graph.SCC(g) {
		if comp.IsRecursive(g) {
			for _, n := range comp.Nodes {
				if _, declared := b.decls[n]; declared {
					cyclic[n] = true
				}
			}
		}
	}
	b.cyclic = cyclic

	var ordered []string
	for name := range b.decls {
		ordered = append(ordered, name)
	}
	sort.Strings(ordered)

	for _, name := range ordered {
		d := b.decls[name]
		if env.IsReservedConstantName(name) {
			b.errs = append(b.errs, diagnostics.NewError(diagnostics.ErrRedefinedPrimitive, d.GetToken(),
				fmt.Sprintf("%q is a reserved primitive type name and cannot be redeclared", name)))
			continue
		}
		if cyclic[name] {
			b.errs = append(b.errs, diagnostics.NewError(diagnostics.ErrCyclicType, d.GetToken(),
				fmt.Sprintf("type %q participates in a cyclic declaration", name)))
			continue
		}
		b.construct(name)
	}

	closure := make(map[string][]string)
	for name, d := range b.decls {
		if u, ok := d.(*ast.UnionTypeDecl); ok && !cyclic[name] {
			seen := map[string]bool{}
			var leaves []string
			b.flattenUnion(u, seen, &leaves)
			sort.Strings(leaves)
			closure[name] = leaves
		}
	}

	return &Result{Env: env, Cyclic: cyclic, UnionClosure: closure, Errors: b.errs}
}

// construct depth-first builds the type named name in the environment,
// resolving its dependencies first. It memoizes via b.built so diamond
// dependencies (two subsets of the same base) are only constructed once.
func (b *builder) construct(name string) (*typesystem.Type, bool) {
	if t, ok := b.built[name]; ok {
		return t, true
	}
	if t, ok := b.env.Lookup(name); ok {
		return t, true
	}
	if b.cyclic[name] {
		return nil, false
	}
	d, declared := b.decls[name]
	if !declared {
		return nil, false
	}
	if b.visited[name] {
		// Defensive: should be unreachable once cyclic names are excluded,
		// but construct() must never recurse forever.
		return nil, false
	}
	b.visited[name] = true
	defer delete(b.visited, name)

	switch t := d.(type) {
	case *ast.SubsetTypeDecl:
		base, ok := b.resolve(t.Base.String())
		if !ok {
			b.errs = append(b.errs, diagnostics.NewError(diagnostics.ErrUndefinedBase, t.GetToken(),
				fmt.Sprintf("base type %q of %q is undefined or unresolved", t.Base.String(), t.Name)))
			return nil, false
		}
		if base.TypeKind == typesystem.TKRecord || base.TypeKind == typesystem.TKUnion {
			b.errs = append(b.errs, diagnostics.NewError(diagnostics.ErrSubsetOfCompound, t.GetToken(),
				fmt.Sprintf("%q cannot be a subset of union or record type %q", t.Name, base.Name)))
			return nil, false
		}
		created := b.env.CreateSubset(t.Name, base)
		b.built[t.Name] = created
		return created, true

	case *ast.UnionTypeDecl:
		elements := make([]*typesystem.Type, 0, len(t.Elements))
		var kind typesystem.Kind
		kindSet := false
		ok := true
		for _, e := range t.Elements {
			et, resolved := b.resolve(e.String())
			if !resolved {
				b.errs = append(b.errs, diagnostics.NewError(diagnostics.ErrUndefinedType, t.GetToken(),
					fmt.Sprintf("union %q references undefined or unresolved type %q", t.Name, e.String())))
				ok = false
				continue
			}
			elements = append(elements, et)
			k, hasKind := typesystem.KindOf(et)
			if !hasKind {
				b.errs = append(b.errs, diagnostics.NewError(diagnostics.ErrMixedPrimitiveOver, t.GetToken(),
					fmt.Sprintf("union %q has a member %q with no well-defined primitive kind", t.Name, et.Name)))
				ok = false
				continue
			}
			if !kindSet {
				kind, kindSet = k, true
			} else if k != kind {
				b.errs = append(b.errs, diagnostics.NewError(diagnostics.ErrMixedPrimitiveOver, t.GetToken(),
					fmt.Sprintf("union %q mixes primitive kinds", t.Name)))
				ok = false
			}
		}
		if !ok {
			return nil, false
		}
		created := b.env.CreateUnion(t.Name, elements)
		b.built[t.Name] = created
		return created, true

	case *ast.RecordTypeDecl:
		created := b.env.ForwardAllocateRecord(t.Name)
		b.built[t.Name] = created
		fields := make([]typesystem.Field, 0, len(t.Fields))
		for _, f := range t.Fields {
			ft, resolved := b.resolve(f.TypeName.String())
			if !resolved {
				created.Unresolved = true
				continue
			}
			fields = append(fields, typesystem.Field{Name: f.Name, Type: ft})
		}
		created.Fields = fields
		return created, true

	case *ast.ADTTypeDecl:
		created := b.env.ForwardAllocateADT(t.Name)
		b.built[t.Name] = created
		branches := make([]typesystem.Branch, 0, len(t.Branches))
		for _, br := range t.Branches {
			fields := make([]typesystem.Field, 0, len(br.Fields))
			for _, f := range br.Fields {
				ft, resolved := b.resolve(f.TypeName.String())
				if !resolved {
					created.Unresolved = true
					continue
				}
				fields = append(fields, typesystem.Field{Name: f.Name, Type: ft})
			}
			branches = append(branches, typesystem.Branch{Constructor: br.Name, Fields: fields})
		}
		sort.Slice(branches, func(i, j int) bool { return branches[i].Constructor < branches[j].Constructor })
		created.Branches = branches
		return created, true
	}
	return nil, false
}

// resolve looks up name, constructing it on demand if it is a not-yet-built
// declaration. A cyclic or undefined name resolves to (nil, false); callers
// that are building a field (rather than a subset base or union element)
// treat that as "unresolved" per §4.2's edge case, not a hard failure.
func (b *builder) resolve(name string) (*typesystem.Type, bool) {
	if t, ok := b.env.Lookup(name); ok {
		return t, true
	}
	if b.cyclic[name] {
		return nil, false
	}
	if _, declared := b.decls[name]; declared {
		return b.construct(name)
	}
	return nil, false
}

func (b *builder) flattenUnion(u *ast.UnionTypeDecl, seen map[string]bool, out *[]string) {
	if seen[u.Name] {
		return
	}
	seen[u.Name] = true
	for _, e := range u.Elements {
		name := e.String()
		if nested, ok := b.decls[name].(*ast.UnionTypeDecl); ok {
			b.flattenUnion(nested, seen, out)
			continue
		}
		*out = append(*out, name)
	}
}
