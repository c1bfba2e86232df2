// Package astjson decodes the JSON wire form of a program into
// internal/ast's tree. Surface parsing is an external collaborator (§1):
// this package is the thin adapter boundary between whatever produces
// that JSON (an outer parser, a test fixture, a hand-written program
// description) and the AST every analysis pass in this repository
// consumes. It only ever builds a tree; it never resolves names or
// checks shapes -- that is every later stage's job.
package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/dlogc/dlogc/internal/ast"
)

// program is the top-level JSON document: type declarations, relations,
// clauses (rules and facts), directives, and functor signatures.
type program struct {
	File       string          `json:"file"`
	Types      []typeDecl      `json:"types"`
	Relations  []relation      `json:"relations"`
	Clauses    []clause        `json:"clauses"`
	Directives []directive     `json:"directives"`
	Functors   []functorDecl   `json:"functors"`
}

// Decode parses a JSON document into an *ast.Program.
func Decode(data []byte) (*ast.Program, error) {
	var p program
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("astjson: %w", err)
	}

	out := &ast.Program{File: p.File}
	for _, t := range p.Types {
		d, err := t.decode()
		if err != nil {
			return nil, err
		}
		out.Types = append(out.Types, d)
	}
	for _, r := range p.Relations {
		out.Relations = append(out.Relations, r.decode())
	}
	for _, c := range p.Clauses {
		cl, err := c.decode()
		if err != nil {
			return nil, err
		}
		out.Clauses = append(out.Clauses, cl)
	}
	for _, d := range p.Directives {
		out.Directives = append(out.Directives, d.decode())
	}
	for _, f := range p.Functors {
		out.Functors = append(out.Functors, f.decode())
	}
	return out, nil
}

func qn(parts []string) ast.QualifiedName { return ast.NewQualifiedName(parts...) }

type typeDecl struct {
	Kind     string     `json:"kind"` // "subset", "union", "record", "adt"
	Name     string     `json:"name"`
	Base     []string   `json:"base,omitempty"`
	Elements [][]string `json:"elements,omitempty"`
	Fields   []attrDecl `json:"fields,omitempty"`
	Branches []struct {
		Name   string     `json:"name"`
		Fields []attrDecl `json:"fields"`
	} `json:"branches,omitempty"`
}

func (t typeDecl) decode() (ast.TypeDecl, error) {
	switch t.Kind {
	case "subset":
		return &ast.SubsetTypeDecl{Name: t.Name, Base: qn(t.Base)}, nil
	case "union":
		elems := make([]ast.QualifiedName, len(t.Elements))
		for i, e := range t.Elements {
			elems[i] = qn(e)
		}
		return &ast.UnionTypeDecl{Name: t.Name, Elements: elems}, nil
	case "record":
		return &ast.RecordTypeDecl{Name: t.Name, Fields: decodeAttrs(t.Fields)}, nil
	case "adt":
		branches := make([]*ast.BranchDecl, len(t.Branches))
		for i, b := range t.Branches {
			branches[i] = &ast.BranchDecl{Name: b.Name, Fields: decodeAttrs(b.Fields)}
		}
		return &ast.ADTTypeDecl{Name: t.Name, Branches: branches}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown type-decl kind %q", t.Kind)
	}
}

type attrDecl struct {
	Name     string   `json:"name"`
	TypeName []string `json:"type"`
}

func decodeAttrs(attrs []attrDecl) []*ast.Attribute {
	out := make([]*ast.Attribute, len(attrs))
	for i, a := range attrs {
		out[i] = &ast.Attribute{Name: a.Name, TypeName: qn(a.TypeName)}
	}
	return out
}

type relation struct {
	Name       []string   `json:"name"`
	Attributes []attrDecl `json:"attributes"`
	Qualifiers []string   `json:"qualifiers,omitempty"`
	Repr       string     `json:"repr,omitempty"`
	FDs        [][]string `json:"fds,omitempty"`
	LimitSize  int        `json:"limitsize,omitempty"`
	HasLimit   bool       `json:"has_limit,omitempty"`
}

var qualifierNames = map[string]ast.Qualifier{
	"input":       ast.QualInput,
	"output":      ast.QualOutput,
	"printsize":   ast.QualPrintsize,
	"inline":      ast.QualInline,
	"suppressed":  ast.QualSuppressed,
	"overridable": ast.QualOverridable,
	"equivalence": ast.QualEquivalence,
}

var reprNames = map[string]ast.Representation{
	"btree":      ast.ReprBTree,
	"brie":       ast.ReprBrie,
	"eqrel":      ast.ReprEqrel,
	"provenance": ast.ReprProvenance,
}

func (r relation) decode() *ast.Relation {
	quals := make(map[ast.Qualifier]bool, len(r.Qualifiers))
	for _, q := range r.Qualifiers {
		if k, ok := qualifierNames[q]; ok {
			quals[k] = true
		}
	}
	fds := make([]ast.FunctionalDependency, len(r.FDs))
	for i, f := range r.FDs {
		fds[i] = ast.FunctionalDependency{Attributes: f}
	}
	return &ast.Relation{
		Name:       qn(r.Name),
		Attributes: decodeAttrs(r.Attributes),
		Qualifiers: quals,
		Repr:       reprNames[r.Repr],
		FDs:        fds,
		LimitSize:  r.LimitSize,
		HasLimit:   r.HasLimit,
	}
}

type directive struct {
	Operation string   `json:"operation"`
	Relation  []string `json:"relation"`
	IO        string   `json:"io,omitempty"`
	Delimiter string   `json:"delimiter,omitempty"`
	Types     any      `json:"types,omitempty"`
	N         int      `json:"n,omitempty"`
}

func (d directive) decode() *ast.Directive {
	var typesJSON string
	if d.Types != nil {
		if b, err := json.Marshal(d.Types); err == nil {
			typesJSON = string(b)
		}
	}
	return &ast.Directive{
		Operation: d.Operation,
		Relation:  qn(d.Relation),
		IO:        d.IO,
		Delimiter: d.Delimiter,
		TypesJSON: typesJSON,
		N:         d.N,
	}
}

type functorDecl struct {
	Name       string     `json:"name"`
	ParamTypes [][]string `json:"params,omitempty"`
	ReturnType []string   `json:"returns,omitempty"`
	Stateful   bool       `json:"stateful,omitempty"`
}

func (f functorDecl) decode() *ast.FunctorDecl {
	params := make([]ast.QualifiedName, len(f.ParamTypes))
	for i, p := range f.ParamTypes {
		params[i] = qn(p)
	}
	return &ast.FunctorDecl{Name: f.Name, ParamTypes: params, ReturnType: qn(f.ReturnType), Stateful: f.Stateful}
}

type clause struct {
	Head *atom    `json:"head,omitempty"`
	Body []literal `json:"body,omitempty"`
}

func (c clause) decode() (*ast.Clause, error) {
	out := &ast.Clause{}
	if c.Head != nil {
		out.Head = c.Head.decode()
	}
	for _, l := range c.Body {
		lit, err := l.decode()
		if err != nil {
			return nil, err
		}
		out.Body = append(out.Body, lit)
	}
	return out, nil
}

type atom struct {
	Name []string `json:"name"`
	Args []arg    `json:"args"`
}

func (a *atom) decode() *ast.Atom {
	args := make([]ast.Argument, len(a.Args))
	for i, ar := range a.Args {
		args[i] = ar.decode()
	}
	return &ast.Atom{Name: qn(a.Name), Args: args}
}

type literal struct {
	Kind string `json:"kind"` // "atom", "negation", "binary", "functional_dependency", "bool"

	Atom *atom `json:"atom,omitempty"`

	Op    string `json:"op,omitempty"`
	Left  *arg   `json:"left,omitempty"`
	Right *arg   `json:"right,omitempty"`

	Key  *arg  `json:"key,omitempty"`
	Vars []arg `json:"vars,omitempty"`

	Value bool `json:"value,omitempty"`
}

func (l literal) decode() (ast.Literal, error) {
	switch l.Kind {
	case "atom":
		return l.Atom.decode(), nil
	case "negation":
		return &ast.Negation{Atom: l.Atom.decode()}, nil
	case "binary":
		var left, right ast.Argument
		if l.Left != nil {
			left = l.Left.decode()
		}
		if l.Right != nil {
			right = l.Right.decode()
		}
		return &ast.BinaryConstraint{Op: l.Op, Left: left, Right: right}, nil
	case "functional_dependency":
		vars := make([]ast.Argument, len(l.Vars))
		for i, v := range l.Vars {
			vars[i] = v.decode()
		}
		var key ast.Argument
		if l.Key != nil {
			key = l.Key.decode()
		}
		return &ast.FunctionalConstraint{Key: key, Vars: vars}, nil
	case "bool":
		return &ast.BooleanConstraint{Value: l.Value}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown literal kind %q", l.Kind)
	}
}

// arg is the JSON shape for every Argument variant; Kind selects which
// fields apply. Unset fields decode as their Go zero value, which every
// Argument constructor tolerates (nil Target for a count aggregator, nil
// Value for an unset nested argument, and so on).
type arg struct {
	Kind string `json:"kind"`

	Name string `json:"name,omitempty"` // variable name / user functor name / ADT branch constructor

	ID int `json:"id,omitempty"` // unnamed-variable id

	Lexeme    string `json:"lexeme,omitempty"`
	FixedKind string `json:"fixed_kind,omitempty"`

	Value string `json:"value,omitempty"` // string constant

	Symbol string `json:"symbol,omitempty"` // intrinsic functor symbol
	Args   []arg  `json:"args,omitempty"`

	TargetType []string `json:"target_type,omitempty"`
	Target     *arg     `json:"target,omitempty"`

	Op   string    `json:"op,omitempty"` // aggregator op
	Body []literal `json:"body,omitempty"`
}

func (a arg) decode() ast.Argument {
	switch a.Kind {
	case "variable":
		return &ast.Variable{Name: a.Name}
	case "unnamed_variable":
		return &ast.UnnamedVariable{ID: a.ID}
	case "numeric_constant":
		return &ast.NumericConstant{Lexeme: a.Lexeme, FixedKind: a.FixedKind}
	case "string_constant":
		return &ast.StringConstant{Value: a.Value}
	case "nil_constant":
		return &ast.NilConstant{}
	case "counter":
		return &ast.Counter{}
	case "intrinsic_functor":
		return &ast.IntrinsicFunctor{Symbol: a.Symbol, Args: decodeArgs(a.Args)}
	case "user_functor":
		return &ast.UserDefinedFunctor{Name: a.Name, Args: decodeArgs(a.Args)}
	case "type_cast":
		var val ast.Argument
		if a.Target != nil {
			val = a.Target.decode()
		}
		return &ast.TypeCast{TargetType: qn(a.TargetType), Value: val}
	case "record_init":
		return &ast.RecordInit{Args: decodeArgs(a.Args)}
	case "branch_init":
		return &ast.BranchInit{Constructor: a.Name, Args: decodeArgs(a.Args)}
	case "aggregator":
		var target ast.Argument
		if a.Target != nil {
			target = a.Target.decode()
		}
		body := make([]ast.Literal, 0, len(a.Body))
		for _, l := range a.Body {
			if lit, err := l.decode(); err == nil {
				body = append(body, lit)
			}
		}
		return &ast.Aggregator{Op: a.Op, Target: target, Body: body}
	default:
		return nil
	}
}

func decodeArgs(args []arg) []ast.Argument {
	out := make([]ast.Argument, len(args))
	for i, a := range args {
		out[i] = a.decode()
	}
	return out
}
