// Package constraint implements the generic monotone fixpoint solver of
// §4.3: a property space, typed variables, an assignment, and a work-list
// solver over constraint nodes. It is instantiated twice -- once with a
// Boolean-disjunct lattice for groundedness (internal/ground) and once
// with the TypeSet lattice for type inference (internal/infer) -- so the
// fixpoint machinery itself lives here, written once.
package constraint

import "fmt"

// Space is a property space (V, meet, bottom): a finite-height lattice
// whose elements only ever tighten toward Bottom under Meet (§4.3). Meet
// must be commutative, associative, and idempotent so repeated application
// converges; the solver relies on that, not on enforcing it.
type Space[V any] struct {
	// Meet computes a ⊓ b, tightening toward Bottom.
	Meet func(a, b V) V
	// Bottom produces a fresh bottom-of-lattice value.
	Bottom func() V
	// Equal reports value equality, used to detect whether a Meet actually
	// changed anything.
	Equal func(a, b V) bool
}

// Variable is a typed handle into an Assignment. Its zero value is invalid;
// obtain one from Assignment.NewVariable.
type Variable struct {
	id   int
	name string
}

// String returns the variable's diagnostic name.
func (v Variable) String() string {
	if v.name == "" {
		return fmt.Sprintf("v%d", v.id)
	}
	return v.name
}

// Assignment maps variables to property-space values (§4.3). Every new
// variable starts at the space's Bottom() value, set by NewVariable.
type Assignment[V any] struct {
	space  Space[V]
	values []V
	names  []string
}

// NewAssignment creates an empty assignment over space.
func NewAssignment[V any](space Space[V]) *Assignment[V] {
	return &Assignment[V]{space: space}
}

// NewVariable allocates a fresh variable initialized to the space's bottom
// value -- "nothing known yet" (false for groundedness, the universe for
// type inference), which every constraint then only ever tightens.
func (a *Assignment[V]) NewVariable(name string) Variable {
	id := len(a.values)
	a.values = append(a.values, a.space.Bottom())
	a.names = append(a.names, name)
	return Variable{id: id, name: name}
}

// Get returns the current value of v.
func (a *Assignment[V]) Get(v Variable) V {
	return a.values[v.id]
}

// Tighten meets v's current value with val and reports whether it changed.
// This is the only mutation primitive constraints use; it is always a
// move toward Bottom, which is what guarantees termination (§4.3).
func (a *Assignment[V]) Tighten(v Variable, val V) bool {
	merged := a.space.Meet(a.values[v.id], val)
	if a.space.Equal(merged, a.values[v.id]) {
		return false
	}
	a.values[v.id] = merged
	return true
}

// Variables returns every allocated variable, in allocation order.
func (a *Assignment[V]) Variables() []Variable {
	out := make([]Variable, len(a.values))
	for i := range a.values {
		out[i] = Variable{id: i, name: a.names[i]}
	}
	return out
}

// Constraint is a node that tightens one or more variables given the
// current assignment (§4.3). Update returns whether it changed anything;
// String gives a pretty-print form for debug dumps (--show=type-analysis).
type Constraint[V any] interface {
	Update(a *Assignment[V]) bool
	String() string
}

// Func adapts a plain function into a Constraint, for the common case of a
// constraint with no state beyond its closure.
type Func[V any] struct {
	Label string
	Apply func(a *Assignment[V]) bool
}

func (f Func[V]) Update(a *Assignment[V]) bool { return f.Apply(a) }
func (f Func[V]) String() string               { return f.Label }

// Problem accumulates constraints over one assignment and solves them to a
// fixpoint (§4.3).
type Problem[V any] struct {
	assignment  *Assignment[V]
	constraints []Constraint[V]
}

// NewProblem creates a problem over a fresh assignment in space.
func NewProblem[V any](space Space[V]) *Problem[V] {
	return &Problem[V]{assignment: NewAssignment(space)}
}

// NewVariable allocates a variable in the problem's assignment.
func (p *Problem[V]) NewVariable(name string) Variable {
	return p.assignment.NewVariable(name)
}

// Assignment exposes the problem's assignment for constraints that need to
// read values while being constructed (before Solve runs).
func (p *Problem[V]) Assignment() *Assignment[V] {
	return p.assignment
}

// AddConstraint registers c to participate in the fixpoint.
func (p *Problem[V]) AddConstraint(c Constraint[V]) {
	p.constraints = append(p.constraints, c)
}

// Solve runs the standard work-list fixpoint: until no constraint reports a
// change, call Update on each, in registration order (§4.3). Termination
// is guaranteed by the finite-height lattice and monotone tightening
// discipline the caller's constraints are expected to uphold.
func (p *Problem[V]) Solve() *Assignment[V] {
	for {
		changed := false
		for _, c := range p.constraints {
			if c.Update(p.assignment) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return p.assignment
}
