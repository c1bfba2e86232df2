package constraint

import "testing"

// boolSpace mirrors §4.3's Boolean-disjunct property space: V = {false,
// true}, meet = logical OR, bottom = false.
func boolSpace() Space[bool] {
	return Space[bool]{
		Meet:   func(a, b bool) bool { return a || b },
		Bottom: func() bool { return false },
		Equal:  func(a, b bool) bool { return a == b },
	}
}

func TestProblemSolvesImplicationChain(t *testing.T) {
	p := NewProblem(boolSpace())
	x := p.NewVariable("x")
	y := p.NewVariable("y")
	z := p.NewVariable("z")

	// x is a source: forced true.
	p.AddConstraint(Func[bool]{Label: "x=source", Apply: func(a *Assignment[bool]) bool {
		return a.Tighten(x, true)
	}})
	// y := x (equality).
	p.AddConstraint(Func[bool]{Label: "y=x", Apply: func(a *Assignment[bool]) bool {
		return a.Tighten(y, a.Get(x))
	}})
	// z := y (equality), chained so z only becomes true after y settles.
	p.AddConstraint(Func[bool]{Label: "z=y", Apply: func(a *Assignment[bool]) bool {
		return a.Tighten(z, a.Get(y))
	}})

	result := p.Solve()
	if !result.Get(x) || !result.Get(y) || !result.Get(z) {
		t.Fatalf("expected x, y, z all grounded true, got x=%v y=%v z=%v",
			result.Get(x), result.Get(y), result.Get(z))
	}
}

func TestProblemLeavesUnreachableVariableAtBottom(t *testing.T) {
	p := NewProblem(boolSpace())
	sink := p.NewVariable("sink")
	_ = sink

	result := p.Solve()
	if result.Get(sink) {
		t.Errorf("expected an unconstrained sink variable to remain false (bottom)")
	}
}

func TestTightenReportsNoChangeOnRepeatedMeet(t *testing.T) {
	a := NewAssignment(boolSpace())
	v := a.NewVariable("v")

	if !a.Tighten(v, true) {
		t.Fatalf("expected first tighten to report a change")
	}
	if a.Tighten(v, true) {
		t.Errorf("expected a repeated tighten with the same value to report no change")
	}
}
