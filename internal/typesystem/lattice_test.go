package typesystem

import "testing"

func TestSubtypeReflexivityAndTransitivity(t *testing.T) {
	env := NewEnvironment()
	number, _ := env.Lookup("number")
	a := env.CreateSubset("A", number)
	b := env.CreateSubset("B", a)
	c := env.CreateSubset("C", b)

	if !IsSubtype(a, a) {
		t.Errorf("expected a <: a (reflexivity)")
	}
	if !IsSubtype(c, a) {
		t.Errorf("expected c <: a via transitivity through b")
	}
	if IsSubtype(a, c) {
		t.Errorf("did not expect a <: c")
	}
}

func TestGCSIdempotence(t *testing.T) {
	env := NewEnvironment()
	number, _ := env.Lookup("number")
	a := env.CreateSubset("A", number)

	g := GCS(a, a)
	if g.IsUniverse() || g.Len() != 1 {
		t.Fatalf("expected gcs(a,a) to be singleton {a}")
	}
	if g.Items()[0] != a {
		t.Errorf("expected gcs(a,a) = {a}")
	}
}

func TestUnionSubtyping(t *testing.T) {
	env := NewEnvironment()
	number, _ := env.Lookup("number")
	a := env.CreateSubset("A", number)
	bb := env.CreateSubset("B", number)
	u := env.CreateUnion("U", []*Type{a, bb})

	if !IsSubtype(a, u) {
		t.Errorf("expected A <: U (right distributes existentially)")
	}
	if !IsSubtype(u, number) {
		t.Errorf("expected U <: number (left distributes universally)")
	}
	if IsSubtype(u, a) {
		t.Errorf("did not expect U <: A")
	}
}

func TestKindOfClimbsSubsetChain(t *testing.T) {
	env := NewEnvironment()
	sym, _ := env.Lookup("symbol")
	a := env.CreateSubset("A", sym)
	b := env.CreateSubset("B", a)

	k, ok := KindOf(b)
	if !ok || k != KindSymbol {
		t.Errorf("expected kind(B) = symbol, got %v ok=%v", k, ok)
	}
}

func TestMixedPrimitiveUnionHasNoKind(t *testing.T) {
	env := NewEnvironment()
	number, _ := env.Lookup("number")
	symbol, _ := env.Lookup("symbol")
	u := env.CreateUnion("Mixed", []*Type{number, symbol})

	if _, ok := KindOf(u); ok {
		t.Errorf("expected a mixed-primitive union to have no well-defined kind")
	}
}

func TestTypeSetUniverseIntersection(t *testing.T) {
	env := NewEnvironment()
	number, _ := env.Lookup("number")
	s := Singleton(number)

	if !Universe().Intersect(s).Equal(s) {
		t.Errorf("expected universe ∩ X = X")
	}
	if !s.Intersect(Universe()).Equal(s) {
		t.Errorf("expected X ∩ universe = X")
	}
}
