package typesystem

// IsSubtype implements §4.1's is_subtype: reflexivity, then root-type
// traversal (subset climbing toward its base); for unions, left distributes
// (∀) and right distributes (∃). It is total: every query returns a bool,
// never an error (§4.1, Error conditions: none).
func IsSubtype(a, b *Type) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Name == b.Name {
		return true
	}
	if a.TypeKind == TKUnion {
		for _, e := range a.Elements {
			if !IsSubtype(e, b) {
				return false
			}
		}
		return true
	}
	if b.TypeKind == TKUnion {
		for _, e := range b.Elements {
			if IsSubtype(a, e) {
				return true
			}
		}
		return false
	}
	if (a.TypeKind == TKSubset || a.TypeKind == TKPrimitive) && a.Base != nil {
		return IsSubtype(a.Base, b)
	}
	// Records and ADTs are nominal only (§3): no structural subtyping, so
	// two distinct non-subset names are simply incomparable here.
	return false
}

// AreEquivalent reports a<:b ∧ b<:a (§4.1, §3 Invariants).
func AreEquivalent(a, b *Type) bool {
	return IsSubtype(a, b) && IsSubtype(b, a)
}

// HaveCommonSupertype reports whether a and b share any supertype, which
// for this lattice (no multiple inheritance beyond the primitive roots)
// reduces to: one is a subtype of the other, or both ultimately root in the
// same constant kind.
func HaveCommonSupertype(a, b *Type) bool {
	if IsSubtype(a, b) || IsSubtype(b, a) {
		return true
	}
	ka, aok := KindOf(a)
	kb, bok := KindOf(b)
	return aok && bok && ka == kb
}

// KindOf implements §4.1's get_type_attribute: the root constant kind
// reached by climbing subset bases; for unions, every element must agree.
// The second return is false if the type has no well-defined kind (a
// record, an ADT, or a union mixing primitive roots -- the latter should
// already have been rejected at declaration time, §4.2/§4.8, but KindOf
// stays total and simply reports "no kind" rather than panicking).
func KindOf(t *Type) (Kind, bool) {
	switch t.TypeKind {
	case TKConstant, TKPrimitive:
		return t.ConstKind, true
	case TKSubset:
		if t.Base == nil {
			return 0, false
		}
		return KindOf(t.Base)
	case TKUnion:
		if len(t.Elements) == 0 {
			return 0, false
		}
		k, ok := KindOf(t.Elements[0])
		if !ok {
			return 0, false
		}
		for _, e := range t.Elements[1:] {
			ek, ok := KindOf(e)
			if !ok || ek != k {
				return 0, false
			}
		}
		return k, true
	default:
		return 0, false
	}
}

// IsOfKind implements §4.1's is_of_kind.
func IsOfKind(t *Type, k Kind) bool {
	actual, ok := KindOf(t)
	return ok && actual == k
}

// GCS implements §4.1's greatest_common_subtypes on a pair of singleton
// types: "if a <: b return {a}; if b <: a return {b}; if both are unions,
// return elements of a that are subtypes of b; otherwise ∅."
func GCS(a, b *Type) TypeSet {
	if IsSubtype(a, b) {
		return Singleton(a)
	}
	if IsSubtype(b, a) {
		return Singleton(b)
	}
	if a.TypeKind == TKUnion && b.TypeKind == TKUnion {
		out := Empty()
		for _, e := range a.Elements {
			if IsSubtype(e, b) {
				out = out.Insert(e)
			}
		}
		return out
	}
	return Empty()
}

// GCSSets implements §4.1's greatest_common_subtypes on TypeSets: the
// pointwise union of singleton GCS over every pair. Universe acts as the
// identity for intersection-like lattice meets here too: GCS(universe, X)
// is defined as X, matching top-of-lattice semantics used by the
// constraint framework's bottom-up refinement (§4.3).
func GCSSets(a, b TypeSet) TypeSet {
	if a.IsUniverse() {
		return b
	}
	if b.IsUniverse() {
		return a
	}
	out := Empty()
	for _, ta := range a.Items() {
		for _, tb := range b.Items() {
			g := GCS(ta, tb)
			if g.IsEmpty() {
				continue
			}
			for _, t := range g.Items() {
				out = out.Insert(t)
			}
		}
	}
	return out
}
