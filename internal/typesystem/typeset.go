package typesystem

// TypeSet is either the distinguished "universe" or a finite set of type
// references (§3). It is the value domain of the type-inference lattice
// (§4.3, §4.5): top is Universe, and every constraint can only shrink a
// TypeSet toward a smaller finite set.
type TypeSet struct {
	universe bool
	items    map[string]*Type
}

// Universe returns the distinguished top element.
func Universe() TypeSet {
	return TypeSet{universe: true}
}

// Empty returns the bottom element, the empty finite set.
func Empty() TypeSet {
	return TypeSet{items: map[string]*Type{}}
}

// Singleton builds a one-element TypeSet.
func Singleton(t *Type) TypeSet {
	return TypeSet{items: map[string]*Type{t.Name: t}}
}

// FromSlice builds a finite TypeSet from a slice of types.
func FromSlice(ts []*Type) TypeSet {
	items := make(map[string]*Type, len(ts))
	for _, t := range ts {
		items[t.Name] = t
	}
	return TypeSet{items: items}
}

// IsUniverse reports whether s is the distinguished top element.
func (s TypeSet) IsUniverse() bool { return s.universe }

// IsEmpty reports whether s is the finite empty set. Universe is never
// empty.
func (s TypeSet) IsEmpty() bool {
	return !s.universe && len(s.items) == 0
}

// Len returns the number of elements; iterating the universe is forbidden
// (§3), so Len panics if called on it -- callers must check IsUniverse
// first.
func (s TypeSet) Len() int {
	if s.universe {
		panic("typesystem: Len of universe TypeSet is forbidden")
	}
	return len(s.items)
}

// Contains reports membership. A type is always a member of the universe.
func (s TypeSet) Contains(t *Type) bool {
	if s.universe {
		return true
	}
	_, ok := s.items[t.Name]
	return ok
}

// Insert returns a new TypeSet with t added. Inserting into the universe is
// a no-op (universe already contains everything).
func (s TypeSet) Insert(t *Type) TypeSet {
	if s.universe {
		return s
	}
	out := cloneItems(s.items)
	out[t.Name] = t
	return TypeSet{items: out}
}

// Items returns the finite set's elements. Panics on the universe (§3:
// "Iteration over the universe is forbidden").
func (s TypeSet) Items() []*Type {
	if s.universe {
		panic("typesystem: iterating the universe TypeSet is forbidden")
	}
	out := make([]*Type, 0, len(s.items))
	for _, t := range s.items {
		out = append(out, t)
	}
	return out
}

// Intersect computes s ∩ o. "Universe ∩ X = X" (§3).
func (s TypeSet) Intersect(o TypeSet) TypeSet {
	if s.universe {
		return o
	}
	if o.universe {
		return s
	}
	out := map[string]*Type{}
	for name, t := range s.items {
		if _, ok := o.items[name]; ok {
			out[name] = t
		}
	}
	return TypeSet{items: out}
}

// Filter returns the subset of a finite TypeSet matching pred. Filtering
// the universe is forbidden, matching the no-iteration invariant.
func (s TypeSet) Filter(pred func(*Type) bool) TypeSet {
	if s.universe {
		panic("typesystem: filtering the universe TypeSet is forbidden")
	}
	out := map[string]*Type{}
	for name, t := range s.items {
		if pred(t) {
			out[name] = t
		}
	}
	return TypeSet{items: out}
}

// IsSubsetOf reports whether every element of s is also in o.
func (s TypeSet) IsSubsetOf(o TypeSet) bool {
	if o.universe {
		return true
	}
	if s.universe {
		return false
	}
	for name := range s.items {
		if _, ok := o.items[name]; !ok {
			return false
		}
	}
	return true
}

// Equal reports set equality.
func (s TypeSet) Equal(o TypeSet) bool {
	if s.universe != o.universe {
		return false
	}
	if s.universe {
		return true
	}
	return s.IsSubsetOf(o) && o.IsSubsetOf(s)
}

func cloneItems(items map[string]*Type) map[string]*Type {
	out := make(map[string]*Type, len(items))
	for k, v := range items {
		out[k] = v
	}
	return out
}
