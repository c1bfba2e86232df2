package typesystem

import "fmt"

// Environment owns every Type in the lattice. It is append-only after
// initialization: readers take unsynchronized references (§5, Shared-
// resource policy). All long-lived entities like this one are created once
// at analysis start and live until RAM emission completes (§3, Lifecycle).
type Environment struct {
	types map[string]*Type
	order []string // insertion order, for deterministic iteration/dumps.
}

// NewEnvironment builds an Environment with the four constant roots and
// their primitive aliases pre-registered (§3, §4.1). Constant types "are
// pre-created and uniquely named with a reserved prefix; they cannot be
// redeclared."
func NewEnvironment() *Environment {
	env := &Environment{types: make(map[string]*Type)}
	for _, k := range []Kind{KindSigned, KindUnsigned, KindFloat, KindSymbol} {
		root := &Type{Name: ConstantRootName(k), TypeKind: TKConstant, ConstKind: k}
		env.register(root)
		prim := &Type{Name: PrimitiveName(k), TypeKind: TKPrimitive, ConstKind: k, Base: root}
		env.register(prim)
	}
	return env
}

func (e *Environment) register(t *Type) {
	if _, exists := e.types[t.Name]; !exists {
		e.order = append(e.order, t.Name)
	}
	e.types[t.Name] = t
}

// Lookup finds a registered type by name.
func (e *Environment) Lookup(name string) (*Type, bool) {
	t, ok := e.types[name]
	return t, ok
}

// MustLookup is Lookup, panicking on a name that was never registered --
// reserved for call sites (RAM translation, §4.10) that only ever run after
// the semantic checker (§4.8) has already rejected undefined-type
// programs, so an unknown name there is an internal invariant violation,
// not a user error.
func (e *Environment) MustLookup(name string) *Type {
	t, ok := e.types[name]
	if !ok {
		panic(fmt.Sprintf("typesystem: internal error: unregistered type %q", name))
	}
	return t
}

// IsRegistered reports whether name is already taken.
func (e *Environment) IsRegistered(name string) bool {
	_, ok := e.types[name]
	return ok
}

// IsReservedConstantName reports whether name collides with one of the
// four pre-created constant roots or their primitive aliases -- such a
// declaration must be rejected by the type-environment builder (§4.2).
func (e *Environment) IsReservedConstantName(name string) bool {
	for _, k := range []Kind{KindSigned, KindUnsigned, KindFloat, KindSymbol} {
		if name == ConstantRootName(k) || name == PrimitiveName(k) {
			return true
		}
	}
	return false
}

// Names returns every registered type name in insertion order.
func (e *Environment) Names() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// CreateSubset registers a new subset type `name <: base` (§3, §4.1). base
// must already be registered. Returns the new Type.
func (e *Environment) CreateSubset(name string, base *Type) *Type {
	t := &Type{Name: name, TypeKind: TKSubset, Base: base, ConstKind: RootKind(base)}
	e.register(t)
	return t
}

// CreateUnion registers a new union type over elements (§3, §4.1). Callers
// must have already verified the elements share one primitive root (§4.2
// Invariants); CreateUnion does not re-check.
func (e *Environment) CreateUnion(name string, elements []*Type) *Type {
	kind := KindSigned
	if len(elements) > 0 {
		kind = RootKind(elements[0])
	}
	t := &Type{Name: name, TypeKind: TKUnion, Elements: elements, ConstKind: kind}
	e.register(t)
	return t
}

// ForwardAllocateRecord registers an empty record type so self-referential
// fields can resolve against it before Fields is populated (§4.2).
func (e *Environment) ForwardAllocateRecord(name string) *Type {
	t := &Type{Name: name, TypeKind: TKRecord}
	e.register(t)
	return t
}

// ForwardAllocateADT registers an empty ADT type so self-referential branch
// fields can resolve against it before Branches is populated (§4.2).
func (e *Environment) ForwardAllocateADT(name string) *Type {
	t := &Type{Name: name, TypeKind: TKADT}
	e.register(t)
	return t
}

// RootKind climbs a subset chain to find the constant kind at its root
// (§4.1, "Kind of a type is the root constant reached by climbing subset
// bases"). For unions/records/ADTs it returns the type's own ConstKind,
// which the builder must have already set correctly (unions) or which is
// meaningless (records/ADTs -- callers should check TypeKind first).
func RootKind(t *Type) Kind {
	for t.TypeKind == TKSubset || t.TypeKind == TKPrimitive {
		if t.Base == nil {
			break
		}
		t = t.Base
	}
	return t.ConstKind
}
