package ast

import "github.com/dlogc/dlogc/internal/token"

// FunctorDecl declares a user-defined functor's signature (name, ordered
// parameter types, return type, and whether it carries hidden state across
// calls). The functor's native implementation is an external collaborator
// (§1, host FFI is out of scope); the compiler only ever needs the
// signature to type-check and lower call sites.
type FunctorDecl struct {
	Tok        token.Token
	Name       string
	ParamTypes []QualifiedName
	ReturnType QualifiedName
	Stateful   bool
}

func (f *FunctorDecl) GetToken() token.Token {
	if f == nil {
		return token.Token{}
	}
	return f.Tok
}

// Arity is the declared parameter count.
func (f *FunctorDecl) Arity() int { return len(f.ParamTypes) }
