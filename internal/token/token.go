// Package token defines the source-location type shared by every AST and
// RAM node in the pipeline.
package token

import "fmt"

// Token is a minimal source-location carrier. The pipeline never re-lexes;
// the parser (out of scope, §1) attaches one of these to every node it
// produces, and every transform that synthesizes a node copies or clones one
// from its logical origin (§3, Lifecycle).
type Token struct {
	Lexeme string
	File   string
	Line   int
	Column int
}

// String renders "file:line:col" for diagnostic messages.
func (t Token) String() string {
	if t.File == "" && t.Line == 0 && t.Column == 0 {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
}

// IsZero reports whether the token carries no location information.
func (t Token) IsZero() bool {
	return t == Token{}
}

// Synthetic builds a token for a node created by a transform, preserving the
// file of the logical origin but marking the lexeme with the given reserved
// prefix so it can never collide with parser output (§3, Lifecycle).
func Synthetic(origin Token, lexeme string) Token {
	return Token{Lexeme: lexeme, File: origin.File, Line: origin.Line, Column: origin.Column}
}
