package ast

import "strings"

// QualifiedName is an ordered sequence of identifiers with value equality
// and a total order (§3).
type QualifiedName struct {
	Parts []string
}

// NewQualifiedName builds a QualifiedName from dot-separated parts.
func NewQualifiedName(parts ...string) QualifiedName {
	return QualifiedName{Parts: parts}
}

func (q QualifiedName) String() string {
	return strings.Join(q.Parts, ".")
}

// Equal reports value equality.
func (q QualifiedName) Equal(o QualifiedName) bool {
	if len(q.Parts) != len(o.Parts) {
		return false
	}
	for i := range q.Parts {
		if q.Parts[i] != o.Parts[i] {
			return false
		}
	}
	return true
}

// Less gives a total order over qualified names, used wherever diagnostics
// or RAM output need deterministic ordering (e.g. sorting relations,
// sorting ADT branches lexicographically, §3).
func (q QualifiedName) Less(o QualifiedName) bool {
	return q.String() < o.String()
}

// IsEmpty reports whether the name carries no parts.
func (q QualifiedName) IsEmpty() bool {
	return len(q.Parts) == 0
}
