package astjson

import (
	"testing"

	"github.com/dlogc/dlogc/internal/ast"
)

func TestDecodeRelationsAndFacts(t *testing.T) {
	data := []byte(`{
		"relations": [
			{"name": ["edge"], "attributes": [
				{"name": "x", "type": ["number"]},
				{"name": "y", "type": ["number"]}
			]},
			{"name": ["path"], "attributes": [
				{"name": "x", "type": ["number"]},
				{"name": "y", "type": ["number"]}
			], "qualifiers": ["output"]}
		],
		"clauses": [
			{"head": {"name": ["edge"], "args": [
				{"kind": "numeric_constant", "lexeme": "1"},
				{"kind": "numeric_constant", "lexeme": "2"}
			]}},
			{"head": {"name": ["path"], "args": [
				{"kind": "variable", "name": "x"},
				{"kind": "variable", "name": "y"}
			]}, "body": [
				{"kind": "atom", "atom": {"name": ["edge"], "args": [
					{"kind": "variable", "name": "x"},
					{"kind": "variable", "name": "y"}
				]}}
			]}
		]
	}`)

	program, err := Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(program.Relations) != 2 {
		t.Fatalf("expected 2 relations, got %d", len(program.Relations))
	}
	path := program.RelationByName(ast.NewQualifiedName("path"))
	if path == nil {
		t.Fatalf("expected path relation to be registered")
	}
	if !path.HasQualifier(ast.QualOutput) {
		t.Errorf("expected path to carry the output qualifier")
	}
	if len(program.Clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(program.Clauses))
	}
	fact := program.Clauses[0]
	if !fact.IsFact() {
		t.Errorf("expected the edge clause to decode as a fact")
	}
	rule := program.Clauses[1]
	if len(rule.BodyAtoms()) != 1 {
		t.Fatalf("expected the path rule to have one body atom, got %d", len(rule.BodyAtoms()))
	}
}

func TestDecodeNegationAndBinaryConstraint(t *testing.T) {
	data := []byte(`{
		"relations": [
			{"name": ["a"], "attributes": [{"name": "x", "type": ["number"]}]},
			{"name": ["b"], "attributes": [{"name": "x", "type": ["number"]}]},
			{"name": ["c"], "attributes": [{"name": "x", "type": ["number"]}]}
		],
		"clauses": [
			{"head": {"name": ["c"], "args": [{"kind": "variable", "name": "x"}]}, "body": [
				{"kind": "atom", "atom": {"name": ["a"], "args": [{"kind": "variable", "name": "x"}]}},
				{"kind": "negation", "atom": {"name": ["b"], "args": [{"kind": "variable", "name": "x"}]}},
				{"kind": "binary", "op": "!=", "left": {"kind": "variable", "name": "x"}, "right": {"kind": "numeric_constant", "lexeme": "0"}}
			]}
		]
	}`)

	program, err := Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cl := program.Clauses[0]
	if len(cl.Body) != 3 {
		t.Fatalf("expected 3 body literals, got %d", len(cl.Body))
	}
	if _, ok := cl.Body[1].(*ast.Negation); !ok {
		t.Errorf("expected the second literal to decode as a negation, got %T", cl.Body[1])
	}
	bc, ok := cl.Body[2].(*ast.BinaryConstraint)
	if !ok {
		t.Fatalf("expected the third literal to decode as a binary constraint, got %T", cl.Body[2])
	}
	if bc.Op != "!=" {
		t.Errorf("expected op !=, got %q", bc.Op)
	}
}

func TestDecodeTypeDeclsAndAggregator(t *testing.T) {
	data := []byte(`{
		"types": [
			{"kind": "subset", "name": "Age", "base": ["number"]},
			{"kind": "record", "name": "Point", "fields": [
				{"name": "x", "type": ["number"]}, {"name": "y", "type": ["number"]}
			]},
			{"kind": "adt", "name": "Shape", "branches": [
				{"name": "Circle", "fields": [{"name": "r", "type": ["number"]}]}
			]}
		],
		"relations": [
			{"name": ["item"], "attributes": [
				{"name": "id", "type": ["number"]}, {"name": "price", "type": ["number"]}
			]},
			{"name": ["total"], "attributes": [{"name": "sum", "type": ["number"]}]}
		],
		"clauses": [
			{"head": {"name": ["total"], "args": [
				{"kind": "aggregator", "op": "sum", "target": {"kind": "variable", "name": "p"}, "body": [
					{"kind": "atom", "atom": {"name": ["item"], "args": [
						{"kind": "unnamed_variable", "id": 1},
						{"kind": "variable", "name": "p"}
					]}}
				]}
			]}}
		]
	}`)

	program, err := Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(program.Types) != 3 {
		t.Fatalf("expected 3 type declarations, got %d", len(program.Types))
	}
	if _, ok := program.Types[0].(*ast.SubsetTypeDecl); !ok {
		t.Errorf("expected the first type decl to be a subset, got %T", program.Types[0])
	}
	if _, ok := program.Types[1].(*ast.RecordTypeDecl); !ok {
		t.Errorf("expected the second type decl to be a record, got %T", program.Types[1])
	}
	adt, ok := program.Types[2].(*ast.ADTTypeDecl)
	if !ok {
		t.Fatalf("expected the third type decl to be an ADT, got %T", program.Types[2])
	}
	if len(adt.Branches) != 1 || adt.Branches[0].Name != "Circle" {
		t.Errorf("unexpected ADT branches: %+v", adt.Branches)
	}

	agg, ok := program.Clauses[0].Head.Args[0].(*ast.Aggregator)
	if !ok {
		t.Fatalf("expected the head argument to decode as an aggregator, got %T", program.Clauses[0].Head.Args[0])
	}
	if agg.Op != "sum" {
		t.Errorf("expected aggregator op sum, got %q", agg.Op)
	}
	if len(agg.Body) != 1 {
		t.Fatalf("expected the aggregator body to have one literal, got %d", len(agg.Body))
	}
}

func TestDecodeRejectsUnknownTypeDeclKind(t *testing.T) {
	_, err := Decode([]byte(`{"types": [{"kind": "bogus", "name": "X"}]}`))
	if err == nil {
		t.Fatalf("expected an error for an unknown type-decl kind")
	}
}
