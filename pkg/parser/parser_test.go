package parser

import (
	"errors"
	"math"
	"testing"

	"yamlscript/interpreter-go/pkg/ast"
)

func mustParse(t *testing.T, src string) ast.Node {
	t.Helper()
	node, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return node
}

func TestScalarTyping(t *testing.T) {
	cases := []struct {
		src  string
		want ast.Node
	}{
		{"42", ast.Num(42)},
		{"-1.5", ast.Num(-1.5)},
		{"0x1F", ast.Num(31)},
		{"true", ast.True()},
		{"false", ast.False()},
		{"~", ast.Nil()},
		{"null", ast.Nil()},
		{"hello", ast.Str("hello")},
		{`"42"`, ast.Str("42")},
		{"$x", ast.Str("$x")},
		{"'yes'", ast.Str("yes")},
	}
	for _, tc := range cases {
		got := mustParse(t, tc.src)
		if got.NodeType() != tc.want.NodeType() {
			t.Fatalf("%q: expected %s, got %s", tc.src, tc.want.NodeType(), got.NodeType())
		}
		switch want := tc.want.(type) {
		case *ast.Number:
			if got.(*ast.Number).Value != want.Value {
				t.Fatalf("%q: expected %v, got %v", tc.src, want.Value, got.(*ast.Number).Value)
			}
		case *ast.String:
			if got.(*ast.String).Value != want.Value {
				t.Fatalf("%q: expected %q, got %q", tc.src, want.Value, got.(*ast.String).Value)
			}
		case *ast.Bool:
			if got.(*ast.Bool).Value != want.Value {
				t.Fatalf("%q: expected %v", tc.src, want.Value)
			}
		}
	}
}

func TestSpecialFloats(t *testing.T) {
	if n := mustParse(t, ".inf").(*ast.Number); !math.IsInf(n.Value, 1) {
		t.Fatalf("expected +Inf, got %v", n.Value)
	}
	if n := mustParse(t, ".nan").(*ast.Number); !math.IsNaN(n.Value) {
		t.Fatalf("expected NaN, got %v", n.Value)
	}
}

func TestMappingKeepsEntriesInOrder(t *testing.T) {
	node := mustParse(t, "a: 1\nb: [2, 3]\n")
	mapping, ok := node.(*ast.Mapping)
	if !ok || len(mapping.Entries) != 2 {
		t.Fatalf("expected mapping with two entries, got %#v", node)
	}
	last, _ := mapping.Last()
	if last.Name != "b" {
		t.Fatalf("expected last entry b, got %s", last.Name)
	}
	if last.Pos != (ast.Span{Line: 2, Column: 1}) {
		t.Fatalf("unexpected entry span %v", last.Pos)
	}
	if args := last.ArgList(); len(args) != 2 {
		t.Fatalf("expected sequence arguments, got %d", len(args))
	}
}

func TestScalarArgumentsAreWrapped(t *testing.T) {
	node := mustParse(t, "'!': true\n")
	entry, _ := node.(*ast.Mapping).Last()
	args := entry.ArgList()
	if len(args) != 1 || args[0].NodeType() != ast.NodeBool {
		t.Fatalf("expected a single bool argument, got %#v", args)
	}
}

func TestProgramShape(t *testing.T) {
	src := `
- let: [x, 2]
- function:
  - double
  - [n]
  - '*': [$n, 2]
- double: $x
`
	node := mustParse(t, src)
	seq, ok := node.(*ast.Sequence)
	if !ok || len(seq.Elements) != 3 {
		t.Fatalf("expected three statements, got %#v", node)
	}
	fn, _ := seq.Elements[1].(*ast.Mapping).Last()
	args := fn.ArgList()
	if len(args) != 3 || args[1].NodeType() != ast.NodeSequence || args[2].NodeType() != ast.NodeMapping {
		t.Fatalf("unexpected function definition shape %#v", args)
	}
	if got := seq.Elements[2].Span(); got.Line != 7 {
		t.Fatalf("expected third statement on line 7, got %v", got)
	}
}

func TestMultipleDocuments(t *testing.T) {
	docs, err := ParseDocuments([]byte("1\n---\n2\n---\nthree\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected three documents, got %d", len(docs))
	}
	node := mustParse(t, "1\n---\n2\n")
	if seq, ok := node.(*ast.Sequence); !ok || len(seq.Elements) != 2 {
		t.Fatalf("expected documents wrapped as a sequence, got %#v", node)
	}
	if mustParse(t, "").NodeType() != ast.NodeNull {
		t.Fatalf("expected empty input to parse as null")
	}
}

func TestAliases(t *testing.T) {
	node := mustParse(t, "- &two 2\n- '+': [*two, *two]\n")
	call, _ := node.(*ast.Sequence).Elements[1].(*ast.Mapping).Last()
	args := call.ArgList()
	if n, ok := args[1].(*ast.Number); !ok || n.Value != 2 {
		t.Fatalf("expected alias to expand, got %#v", args[1])
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte("[1, 2")); err == nil {
		t.Fatalf("expected YAML syntax error")
	}
	_, err := Parse([]byte("? [a, b]\n: 1\n"))
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected SyntaxError for non-scalar key, got %v", err)
	}
	if syntaxErr.Span.Line != 1 {
		t.Fatalf("expected error on line 1, got %v", syntaxErr.Span)
	}
}
