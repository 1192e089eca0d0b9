// Package parser turns YAML source into program trees using the yaml.v3
// node API, keeping line and column information on every node.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"yamlscript/interpreter-go/pkg/ast"
)

// SyntaxError reports a structurally valid YAML document that cannot be a
// program, such as a mapping with a non-scalar key.
type SyntaxError struct {
	Span    ast.Span
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Span.IsZero() {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Span, e.Message)
}

// ParseDocuments parses every YAML document in src, in order.
func ParseDocuments(src []byte) ([]ast.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	var docs []ast.Node
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parser: %w", err)
		}
		node, err := convert(&doc, map[*yaml.Node]bool{})
		if err != nil {
			return nil, fmt.Errorf("parser: %w", err)
		}
		docs = append(docs, node)
	}
}

// Parse parses src as one program. Several documents are evaluated in
// order like the elements of a sequence; empty input is null.
func Parse(src []byte) (ast.Node, error) {
	docs, err := ParseDocuments(src)
	if err != nil {
		return nil, err
	}
	switch len(docs) {
	case 0:
		return ast.NewNull(), nil
	case 1:
		return docs[0], nil
	default:
		seq := ast.NewSequence(docs)
		ast.SetSpan(seq, docs[0].Span())
		return seq, nil
	}
}

func span(n *yaml.Node) ast.Span {
	return ast.Span{Line: n.Line, Column: n.Column}
}

// convert maps a yaml.v3 node onto the program tree. expanding tracks the
// aliases currently being followed so a self-referencing anchor fails
// instead of recursing forever.
func convert(n *yaml.Node, expanding map[*yaml.Node]bool) (ast.Node, error) {
	var out ast.Node
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			out = ast.NewNull()
			break
		}
		return convert(n.Content[0], expanding)
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, &SyntaxError{Span: span(n), Message: fmt.Sprintf("unknown anchor %q", n.Value)}
		}
		if expanding[n.Alias] {
			return nil, &SyntaxError{Span: span(n), Message: fmt.Sprintf("anchor %q refers to itself", n.Value)}
		}
		expanding[n.Alias] = true
		defer delete(expanding, n.Alias)
		return convert(n.Alias, expanding)
	case yaml.ScalarNode:
		scalar, err := convertScalar(n)
		if err != nil {
			return nil, err
		}
		out = scalar
	case yaml.SequenceNode:
		elements := make([]ast.Node, 0, len(n.Content))
		for _, child := range n.Content {
			el, err := convert(child, expanding)
			if err != nil {
				return nil, err
			}
			elements = append(elements, el)
		}
		out = ast.NewSequence(elements)
	case yaml.MappingNode:
		entries := make([]ast.Entry, 0, len(n.Content)/2)
		for idx := 0; idx+1 < len(n.Content); idx += 2 {
			key, value := n.Content[idx], n.Content[idx+1]
			if key.Kind == yaml.AliasNode && key.Alias != nil {
				key = key.Alias
			}
			if key.Kind != yaml.ScalarNode {
				return nil, &SyntaxError{Span: span(key), Message: "mapping keys must be scalar function names"}
			}
			args, err := convert(value, expanding)
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.Entry{Name: key.Value, Args: args, Pos: span(key)})
		}
		out = ast.NewMapping(entries)
	default:
		return nil, &SyntaxError{Span: span(n), Message: fmt.Sprintf("unsupported YAML node kind %d", n.Kind)}
	}
	ast.SetSpan(out, span(n))
	return out, nil
}

func convertScalar(n *yaml.Node) (ast.Node, error) {
	switch n.ShortTag() {
	case "!!null":
		return ast.NewNull(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, &SyntaxError{Span: span(n), Message: err.Error()}
		}
		return ast.NewBool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, &SyntaxError{Span: span(n), Message: err.Error()}
		}
		return ast.NewNumber(f), nil
	default:
		return ast.NewString(n.Value), nil
	}
}
