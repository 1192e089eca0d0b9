// Package ast defines the program tree consumed by the evaluator. Trees are
// built once by the parser (or the helpers in dsl.go) and never mutated.
package ast

import "fmt"

type NodeType string

const (
	NodeNull     NodeType = "Null"
	NodeNumber   NodeType = "Number"
	NodeString   NodeType = "String"
	NodeBool     NodeType = "Bool"
	NodeSequence NodeType = "Sequence"
	NodeMapping  NodeType = "Mapping"
)

// Span records where a node started in the source text. Nodes built in code
// carry the zero span.
type Span struct {
	Line   int `json:"line,omitempty"`
	Column int `json:"column,omitempty"`
}

func (s Span) IsZero() bool { return s == Span{} }

func (s Span) String() string {
	if s.IsZero() {
		return "?"
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	Pos  Span     `json:"span,omitempty"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.Pos }
func (nodeImpl) isNode()              {}

func (n *nodeImpl) setSpan(span Span) { n.Pos = span }

// SetSpan annotates the node with the provided span.
func SetSpan(node Node, span Span) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setSpan(Span) }); ok {
		setter.setSpan(span)
	}
}

// Scalars

type Null struct {
	nodeImpl
}

func NewNull() *Null {
	return &Null{nodeImpl: newNodeImpl(NodeNull)}
}

type Number struct {
	nodeImpl

	Value float64 `json:"value"`
}

func NewNumber(value float64) *Number {
	return &Number{nodeImpl: newNodeImpl(NodeNumber), Value: value}
}

type String struct {
	nodeImpl

	Value string `json:"value"`
}

func NewString(value string) *String {
	return &String{nodeImpl: newNodeImpl(NodeString), Value: value}
}

type Bool struct {
	nodeImpl

	Value bool `json:"value"`
}

func NewBool(value bool) *Bool {
	return &Bool{nodeImpl: newNodeImpl(NodeBool), Value: value}
}

// Composites

type Sequence struct {
	nodeImpl

	Elements []Node `json:"elements"`
}

func NewSequence(elements []Node) *Sequence {
	if elements == nil {
		elements = []Node{}
	}
	return &Sequence{nodeImpl: newNodeImpl(NodeSequence), Elements: elements}
}

// Entry is one name/arguments pair of a mapping node.
type Entry struct {
	Name string `json:"name"`
	Args Node   `json:"args"`
	Pos  Span   `json:"span,omitempty"`
}

// Mapping keeps every entry the source produced, in source order. Only the
// last entry is applied by the evaluator.
type Mapping struct {
	nodeImpl

	Entries []Entry `json:"entries"`
}

func NewMapping(entries []Entry) *Mapping {
	return &Mapping{nodeImpl: newNodeImpl(NodeMapping), Entries: entries}
}

// Last returns the entry that is honoured when the mapping is applied.
func (m *Mapping) Last() (Entry, bool) {
	if m == nil || len(m.Entries) == 0 {
		return Entry{}, false
	}
	return m.Entries[len(m.Entries)-1], true
}

// ArgList normalizes an entry's arguments: a sequence is used as-is, any
// other node becomes a one-element list.
func (e Entry) ArgList() []Node {
	if seq, ok := e.Args.(*Sequence); ok {
		return seq.Elements
	}
	return []Node{e.Args}
}
