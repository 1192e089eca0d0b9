package runtime

import (
	"fmt"

	"yamlscript/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBool
	KindSequence
	KindMapping
	KindHost
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindHost:
		return "host"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

// NumberValue is an IEEE-754 double; every numeric literal evaluates to one.
type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

//-----------------------------------------------------------------------------
// Composites
//-----------------------------------------------------------------------------

type SequenceValue struct {
	Elements []Value
}

func (v *SequenceValue) Kind() Kind { return KindSequence }

// NewSequence wraps the provided elements, normalizing nil to an empty slice.
func NewSequence(elements []Value) *SequenceValue {
	if elements == nil {
		elements = []Value{}
	}
	return &SequenceValue{Elements: elements}
}

// MappingValue is a quoted `{name: args}` tree node.
type MappingValue struct {
	Name string
	Args Value
}

func (v MappingValue) Kind() Kind { return KindMapping }

// HostValue carries a Go value returned by a host function that has no
// direct runtime representation.
type HostValue struct {
	Val any
}

func (v HostValue) Kind() Kind { return KindHost }

//-----------------------------------------------------------------------------
// Quoting
//-----------------------------------------------------------------------------

// Quote converts an unevaluated tree into data without evaluating it.
func Quote(node ast.Node) Value {
	switch n := node.(type) {
	case nil:
		return NullValue{}
	case *ast.Null:
		return NullValue{}
	case *ast.Number:
		return NumberValue{Val: n.Value}
	case *ast.String:
		return StringValue{Val: n.Value}
	case *ast.Bool:
		return BoolValue{Val: n.Value}
	case *ast.Sequence:
		return QuoteAll(n.Elements)
	case *ast.Mapping:
		entry, ok := n.Last()
		if !ok {
			return NullValue{}
		}
		return MappingValue{Name: entry.Name, Args: Quote(entry.Args)}
	default:
		return NullValue{}
	}
}

// QuoteAll quotes each node into a sequence value.
func QuoteAll(nodes []ast.Node) *SequenceValue {
	elements := make([]Value, len(nodes))
	for idx, el := range nodes {
		elements[idx] = Quote(el)
	}
	return NewSequence(elements)
}
