package runtime

import (
	"fmt"

	"yamlscript/interpreter-go/pkg/ast"
)

// BindingKind tags a scope entry.
type BindingKind int

const (
	BindingValue BindingKind = iota
	BindingCallable
)

func (k BindingKind) String() string {
	switch k {
	case BindingValue:
		return "value"
	case BindingCallable:
		return "callable"
	default:
		return fmt.Sprintf("unknown_binding_%d", int(k))
	}
}

// Binding is a scope entry: exactly one of a value or a callable.
type Binding struct {
	kind     BindingKind
	value    Value
	callable Callable
}

func ValueBinding(v Value) Binding {
	if v == nil {
		v = NullValue{}
	}
	return Binding{kind: BindingValue, value: v}
}

func CallableBinding(c Callable) Binding {
	return Binding{kind: BindingCallable, callable: c}
}

func (b Binding) Kind() BindingKind { return b.kind }

// Value returns the bound value when the binding holds one.
func (b Binding) Value() (Value, bool) {
	if b.kind != BindingValue {
		return nil, false
	}
	return b.value, true
}

// Callable returns the bound callable when the binding holds one.
func (b Binding) Callable() (Callable, bool) {
	if b.kind != BindingCallable || b.callable == nil {
		return nil, false
	}
	return b.callable, true
}

//-----------------------------------------------------------------------------
// Callables
//-----------------------------------------------------------------------------

type CallableKind int

const (
	CallablePrimitive CallableKind = iota
	CallableSpecialForm
	CallableUserFunction
)

func (k CallableKind) String() string {
	switch k {
	case CallablePrimitive:
		return "primitive"
	case CallableSpecialForm:
		return "special_form"
	case CallableUserFunction:
		return "user_function"
	default:
		return fmt.Sprintf("unknown_callable_%d", int(k))
	}
}

type Callable interface {
	CallableKind() CallableKind
	CallableName() string
	// Arity is the declared parameter count; it is informational, callers
	// pad or truncate arguments rather than reject them.
	Arity() int
}

// Evaluator is the slice of the interpreter a special form needs to drive
// evaluation of its own arguments.
type Evaluator interface {
	Eval(node ast.Node, scope *Scope) (Value, error)
}

// NativeCallContext is handed to primitives and special forms.
type NativeCallContext struct {
	Scope     *Scope
	Evaluator Evaluator
}

type PrimitiveFunc func(ctx *NativeCallContext, args []Value) (Value, error)

type SpecialFormFunc func(ctx *NativeCallContext, args []ast.Node) (Value, error)

// Primitive receives already-evaluated arguments.
type Primitive struct {
	Name    string
	NumArgs int
	Impl    PrimitiveFunc
}

func (p *Primitive) CallableKind() CallableKind { return CallablePrimitive }
func (p *Primitive) CallableName() string       { return p.Name }
func (p *Primitive) Arity() int                 { return p.NumArgs }

// SpecialForm receives its argument trees unevaluated.
type SpecialForm struct {
	Name    string
	NumArgs int
	Impl    SpecialFormFunc
}

func (s *SpecialForm) CallableKind() CallableKind { return CallableSpecialForm }
func (s *SpecialForm) CallableName() string       { return s.Name }
func (s *SpecialForm) Arity() int                 { return s.NumArgs }

// UserFunction is created by the function/defun form. Closure is the scope
// the definition was evaluated in.
type UserFunction struct {
	Name    string
	Params  []string
	Body    ast.Node
	Closure *Scope
}

func (f *UserFunction) CallableKind() CallableKind { return CallableUserFunction }
func (f *UserFunction) CallableName() string       { return f.Name }
func (f *UserFunction) Arity() int                 { return len(f.Params) }
