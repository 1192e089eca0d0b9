package interpreter

import (
	"yamlscript/interpreter-go/pkg/runtime"
)

// NewTopLevelScope returns a scope seeded with the fixed built-in table:
// operators as primitives and the special forms.
func NewTopLevelScope() *runtime.Scope {
	scope := runtime.NewScope(nil)
	for _, callable := range builtinCallables() {
		scope.DefineCallable(callable)
	}
	return scope
}

func builtinCallables() []runtime.Callable {
	var out []runtime.Callable
	for _, op := range []string{"+", "-", "*", "/", "**", "%"} {
		op := op
		out = append(out, binary(op, func(a, b runtime.Value) runtime.Value {
			return evaluateArithmetic(op, a, b)
		}))
	}
	for _, op := range []string{">", "<", ">=", "<="} {
		op := op
		out = append(out, binary(op, func(a, b runtime.Value) runtime.Value {
			return evaluateComparison(op, a, b)
		}))
	}
	for _, op := range []string{"&", "|", "^", "<<", ">>", ">>>"} {
		op := op
		out = append(out, binary(op, func(a, b runtime.Value) runtime.Value {
			return evaluateBitwise(op, a, b)
		}))
	}
	out = append(out,
		binary("==", func(a, b runtime.Value) runtime.Value { return runtime.BoolValue{Val: looseEqual(a, b)} }),
		binary("!=", func(a, b runtime.Value) runtime.Value { return runtime.BoolValue{Val: !looseEqual(a, b)} }),
		binary("===", func(a, b runtime.Value) runtime.Value { return runtime.BoolValue{Val: strictEqual(a, b)} }),
		binary("!==", func(a, b runtime.Value) runtime.Value { return runtime.BoolValue{Val: !strictEqual(a, b)} }),
		binary("&&", func(a, b runtime.Value) runtime.Value {
			if runtime.Truthy(a) {
				return b
			}
			return a
		}),
		binary("||", func(a, b runtime.Value) runtime.Value {
			if runtime.Truthy(a) {
				return a
			}
			return b
		}),
		unary("!", func(a runtime.Value) runtime.Value { return runtime.BoolValue{Val: !runtime.Truthy(a)} }),
		unary("~", func(a runtime.Value) runtime.Value { return int32Value(^runtime.ToInt32(a)) }),
		unary("typeof", func(a runtime.Value) runtime.Value { return runtime.StringValue{Val: typeOf(a)} }),
		binary("instanceof", func(a, b runtime.Value) runtime.Value { return runtime.BoolValue{Val: instanceOf(a, b)} }),
	)
	return append(out, specialForms()...)
}

func unary(name string, fn func(runtime.Value) runtime.Value) *runtime.Primitive {
	return &runtime.Primitive{
		Name:    name,
		NumArgs: 1,
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return fn(args[0]), nil
		},
	}
}

func binary(name string, fn func(a, b runtime.Value) runtime.Value) *runtime.Primitive {
	return &runtime.Primitive{
		Name:    name,
		NumArgs: 2,
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return fn(args[0], args[1]), nil
		},
	}
}
