package interpreter

import (
	"strings"

	"github.com/sirupsen/logrus"

	"yamlscript/interpreter-go/pkg/ast"
	"yamlscript/interpreter-go/pkg/runtime"
)

func (e *evaluation) apply(name string, args []ast.Node, scope *runtime.Scope, span ast.Span) (runtime.Value, error) {
	if ref, ok := strings.CutPrefix(name, VariableSigil); ok {
		resolved, err := e.resolveReference(ref, span, scope)
		if err != nil {
			return nil, err
		}
		str, ok := resolved.(runtime.StringValue)
		if !ok || str.Val == "" || strings.HasPrefix(str.Val, VariableSigil) {
			return nil, newError(UnresolvedIndirectCall, span, name, "%s resolved to %s, not a function name", name, runtime.Inspect(resolved))
		}
		name = str.Val
	}

	if e.trace {
		e.interp.logger.WithFields(logrus.Fields{"name": name, "args": len(args), "at": span.String()}).Debug("apply")
	}

	if callable, found := scope.LookupCallable(name); found {
		return e.invoke(callable, args, scope, span)
	}

	values, err := e.evaluateArgs(args, scope)
	if err != nil {
		return nil, err
	}
	return e.callHost(name, values, span)
}

func (e *evaluation) invoke(callable runtime.Callable, args []ast.Node, scope *runtime.Scope, span ast.Span) (runtime.Value, error) {
	ctx := &runtime.NativeCallContext{Scope: scope, Evaluator: e}
	if e.trace {
		e.interp.logger.WithFields(logrus.Fields{"callable": callable.CallableName(), "kind": callable.CallableKind().String()}).Debug("invoke")
	}
	switch fn := callable.(type) {
	case *runtime.SpecialForm:
		return fn.Impl(ctx, args)
	case *runtime.Primitive:
		values, err := e.evaluateArgs(args, scope)
		if err != nil {
			return nil, err
		}
		return fn.Impl(ctx, fitArgs(values, fn.NumArgs))
	case *runtime.UserFunction:
		values, err := e.evaluateArgs(args, scope)
		if err != nil {
			return nil, err
		}
		return e.callUserFunction(fn, values)
	default:
		return nil, malformed(span, "unsupported callable %T", callable)
	}
}

// callUserFunction binds parameters positionally in a child of the
// function's defining scope. Missing arguments bind to null; extra
// arguments are ignored.
func (e *evaluation) callUserFunction(fn *runtime.UserFunction, args []runtime.Value) (runtime.Value, error) {
	local := runtime.NewScope(fn.Closure)
	for idx, param := range fn.Params {
		var val runtime.Value = runtime.NullValue{}
		if idx < len(args) {
			val = args[idx]
		}
		local.DefineValue(param, val)
	}
	if e.trace {
		e.interp.logger.WithFields(logrus.Fields{"function": fn.Name, "params": fn.Params}).Debug("call")
	}
	return e.Eval(fn.Body, local)
}

// evaluateArgs evaluates every argument left to right with no short-circuit.
func (e *evaluation) evaluateArgs(args []ast.Node, scope *runtime.Scope) ([]runtime.Value, error) {
	values := make([]runtime.Value, 0, len(args))
	for _, arg := range args {
		val, err := e.Eval(arg, scope)
		if err != nil {
			return nil, err
		}
		values = append(values, val)
	}
	return values, nil
}

// fitArgs pads with null or truncates to arity; a negative arity accepts
// any count.
func fitArgs(values []runtime.Value, arity int) []runtime.Value {
	if arity < 0 || len(values) == arity {
		return values
	}
	if len(values) > arity {
		return values[:arity]
	}
	out := make([]runtime.Value, arity)
	copy(out, values)
	for idx := len(values); idx < arity; idx++ {
		out[idx] = runtime.NullValue{}
	}
	return out
}

func (e *evaluation) callHost(name string, args []runtime.Value, span ast.Span) (runtime.Value, error) {
	host := e.interp.host
	if member, ok := strings.CutPrefix(name, MemberSigil); ok && member != "" {
		if len(args) == 0 {
			return nil, newError(UnknownFunction, span, name, "member access %s requires a receiver argument", name)
		}
		if e.trace {
			e.interp.logger.WithFields(logrus.Fields{"member": member, "receiver": args[0].Kind().String()}).Debug("host member")
		}
		val, found, err := host.AccessMember(member, args[0], args[1:])
		if err != nil {
			return nil, &Error{Kind: HostCallFailed, Name: name, Span: span, Message: "member " + name, Err: err}
		}
		if !found {
			return nil, newError(UnknownFunction, span, name, "%s has no member %s", args[0].Kind(), member)
		}
		return val, nil
	}

	fn, ok := host.Lookup(name)
	if !ok {
		return nil, newError(UnknownFunction, span, name, "%s is not defined", name)
	}
	if e.trace {
		e.interp.logger.WithFields(logrus.Fields{"host": name, "args": len(args)}).Debug("host call")
	}
	val, err := fn.Call(args)
	if err != nil {
		return nil, &Error{Kind: HostCallFailed, Name: name, Span: span, Message: "host function " + name, Err: err}
	}
	return val, nil
}
