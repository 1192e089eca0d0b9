package interpreter

import (
	"yamlscript/interpreter-go/pkg/ast"
	"yamlscript/interpreter-go/pkg/runtime"
)

func specialForms() []runtime.Callable {
	let := func(name string) *runtime.SpecialForm {
		return &runtime.SpecialForm{Name: name, NumArgs: 2, Impl: evaluateLet}
	}
	function := func(name string) *runtime.SpecialForm {
		return &runtime.SpecialForm{Name: name, NumArgs: 3, Impl: evaluateFunctionDefinition}
	}
	return []runtime.Callable{
		&runtime.SpecialForm{Name: "if", NumArgs: 3, Impl: evaluateIf},
		&runtime.SpecialForm{Name: "while", NumArgs: 2, Impl: evaluateWhile},
		let("let"),
		let("setq"),
		function("function"),
		function("defun"),
		&runtime.SpecialForm{Name: "list", NumArgs: -1, Impl: evaluateList},
	}
}

// argAt returns the i-th argument tree, or a null node when absent.
func argAt(args []ast.Node, i int) ast.Node {
	if i < len(args) && args[i] != nil {
		return args[i]
	}
	return ast.NewNull()
}

func evaluateIf(ctx *runtime.NativeCallContext, args []ast.Node) (runtime.Value, error) {
	cond, err := ctx.Evaluator.Eval(argAt(args, 0), ctx.Scope)
	if err != nil {
		return nil, err
	}
	if runtime.Truthy(cond) {
		return ctx.Evaluator.Eval(argAt(args, 1), ctx.Scope)
	}
	return ctx.Evaluator.Eval(argAt(args, 2), ctx.Scope)
}

func evaluateWhile(ctx *runtime.NativeCallContext, args []ast.Node) (runtime.Value, error) {
	condition := argAt(args, 0)
	var body []ast.Node
	if len(args) > 1 {
		body = args[1:]
	}
	for {
		cond, err := ctx.Evaluator.Eval(condition, ctx.Scope)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(cond) {
			return runtime.NullValue{}, nil
		}
		for _, stmt := range body {
			if _, err := ctx.Evaluator.Eval(stmt, ctx.Scope); err != nil {
				return nil, err
			}
		}
	}
}

// evaluateLet binds in the scope the form is evaluated in, never a child.
func evaluateLet(ctx *runtime.NativeCallContext, args []ast.Node) (runtime.Value, error) {
	name, err := bindingName(args, "let")
	if err != nil {
		return nil, err
	}
	value, err := ctx.Evaluator.Eval(argAt(args, 1), ctx.Scope)
	if err != nil {
		return nil, err
	}
	ctx.Scope.DefineValue(name, value)
	return value, nil
}

// evaluateFunctionDefinition binds a user function closing over the current
// scope and returns the quoted body. More than one body form is treated as
// an implicit sequence.
func evaluateFunctionDefinition(ctx *runtime.NativeCallContext, args []ast.Node) (runtime.Value, error) {
	name, err := bindingName(args, "function")
	if err != nil {
		return nil, err
	}
	paramList, ok := argAt(args, 1).(*ast.Sequence)
	if !ok {
		return nil, malformed(argAt(args, 1).Span(), "parameters of function %s must be a sequence", name)
	}
	params := make([]string, 0, len(paramList.Elements))
	for _, el := range paramList.Elements {
		param, ok := el.(*ast.String)
		if !ok {
			return nil, malformed(el.Span(), "parameter names of function %s must be strings", name)
		}
		params = append(params, param.Value)
	}

	var body ast.Node
	switch {
	case len(args) <= 2:
		body = ast.NewNull()
	case len(args) == 3:
		body = argAt(args, 2)
	default:
		seq := ast.NewSequence(args[2:])
		ast.SetSpan(seq, args[2].Span())
		body = seq
	}

	ctx.Scope.DefineCallable(&runtime.UserFunction{
		Name:    name,
		Params:  params,
		Body:    body,
		Closure: ctx.Scope,
	})
	return runtime.Quote(body), nil
}

func evaluateList(_ *runtime.NativeCallContext, args []ast.Node) (runtime.Value, error) {
	return runtime.QuoteAll(args), nil
}

func bindingName(args []ast.Node, form string) (string, error) {
	node := argAt(args, 0)
	str, ok := node.(*ast.String)
	if !ok || str.Value == "" {
		return "", malformed(node.Span(), "%s requires a name as its first argument", form)
	}
	return str.Value, nil
}
