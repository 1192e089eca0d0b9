// Package interpreter evaluates yamlscript program trees. Eval walks the
// tree, Apply dispatches `{name: args}` nodes to special forms, primitives,
// user-defined functions or the host registry.
package interpreter

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"yamlscript/interpreter-go/pkg/ast"
	"yamlscript/interpreter-go/pkg/runtime"
)

const (
	// VariableSigil marks a string as a scope lookup rather than a literal.
	VariableSigil = "$"
	// MemberSigil marks a call name as member access on the first argument.
	MemberSigil = "."
)

// Options configures an Interpreter. The zero value is usable.
type Options struct {
	// Host resolves names missing from scope. Nil selects StandardHost
	// writing to stdout.
	Host *HostRegistry
	// Logger receives debug traces of eval/apply. Nil discards them.
	Logger *logrus.Logger
	// MaxDepth bounds nested evaluation; 0 means unlimited.
	MaxDepth int
}

// Interpreter holds configuration that stays read-only while programs run.
// Each Eval call tracks its own depth, so one Interpreter may serve
// independent programs.
type Interpreter struct {
	host     *HostRegistry
	logger   *logrus.Logger
	maxDepth int
}

// New returns an interpreter configured by opts.
func New(opts Options) *Interpreter {
	host := opts.Host
	if host == nil {
		host = StandardHost(os.Stdout)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Interpreter{
		host:     host,
		logger:   logger,
		maxDepth: opts.MaxDepth,
	}
}

// Run evaluates a program against a fresh top-level scope.
func (i *Interpreter) Run(program ast.Node) (runtime.Value, error) {
	return i.Eval(program, NewTopLevelScope())
}

// Eval evaluates node in scope.
func (i *Interpreter) Eval(node ast.Node, scope *runtime.Scope) (runtime.Value, error) {
	return i.newEvaluation().Eval(node, scope)
}

// Apply invokes name with unevaluated argument trees in scope.
func (i *Interpreter) Apply(name string, args []ast.Node, scope *runtime.Scope) (runtime.Value, error) {
	return i.newEvaluation().apply(name, args, scope, ast.Span{})
}

func (i *Interpreter) newEvaluation() *evaluation {
	return &evaluation{interp: i, trace: i.logger.IsLevelEnabled(logrus.DebugLevel)}
}

// evaluation is the per-run state; it implements runtime.Evaluator so
// special forms re-enter the same depth accounting.
type evaluation struct {
	interp *Interpreter
	depth  int
	trace  bool
}

func (e *evaluation) Eval(node ast.Node, scope *runtime.Scope) (runtime.Value, error) {
	if limit := e.interp.maxDepth; limit > 0 {
		e.depth++
		defer func() { e.depth-- }()
		if e.depth > limit {
			span := ast.Span{}
			if node != nil {
				span = node.Span()
			}
			return nil, newError(DepthExceeded, span, "", "evaluation nested deeper than %d", limit)
		}
	}

	switch n := node.(type) {
	case nil:
		return nil, malformed(ast.Span{}, "missing program node")
	case *ast.Sequence:
		var result runtime.Value = runtime.NullValue{}
		for _, el := range n.Elements {
			val, err := e.Eval(el, scope)
			if err != nil {
				return nil, err
			}
			result = val
		}
		return result, nil
	case *ast.String:
		if name, ok := strings.CutPrefix(n.Value, VariableSigil); ok {
			return e.resolveReference(name, n.Span(), scope)
		}
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.Number:
		return runtime.NumberValue{Val: n.Value}, nil
	case *ast.Bool:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.Null:
		return runtime.NullValue{}, nil
	case *ast.Mapping:
		entry, ok := n.Last()
		if !ok {
			return nil, malformed(n.Span(), "mapping node has no entries")
		}
		span := entry.Pos
		if span.IsZero() {
			span = n.Span()
		}
		return e.apply(entry.Name, entry.ArgList(), scope, span)
	default:
		return nil, malformed(node.Span(), "unsupported node type %s", node.NodeType())
	}
}

// resolveReference looks up a `$name` reference. Callable bindings resolve
// to their name so they can be passed around and invoked indirectly.
func (e *evaluation) resolveReference(name string, span ast.Span, scope *runtime.Scope) (runtime.Value, error) {
	binding, ok := scope.Lookup(name)
	if !ok {
		return nil, newError(UnboundName, span, name, "%s is not defined", name)
	}
	if val, ok := binding.Value(); ok {
		return val, nil
	}
	return runtime.StringValue{Val: name}, nil
}
