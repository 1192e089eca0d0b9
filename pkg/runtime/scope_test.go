package runtime

import (
	"reflect"
	"testing"
)

func TestScopeLookupWalksParents(t *testing.T) {
	root := NewScope(nil)
	root.DefineValue("x", NumberValue{Val: 1})
	child := NewScope(root)
	grandchild := NewScope(child)

	binding, ok := grandchild.Lookup("x")
	if !ok {
		t.Fatalf("expected x to resolve through parents")
	}
	if val, _ := binding.Value(); val != (NumberValue{Val: 1}) {
		t.Fatalf("expected 1, got %#v", val)
	}
	if _, ok := grandchild.LookupLocal("x"); ok {
		t.Fatalf("expected x not to be local to the grandchild")
	}
	if chain := grandchild.Chain(); len(chain) != 3 || chain[0] != grandchild || chain[2] != root {
		t.Fatalf("unexpected chain %v", chain)
	}
}

func TestScopeShadowing(t *testing.T) {
	root := NewScope(nil)
	root.DefineValue("x", StringValue{Val: "outer"})
	child := NewScope(root)
	child.DefineValue("x", StringValue{Val: "inner"})

	inner, _ := child.Lookup("x")
	outer, _ := root.Lookup("x")
	if v, _ := inner.Value(); v != (StringValue{Val: "inner"}) {
		t.Fatalf("expected inner binding, got %#v", v)
	}
	if v, _ := outer.Value(); v != (StringValue{Val: "outer"}) {
		t.Fatalf("expected parent binding untouched, got %#v", v)
	}
}

func TestBindingVariants(t *testing.T) {
	prim := &Primitive{Name: "id", NumArgs: 1}
	scope := NewScope(nil)
	scope.DefineCallable(prim)
	scope.DefineValue("n", nil)

	b, _ := scope.Lookup("id")
	if b.Kind() != BindingCallable {
		t.Fatalf("expected callable binding, got %s", b.Kind())
	}
	if c, ok := b.Callable(); !ok || c.CallableName() != "id" || c.Arity() != 1 {
		t.Fatalf("unexpected callable %#v", c)
	}
	if _, ok := b.Value(); ok {
		t.Fatalf("expected callable binding to carry no value")
	}

	n, _ := scope.Lookup("n")
	if v, ok := n.Value(); !ok || v != (NullValue{}) {
		t.Fatalf("expected nil value to bind as null, got %#v", v)
	}
	if !reflect.DeepEqual(scope.Keys(), []string{"id", "n"}) {
		t.Fatalf("unexpected keys %v", scope.Keys())
	}
}

func TestLookupCallableSkipsValueBindings(t *testing.T) {
	root := NewScope(nil)
	root.DefineCallable(&Primitive{Name: "inc", NumArgs: 1})
	child := NewScope(root)
	child.DefineValue("inc", StringValue{Val: "inc"})

	c, ok := child.LookupCallable("inc")
	if !ok || c.CallableName() != "inc" || c.CallableKind() != CallablePrimitive {
		t.Fatalf("expected the outer primitive, got %#v", c)
	}
	if _, ok := child.LookupCallable("missing"); ok {
		t.Fatalf("expected no callable for an unknown name")
	}
}
