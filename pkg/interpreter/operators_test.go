package interpreter

import (
	"math"
	"testing"

	"yamlscript/interpreter-go/pkg/runtime"
)

func num(f float64) runtime.Value  { return runtime.NumberValue{Val: f} }
func str(s string) runtime.Value   { return runtime.StringValue{Val: s} }
func boolean(b bool) runtime.Value { return runtime.BoolValue{Val: b} }

func seq(elements ...runtime.Value) runtime.Value {
	return runtime.NewSequence(elements)
}

func TestAddConcatenatesStrings(t *testing.T) {
	// Runtime operands, so the expected sum is not constant-folded.
	tenth, fifth := 0.1, 0.2
	cases := []struct {
		left, right runtime.Value
		want        runtime.Value
	}{
		{num(1), num(2), num(3)},
		{str("a"), num(1), str("a1")},
		{num(1), str("a"), str("1a")},
		{boolean(true), num(1), num(2)},
		{runtime.NullValue{}, num(1), num(1)},
		{seq(num(1), num(2)), str("!"), str("1,2!")},
		{seq(num(1)), num(1), str("11")},
		{str("x"), runtime.NullValue{}, str("xnull")},
		{num(tenth), num(fifth), num(tenth + fifth)},
	}
	for _, tc := range cases {
		if got := evaluateArithmetic("+", tc.left, tc.right); got != tc.want {
			t.Fatalf("%s + %s: expected %#v, got %#v", runtime.Inspect(tc.left), runtime.Inspect(tc.right), tc.want, got)
		}
	}
}

func TestNumericCoercionInArithmetic(t *testing.T) {
	if got := evaluateArithmetic("*", str("6"), str("7")); got != num(42) {
		t.Fatalf("expected 42, got %#v", got)
	}
	got := evaluateArithmetic("-", str("abc"), num(1)).(runtime.NumberValue)
	if !math.IsNaN(got.Val) {
		t.Fatalf("expected NaN, got %v", got.Val)
	}
	if got := evaluateArithmetic("%", num(-7), num(3)); got != num(-1) {
		t.Fatalf("expected -1, got %#v", got)
	}
}

func TestPower(t *testing.T) {
	if got := power(2, 10); got != 1024 {
		t.Fatalf("expected 1024, got %v", got)
	}
	if got := power(1, math.NaN()); !math.IsNaN(got) {
		t.Fatalf("expected NaN for 1**NaN, got %v", got)
	}
	if got := power(-1, math.Inf(1)); !math.IsNaN(got) {
		t.Fatalf("expected NaN for -1**Infinity, got %v", got)
	}
	if got := power(math.NaN(), 0); got != 1 {
		t.Fatalf("expected 1 for NaN**0, got %v", got)
	}
}

func TestLooseEquality(t *testing.T) {
	shared := seq(num(1))
	cases := []struct {
		left, right runtime.Value
		want        bool
	}{
		{num(1), str("1"), true},
		{boolean(true), num(1), true},
		{boolean(false), str("0"), true},
		{runtime.NullValue{}, runtime.NullValue{}, true},
		{runtime.NullValue{}, num(0), false},
		{runtime.NullValue{}, boolean(false), false},
		{str(""), num(0), true},
		{seq(num(1), num(2)), str("1,2"), true},
		{shared, shared, true},
		{seq(num(1)), seq(num(1)), false},
		{num(math.NaN()), num(math.NaN()), false},
	}
	for _, tc := range cases {
		if got := looseEqual(tc.left, tc.right); got != tc.want {
			t.Fatalf("%s == %s: expected %v, got %v", runtime.Inspect(tc.left), runtime.Inspect(tc.right), tc.want, got)
		}
	}
}

func TestStrictEquality(t *testing.T) {
	if !strictEqual(num(1), num(1)) {
		t.Fatalf("expected 1 === 1")
	}
	if strictEqual(num(1), str("1")) {
		t.Fatalf("expected 1 !== \"1\"")
	}
	if !strictEqual(runtime.HostValue{Val: 3}, runtime.HostValue{Val: 3}) {
		t.Fatalf("expected equal comparable host values")
	}
	if strictEqual(runtime.HostValue{Val: []int{1}}, runtime.HostValue{Val: []int{1}}) {
		t.Fatalf("expected incomparable host values to differ")
	}
}

func TestRelationalComparison(t *testing.T) {
	if got := evaluateComparison("<", str("10"), str("9")); got != boolean(true) {
		t.Fatalf("expected lexicographic comparison of strings, got %#v", got)
	}
	if got := evaluateComparison("<", str("10"), num(9)); got != boolean(false) {
		t.Fatalf("expected numeric comparison, got %#v", got)
	}
	if got := evaluateComparison(">=", num(math.NaN()), num(1)); got != boolean(false) {
		t.Fatalf("expected NaN comparisons to be false, got %#v", got)
	}
}

func TestBitwiseOperators(t *testing.T) {
	cases := []struct {
		op          string
		left, right float64
		want        float64
	}{
		{"&", 6, 3, 2},
		{"|", 6, 3, 7},
		{"^", 6, 3, 5},
		{"<<", 1, 31, -2147483648},
		{"<<", 1, 33, 2},
		{">>", -8, 1, -4},
		{">>>", -1, 0, 4294967295},
		{">>>", -8, 1, 2147483644},
		{"|", 4294967296 + 5, 0, 5},
		{"&", 1.9, 1, 1},
	}
	for _, tc := range cases {
		if got := evaluateBitwise(tc.op, num(tc.left), num(tc.right)); got != num(tc.want) {
			t.Fatalf("%v %s %v: expected %v, got %#v", tc.left, tc.op, tc.right, tc.want, got)
		}
	}
}

func TestTypeOf(t *testing.T) {
	cases := map[string]runtime.Value{
		"number":  num(1),
		"string":  str("s"),
		"boolean": boolean(false),
		"object":  runtime.NullValue{},
	}
	for want, val := range cases {
		if got := typeOf(val); got != want {
			t.Fatalf("typeof %s: expected %s, got %s", runtime.Inspect(val), want, got)
		}
	}
	if got := typeOf(seq()); got != "object" {
		t.Fatalf("expected sequences to be objects, got %s", got)
	}
}

func TestInstanceOf(t *testing.T) {
	if !instanceOf(num(1), str("Number")) {
		t.Fatalf("expected number to be a Number")
	}
	if !instanceOf(seq(), str("Array")) || !instanceOf(seq(), str("Object")) {
		t.Fatalf("expected sequence to be an Array and an Object")
	}
	if instanceOf(str("x"), str("Object")) {
		t.Fatalf("expected string not to be an Object")
	}
	if !instanceOf(runtime.HostValue{Val: &point{}}, str("point")) {
		t.Fatalf("expected pointer host value to match its element type")
	}
}

func TestLogicalOperatorsReturnOperands(t *testing.T) {
	scope := NewTopLevelScope()
	and, _ := scope.Lookup("&&")
	or, _ := scope.Lookup("||")
	andFn, _ := and.Callable()
	orFn, _ := or.Callable()

	got, err := andFn.(*runtime.Primitive).Impl(nil, []runtime.Value{num(0), str("x")})
	if err != nil || got != num(0) {
		t.Fatalf("expected && to return falsy left operand, got %#v (%v)", got, err)
	}
	got, err = orFn.(*runtime.Primitive).Impl(nil, []runtime.Value{str(""), str("fallback")})
	if err != nil || got != str("fallback") {
		t.Fatalf("expected || to return right operand, got %#v (%v)", got, err)
	}
}
