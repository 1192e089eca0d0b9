package interpreter

import (
	"math"
	"reflect"

	"yamlscript/interpreter-go/pkg/runtime"
)

func isObject(v runtime.Value) bool {
	switch v.(type) {
	case *runtime.SequenceValue, runtime.MappingValue, runtime.HostValue:
		return true
	default:
		return false
	}
}

// toPrimitive reduces composite values to their string form before
// arithmetic and relational comparison.
func toPrimitive(v runtime.Value) runtime.Value {
	if isObject(v) {
		return runtime.StringValue{Val: runtime.ToString(v)}
	}
	if v == nil {
		return runtime.NullValue{}
	}
	return v
}

func evaluateAdd(left, right runtime.Value) runtime.Value {
	l, r := toPrimitive(left), toPrimitive(right)
	_, ls := l.(runtime.StringValue)
	_, rs := r.(runtime.StringValue)
	if ls || rs {
		return runtime.StringValue{Val: runtime.ToString(l) + runtime.ToString(r)}
	}
	return runtime.NumberValue{Val: runtime.ToNumber(l) + runtime.ToNumber(r)}
}

func evaluateArithmetic(op string, left, right runtime.Value) runtime.Value {
	if op == "+" {
		return evaluateAdd(left, right)
	}
	a, b := runtime.ToNumber(left), runtime.ToNumber(right)
	var out float64
	switch op {
	case "-":
		out = a - b
	case "*":
		out = a * b
	case "/":
		out = a / b
	case "%":
		out = math.Mod(a, b)
	case "**":
		out = power(a, b)
	}
	return runtime.NumberValue{Val: out}
}

// power differs from math.Pow where exponentiation on doubles is defined
// to produce NaN: NaN exponents and ±1 raised to an infinity.
func power(a, b float64) float64 {
	if math.IsNaN(b) {
		return math.NaN()
	}
	if math.IsInf(b, 0) && math.Abs(a) == 1 {
		return math.NaN()
	}
	return math.Pow(a, b)
}

func evaluateComparison(op string, left, right runtime.Value) runtime.Value {
	l, r := toPrimitive(left), toPrimitive(right)
	ls, lok := l.(runtime.StringValue)
	rs, rok := r.(runtime.StringValue)
	if lok && rok {
		var result bool
		switch op {
		case "<":
			result = ls.Val < rs.Val
		case "<=":
			result = ls.Val <= rs.Val
		case ">":
			result = ls.Val > rs.Val
		case ">=":
			result = ls.Val >= rs.Val
		}
		return runtime.BoolValue{Val: result}
	}
	a, b := runtime.ToNumber(l), runtime.ToNumber(r)
	var result bool
	switch op {
	case "<":
		result = a < b
	case "<=":
		result = a <= b
	case ">":
		result = a > b
	case ">=":
		result = a >= b
	}
	return runtime.BoolValue{Val: result}
}

// strictEqual compares without conversion. Composite values are equal only
// when they are the same object.
func strictEqual(left, right runtime.Value) bool {
	if left == nil {
		left = runtime.NullValue{}
	}
	if right == nil {
		right = runtime.NullValue{}
	}
	if left.Kind() != right.Kind() {
		return false
	}
	switch l := left.(type) {
	case runtime.NullValue:
		return true
	case runtime.NumberValue:
		return l.Val == right.(runtime.NumberValue).Val
	case runtime.StringValue:
		return l.Val == right.(runtime.StringValue).Val
	case runtime.BoolValue:
		return l.Val == right.(runtime.BoolValue).Val
	case *runtime.SequenceValue:
		return l == right.(*runtime.SequenceValue)
	case runtime.HostValue:
		r := right.(runtime.HostValue)
		if l.Val == nil || r.Val == nil {
			return l.Val == r.Val
		}
		if reflect.TypeOf(l.Val) != reflect.TypeOf(r.Val) || !reflect.TypeOf(l.Val).Comparable() {
			return false
		}
		return l.Val == r.Val
	default:
		return false
	}
}

// looseEqual converts operands of different kinds before comparing: null
// equals only null, booleans compare as numbers, strings compared with
// numbers are converted, composites compare through their primitive form.
func looseEqual(left, right runtime.Value) bool {
	if left == nil {
		left = runtime.NullValue{}
	}
	if right == nil {
		right = runtime.NullValue{}
	}
	if left.Kind() == right.Kind() {
		return strictEqual(left, right)
	}
	_, lnull := left.(runtime.NullValue)
	_, rnull := right.(runtime.NullValue)
	if lnull || rnull {
		return false
	}
	if b, ok := left.(runtime.BoolValue); ok {
		return looseEqual(runtime.NumberValue{Val: runtime.ToNumber(b)}, right)
	}
	if b, ok := right.(runtime.BoolValue); ok {
		return looseEqual(left, runtime.NumberValue{Val: runtime.ToNumber(b)})
	}
	if isObject(left) && !isObject(right) {
		return looseEqual(toPrimitive(left), right)
	}
	if isObject(right) && !isObject(left) {
		return looseEqual(left, toPrimitive(right))
	}
	_, lnum := left.(runtime.NumberValue)
	_, rnum := right.(runtime.NumberValue)
	_, lstr := left.(runtime.StringValue)
	_, rstr := right.(runtime.StringValue)
	if (lnum && rstr) || (lstr && rnum) {
		return runtime.ToNumber(left) == runtime.ToNumber(right)
	}
	return false
}

func evaluateBitwise(op string, left, right runtime.Value) runtime.Value {
	switch op {
	case "&":
		return int32Value(runtime.ToInt32(left) & runtime.ToInt32(right))
	case "|":
		return int32Value(runtime.ToInt32(left) | runtime.ToInt32(right))
	case "^":
		return int32Value(runtime.ToInt32(left) ^ runtime.ToInt32(right))
	case "<<":
		return int32Value(runtime.ToInt32(left) << (runtime.ToUint32(right) & 31))
	case ">>":
		return int32Value(runtime.ToInt32(left) >> (runtime.ToUint32(right) & 31))
	case ">>>":
		return runtime.NumberValue{Val: float64(runtime.ToUint32(left) >> (runtime.ToUint32(right) & 31))}
	}
	return runtime.NumberValue{Val: math.NaN()}
}

func int32Value(v int32) runtime.Value {
	return runtime.NumberValue{Val: float64(v)}
}

func typeOf(v runtime.Value) string {
	switch v.(type) {
	case runtime.NumberValue:
		return "number"
	case runtime.StringValue:
		return "string"
	case runtime.BoolValue:
		return "boolean"
	default:
		return "object"
	}
}

// instanceOf checks a value against a type name: the language's own type
// names, or the Go type name of a host value.
func instanceOf(v runtime.Value, typeName runtime.Value) bool {
	name := runtime.ToString(typeName)
	switch name {
	case "Number":
		return v.Kind() == runtime.KindNumber
	case "String":
		return v.Kind() == runtime.KindString
	case "Boolean":
		return v.Kind() == runtime.KindBool
	case "Array":
		return v.Kind() == runtime.KindSequence
	case "Object":
		return isObject(v)
	}
	host, ok := v.(runtime.HostValue)
	if !ok || host.Val == nil {
		return false
	}
	t := reflect.TypeOf(host.Val)
	for t != nil {
		if t.String() == name || t.Name() == name {
			return true
		}
		if t.Kind() != reflect.Pointer {
			break
		}
		t = t.Elem()
	}
	return false
}
