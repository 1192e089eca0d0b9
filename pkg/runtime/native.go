package runtime

import (
	"reflect"
)

// FromNative converts a Go value into a runtime value. Slices and arrays
// become sequences; values without a direct representation are wrapped in
// HostValue.
func FromNative(v any) Value {
	switch val := v.(type) {
	case nil:
		return NullValue{}
	case Value:
		return val
	case bool:
		return BoolValue{Val: val}
	case string:
		return StringValue{Val: val}
	case []byte:
		return StringValue{Val: string(val)}
	case float64:
		return NumberValue{Val: val}
	case float32:
		return NumberValue{Val: float64(val)}
	case int:
		return NumberValue{Val: float64(val)}
	case int8:
		return NumberValue{Val: float64(val)}
	case int16:
		return NumberValue{Val: float64(val)}
	case int32:
		return NumberValue{Val: float64(val)}
	case int64:
		return NumberValue{Val: float64(val)}
	case uint:
		return NumberValue{Val: float64(val)}
	case uint8:
		return NumberValue{Val: float64(val)}
	case uint16:
		return NumberValue{Val: float64(val)}
	case uint32:
		return NumberValue{Val: float64(val)}
	case uint64:
		return NumberValue{Val: float64(val)}
	case []any:
		elements := make([]Value, len(val))
		for idx, el := range val {
			elements[idx] = FromNative(el)
		}
		return NewSequence(elements)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return NewSequence(nil)
		}
		elements := make([]Value, rv.Len())
		for idx := 0; idx < rv.Len(); idx++ {
			elements[idx] = FromNative(rv.Index(idx).Interface())
		}
		return NewSequence(elements)
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return NullValue{}
		}
	case reflect.String:
		return StringValue{Val: rv.String()}
	case reflect.Bool:
		return BoolValue{Val: rv.Bool()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NumberValue{Val: float64(rv.Int())}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return NumberValue{Val: float64(rv.Uint())}
	case reflect.Float32, reflect.Float64:
		return NumberValue{Val: rv.Float()}
	}
	return HostValue{Val: v}
}

// ToNative converts a runtime value into plain Go data suitable for
// encoding: nil, bool, float64, string, []any, map[string]any or the
// wrapped host value.
func ToNative(v Value) any {
	switch val := v.(type) {
	case nil, NullValue:
		return nil
	case BoolValue:
		return val.Val
	case NumberValue:
		return val.Val
	case StringValue:
		return val.Val
	case *SequenceValue:
		out := make([]any, len(val.Elements))
		for idx, el := range val.Elements {
			out[idx] = ToNative(el)
		}
		return out
	case MappingValue:
		return map[string]any{val.Name: ToNative(val.Args)}
	case HostValue:
		return val.Val
	default:
		return nil
	}
}
