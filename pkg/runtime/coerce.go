package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Truthy applies the language's boolean coercion: null, 0, NaN, "" and
// false are falsy; everything else is truthy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil:
		return false
	case NullValue:
		return false
	case BoolValue:
		return val.Val
	case NumberValue:
		return val.Val != 0 && !math.IsNaN(val.Val)
	case StringValue:
		return val.Val != ""
	case HostValue:
		return val.Val != nil
	default:
		return true
	}
}

// ToNumber converts a value to a double the way the arithmetic operators do.
func ToNumber(v Value) float64 {
	switch val := v.(type) {
	case nil, NullValue:
		return 0
	case NumberValue:
		return val.Val
	case BoolValue:
		if val.Val {
			return 1
		}
		return 0
	case StringValue:
		return parseNumber(val.Val)
	case *SequenceValue:
		return parseNumber(ToString(val))
	case HostValue:
		if f, ok := hostNumber(val.Val); ok {
			return f
		}
		return math.NaN()
	default:
		return math.NaN()
	}
}

func parseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.Contains(s, "_") {
		return math.NaN()
	}
	if len(lower) > 2 && lower[0] == '0' {
		base := 0
		switch lower[1] {
		case 'x':
			base = 16
		case 'o':
			base = 8
		case 'b':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(lower[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func hostNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

// FormatNumber renders a double the way string conversion does: integral
// values have no fraction, non-finite values use their names.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		return trimExponent(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// trimExponent drops the zero padding Go puts on a one-digit exponent,
// so 1e-07 prints as 1e-7.
func trimExponent(s string) string {
	mant, exp, ok := strings.Cut(s, "e")
	if !ok || len(exp) < 2 {
		return s
	}
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}

// ToString converts a value to its string form, as used by `+` when either
// operand is a string.
func ToString(v Value) string {
	switch val := v.(type) {
	case nil, NullValue:
		return "null"
	case StringValue:
		return val.Val
	case NumberValue:
		return FormatNumber(val.Val)
	case BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case *SequenceValue:
		parts := make([]string, len(val.Elements))
		for idx, el := range val.Elements {
			if _, isNull := el.(NullValue); isNull {
				continue
			}
			parts[idx] = ToString(el)
		}
		return strings.Join(parts, ",")
	case MappingValue:
		return "[object Object]"
	case HostValue:
		if s, ok := val.Val.(fmt.Stringer); ok {
			return s.String()
		}
		return fmt.Sprint(val.Val)
	default:
		return fmt.Sprintf("[%s]", v.Kind())
	}
}

// ToInt32 performs the 32-bit two's complement conversion used by the
// bitwise operators.
func ToInt32(v Value) int32 {
	return int32(ToUint32(v))
}

func ToUint32(v Value) uint32 {
	f := ToNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(f), 4294967296)
	if m < 0 {
		m += 4294967296
	}
	return uint32(m)
}

// Inspect renders a value for display: strings inside sequences are
// quoted, everything else uses ToString.
func Inspect(v Value) string {
	switch val := v.(type) {
	case *SequenceValue:
		parts := make([]string, len(val.Elements))
		for idx, el := range val.Elements {
			if s, ok := el.(StringValue); ok {
				parts[idx] = strconv.Quote(s.Val)
				continue
			}
			parts[idx] = Inspect(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case MappingValue:
		return fmt.Sprintf("{%s: %s}", val.Name, Inspect(val.Args))
	case HostValue:
		return fmt.Sprintf("<%T %v>", val.Val, val.Val)
	default:
		return ToString(v)
	}
}
