package interpreter

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/michaelmacinnis/adapted"

	"yamlscript/interpreter-go/pkg/runtime"
)

// StandardHost returns the registry the CLI installs: math helpers,
// conversions, JSON, printing to out, a handful of Go strings functions,
// glob matching, and members for strings, sequences and numbers.
func StandardHost(out io.Writer) *HostRegistry {
	r := NewHostRegistry()

	r.MustRegister("Math.abs", math.Abs)
	r.MustRegister("Math.floor", math.Floor)
	r.MustRegister("Math.ceil", math.Ceil)
	r.MustRegister("Math.round", func(x float64) float64 { return math.Floor(x + 0.5) })
	r.MustRegister("Math.trunc", math.Trunc)
	r.MustRegister("Math.sqrt", math.Sqrt)
	r.MustRegister("Math.pow", power)
	r.MustRegister("Math.log", math.Log)
	r.MustRegister("Math.exp", math.Exp)
	r.MustRegister("Math.sin", math.Sin)
	r.MustRegister("Math.cos", math.Cos)
	r.MustRegister("Math.random", rand.Float64)
	r.MustRegister("Math.sign", func(x float64) float64 {
		switch {
		case math.IsNaN(x) || x == 0:
			return x
		case x > 0:
			return 1
		default:
			return -1
		}
	})
	r.MustRegister("Math.max", func(xs ...float64) float64 {
		result := math.Inf(-1)
		for _, x := range xs {
			if math.IsNaN(x) {
				return x
			}
			result = math.Max(result, x)
		}
		return result
	})
	r.MustRegister("Math.min", func(xs ...float64) float64 {
		result := math.Inf(1)
		for _, x := range xs {
			if math.IsNaN(x) {
				return x
			}
			result = math.Min(result, x)
		}
		return result
	})

	r.MustRegister("parseInt", parseInt)
	r.MustRegister("parseFloat", parseFloat)
	r.MustRegister("isNaN", func(v runtime.Value) bool { return math.IsNaN(runtime.ToNumber(v)) })
	r.MustRegister("isFinite", func(v runtime.Value) bool {
		f := runtime.ToNumber(v)
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	r.MustRegister("String", func(v runtime.Value) string { return runtime.ToString(v) })
	r.MustRegister("Number", func(v runtime.Value) float64 { return runtime.ToNumber(v) })
	r.MustRegister("Boolean", func(v runtime.Value) bool { return runtime.Truthy(v) })
	r.MustRegister("Date.now", func() float64 { return float64(time.Now().UnixMilli()) })

	r.MustRegister("JSON.stringify", func(v runtime.Value) (string, error) {
		data, err := json.Marshal(JSONSafe(runtime.ToNative(v)))
		if err != nil {
			return "", err
		}
		return string(data), nil
	})
	r.MustRegister("JSON.parse", func(text string) (runtime.Value, error) {
		var decoded any
		if err := json.Unmarshal([]byte(text), &decoded); err != nil {
			return nil, err
		}
		return runtime.FromNative(decoded), nil
	})

	printer := func(args ...runtime.Value) {
		parts := make([]string, len(args))
		for idx, arg := range args {
			parts[idx] = Display(arg)
		}
		fmt.Fprintln(out, strings.Join(parts, " "))
	}
	r.MustRegister("console.log", printer)
	r.MustRegister("print", printer)

	r.MustRegister("strings.ToUpper", strings.ToUpper)
	r.MustRegister("strings.ToLower", strings.ToLower)
	r.MustRegister("strings.TrimSpace", strings.TrimSpace)
	r.MustRegister("strings.Split", strings.Split)
	r.MustRegister("strings.Join", strings.Join)
	r.MustRegister("strings.Fields", strings.Fields)
	r.MustRegister("strings.Contains", strings.Contains)
	r.MustRegister("strings.HasPrefix", strings.HasPrefix)
	r.MustRegister("strings.HasSuffix", strings.HasSuffix)
	r.MustRegister("strings.Repeat", strings.Repeat)
	r.MustRegister("strings.ReplaceAll", strings.ReplaceAll)

	r.MustRegister("glob.match", adapted.Match)

	registerStringMembers(r)
	registerSequenceMembers(r)
	registerNumberMembers(r)
	return r
}

// Display renders a value the way print does: strings bare, everything
// else through runtime.Inspect.
func Display(v runtime.Value) string {
	if s, ok := v.(runtime.StringValue); ok {
		return s.Val
	}
	return runtime.Inspect(v)
}

// JSONSafe replaces non-finite numbers, which JSON cannot carry, with null.
func JSONSafe(v any) any {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		return val
	case []any:
		out := make([]any, len(val))
		for idx, el := range val {
			out[idx] = JSONSafe(el)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, el := range val {
			out[k] = JSONSafe(el)
		}
		return out
	default:
		return v
	}
}

func parseInt(text string, radix runtime.Value) float64 {
	s := strings.TrimSpace(text)
	sign := 1.0
	if s != "" && (s[0] == '-' || s[0] == '+') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	base := int(runtime.ToInt32(radix))
	hasHexPrefix := len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
	switch {
	case base == 0 && hasHexPrefix:
		base = 16
		s = s[2:]
	case base == 0:
		base = 10
	case base == 16 && hasHexPrefix:
		s = s[2:]
	case base < 2 || base > 36:
		return math.NaN()
	}
	end := 0
	for end < len(s) {
		d := digitValue(s[end])
		if d < 0 || d >= base {
			break
		}
		end++
	}
	if end == 0 {
		return math.NaN()
	}
	result := 0.0
	for _, c := range []byte(s[:end]) {
		result = result*float64(base) + float64(digitValue(c))
	}
	return sign * result
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return -1
	}
}

var floatPrefix = regexp.MustCompile(`^[+-]?(Infinity|\d+\.?\d*(?:[eE][+-]?\d+)?|\.\d+(?:[eE][+-]?\d+)?)`)

func parseFloat(text string) float64 {
	match := floatPrefix.FindString(strings.TrimSpace(text))
	if match == "" {
		return math.NaN()
	}
	switch strings.TrimLeft(match, "+-") {
	case "Infinity":
		if strings.HasPrefix(match, "-") {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

//-----------------------------------------------------------------------------
// Members
//-----------------------------------------------------------------------------

// sliceBounds resolves start/end arguments against length: null means the
// respective end, negative values count from the end, results are clamped.
func sliceBounds(length int, start, end runtime.Value) (int, int) {
	resolve := func(v runtime.Value, fallback int) int {
		if v == nil {
			return fallback
		}
		if _, ok := v.(runtime.NullValue); ok {
			return fallback
		}
		idx := int(truncate(runtime.ToNumber(v)))
		if idx < 0 {
			idx += length
		}
		return min(max(idx, 0), length)
	}
	from, to := resolve(start, 0), resolve(end, length)
	if to < from {
		to = from
	}
	return from, to
}

func registerStringMembers(r *HostRegistry) {
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	k := runtime.KindString
	must(r.RegisterProperty(k, "length", utf8.RuneCountInString))
	must(r.RegisterMethod(k, "toUpperCase", strings.ToUpper))
	must(r.RegisterMethod(k, "toLowerCase", strings.ToLower))
	must(r.RegisterMethod(k, "trim", strings.TrimSpace))
	must(r.RegisterMethod(k, "includes", strings.Contains))
	must(r.RegisterMethod(k, "startsWith", strings.HasPrefix))
	must(r.RegisterMethod(k, "endsWith", strings.HasSuffix))
	must(r.RegisterMethod(k, "repeat", func(s string, n int) (string, error) {
		if n < 0 {
			return "", fmt.Errorf("invalid repeat count %d", n)
		}
		return strings.Repeat(s, n), nil
	}))
	must(r.RegisterMethod(k, "replace", func(s, old, replacement string) string {
		return strings.Replace(s, old, replacement, 1)
	}))
	must(r.RegisterMethod(k, "concat", func(s string, more ...string) string {
		return s + strings.Join(more, "")
	}))
	must(r.RegisterMethod(k, "split", func(s string, sep runtime.Value) []string {
		if _, ok := sep.(runtime.NullValue); ok || sep == nil {
			return []string{s}
		}
		return strings.Split(s, runtime.ToString(sep))
	}))
	must(r.RegisterMethod(k, "indexOf", func(s, sub string) int {
		idx := strings.Index(s, sub)
		if idx < 0 {
			return -1
		}
		return utf8.RuneCountInString(s[:idx])
	}))
	must(r.RegisterMethod(k, "charAt", func(s string, idx int) string {
		runes := []rune(s)
		if idx < 0 || idx >= len(runes) {
			return ""
		}
		return string(runes[idx])
	}))
	must(r.RegisterMethod(k, "slice", func(s string, start, end runtime.Value) string {
		runes := []rune(s)
		from, to := sliceBounds(len(runes), start, end)
		return string(runes[from:to])
	}))
	must(r.RegisterMethod(k, "substring", func(s string, start, end runtime.Value) string {
		runes := []rune(s)
		clamp := func(v runtime.Value, fallback int) int {
			if _, ok := v.(runtime.NullValue); ok || v == nil {
				return fallback
			}
			return min(max(int(truncate(runtime.ToNumber(v))), 0), len(runes))
		}
		from, to := clamp(start, 0), clamp(end, len(runes))
		if from > to {
			from, to = to, from
		}
		return string(runes[from:to])
	}))
}

func registerSequenceMembers(r *HostRegistry) {
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	k := runtime.KindSequence
	must(r.RegisterProperty(k, "length", func(seq *runtime.SequenceValue) int { return len(seq.Elements) }))
	must(r.RegisterMethod(k, "join", func(seq *runtime.SequenceValue, sep runtime.Value) string {
		separator := ","
		if _, ok := sep.(runtime.NullValue); !ok && sep != nil {
			separator = runtime.ToString(sep)
		}
		parts := make([]string, len(seq.Elements))
		for idx, el := range seq.Elements {
			if _, isNull := el.(runtime.NullValue); isNull {
				continue
			}
			parts[idx] = runtime.ToString(el)
		}
		return strings.Join(parts, separator)
	}))
	must(r.RegisterMethod(k, "indexOf", func(seq *runtime.SequenceValue, needle runtime.Value) int {
		for idx, el := range seq.Elements {
			if strictEqual(el, needle) {
				return idx
			}
		}
		return -1
	}))
	must(r.RegisterMethod(k, "includes", func(seq *runtime.SequenceValue, needle runtime.Value) bool {
		for _, el := range seq.Elements {
			if strictEqual(el, needle) {
				return true
			}
			if a, ok := el.(runtime.NumberValue); ok && math.IsNaN(a.Val) {
				if b, ok := needle.(runtime.NumberValue); ok && math.IsNaN(b.Val) {
					return true
				}
			}
		}
		return false
	}))
	must(r.RegisterMethod(k, "slice", func(seq *runtime.SequenceValue, start, end runtime.Value) *runtime.SequenceValue {
		from, to := sliceBounds(len(seq.Elements), start, end)
		return runtime.NewSequence(append([]runtime.Value(nil), seq.Elements[from:to]...))
	}))
	must(r.RegisterMethod(k, "concat", func(seq *runtime.SequenceValue, more ...runtime.Value) *runtime.SequenceValue {
		out := append([]runtime.Value(nil), seq.Elements...)
		for _, m := range more {
			if other, ok := m.(*runtime.SequenceValue); ok {
				out = append(out, other.Elements...)
				continue
			}
			out = append(out, m)
		}
		return runtime.NewSequence(out)
	}))
	must(r.RegisterMethod(k, "reverse", func(seq *runtime.SequenceValue) *runtime.SequenceValue {
		out := make([]runtime.Value, len(seq.Elements))
		for idx, el := range seq.Elements {
			out[len(out)-1-idx] = el
		}
		return runtime.NewSequence(out)
	}))
	must(r.RegisterMethod(k, "at", func(seq *runtime.SequenceValue, idx int) runtime.Value {
		if idx < 0 {
			idx += len(seq.Elements)
		}
		if idx < 0 || idx >= len(seq.Elements) {
			return runtime.NullValue{}
		}
		return seq.Elements[idx]
	}))
}

func registerNumberMembers(r *HostRegistry) {
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	k := runtime.KindNumber
	must(r.RegisterMethod(k, "toFixed", func(n float64, digits int) (string, error) {
		if digits < 0 || digits > 100 {
			return "", fmt.Errorf("toFixed digits %d out of range", digits)
		}
		return strconv.FormatFloat(n, 'f', digits, 64), nil
	}))
	must(r.RegisterMethod(k, "toString", func(n float64, radix runtime.Value) (string, error) {
		base := 10
		if _, ok := radix.(runtime.NullValue); !ok && radix != nil {
			base = int(runtime.ToInt32(radix))
		}
		if base < 2 || base > 36 {
			return "", fmt.Errorf("toString radix %d out of range", base)
		}
		if base == 10 || n != math.Trunc(n) || math.IsInf(n, 0) {
			return runtime.FormatNumber(n), nil
		}
		return strconv.FormatInt(int64(n), base), nil
	}))
}
