package interpreter

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"unicode"
	"unicode/utf8"

	"yamlscript/interpreter-go/pkg/runtime"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// HostFunction is a Go function reachable from programs by name. Arguments
// are coerced from runtime values to the Go parameter types; results are
// converted back with runtime.FromNative.
type HostFunction struct {
	Name string
	fn   reflect.Value
}

func newHostFunction(name string, fn reflect.Value) (*HostFunction, error) {
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("host %s: expected a function, got %s", name, fn.Kind())
	}
	if fn.IsNil() {
		return nil, fmt.Errorf("host %s: nil function", name)
	}
	return &HostFunction{Name: name, fn: fn}, nil
}

// Call invokes the function. Missing parameters receive their Go zero value
// and surplus arguments are dropped unless the function is variadic. A
// non-nil trailing error result is returned as the call's error.
func (f *HostFunction) Call(args []runtime.Value) (result runtime.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("host function %s panicked: %v", f.Name, r)
		}
	}()

	t := f.fn.Type()
	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
	}
	in := make([]reflect.Value, 0, max(fixed, len(args)))
	for idx := 0; idx < fixed; idx++ {
		paramType := t.In(idx)
		if idx >= len(args) {
			in = append(in, reflect.Zero(paramType))
			continue
		}
		arg, err := coerceToHost(args[idx], paramType)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", idx+1, err)
		}
		in = append(in, arg)
	}
	if t.IsVariadic() {
		elemType := t.In(fixed).Elem()
		for idx := fixed; idx < len(args); idx++ {
			arg, err := coerceToHost(args[idx], elemType)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", idx+1, err)
			}
			in = append(in, arg)
		}
	}

	outs := f.fn.Call(in)
	if n := len(outs); n > 0 && t.Out(n-1) == errorType {
		if errVal := outs[n-1]; !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
		outs = outs[:n-1]
	}
	switch len(outs) {
	case 0:
		return runtime.NullValue{}, nil
	case 1:
		return runtime.FromNative(outs[0].Interface()), nil
	default:
		elements := make([]runtime.Value, len(outs))
		for idx, out := range outs {
			elements[idx] = runtime.FromNative(out.Interface())
		}
		return runtime.NewSequence(elements), nil
	}
}

// coerceToHost converts a runtime value for a Go parameter of targetType.
func coerceToHost(value runtime.Value, targetType reflect.Type) (reflect.Value, error) {
	if value == nil {
		value = runtime.NullValue{}
	}
	if targetType.Kind() == reflect.Interface && targetType.NumMethod() == 0 {
		native := runtime.ToNative(value)
		if native == nil {
			return reflect.Zero(targetType), nil
		}
		return reflect.ValueOf(native), nil
	}
	if reflect.TypeOf(value).AssignableTo(targetType) {
		return reflect.ValueOf(value), nil
	}
	if host, ok := value.(runtime.HostValue); ok && host.Val != nil {
		hv := reflect.ValueOf(host.Val)
		if hv.Type().AssignableTo(targetType) {
			return hv, nil
		}
	}

	switch targetType.Kind() {
	case reflect.String:
		return reflect.ValueOf(runtime.ToString(value)).Convert(targetType), nil
	case reflect.Bool:
		return reflect.ValueOf(runtime.Truthy(value)).Convert(targetType), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.ValueOf(truncate(runtime.ToNumber(value))).Convert(targetType), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := truncate(runtime.ToNumber(value))
		if n < 0 {
			return reflect.Value{}, fmt.Errorf("cannot convert negative number %d to %s", n, targetType)
		}
		return reflect.ValueOf(uint64(n)).Convert(targetType), nil
	case reflect.Float32, reflect.Float64:
		return reflect.ValueOf(runtime.ToNumber(value)).Convert(targetType), nil
	case reflect.Slice:
		if str, ok := value.(runtime.StringValue); ok && targetType.Elem().Kind() == reflect.Uint8 {
			return reflect.ValueOf([]byte(str.Val)).Convert(targetType), nil
		}
		seq, ok := value.(*runtime.SequenceValue)
		if !ok {
			return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", value.Kind(), targetType)
		}
		slice := reflect.MakeSlice(targetType, len(seq.Elements), len(seq.Elements))
		for idx, el := range seq.Elements {
			ev, err := coerceToHost(el, targetType.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			slice.Index(idx).Set(ev)
		}
		return slice, nil
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Interface:
		if _, ok := value.(runtime.NullValue); ok {
			return reflect.Zero(targetType), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", value.Kind(), targetType)
}

func truncate(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(f)
}

//-----------------------------------------------------------------------------
// Registry
//-----------------------------------------------------------------------------

type member struct {
	fn       *HostFunction
	property bool
}

// HostRegistry is the explicit table of host functions and value members
// the fallback path may reach. Registration happens before evaluation; the
// registry is read-only while programs run.
type HostRegistry struct {
	funcs   map[string]*HostFunction
	members map[runtime.Kind]map[string]member
}

func NewHostRegistry() *HostRegistry {
	return &HostRegistry{
		funcs:   make(map[string]*HostFunction),
		members: make(map[runtime.Kind]map[string]member),
	}
}

// Register exposes fn, which must be a Go function, under name.
func (r *HostRegistry) Register(name string, fn any) error {
	if name == "" {
		return errors.New("host: empty function name")
	}
	hf, err := newHostFunction(name, reflect.ValueOf(fn))
	if err != nil {
		return err
	}
	r.funcs[name] = hf
	return nil
}

// MustRegister is Register for static tables; it panics on a non-function.
func (r *HostRegistry) MustRegister(name string, fn any) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// RegisterProperty adds a member computed from the receiver alone. fn's
// first parameter receives the receiver.
func (r *HostRegistry) RegisterProperty(kind runtime.Kind, name string, fn any) error {
	return r.registerMember(kind, name, fn, true)
}

// RegisterMethod adds a member whose first parameter receives the receiver
// and whose remaining parameters receive the call's other arguments.
func (r *HostRegistry) RegisterMethod(kind runtime.Kind, name string, fn any) error {
	return r.registerMember(kind, name, fn, false)
}

func (r *HostRegistry) registerMember(kind runtime.Kind, name string, fn any, property bool) error {
	hf, err := newHostFunction(kind.String()+"."+name, reflect.ValueOf(fn))
	if err != nil {
		return err
	}
	if hf.fn.Type().NumIn() == 0 {
		return fmt.Errorf("host %s: member functions take the receiver as first parameter", hf.Name)
	}
	table, ok := r.members[kind]
	if !ok {
		table = make(map[string]member)
		r.members[kind] = table
	}
	table[name] = member{fn: hf, property: property}
	return nil
}

func (r *HostRegistry) Lookup(name string) (*HostFunction, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Remove drops a function from the registry.
func (r *HostRegistry) Remove(name string) {
	delete(r.funcs, name)
}

// Names lists registered function names in sorted order.
func (r *HostRegistry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AccessMember resolves `.name` on receiver. Registered members take
// precedence; host values fall back to reflection over methods, struct
// fields and string-keyed maps. A property that turns out to be a function
// is called with rest.
func (r *HostRegistry) AccessMember(name string, receiver runtime.Value, rest []runtime.Value) (runtime.Value, bool, error) {
	if table, ok := r.members[receiver.Kind()]; ok {
		if m, ok := table[name]; ok {
			args := []runtime.Value{receiver}
			if !m.property {
				args = append(args, rest...)
			}
			val, err := m.fn.Call(args)
			return val, true, err
		}
	}
	host, ok := receiver.(runtime.HostValue)
	if !ok || host.Val == nil {
		return nil, false, nil
	}
	return reflectMember(name, reflect.ValueOf(host.Val), rest)
}

func reflectMember(name string, rv reflect.Value, rest []runtime.Value) (runtime.Value, bool, error) {
	for _, candidate := range memberCandidates(name) {
		if method := rv.MethodByName(candidate); method.IsValid() {
			hf, err := newHostFunction(candidate, method)
			if err != nil {
				return nil, true, err
			}
			val, err := hf.Call(rest)
			return val, true, err
		}
	}

	target := rv
	for target.Kind() == reflect.Pointer || target.Kind() == reflect.Interface {
		if target.IsNil() {
			return nil, false, nil
		}
		target = target.Elem()
	}

	var field reflect.Value
	switch target.Kind() {
	case reflect.Struct:
		for _, candidate := range memberCandidates(name) {
			sf, ok := target.Type().FieldByName(candidate)
			if ok && sf.IsExported() {
				field = target.FieldByIndex(sf.Index)
				break
			}
		}
	case reflect.Map:
		if target.Type().Key().Kind() == reflect.String {
			field = target.MapIndex(reflect.ValueOf(name).Convert(target.Type().Key()))
		}
	}
	if !field.IsValid() {
		return nil, false, nil
	}
	for field.Kind() == reflect.Interface && !field.IsNil() {
		field = field.Elem()
	}
	if field.Kind() == reflect.Func && !field.IsNil() {
		hf, err := newHostFunction(name, field)
		if err != nil {
			return nil, true, err
		}
		val, err := hf.Call(rest)
		return val, true, err
	}
	return runtime.FromNative(field.Interface()), true, nil
}

// memberCandidates maps a program-side member name onto Go identifiers:
// the name as written, then with its first letter upper-cased.
func memberCandidates(name string) []string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return []string{name}
	}
	return []string{name, string(unicode.ToUpper(r)) + name[size:]}
}
