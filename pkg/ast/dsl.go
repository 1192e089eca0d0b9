package ast

// Scalar helpers.

func Num(value float64) *Number {
	return NewNumber(value)
}

func Str(value string) *String {
	return NewString(value)
}

func Boolean(value bool) *Bool {
	return NewBool(value)
}

func True() *Bool {
	return NewBool(true)
}

func False() *Bool {
	return NewBool(false)
}

func Nil() *Null {
	return NewNull()
}

// Ref builds a variable reference string ("$name").
func Ref(name string) *String {
	return NewString("$" + name)
}

// Composite helpers.

func Seq(elements ...Node) *Sequence {
	return NewSequence(elements)
}

// Call builds a single-entry mapping whose arguments are a sequence.
func Call(name string, args ...Node) *Mapping {
	return NewMapping([]Entry{{Name: name, Args: Seq(args...)}})
}

// CallScalar builds a single-entry mapping with a bare (non-sequence)
// argument, the shape `{name: arg}` produces in YAML.
func CallScalar(name string, arg Node) *Mapping {
	return NewMapping([]Entry{{Name: name, Args: arg}})
}

// Names builds a sequence of string nodes, typically a parameter list.
func Names(names ...string) *Sequence {
	elements := make([]Node, len(names))
	for idx, name := range names {
		elements[idx] = Str(name)
	}
	return NewSequence(elements)
}
