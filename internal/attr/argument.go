package attr

import (
	"slices"

	"typedid/internal/source"
)

// Kind tags an Argument. The set is closed: the decoder switches over it
// exhaustively.
type Kind uint8

const (
	KindOther Kind = iota
	KindString
	KindEnum
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindArray:
		return "array"
	}
	return "other"
}

// Argument is one already evaluated annotation argument as exported by the host.
type Argument struct {
	Kind Kind
	// Text holds the string value for KindString and the member name for KindEnum.
	Text string
	// Null marks a null string literal.
	Null  bool
	Elems []Argument
}

// String builds a string argument.
func String(s string) Argument { return Argument{Kind: KindString, Text: s} }

// Null builds a null string argument.
func Null() Argument { return Argument{Kind: KindString, Null: true} }

// Enum builds an enumeration argument from its member name.
func Enum(member string) Argument { return Argument{Kind: KindEnum, Text: member} }

// Array builds an array argument.
func Array(elems ...Argument) Argument { return Argument{Kind: KindArray, Elems: elems} }

// Strings builds an array of string arguments.
func Strings(values ...string) Argument {
	elems := make([]Argument, len(values))
	for i, v := range values {
		elems[i] = String(v)
	}
	return Array(elems...)
}

// Other builds an argument of an unsupported shape.
func Other() Argument { return Argument{Kind: KindOther} }

func (a Argument) Equal(other Argument) bool {
	return a.Kind == other.Kind &&
		a.Text == other.Text &&
		a.Null == other.Null &&
		slices.EqualFunc(a.Elems, other.Elems, Argument.Equal)
}

// Clone returns a copy that shares no backing arrays with a.
func (a Argument) Clone() Argument {
	if a.Elems != nil {
		elems := make([]Argument, len(a.Elems))
		for i, e := range a.Elems {
			elems[i] = e.Clone()
		}
		a.Elems = elems
	}
	return a
}

// NamedArgument is an argument passed by name.
type NamedArgument struct {
	Name  string
	Value Argument
}

// Application is one applied annotation.
type Application struct {
	// Name is the fully qualified annotation name.
	Name       string
	Positional []Argument
	Named      []NamedArgument
	Location   source.Location
}

func (a Application) Equal(other Application) bool {
	return a.Name == other.Name &&
		a.Location == other.Location &&
		slices.EqualFunc(a.Positional, other.Positional, Argument.Equal) &&
		slices.EqualFunc(a.Named, other.Named, func(x, y NamedArgument) bool {
			return x.Name == y.Name && x.Value.Equal(y.Value)
		})
}

func (a Application) Clone() Application {
	if a.Positional != nil {
		pos := make([]Argument, len(a.Positional))
		for i, arg := range a.Positional {
			pos[i] = arg.Clone()
		}
		a.Positional = pos
	}
	if a.Named != nil {
		named := make([]NamedArgument, len(a.Named))
		for i, n := range a.Named {
			named[i] = NamedArgument{Name: n.Name, Value: n.Value.Clone()}
		}
		a.Named = named
	}
	return a
}
