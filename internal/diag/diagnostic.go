package diag

import (
	"fmt"
	"slices"

	"typedid/internal/source"
)

// Property is an ordered key/value pair attached to a diagnostic.
type Property struct {
	Key   string `msgpack:"key" json:"key"`
	Value string `msgpack:"value" json:"value"`
}

type Diagnostic struct {
	Severity   Severity
	Code       Code
	Message    string
	Location   source.Location
	Args       []string
	Properties []Property
}

// New builds a diagnostic from the descriptor registered for code. Args are
// substituted into the descriptor's message format in order.
func New(code Code, loc source.Location, args ...string) Diagnostic {
	desc := code.Describe()
	vals := make([]any, len(args))
	for i, a := range args {
		vals[i] = a
	}
	msg := desc.Format
	if len(vals) > 0 {
		msg = fmt.Sprintf(desc.Format, vals...)
	}
	return Diagnostic{
		Severity: desc.Severity,
		Code:     code,
		Message:  msg,
		Location: loc,
		Args:     slices.Clone(args),
	}
}

// WithProperty returns a copy of d with an extra property appended.
func (d Diagnostic) WithProperty(key, value string) Diagnostic {
	props := make([]Property, 0, len(d.Properties)+1)
	props = append(props, d.Properties...)
	d.Properties = append(props, Property{Key: key, Value: value})
	return d
}

// Property looks up a property value by key.
func (d Diagnostic) Property(key string) (string, bool) {
	for _, p := range d.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Equal reports deep structural equality.
func (d Diagnostic) Equal(other Diagnostic) bool {
	return d.Severity == other.Severity &&
		d.Code == other.Code &&
		d.Message == other.Message &&
		d.Location == other.Location &&
		slices.Equal(d.Args, other.Args) &&
		slices.Equal(d.Properties, other.Properties)
}

// EqualAll compares two diagnostic sequences element-wise.
func EqualAll(a, b []Diagnostic) bool {
	return slices.EqualFunc(a, b, Diagnostic.Equal)
}
