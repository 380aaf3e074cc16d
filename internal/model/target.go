package model

import (
	"slices"
	"strings"

	"typedid/internal/source"
)

// EnclosingScope is one type declaration that contains a target.
type EnclosingScope struct {
	Keyword     string // class, struct, record, record struct
	Modifiers   string // e.g. "public partial"
	Name        string // includes the type parameter list, e.g. "Outer<T>"
	Constraints string // e.g. "where T : new()"
	Generic     bool
}

// Target describes one annotated declaration.
type Target struct {
	Name      string
	Namespace []string
	// Enclosing is ordered outermost first.
	Enclosing []EnclosingScope
	Requested TemplateChoice
	// Extras are additional named templates listed by the annotation.
	Extras   []string
	Location source.Location
}

// Equal reports deep structural equality.
func (t Target) Equal(other Target) bool {
	return t.Name == other.Name &&
		t.Requested == other.Requested &&
		t.Location == other.Location &&
		slices.Equal(t.Namespace, other.Namespace) &&
		slices.Equal(t.Enclosing, other.Enclosing) &&
		slices.Equal(t.Extras, other.Extras)
}

// Clone returns a copy that shares no backing arrays with t.
func (t Target) Clone() Target {
	t.Namespace = slices.Clone(t.Namespace)
	t.Enclosing = slices.Clone(t.Enclosing)
	t.Extras = slices.Clone(t.Extras)
	return t
}

// QualifiedName joins namespace, enclosing names and the target name with dots.
func (t Target) QualifiedName() string {
	parts := make([]string, 0, len(t.Namespace)+len(t.Enclosing)+1)
	parts = append(parts, t.Namespace...)
	for _, s := range t.Enclosing {
		parts = append(parts, s.Name)
	}
	parts = append(parts, t.Name)
	return strings.Join(parts, ".")
}
