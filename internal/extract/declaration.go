package extract

import (
	"slices"
	"strings"

	"typedid/internal/attr"
	"typedid/internal/source"
)

// ScopeKind classifies an ancestor of a declaration.
type ScopeKind uint8

const (
	ScopeOther ScopeKind = iota
	ScopeNamespace
	ScopeType
)

// Scope is one syntactic ancestor of a declaration.
type Scope struct {
	Kind ScopeKind
	// Keyword is class, struct, record, "record struct", interface... for types.
	Keyword     string
	Name        string
	TypeParams  []string
	Modifiers   []string
	Constraints string
}

// Declaration is the host's syntactic view of one annotated type.
type Declaration struct {
	Name      string
	Modifiers []string
	// Ancestors are ordered innermost first.
	Ancestors  []Scope
	Attributes []attr.Application
	Location   source.Location
}

func (s Scope) Equal(other Scope) bool {
	return s.Kind == other.Kind &&
		s.Keyword == other.Keyword &&
		s.Name == other.Name &&
		s.Constraints == other.Constraints &&
		slices.Equal(s.TypeParams, other.TypeParams) &&
		slices.Equal(s.Modifiers, other.Modifiers)
}

func (d Declaration) Equal(other Declaration) bool {
	return d.Name == other.Name &&
		d.Location == other.Location &&
		slices.Equal(d.Modifiers, other.Modifiers) &&
		slices.EqualFunc(d.Ancestors, other.Ancestors, Scope.Equal) &&
		slices.EqualFunc(d.Attributes, other.Attributes, attr.Application.Equal)
}

func (s Scope) Clone() Scope {
	s.TypeParams = slices.Clone(s.TypeParams)
	s.Modifiers = slices.Clone(s.Modifiers)
	return s
}

// Clone returns a copy that shares no backing arrays with d.
func (d Declaration) Clone() Declaration {
	d.Modifiers = slices.Clone(d.Modifiers)
	if d.Ancestors != nil {
		ancestors := make([]Scope, len(d.Ancestors))
		for i, s := range d.Ancestors {
			ancestors[i] = s.Clone()
		}
		d.Ancestors = ancestors
	}
	if d.Attributes != nil {
		apps := make([]attr.Application, len(d.Attributes))
		for i, a := range d.Attributes {
			apps[i] = a.Clone()
		}
		d.Attributes = apps
	}
	return d
}

// IsPartial reports whether the modifiers allow generated members.
func IsPartial(modifiers []string) bool {
	return slices.Contains(modifiers, "partial")
}

// typeKeywords are the ancestors that can be reopened around generated code.
var typeKeywords = map[string]struct{}{
	"class":         {},
	"struct":        {},
	"record":        {},
	"record struct": {},
	"record class":  {},
}

func isEnclosingType(s Scope) bool {
	if s.Kind != ScopeType {
		return false
	}
	_, ok := typeKeywords[strings.Join(strings.Fields(s.Keyword), " ")]
	return ok
}

func displayName(s Scope) string {
	if len(s.TypeParams) == 0 {
		return s.Name
	}
	return s.Name + "<" + strings.Join(s.TypeParams, ", ") + ">"
}
