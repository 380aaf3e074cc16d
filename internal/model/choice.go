package model

import "fmt"

// ChoiceKind tags a TemplateChoice.
type ChoiceKind uint8

const (
	ChoiceNone ChoiceKind = iota
	ChoiceBuiltIn
	ChoiceNamed
)

// TemplateChoice is what an annotation asked for: nothing, a built-in
// template or a named one. At most one of BuiltIn/Name is meaningful and only
// for the matching Kind; use the constructors to build values.
type TemplateChoice struct {
	Kind    ChoiceKind
	BuiltIn TemplateID
	Name    string
}

// NoChoice means "consult defaults".
func NoChoice() TemplateChoice { return TemplateChoice{} }

func BuiltInChoice(id TemplateID) TemplateChoice {
	return TemplateChoice{Kind: ChoiceBuiltIn, BuiltIn: id}
}

func NamedChoice(name string) TemplateChoice {
	return TemplateChoice{Kind: ChoiceNamed, Name: name}
}

func (c TemplateChoice) IsNone() bool { return c.Kind == ChoiceNone }

// Equal is the same as ==, provided for symmetry with the other model types.
func (c TemplateChoice) Equal(other TemplateChoice) bool { return c == other }

func (c TemplateChoice) String() string {
	switch c.Kind {
	case ChoiceBuiltIn:
		return "builtin:" + c.BuiltIn.String()
	case ChoiceNamed:
		return fmt.Sprintf("named:%q", c.Name)
	}
	return "none"
}
