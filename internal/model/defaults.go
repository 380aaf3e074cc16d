package model

import (
	"slices"

	"typedid/internal/source"
)

// Defaults is the program-wide template configuration.
type Defaults struct {
	Requested TemplateChoice
	Extras    []string
	Location  source.Location
	// HasMultiple poisons defaults: they are diagnosed but never used.
	HasMultiple bool
}

func (d Defaults) Equal(other Defaults) bool {
	return d.Requested == other.Requested &&
		d.Location == other.Location &&
		d.HasMultiple == other.HasMultiple &&
		slices.Equal(d.Extras, other.Extras)
}
