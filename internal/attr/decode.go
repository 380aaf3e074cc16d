package attr

import (
	"slices"
	"strings"

	"typedid/internal/model"
)

// Well-known annotation names.
const (
	MarkerName   = "StronglyTypedIds.StronglyTypedIdAttribute"
	DefaultsName = "StronglyTypedIds.StronglyTypedIdDefaultsAttribute"

	// Named argument names.
	ArgTemplate      = "template"
	ArgTemplateNames = "templateNames"
)

// Config is the decoded content of one application.
type Config struct {
	Choice model.TemplateChoice
	Extras []string
}

func (c Config) Equal(other Config) bool {
	return c.Choice == other.Choice && slices.Equal(c.Extras, other.Extras)
}

// decoder tracks the two logical slots.
type decoder struct {
	choice    model.TemplateChoice
	hasChoice bool
	names     []string
	hasNames  bool
}

// Decode reads the template choice and the override name list from app.
// It reports false for any malformed shape and never produces diagnostics:
// the host compiler has already flagged such code.
func Decode(app Application) (Config, bool) {
	var d decoder
	if len(app.Positional)+len(app.Named) > 2 {
		return Config{}, false
	}

	switch len(app.Positional) {
	case 0:
	case 1:
		first := app.Positional[0]
		if first.Kind == KindArray {
			if !d.setNames(first) {
				return Config{}, false
			}
		} else if !d.setChoice(first) {
			return Config{}, false
		}
	case 2:
		if !d.setChoice(app.Positional[0]) || !d.setNames(app.Positional[1]) {
			return Config{}, false
		}
	}

	for _, na := range app.Named {
		ok := false
		switch na.Name {
		case ArgTemplate:
			ok = d.setChoice(na.Value)
		case ArgTemplateNames:
			ok = d.setNames(na.Value)
		}
		if !ok {
			return Config{}, false
		}
	}

	return d.config(), true
}

func (d *decoder) setChoice(arg Argument) bool {
	if d.hasChoice {
		return false
	}
	switch arg.Kind {
	case KindString:
		d.choice = model.NamedChoice(normalizeName(arg))
	case KindEnum:
		id, ok := model.ParseTemplateID(arg.Text)
		if !ok {
			return false
		}
		d.choice = model.BuiltInChoice(id)
	case KindArray, KindOther:
		return false
	default:
		return false
	}
	d.hasChoice = true
	return true
}

func (d *decoder) setNames(arg Argument) bool {
	if d.hasNames || arg.Kind != KindArray {
		return false
	}
	names := make([]string, 0, len(arg.Elems))
	for _, el := range arg.Elems {
		if el.Kind != KindString {
			return false
		}
		names = append(names, normalizeName(el))
	}
	d.names = names
	d.hasNames = true
	return true
}

func (d *decoder) config() Config {
	choice, extras := d.choice, d.names
	if !d.hasChoice && len(extras) > 0 {
		choice = model.NamedChoice(extras[0])
		extras = extras[1:]
	}
	if len(extras) == 0 {
		extras = nil
	}
	return Config{Choice: choice, Extras: slices.Clone(extras)}
}

// normalizeName maps null and blank values to ""; any other name is kept
// verbatim so lookup stays exact.
func normalizeName(arg Argument) string {
	if arg.Null || strings.TrimSpace(arg.Text) == "" {
		return ""
	}
	return arg.Text
}
