// Package resolve picks the template text for a target.
//
// Resolution order, first matching rule wins:
//
//  1. the target asks for a built-in template: use it;
//  2. the target names a template: use it, or skip with UnknownTemplate;
//  3. the target asks for nothing:
//     a. defaults are absent, invalid or poisoned by multiplicity: skip silently;
//     b. defaults ask for a built-in template: use it;
//     c. defaults name a template: as rule 2, reported at the defaults;
//     d. defaults ask for nothing: use model.FallbackTemplate.
//
// An explicit target choice never falls back to defaults.
package resolve

import (
	"context"
	"slices"
	"strings"

	"typedid/internal/catalog"
	"typedid/internal/diag"
	"typedid/internal/model"
	"typedid/internal/source"
)

type Outcome uint8

const (
	Skip Outcome = iota
	Generate
)

func (o Outcome) String() string {
	if o == Generate {
		return "generate"
	}
	return "skip"
}

// Layer names the configuration source that supplied the template.
type Layer uint8

const (
	LayerNone Layer = iota
	LayerTarget
	LayerDefaults
	LayerFallback
)

func (l Layer) String() string {
	switch l {
	case LayerTarget:
		return "target"
	case LayerDefaults:
		return "defaults"
	case LayerFallback:
		return "fallback"
	}
	return "none"
}

// Template is resolved template text.
type Template struct {
	ID   model.TemplateID // set for built-in templates only
	Name string           // set for named templates only
	Text string
	// BuiltIn selects the built-in scaffolding header in the emitter.
	BuiltIn bool
}

type Resolution struct {
	Outcome  Outcome
	Template Template
	Layer    Layer
	// Extras are the additional named templates that were found.
	Extras []Template
	Diags  []diag.Diagnostic
}

func (r Resolution) Equal(other Resolution) bool {
	return r.Outcome == other.Outcome &&
		r.Template == other.Template &&
		r.Layer == other.Layer &&
		slices.Equal(r.Extras, other.Extras) &&
		diag.EqualAll(r.Diags, other.Diags)
}

// Resolve applies the resolution rules. The only error is ctx.Err().
func Resolve(ctx context.Context, target model.Target, templates model.NamedTemplates, defaults diag.Result[model.Defaults]) (Resolution, error) {
	if err := ctx.Err(); err != nil {
		return Resolution{}, err
	}

	if !target.Requested.IsNone() {
		return fromChoice(target.Requested, target.Extras, target.Location, LayerTarget, templates), nil
	}

	d := defaults.Value
	if !defaults.Valid || d.HasMultiple {
		// диагностика уже выдана при извлечении defaults
		return Resolution{Outcome: Skip}, nil
	}
	if !d.Requested.IsNone() {
		return fromChoice(d.Requested, d.Extras, d.Location, LayerDefaults, templates), nil
	}

	text, _ := catalog.Text(model.FallbackTemplate)
	return Resolution{
		Outcome:  Generate,
		Template: Template{ID: model.FallbackTemplate, Text: text, BuiltIn: true},
		Layer:    LayerFallback,
	}, nil
}

func fromChoice(choice model.TemplateChoice, extras []string, loc source.Location, layer Layer, templates model.NamedTemplates) Resolution {
	res := Resolution{Layer: layer}
	switch choice.Kind {
	case model.ChoiceBuiltIn:
		text, _ := catalog.Text(choice.BuiltIn)
		res.Template = Template{ID: choice.BuiltIn, Text: text, BuiltIn: true}
	case model.ChoiceNamed:
		tpl, ok := lookup(templates, choice.Name)
		if !ok {
			return Resolution{
				Outcome: Skip,
				Layer:   layer,
				Diags:   []diag.Diagnostic{unknownTemplate(choice.Name, loc)},
			}
		}
		res.Template = tpl
	default:
		return Resolution{Outcome: Skip}
	}

	for _, name := range extras {
		tpl, ok := lookup(templates, name)
		if !ok {
			res.Diags = append(res.Diags, unknownTemplate(name, loc))
			continue
		}
		res.Extras = append(res.Extras, tpl)
	}
	res.Outcome = Generate
	return res
}

// lookup never matches the empty name: the emitter treats a nameless
// non-built-in template as unset.
func lookup(templates model.NamedTemplates, name string) (Template, bool) {
	if name == "" {
		return Template{}, false
	}
	nt, ok := templates.Lookup(name)
	if !ok {
		return Template{}, false
	}
	text := nt.Content
	if !nt.HasContent || strings.TrimSpace(nt.Content) == "" {
		text = catalog.EmptyTemplate(name)
	}
	return Template{Name: name, Text: text}, true
}

func unknownTemplate(name string, loc source.Location) diag.Diagnostic {
	return diag.New(diag.UnknownTemplate, loc, name).WithProperty("template", name)
}
