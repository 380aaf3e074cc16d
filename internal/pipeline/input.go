package pipeline

import (
	"slices"

	"typedid/internal/attr"
	"typedid/internal/diag"
	"typedid/internal/emit"
	"typedid/internal/extract"
	"typedid/internal/model"
	"typedid/internal/resolve"
)

// Input is everything one pass consumes.
type Input struct {
	Declarations []extract.Declaration
	Defaults     []attr.Application
	Templates    model.NamedTemplates
}

func (in Input) Equal(other Input) bool {
	return slices.EqualFunc(in.Declarations, other.Declarations, extract.Declaration.Equal) &&
		slices.EqualFunc(in.Defaults, other.Defaults, attr.Application.Equal) &&
		in.Templates.Equal(other.Templates)
}

// Clone returns a deep copy of in. Templates are immutable and shared.
func (in Input) Clone() Input {
	out := Input{Templates: in.Templates}
	if in.Declarations != nil {
		out.Declarations = make([]extract.Declaration, len(in.Declarations))
		for i, d := range in.Declarations {
			out.Declarations[i] = d.Clone()
		}
	}
	if in.Defaults != nil {
		out.Defaults = make([]attr.Application, len(in.Defaults))
		for i, a := range in.Defaults {
			out.Defaults[i] = a.Clone()
		}
	}
	return out
}

// TargetReport summarises what happened to one declaration.
type TargetReport struct {
	// Name is the qualified target name, or the bare declaration name when
	// extraction failed.
	Name    string
	Valid   bool
	Outcome resolve.Outcome
	Layer   resolve.Layer
	Keys    []string
}

// Result is the outcome of one pass.
type Result struct {
	// Outputs holds the static artifacts first, then target outputs in input order.
	Outputs []emit.Output
	// Diagnostics holds defaults diagnostics first, then per-target ones in input order.
	Diagnostics []diag.Diagnostic
	Targets     []TargetReport
	Defaults    diag.Result[model.Defaults]
}

// HasErrors reports whether any diagnostic is an error.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	for i := range r.Diagnostics {
		if r.Diagnostics[i].Severity >= diag.SevError {
			return true
		}
	}
	return false
}
