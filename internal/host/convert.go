package host

import (
	"fmt"

	"typedid/internal/attr"
	"typedid/internal/diag"
	"typedid/internal/extract"
	"typedid/internal/model"
	"typedid/internal/pipeline"
	"typedid/internal/source"
	"typedid/internal/templates"
)

// Convert translates a wire request into pipeline input. Template entries
// without the template suffix or with a blank logical name are dropped.
func Convert(req *Request) (pipeline.Input, error) {
	var in pipeline.Input
	if req == nil {
		return in, nil
	}

	in.Declarations = make([]extract.Declaration, 0, len(req.Declarations))
	for i, d := range req.Declarations {
		decl, err := convertDeclaration(d)
		if err != nil {
			return pipeline.Input{}, fmt.Errorf("declaration #%d (%s): %w", i, d.Name, err)
		}
		in.Declarations = append(in.Declarations, decl)
	}

	for i, a := range req.Defaults {
		app, err := convertAnnotation(a)
		if err != nil {
			return pipeline.Input{}, fmt.Errorf("defaults #%d: %w", i, err)
		}
		in.Defaults = append(in.Defaults, app)
	}

	items := make([]model.NamedTemplate, 0, len(req.Templates))
	for _, tf := range req.Templates {
		name := tf.Name
		if name == "" {
			name = templates.LogicalName(tf.Path)
		}
		if !templates.Accept(tf.Path, name) {
			continue
		}
		items = append(items, model.NamedTemplate{Name: name, Content: tf.Content, HasContent: !tf.Absent})
	}
	in.Templates = model.NewNamedTemplates(items...)
	return in, nil
}

func convertDeclaration(d Declaration) (extract.Declaration, error) {
	out := extract.Declaration{
		Name:      d.Name,
		Modifiers: d.Modifiers,
		Location:  convertLocation(d.Location),
	}
	for _, s := range d.Ancestors {
		kind, err := scopeKind(s.Kind)
		if err != nil {
			return extract.Declaration{}, err
		}
		out.Ancestors = append(out.Ancestors, extract.Scope{
			Kind:        kind,
			Keyword:     s.Keyword,
			Name:        s.Name,
			TypeParams:  s.TypeParams,
			Modifiers:   s.Modifiers,
			Constraints: s.Constraints,
		})
	}
	for _, a := range d.Annotations {
		app, err := convertAnnotation(a)
		if err != nil {
			return extract.Declaration{}, err
		}
		out.Attributes = append(out.Attributes, app)
	}
	return out, nil
}

func scopeKind(s string) (extract.ScopeKind, error) {
	switch s {
	case "namespace":
		return extract.ScopeNamespace, nil
	case "type":
		return extract.ScopeType, nil
	case "other", "":
		return extract.ScopeOther, nil
	}
	return extract.ScopeOther, fmt.Errorf("unknown scope kind %q", s)
}

func convertAnnotation(a Annotation) (attr.Application, error) {
	app := attr.Application{Name: a.Name, Location: convertLocation(a.Location)}
	for _, arg := range a.Args {
		v, err := convertArgument(arg)
		if err != nil {
			return attr.Application{}, err
		}
		app.Positional = append(app.Positional, v)
	}
	for _, na := range a.Named {
		v, err := convertArgument(na.Value)
		if err != nil {
			return attr.Application{}, err
		}
		app.Named = append(app.Named, attr.NamedArgument{Name: na.Name, Value: v})
	}
	return app, nil
}

// convertArgument maps wire kinds onto the closed argument union. Unknown
// kinds are a protocol error, not a malformed annotation.
func convertArgument(a Argument) (attr.Argument, error) {
	switch a.Kind {
	case "string":
		if a.Null {
			return attr.Null(), nil
		}
		return attr.String(a.Value), nil
	case "enum":
		return attr.Enum(a.Value), nil
	case "array":
		elems := make([]attr.Argument, 0, len(a.Elements))
		for _, e := range a.Elements {
			v, err := convertArgument(e)
			if err != nil {
				return attr.Argument{}, err
			}
			elems = append(elems, v)
		}
		return attr.Array(elems...), nil
	case "other":
		return attr.Other(), nil
	}
	return attr.Argument{}, fmt.Errorf("unknown argument kind %q", a.Kind)
}

func convertLocation(l Location) source.Location {
	return source.Location{
		Path:  source.NormalizePath(l.Path),
		Span:  source.Span{Start: l.Start, End: l.End},
		Start: source.LineCol{Line: l.Line, Col: l.Col},
		End:   source.LineCol{Line: l.EndLine, Col: l.EndCol},
	}
}

func wireLocation(l source.Location) Location {
	return Location{
		Path:    l.Path,
		Start:   l.Span.Start,
		End:     l.Span.End,
		Line:    l.Start.Line,
		Col:     l.Start.Col,
		EndLine: l.End.Line,
		EndCol:  l.End.Col,
	}
}

// WireDiagnostic converts a diagnostic into its wire form.
func WireDiagnostic(d diag.Diagnostic) Diagnostic {
	return Diagnostic{
		ID:         d.Code.ID(),
		Severity:   d.Severity.Label(),
		Category:   d.Code.Category().String(),
		Message:    d.Message,
		Location:   wireLocation(d.Location),
		Args:       d.Args,
		Properties: d.Properties,
	}
}

// FromResult builds the plugin response for a finished pass.
func FromResult(res *pipeline.Result) *Response {
	resp := &Response{Version: ProtocolVersion}
	if res == nil {
		return resp
	}
	resp.Outputs = make([]Output, 0, len(res.Outputs))
	for _, o := range res.Outputs {
		resp.Outputs = append(resp.Outputs, Output{Key: o.Key, Text: o.Text})
	}
	resp.Diagnostics = make([]Diagnostic, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		resp.Diagnostics = append(resp.Diagnostics, WireDiagnostic(d))
	}
	return resp
}

// FromError builds a response for a pass that failed as a whole.
func FromError(err error) *Response {
	return &Response{Version: ProtocolVersion, Error: err.Error()}
}
