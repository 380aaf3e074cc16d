package extract

import (
	"context"
	"slices"
	"strings"

	"typedid/internal/attr"
	"typedid/internal/diag"
	"typedid/internal/model"
)

// Target extracts the description of one annotated declaration.
//
// A declaration without the marker, or whose marker arguments are malformed,
// yields an invalid result. Structural problems (a non-partial target or
// enclosing type) are reported as warnings and extraction continues.
func Target(ctx context.Context, decl Declaration) (diag.Result[model.Target], error) {
	if err := ctx.Err(); err != nil {
		return diag.Result[model.Target]{}, err
	}

	// первая подходящая аннотация выигрывает, остальные игнорируются
	idx := slices.IndexFunc(decl.Attributes, func(a attr.Application) bool {
		return a.Name == attr.MarkerName
	})
	if idx < 0 {
		return diag.Invalid[model.Target](nil), nil
	}
	marker := decl.Attributes[idx]

	var diags []diag.Diagnostic
	if !IsPartial(decl.Modifiers) {
		diags = append(diags, diag.New(diag.NotExtensible, decl.Location, decl.Name))
	}

	cfg, ok := attr.Decode(marker)
	if !ok {
		return diag.Invalid[model.Target](diags), nil
	}

	if err := ctx.Err(); err != nil {
		return diag.Result[model.Target]{}, err
	}

	enclosing, nestedDiags := enclosingChain(decl)
	diags = append(diags, nestedDiags...)

	return diag.Ok(model.Target{
		Name:      decl.Name,
		Namespace: namespacePath(decl.Ancestors),
		Enclosing: enclosing,
		Requested: cfg.Choice,
		Extras:    cfg.Extras,
		Location:  decl.Location,
	}, diags), nil
}

// namespacePath collects every namespace ancestor, outermost first, splitting
// dotted names ("A.B") into segments.
func namespacePath(ancestors []Scope) []string {
	var path []string
	for i := len(ancestors) - 1; i >= 0; i-- {
		s := ancestors[i]
		if s.Kind != ScopeNamespace {
			continue
		}
		for _, seg := range strings.Split(s.Name, ".") {
			if seg = strings.TrimSpace(seg); seg != "" {
				path = append(path, seg)
			}
		}
	}
	return path
}

// enclosingChain walks type ancestors outward and stops at the first
// non-type ancestor. The result is ordered outermost first.
func enclosingChain(decl Declaration) ([]model.EnclosingScope, []diag.Diagnostic) {
	var (
		chain []model.EnclosingScope
		diags []diag.Diagnostic
	)
	for _, s := range decl.Ancestors {
		if !isEnclosingType(s) {
			break
		}
		name := displayName(s)
		if !IsPartial(s.Modifiers) {
			diags = append(diags, diag.New(diag.NestedTargetNotAllowed, decl.Location, decl.Name, name))
		}
		chain = append(chain, model.EnclosingScope{
			Keyword:     strings.Join(strings.Fields(s.Keyword), " "),
			Modifiers:   strings.Join(s.Modifiers, " "),
			Name:        name,
			Constraints: strings.TrimSpace(s.Constraints),
			Generic:     len(s.TypeParams) > 0,
		})
	}
	slices.Reverse(chain)
	return chain, diags
}
