package extract

import (
	"context"

	"typedid/internal/attr"
	"typedid/internal/diag"
	"typedid/internal/model"
)

// Defaults extracts the program-wide defaults from every defaults annotation,
// in discovery order.
//
// The first successfully decoded application becomes the candidate. Every
// application met after a candidate exists is reported with
// MultipleAssemblyDefaults and marks the defaults as poisoned. Any malformed
// application invalidates the result. Zero applications yield an invalid
// result without diagnostics.
func Defaults(ctx context.Context, apps []attr.Application) (diag.Result[model.Defaults], error) {
	var (
		candidate model.Defaults
		found     bool
		malformed bool
		diags     []diag.Diagnostic
	)
	seen := 0
	for _, app := range apps {
		if err := ctx.Err(); err != nil {
			return diag.Result[model.Defaults]{}, err
		}
		if app.Name != attr.DefaultsName {
			continue
		}
		seen++
		if found {
			candidate.HasMultiple = true
			diags = append(diags, diag.New(diag.MultipleAssemblyDefaults, app.Location))
		}
		cfg, ok := attr.Decode(app)
		if !ok {
			malformed = true
			continue
		}
		if !found {
			candidate.Requested = cfg.Choice
			candidate.Extras = cfg.Extras
			candidate.Location = app.Location
			found = true
		}
	}

	if seen == 0 || malformed || !found {
		return diag.Invalid[model.Defaults](diags), nil
	}
	return diag.Ok(candidate, diags), nil
}
