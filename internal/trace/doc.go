// Package trace records what a generator pass did: spans for the pass, its
// stages and every target, plus instant points for cache and watch activity.
// It is the project's only logging layer.
//
// A Tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, rec)
//	ctx, span := trace.Start(ctx, trace.ScopeTarget, "target")
//	defer span.End("")
//	span.Target("App.OrderId").Resolved(outcome, layer)
//
// Target attributes (qualified name, outcome, layer, counts, errors) are
// typed Fields on the event, not free-form key/value pairs.
//
// Levels: phase keeps run and stage events, detail adds targets, debug keeps
// everything, error keeps only events that carry an error.
package trace
