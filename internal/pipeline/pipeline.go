// Package pipeline wires extraction, resolution and emission into one pass.
//
// Per-target work shares nothing mutable, so targets run in parallel; the
// results are slotted by index and assembled in input order, which keeps the
// output independent of scheduling. A cancelled pass returns ctx.Err() and no
// partial result.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"typedid/internal/catalog"
	"typedid/internal/diag"
	"typedid/internal/emit"
	"typedid/internal/extract"
	"typedid/internal/model"
	"typedid/internal/observ"
	"typedid/internal/resolve"
	"typedid/internal/trace"
)

// Options configure a pass.
type Options struct {
	// Jobs limits parallel targets; <= 0 means GOMAXPROCS.
	Jobs     int
	Progress ProgressSink
	Timer    *observ.Timer
}

// stages lets Session memoise the pure steps of a pass.
type stages interface {
	extract(ctx context.Context, decl extract.Declaration) (diag.Result[model.Target], error)
	emit(target model.Target, res resolve.Resolution) ([]emit.Output, error)
}

type direct struct{}

func (direct) extract(ctx context.Context, decl extract.Declaration) (diag.Result[model.Target], error) {
	return extract.Target(ctx, decl)
}

func (direct) emit(target model.Target, res resolve.Resolution) ([]emit.Output, error) {
	return emit.EmitAll(target, res)
}

// Run executes one pass without memoisation.
func Run(ctx context.Context, in Input, opts Options) (*Result, error) {
	return runPass(ctx, in, opts, direct{})
}

type targetSlot struct {
	report  TargetReport
	outputs []emit.Output
	diags   []diag.Diagnostic
}

func runPass(ctx context.Context, in Input, opts Options, st stages) (*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeRun, "pass")
	defer span.End("")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timer := opts.Timer
	phase := func(name string) func(note string) {
		if timer == nil {
			return func(string) {}
		}
		idx := timer.Begin(name)
		return func(note string) { timer.End(idx, note) }
	}

	endDefaults := phase("defaults")
	dctx, dspan := trace.Start(ctx, trace.ScopeStage, "defaults")
	defaults, err := extract.Defaults(dctx, in.Defaults)
	validity := "valid"
	if !defaults.Valid {
		validity = "absent or invalid"
	}
	dspan.Count(len(in.Defaults)).End(validity)
	endDefaults(fmt.Sprintf("%d applications", len(in.Defaults)))
	if err != nil {
		return nil, err
	}

	endTargets := phase("targets")
	slots, err := runTargets(ctx, in, defaults, opts, st)
	endTargets(fmt.Sprintf("%d declarations", len(in.Declarations)))
	if err != nil {
		return nil, err
	}

	res := &Result{Defaults: defaults}
	for _, a := range catalog.Artifacts() {
		res.Outputs = append(res.Outputs, emit.Output{Key: a.Key, Text: a.Text})
	}
	res.Diagnostics = append(res.Diagnostics, defaults.Diags...)
	res.Targets = make([]TargetReport, len(slots))
	for i := range slots {
		res.Outputs = append(res.Outputs, slots[i].outputs...)
		res.Diagnostics = append(res.Diagnostics, slots[i].diags...)
		res.Targets[i] = slots[i].report
	}
	span.Count(len(res.Outputs))
	return res, nil
}

func runTargets(ctx context.Context, in Input, defaults diag.Result[model.Defaults], opts Options, st stages) ([]targetSlot, error) {
	ctx, span := trace.Start(ctx, trace.ScopeStage, "targets")
	defer span.End("")

	slots := make([]targetSlot, len(in.Declarations))
	if len(slots) == 0 {
		return slots, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	for i := range in.Declarations {
		notify(opts.Progress, Event{Target: in.Declarations[i].Name, Stage: StageExtract, Status: StatusQueued})
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(slots)))
	for i := range in.Declarations {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slot, err := processTarget(gctx, in.Declarations[i], in.Templates, defaults, opts.Progress, st)
			if err != nil {
				return err
			}
			slots[i] = slot
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// отмена родителя важнее ошибок из errgroup-контекста
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

func processTarget(ctx context.Context, decl extract.Declaration, templates model.NamedTemplates, defaults diag.Result[model.Defaults], sink ProgressSink, st stages) (targetSlot, error) {
	ctx, span := trace.Start(ctx, trace.ScopeTarget, "target")
	span.Target(decl.Name)
	defer span.End("")

	slot := targetSlot{report: TargetReport{Name: decl.Name}}
	step := func(stage Stage, fn func() error) error {
		start := time.Now()
		notify(sink, Event{Target: decl.Name, Stage: stage, Status: StatusWorking})
		err := fn()
		status := StatusDone
		if err != nil {
			status = StatusError
		}
		notify(sink, Event{Target: decl.Name, Stage: stage, Status: status, Err: err, Elapsed: time.Since(start)})
		return err
	}

	var extracted diag.Result[model.Target]
	if err := step(StageExtract, func() (err error) {
		extracted, err = st.extract(ctx, decl)
		return err
	}); err != nil {
		return targetSlot{}, err
	}
	slot.diags = append(slot.diags, extracted.Diags...)
	if !extracted.Valid {
		span.Outcome("invalid")
		notify(sink, Event{Target: decl.Name, Stage: StageEmit, Status: StatusSkipped})
		return slot, nil
	}
	target := extracted.Value
	slot.report.Name = target.QualifiedName()
	span.Target(slot.report.Name)
	slot.report.Valid = true

	var resolution resolve.Resolution
	if err := step(StageResolve, func() (err error) {
		resolution, err = resolve.Resolve(ctx, target, templates, defaults)
		return err
	}); err != nil {
		return targetSlot{}, err
	}
	slot.diags = append(slot.diags, resolution.Diags...)
	slot.report.Outcome = resolution.Outcome
	slot.report.Layer = resolution.Layer
	span.Resolved(resolution.Outcome, resolution.Layer)
	if resolution.Outcome != resolve.Generate {
		notify(sink, Event{Target: decl.Name, Stage: StageEmit, Status: StatusSkipped})
		return slot, nil
	}

	if err := ctx.Err(); err != nil {
		return targetSlot{}, err
	}
	if err := step(StageEmit, func() (err error) {
		slot.outputs, err = st.emit(target, resolution)
		return err
	}); err != nil {
		return targetSlot{}, fmt.Errorf("%s: %w", slot.report.Name, err)
	}
	for _, o := range slot.outputs {
		slot.report.Keys = append(slot.report.Keys, o.Key)
	}
	return slot, nil
}
