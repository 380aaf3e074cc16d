package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"typedid/internal/cache"
	"typedid/internal/diag"
	"typedid/internal/model"
	"typedid/internal/observ"
	"typedid/internal/pipeline"
	"typedid/internal/trace"
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate strongly-typed ID sources",
	Long: `Read the declarations manifest exported by the host build, resolve a
template for every marked type and write the generated sources to the output
directory. Exits with status 1 when any error diagnostic is reported.`,
	Args: cobra.NoArgs,
	RunE: runGen,
}

func init() {
	addGeneratorFlags(genCmd)
	genCmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json)")
	genCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	genCmd.Flags().Bool("dry-run", false, "list the outputs without writing them")
}

func runGen(cmd *cobra.Command, args []string) error {
	s, err := readSettings(cmd)
	if err != nil {
		return err
	}
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := readFormat(formatStr)
	if err != nil {
		return err
	}
	uiStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiStr)
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}

	ctx, span := trace.Start(cmd.Context(), trace.ScopeRun, "gen")
	defer span.End("")

	timer := observ.NewTimer()
	in, loadDiags, err := loadInput(ctx, s, timer)
	if err != nil {
		return err
	}

	res, cached, err := runGenPass(ctx, s, in, timer, format == formatPretty && !s.quiet && shouldUseTUI(mode))
	if err != nil {
		span.Fail(err)
		dumpRingTrace()
		return err
	}
	span.Cached(cached)

	out := cmd.OutOrStdout()
	if dryRun {
		if !s.quiet && format != formatJSON {
			for _, o := range res.Outputs {
				fmt.Fprintf(out, "would write %s\n", o.Key)
			}
		}
	} else {
		idx := timer.Begin("write")
		st, err := writeOutputs(s.outDir, res.Outputs)
		timer.End(idx, fmt.Sprintf("%d written, %d unchanged, %d removed", st.Written, st.Unchanged, st.Removed))
		if err != nil {
			return err
		}
		if !s.quiet && format == formatPretty {
			fmt.Fprintf(out, "generated %d file(s) in %s (%d written, %d unchanged)\n",
				len(res.Outputs), s.outDir, st.Written, st.Unchanged)
		}
	}

	diags := make([]diag.Diagnostic, 0, len(loadDiags)+len(res.Diagnostics))
	diags = append(diags, loadDiags...)
	diags = append(diags, res.Diagnostics...)
	if err := renderDiagnostics(out, format, diags, s); err != nil {
		return err
	}
	if format == formatPretty && !s.quiet {
		summaryLine(out, diags)
	}
	if s.timings {
		printTimings(cmd.ErrOrStderr(), timer)
	}
	if hasErrors(diags) {
		return errHasErrors
	}
	return nil
}

// runGenPass consults the disk cache when enabled and otherwise runs the
// pipeline, optionally under the progress UI.
func runGenPass(ctx context.Context, s *settings, in pipeline.Input, timer *observ.Timer, withUI bool) (*pipeline.Result, bool, error) {
	var (
		dc  *cache.DiskCache
		key model.Digest
	)
	if s.diskCache {
		var err error
		if dc, err = cache.Open("typedid"); err != nil {
			return nil, false, fmt.Errorf("failed to open disk cache: %w", err)
		}
		if key, err = cache.Key(in); err != nil {
			return nil, false, err
		}
		payload, ok, err := dc.Get(key)
		if err != nil {
			// битая запись кэша не должна ломать генерацию
			trace.Fail(ctx, trace.ScopeRun, "cache:corrupt", err)
		} else if ok {
			trace.Point(ctx, trace.ScopeRun, "cache:hit", "")
			return payload.Result(), true, nil
		}
	}

	opts := pipeline.Options{Jobs: s.jobs, Timer: timer}
	run := func(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error) {
		return pipeline.Run(ctx, in, opts)
	}
	var (
		res *pipeline.Result
		err error
	)
	start := time.Now()
	if withUI && len(in.Declarations) > 0 {
		res, err = runPassWithUI(ctx, "typedid gen", targetNames(in), opts, run)
	} else {
		res, err = run(ctx, opts)
	}
	if err != nil {
		return nil, false, err
	}
	trace.Point(ctx, trace.ScopeRun, "pass", time.Since(start).String())

	if dc != nil {
		if err := dc.Put(key, cache.FromResult(res)); err != nil {
			trace.Fail(ctx, trace.ScopeRun, "cache:put-failed", err)
		}
	}
	return res, false, nil
}
