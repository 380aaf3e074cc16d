package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"typedid/internal/diag"
	"typedid/internal/observ"
	"typedid/internal/pipeline"
	"typedid/internal/templates"
	"typedid/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate whenever templates or the declarations manifest change",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	addGeneratorFlags(watchCmd)
	watchCmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json)")
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "delay that batches bursts of file changes")
}

func runWatch(cmd *cobra.Command, args []string) error {
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
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}

	session, err := pipeline.NewSession(s.cacheSize)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	regenerate := func(ctx context.Context, changed []string) error {
		err := watchPass(ctx, out, cmd.ErrOrStderr(), s, session, format, changed)
		if errors.Is(err, context.Canceled) {
			return err
		}
		if err != nil {
			// ошибки загрузки не останавливают наблюдение
			fmt.Fprintf(cmd.ErrOrStderr(), "typedid: %v\n", err)
		}
		return nil
	}
	if err := regenerate(ctx, nil); err != nil {
		return err
	}

	files := []string{s.manifest}
	if s.project.Path != "" {
		files = append(files, s.project.Path)
	}
	w, err := watch.New(ctx, watch.Options{
		Root:     s.project.Root,
		Files:    files,
		Match:    func(p string) bool { return strings.HasSuffix(p, templates.Suffix) },
		Debounce: debounce,
	})
	if err != nil {
		return err
	}
	if !s.quiet {
		fmt.Fprintf(out, "watching %s for changes (ctrl+c to stop)\n", s.project.Root)
	}
	err = w.Run(ctx, regenerate)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func watchPass(ctx context.Context, out, errOut io.Writer, s *settings, session *pipeline.Session, format outputFormat, changed []string) error {
	start := time.Now()
	if len(changed) > 0 && !s.quiet {
		fmt.Fprintf(out, "\nchanged: %s\n", strings.Join(changed, ", "))
	}
	timer := observ.NewTimer()
	in, loadDiags, err := loadInput(ctx, s, timer)
	if err != nil {
		return err
	}
	idx := timer.Begin("pass")
	res, err := session.Run(ctx, in, pipeline.Options{Jobs: s.jobs, Timer: timer})
	timer.End(idx, "")
	if err != nil {
		return err
	}
	st, err := writeOutputs(s.outDir, res.Outputs)
	if err != nil {
		return err
	}

	diags := append(append([]diag.Diagnostic(nil), loadDiags...), res.Diagnostics...)
	if err := renderDiagnostics(out, format, diags, s); err != nil {
		return err
	}
	if !s.quiet && format != formatJSON {
		fmt.Fprintf(out, "%d written, %d unchanged, %d removed in %s\n",
			st.Written, st.Unchanged, st.Removed, time.Since(start).Round(time.Millisecond))
	}
	if s.timings {
		printTimings(errOut, timer)
		printSessionStats(errOut, session.Stats())
	}
	return nil
}
