package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"typedid/internal/trace"
)

// traceRing is kept so failures can dump the recent history.
var traceRing *trace.Ring

// setupTracing inspects trace-related flags and initializes the tracer.
// It returns a cleanup function and an error if initialization fails.
func setupTracing(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}

	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}

	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}

	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	heartbeatInterval, err := root.PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}

	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		ctx := trace.WithTracer(cmd.Context(), trace.Nop)
		cmd.SetContext(ctx)
		return func() {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	if traceOutput == "" {
		traceOutput = "-"
	}

	cfg := trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: traceOutput,
		RingSize:   ringSize,
	}

	rec, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	traceRing = rec.Ring()

	ctx := trace.WithTracer(cmd.Context(), rec)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	stopHeartbeat := trace.StartHeartbeat(rec, heartbeatInterval)
	cleanup := func() {
		stopHeartbeat()
		if err := rec.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

// dumpRingTrace writes the ring buffer to stderr after a failed pass.
func dumpRingTrace() {
	if traceRing == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "trace: recent events")
	if err := traceRing.Dump(os.Stderr, trace.FormatText); err != nil {
		fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
	}
}
