package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"typedid/internal/prof"
	"typedid/internal/version"
)

// errHasErrors signals that error diagnostics were already reported; main
// exits with status 1 without printing anything else.
var errHasErrors = errors.New("generation produced errors")

var (
	traceCleanup func()
	profSession  *prof.Session
)

var rootCmd = &cobra.Command{
	Use:   "typedid",
	Short: "Strongly-typed ID source generator",
	Long: `typedid generates strongly-typed ID structs for declarations marked with
[StronglyTypedId], using built-in or project-supplied templates.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupColor(cmd); err != nil {
			return err
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		if profSession, err = setupProfiling(cmd); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		runCleanup()
	},
}

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Current().Version

	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(pluginCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("config", "", "path to typedid.toml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "ring buffer size for --trace-mode=ring")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0*time.Second, "emit a heartbeat event at this interval (0 disables)")
}

// main executes the root command. Any error exits with status 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	// PersistentPostRun is skipped when RunE fails
	runCleanup()
	if err != nil {
		if !errors.Is(err, errHasErrors) {
			fmt.Fprintf(os.Stderr, "typedid: %v\n", err)
		}
		os.Exit(1)
	}
}

func runCleanup() {
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
	if err := profSession.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "typedid: %v\n", err)
	}
	profSession = nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
