package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"typedid/internal/host"
	"typedid/internal/observ"
	"typedid/internal/pipeline"
	"typedid/internal/trace"
)

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Serve generation requests from the host over stdin/stdout",
	Long: `Run as a long-lived generator plugin. The host writes msgpack-encoded
requests to stdin; one msgpack response per request is written to stdout.
Unchanged declarations and templates are served from an in-memory cache.`,
	Args: cobra.NoArgs,
	RunE: runPlugin,
}

func init() {
	pluginCmd.Flags().Int("jobs", 0, "max parallel targets (0=auto)")
	pluginCmd.Flags().Int("cache-entries", pipeline.DefaultCacheEntries, "entries per in-memory stage cache")
}

func runPlugin(cmd *cobra.Command, args []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	entries, err := cmd.Flags().GetInt("cache-entries")
	if err != nil {
		return fmt.Errorf("failed to get cache-entries flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	session, err := pipeline.NewSession(entries)
	if err != nil {
		return err
	}
	var stderr io.Writer
	if showTimings {
		stderr = cmd.ErrOrStderr()
	}
	out := bufio.NewWriter(cmd.OutOrStdout())
	return servePlugin(cmd.Context(), host.NewStream(cmd.InOrStdin(), out), out, session, jobs, stderr)
}

// servePlugin answers requests until the stream ends. Per-request failures are
// reported in the response; only transport errors stop the loop.
func servePlugin(ctx context.Context, stream *host.Stream, out *bufio.Writer, session *pipeline.Session, jobs int, timings io.Writer) error {
	for {
		req, err := stream.Next()
		if errors.Is(err, host.ErrNoRequest) {
			return nil
		}
		if err != nil {
			return err
		}

		resp := handleRequest(ctx, req, session, jobs, timings)
		if err := stream.Reply(resp); err != nil {
			return err
		}
		if err := out.Flush(); err != nil {
			return fmt.Errorf("flush response: %w", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func handleRequest(ctx context.Context, req *host.Request, session *pipeline.Session, jobs int, timings io.Writer) *host.Response {
	ctx, span := trace.Start(ctx, trace.ScopeRun, "plugin:request")
	defer span.End("")

	in, err := host.Convert(req)
	if err != nil {
		span.Fail(err)
		return host.FromError(err)
	}
	timer := observ.NewTimer()
	res, err := session.Run(ctx, in, pipeline.Options{Jobs: jobs, Timer: timer})
	if err != nil {
		span.Fail(err)
		return host.FromError(err)
	}
	if timings != nil {
		printTimings(timings, timer)
		printSessionStats(timings, session.Stats())
	}
	return host.FromResult(res)
}
