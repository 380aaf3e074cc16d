package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"typedid/internal/config"
	"typedid/internal/diag"
	"typedid/internal/host"
	"typedid/internal/model"
	"typedid/internal/observ"
	"typedid/internal/pipeline"
	"typedid/internal/templates"
	"typedid/internal/trace"
)

// settings are the effective generator options: typedid.toml overridden by flags.
type settings struct {
	project   *config.Project
	manifest  string
	patterns  []string
	outDir    string
	jobs      int
	diskCache bool
	cacheSize int
	maxDiags  int
	quiet     bool
	timings   bool
	baseDir   string
}

func loadProject(cmd *cobra.Command) (*config.Project, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		return config.Discover(wd)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(abs)
	if err != nil {
		return nil, err
	}
	return &config.Project{Path: abs, Root: filepath.Dir(abs), Config: cfg}, nil
}

// readSettings merges the project configuration with the generator flags
// registered by addGeneratorFlags. Only flags set explicitly win.
func readSettings(cmd *cobra.Command) (*settings, error) {
	proj, err := loadProject(cmd)
	if err != nil {
		return nil, err
	}
	cfg := proj.Config
	s := &settings{
		project:   proj,
		manifest:  proj.Resolve(cfg.Generator.Manifest),
		patterns:  cfg.Generator.Templates,
		outDir:    proj.Resolve(cfg.Generator.Output),
		jobs:      cfg.Generator.Jobs,
		diskCache: cfg.Cache.Disk,
		cacheSize: cfg.Cache.Entries,
		baseDir:   proj.Root,
	}

	flags := cmd.Flags()
	if flags.Changed("manifest") {
		v, err := flags.GetString("manifest")
		if err != nil {
			return nil, fmt.Errorf("failed to get manifest flag: %w", err)
		}
		if s.manifest, err = filepath.Abs(v); err != nil {
			return nil, err
		}
	}
	if flags.Changed("templates") {
		v, err := flags.GetStringSlice("templates")
		if err != nil {
			return nil, fmt.Errorf("failed to get templates flag: %w", err)
		}
		s.patterns = v
	}
	if flags.Changed("out") {
		v, err := flags.GetString("out")
		if err != nil {
			return nil, fmt.Errorf("failed to get out flag: %w", err)
		}
		if s.outDir, err = filepath.Abs(v); err != nil {
			return nil, err
		}
	}
	if flags.Changed("jobs") {
		if s.jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if flags.Changed("disk-cache") {
		if s.diskCache, err = flags.GetBool("disk-cache"); err != nil {
			return nil, fmt.Errorf("failed to get disk-cache flag: %w", err)
		}
	}
	if s.jobs <= 0 {
		s.jobs = runtime.GOMAXPROCS(0)
	}

	root := cmd.Root().PersistentFlags()
	if s.maxDiags, err = root.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if s.quiet, err = root.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return s, nil
}

func addGeneratorFlags(cmd *cobra.Command) {
	cmd.Flags().String("manifest", "", "declarations manifest exported by the host (overrides [generator].manifest)")
	cmd.Flags().StringSlice("templates", nil, "glob patterns for named template files (overrides [generator].templates)")
	cmd.Flags().String("out", "", "output directory for generated sources (overrides [generator].output)")
	cmd.Flags().Int("jobs", 0, "max parallel targets (0=auto)")
	cmd.Flags().Bool("disk-cache", false, "reuse results of identical previous runs from the disk cache")
}

// loadInput reads the declarations manifest and the project template files.
// Templates supplied by the manifest take precedence over discovered files
// with the same name.
func loadInput(ctx context.Context, s *settings, timer *observ.Timer) (pipeline.Input, []diag.Diagnostic, error) {
	ctx, span := trace.Start(ctx, trace.ScopeStage, "load")
	defer span.End("")

	idx := timer.Begin("load manifest")
	req, err := host.LoadManifest(s.manifest)
	timer.End(idx, "")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return pipeline.Input{}, nil, fmt.Errorf("declarations manifest %s not found; export it from the host build or pass --manifest", s.manifest)
		}
		return pipeline.Input{}, nil, err
	}
	in, err := host.Convert(req)
	if err != nil {
		return pipeline.Input{}, nil, fmt.Errorf("%s: %w", s.manifest, err)
	}

	idx = timer.Begin("discover templates")
	files, diags, err := templates.Discover(ctx, s.project.Root, s.patterns, s.jobs)
	timer.End(idx, fmt.Sprintf("%d files", len(files)))
	if err != nil {
		return pipeline.Input{}, nil, err
	}
	items := append(in.Templates.Items(), templates.Collection(files).Items()...)
	in.Templates = model.NewNamedTemplates(items...)
	span.Count(len(in.Declarations))
	trace.Point(ctx, trace.ScopeStage, "templates", fmt.Sprintf("%d named", len(items)))
	return in, diags, nil
}

// targetNames lists declaration names for the progress view.
func targetNames(in pipeline.Input) []string {
	names := make([]string, 0, len(in.Declarations))
	for _, d := range in.Declarations {
		names = append(names, d.Name)
	}
	return names
}
