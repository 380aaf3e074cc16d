package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"typedid/internal/config"
	"typedid/internal/templates"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a typedid.toml with default settings",
	Long: `Initialize typedid configuration by writing typedid.toml with the default
generator and cache settings. If [path] is omitted, the current directory is used.
With --example, a sample named template is written next to it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("example", false, "also write Templates/example"+templates.Suffix)
}

const exampleTemplate = `    partial struct PLACEHOLDERID : System.IEquatable<PLACEHOLDERID>
    {
        public string Value { get; }

        public PLACEHOLDERID(string value)
        {
            Value = value ?? throw new System.ArgumentNullException(nameof(value));
        }

        public bool Equals(PLACEHOLDERID other) => this.Value == other.Value;
        public override bool Equals(object? obj) => obj is PLACEHOLDERID other && Equals(other);
        public override int GetHashCode() => Value.GetHashCode();
        public override string ToString() => Value;
    }
`

// runInit writes typedid.toml into the target directory, creating the
// directory when needed. An existing configuration is never overwritten.
func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	example, err := cmd.Flags().GetBool("example")
	if err != nil {
		return fmt.Errorf("failed to get example flag: %w", err)
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	cfgPath := filepath.Join(target, config.FileName)
	if err := config.Write(cfgPath, config.Default()); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("already initialized: %s exists", cfgPath)
		}
		return fmt.Errorf("failed to write %s: %w", config.FileName, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized typedid in %s\n", target)
	fmt.Fprintf(out, "  - %s\n", config.FileName)

	if example {
		rel := filepath.Join("Templates", "example"+templates.Suffix)
		path := filepath.Join(target, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(out, "  - %s (existing)\n", filepath.ToSlash(rel))
			return nil
		}
		if err := os.WriteFile(path, []byte(exampleTemplate), 0o644); err != nil {
			return fmt.Errorf("failed to write example template: %w", err)
		}
		fmt.Fprintf(out, "  - %s\n", filepath.ToSlash(rel))
	}
	return nil
}
