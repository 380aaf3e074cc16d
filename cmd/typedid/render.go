package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"typedid/internal/diag"
	"typedid/internal/diagfmt"
)

type outputFormat string

const (
	formatPretty outputFormat = "pretty"
	formatShort  outputFormat = "short"
	formatJSON   outputFormat = "json"
)

func readFormat(value string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case formatPretty, formatShort, formatJSON:
		return f, nil
	case "":
		return formatPretty, nil
	default:
		return "", fmt.Errorf("unsupported format %q (must be pretty, short or json)", value)
	}
}

// renderDiagnostics writes diags in the requested format. Pretty output
// reads source files lazily for context lines.
func renderDiagnostics(w io.Writer, format outputFormat, diags []diag.Diagnostic, s *settings) error {
	switch format {
	case formatJSON:
		return diagfmt.JSON(w, diags, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			BaseDir:          s.baseDir,
			Max:              s.maxDiags,
			IncludeNotes:     true,
		})
	case formatShort:
		if len(diags) > s.maxDiags && s.maxDiags > 0 {
			diags = diags[:s.maxDiags]
		}
		return diagfmt.Short(w, diags, s.baseDir)
	default:
		if len(diags) == 0 {
			return nil
		}
		diagfmt.Pretty(w, diags, diagfmt.NewFileSources(), diagfmt.PrettyOpts{
			Color:     !color.NoColor,
			Context:   1,
			PathMode:  diagfmt.PathModeAuto,
			BaseDir:   s.baseDir,
			ShowNotes: true,
			Max:       s.maxDiags,
		})
		return nil
	}
}

// summaryLine prints "N error(s), M warning(s)" for pretty output.
func summaryLine(w io.Writer, diags []diag.Diagnostic) {
	var errs, warns int
	for _, d := range diags {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	if errs == 0 && warns == 0 {
		return
	}
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	fmt.Fprintf(w, "\n%s, %s\n", red.Sprintf("%d error(s)", errs), yellow.Sprintf("%d warning(s)", warns))
}

func hasErrors(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity >= diag.SevError {
			return true
		}
	}
	return false
}
