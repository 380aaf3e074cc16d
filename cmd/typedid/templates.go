package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"typedid/internal/model"
	"typedid/internal/templates"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List built-in and project template files",
	Args:  cobra.NoArgs,
	RunE:  runTemplates,
}

func init() {
	templatesCmd.Flags().StringSlice("templates", nil, "glob patterns for named template files (overrides [generator].templates)")
	templatesCmd.Flags().Int("jobs", 0, "max parallel file reads (0=auto)")
}

type templateRow struct {
	name   string
	kind   string
	source string
	status string
}

func runTemplates(cmd *cobra.Command, args []string) error {
	s, err := readSettings(cmd)
	if err != nil {
		return err
	}
	files, diags, err := templates.Discover(cmd.Context(), s.project.Root, s.patterns, s.jobs)
	if err != nil {
		return err
	}

	rows := make([]templateRow, 0, len(files)+4)
	for _, id := range model.BuiltInTemplates() {
		rows = append(rows, templateRow{name: id.String(), kind: "built-in", source: "-", status: "ok"})
	}
	seen := make(map[string]string, len(files))
	for _, f := range files {
		row := templateRow{name: f.Name, kind: "named", source: f.RelPath, status: "ok"}
		switch {
		case f.Absent:
			row.status = "unreadable"
		case strings.TrimSpace(f.Content) == "":
			row.status = "empty"
		}
		if first, dup := seen[f.Name]; dup {
			row.status = "shadowed by " + first
		} else {
			seen[f.Name] = f.RelPath
		}
		rows = append(rows, row)
	}

	writeTemplateTable(cmd.OutOrStdout(), rows)
	if len(diags) > 0 {
		fmt.Fprintln(cmd.ErrOrStderr())
		return renderDiagnostics(cmd.ErrOrStderr(), formatShort, diags, s)
	}
	return nil
}

// writeTemplateTable aligns columns by display width so non-ASCII template
// names line up.
func writeTemplateTable(w io.Writer, rows []templateRow) {
	header := templateRow{name: "NAME", kind: "KIND", source: "SOURCE", status: "STATUS"}
	widths := [3]int{}
	for _, r := range append([]templateRow{header}, rows...) {
		widths[0] = max(widths[0], runewidth.StringWidth(r.name))
		widths[1] = max(widths[1], runewidth.StringWidth(r.kind))
		widths[2] = max(widths[2], runewidth.StringWidth(r.source))
	}
	for _, r := range append([]templateRow{header}, rows...) {
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			runewidth.FillRight(r.name, widths[0]),
			runewidth.FillRight(r.kind, widths[1]),
			runewidth.FillRight(r.source, widths[2]),
			r.status,
		)
	}
}
