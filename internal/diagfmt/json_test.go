package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"typedid/internal/diag"
	"typedid/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	loc := source.Location{
		Path:  "/work/src/Ids.cs",
		Span:  source.Span{Start: 21, End: 33},
		Start: source.LineCol{Line: 2, Col: 6},
		End:   source.LineCol{Line: 2, Col: 18},
	}
	d := diag.New(diag.UnknownTemplate, loc, "custom").WithProperty("template", "custom")

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	}
	if err := JSON(&buf, []diag.Diagnostic{d}, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}

	want := DiagnosticsOutput{
		Diagnostics: []DiagnosticJSON{{
			Severity: "error",
			Code:     "STI2002",
			Category: "Configuration",
			Title:    "Unknown template",
			Message:  "no template named 'custom' was found",
			Location: LocationJSON{
				File: "Ids.cs", StartByte: 21, EndByte: 33,
				StartLine: 2, StartCol: 6, EndLine: 2, EndCol: 18,
			},
			Args:  []string{"custom"},
			Notes: []NoteJSON{{Key: "template", Value: "custom"}},
		}},
		Count:  1,
		Errors: 1,
	}
	if diff := cmp.Diff(want, output); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONMax(t *testing.T) {
	diags := []diag.Diagnostic{
		diag.New(diag.NotExtensible, source.NoLocation, "A"),
		diag.New(diag.UnknownTemplate, source.NoLocation, "x"),
		diag.New(diag.UnknownTemplate, source.NoLocation, "y"),
	}
	out := BuildDiagnosticsOutput(diags, JSONOpts{Max: 1})
	if out.Count != 1 || out.Errors != 2 || out.Warnings != 1 {
		t.Fatalf("counts = %d/%d/%d", out.Count, out.Errors, out.Warnings)
	}
	if out.Diagnostics[0].Location.File != "" || out.Diagnostics[0].Location.StartLine != 0 {
		t.Fatalf("unexpected location %+v", out.Diagnostics[0].Location)
	}
}
