package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"typedid/internal/diag"
	"typedid/internal/source"
)

func sampleText(t *testing.T, path, content string) *source.Text {
	t.Helper()
	text, err := source.NewText(path, []byte(content))
	if err != nil {
		t.Fatalf("NewText: %v", err)
	}
	return text
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	path := "/home/user/project/src/Ids.cs"
	text := sampleText(t, path, "namespace App;\n[StronglyTypedId(\"nope\")]\npartial struct OrderId {}\n")
	d := diag.New(diag.UnknownTemplate, text.Locate(source.Span{Start: 16, End: 40}), "nope")

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/Ids.cs:2:2"},
		{"Relative path", PathModeRelative, "src/Ids.cs:2:2"},
		{"Basename only", PathModeBasename, "Ids.cs:2:2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := PrettyOpts{
				Color:    false,
				PathMode: tt.mode,
				BaseDir:  "/home/user/project",
			}

			Pretty(&buf, []diag.Diagnostic{d}, MapSources{path: text}, opts)
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR STI2002: no template named 'nope' was found") {
				t.Errorf("Expected header in output, got:\n%s", output)
			}
		})
	}
}

func TestPrettyContextAndCaret(t *testing.T) {
	path := "Ids.cs"
	text := sampleText(t, path, "namespace App;\n\tpublic struct Ключ {}\n")
	// "Ключ" starts at byte 30 on line 2 and is 8 bytes long
	loc := text.Locate(source.Span{Start: 30, End: 38})
	d := diag.New(diag.NotExtensible, loc, "Ключ")

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, MapSources{path: text}, PrettyOpts{Context: 1})
	got := buf.String()

	want := strings.Join([]string{
		"Ids.cs:2:16: WARNING STI1001: type 'Ключ' must be declared partial to receive generated members",
		"1 | namespace App;",
		"2 | \tpublic struct Ключ {}",
		"  | \t              ^~~~",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("pretty mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestPrettyNotesAndMax(t *testing.T) {
	d := diag.New(diag.UnknownTemplate, source.Location{Path: "a.cs", Start: source.LineCol{Line: 1, Col: 1}}, "x").
		WithProperty("template", "x")
	diags := []diag.Diagnostic{d, d, d}

	var buf bytes.Buffer
	Pretty(&buf, diags, nil, PrettyOpts{ShowNotes: true, Max: 2})
	out := buf.String()
	if strings.Count(out, "note: template=x") != 2 {
		t.Fatalf("expected two notes, got:\n%s", out)
	}
	if !strings.Contains(out, "... 1 more diagnostics not shown") {
		t.Fatalf("expected truncation footer, got:\n%s", out)
	}
}

func TestPrettyWithoutLocation(t *testing.T) {
	d := diag.New(diag.MultipleAssemblyDefaults, source.NoLocation)
	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, NewFileSources(), PrettyOpts{})
	if !strings.HasPrefix(buf.String(), "-: WARNING STI2001:") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestShort(t *testing.T) {
	diags := []diag.Diagnostic{
		diag.New(diag.UnknownTemplate, source.Location{Path: "/p/b.cs", Start: source.LineCol{Line: 3, Col: 1}}, "x"),
		diag.New(diag.NotExtensible, source.Location{Path: "/p/a.cs", Start: source.LineCol{Line: 1, Col: 2}}, "A"),
	}
	var buf bytes.Buffer
	if err := Short(&buf, diags, "/p"); err != nil {
		t.Fatalf("Short: %v", err)
	}
	want := "warning STI1001 a.cs:1:2 type 'A' must be declared partial to receive generated members\n" +
		"error STI2002 b.cs:3:1 no template named 'x' was found\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}

	buf.Reset()
	if err := Short(&buf, nil, ""); err != nil || buf.Len() != 0 {
		t.Fatalf("empty Short wrote %q, err=%v", buf.String(), err)
	}
}
