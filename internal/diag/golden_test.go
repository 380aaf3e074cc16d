package diag

import (
	"testing"

	"typedid/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	userLoc := source.Location{
		Path:  "/workspace/src/Ids.cs",
		Span:  source.Span{Start: 0, End: 1},
		Start: source.LineCol{Line: 1, Col: 1},
	}
	laterLoc := source.Location{
		Path:  "/workspace/src/Ids.cs",
		Span:  source.Span{Start: 20, End: 30},
		Start: source.LineCol{Line: 2, Col: 1},
	}

	diags := []Diagnostic{
		New(UnknownTemplate, laterLoc, "missing"),
		{
			Severity: SevWarning,
			Code:     NotExtensible,
			Message:  "first line\nsecond",
			Location: userLoc,
		},
	}

	expected := "warning STI1001 src/Ids.cs:1:1 first line second\n" +
		"error STI2002 src/Ids.cs:2:1 no template named 'missing' was found"

	if got := FormatShortDiagnostics(diags, "/workspace"); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortDiagnosticsWithoutLocation(t *testing.T) {
	d := New(MultipleAssemblyDefaults, source.NoLocation)
	want := "warning STI2001 -:0:0 multiple [StronglyTypedIdDefaults] attributes found; defaults are ignored"
	if got := FormatShortDiagnostics([]Diagnostic{d}, ""); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
