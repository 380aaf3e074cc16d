package diag

import (
	"testing"

	"typedid/internal/source"
)

func TestNewFormatsMessage(t *testing.T) {
	loc := source.Location{Path: "Ids.cs", Span: source.Span{Start: 4, End: 9}}
	d := New(NestedTargetNotAllowed, loc, "OrderId", "Outer")
	if d.Message != "type 'OrderId' is nested inside 'Outer', which is not partial" {
		t.Fatalf("Message = %q", d.Message)
	}
	if d.Severity != SevWarning || d.Location != loc {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if len(d.Args) != 2 || d.Args[0] != "OrderId" {
		t.Fatalf("Args = %v", d.Args)
	}
}

func TestWithPropertyDoesNotAlias(t *testing.T) {
	base := New(UnknownTemplate, source.NoLocation, "a").WithProperty("template", "a")
	left := base.WithProperty("x", "1")
	right := base.WithProperty("x", "2")
	if v, _ := left.Property("x"); v != "1" {
		t.Fatalf("left property overwritten: %q", v)
	}
	if v, ok := right.Property("template"); !ok || v != "a" {
		t.Fatalf("template property = %q,%v", v, ok)
	}
}

func TestDiagnosticEqual(t *testing.T) {
	a := New(UnknownTemplate, source.NoLocation, "missing").WithProperty("template", "missing")
	b := New(UnknownTemplate, source.NoLocation, "missing").WithProperty("template", "missing")
	if !a.Equal(b) {
		t.Fatalf("independently built diagnostics must be equal")
	}
	c := New(UnknownTemplate, source.NoLocation, "missinG").WithProperty("template", "missinG")
	if a.Equal(c) {
		t.Fatalf("diagnostics differing in one character must not be equal")
	}
}

func TestResultHelpers(t *testing.T) {
	ok := Ok(42, nil)
	if !ok.Valid || ok.HasErrors() {
		t.Fatalf("Ok result = %+v", ok)
	}
	bad := Invalid[int]([]Diagnostic{New(UnknownTemplate, source.NoLocation, "x")})
	if bad.Valid || bad.Value != 0 || !bad.HasErrors() {
		t.Fatalf("Invalid result = %+v", bad)
	}
	eq := func(a, b int) bool { return a == b }
	if EqualResults(ok, bad, eq) {
		t.Fatalf("ok and invalid results must differ")
	}
	if !EqualResults(ok, Ok(42, []Diagnostic{}), eq) {
		t.Fatalf("nil and empty diagnostics must compare equal")
	}
}
