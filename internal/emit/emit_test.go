package emit

import (
	"errors"
	"strings"
	"testing"

	"typedid/internal/catalog"
	"typedid/internal/model"
	"typedid/internal/resolve"
	"typedid/internal/testkit"
)

func named(name, text string) resolve.Template {
	return resolve.Template{Name: name, Text: text}
}

func TestEmitFlat(t *testing.T) {
	out, err := Emit(model.Target{Name: "UserId"}, named("custom", "struct PLACEHOLDERID { PLACEHOLDERID Self; }\n"))
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	want := "// <auto-generated/>\n\nstruct UserId { UserId Self; }\n"
	if out.Text != want {
		t.Fatalf("text:\n%s\nwant:\n%s", out.Text, want)
	}
	if out.Key != "UserId.g.cs" {
		t.Fatalf("key = %q", out.Key)
	}
}

func TestEmitNestingRoundTrip(t *testing.T) {
	target := model.Target{
		Name:      "OrderId",
		Namespace: []string{"App"},
		Enclosing: []model.EnclosingScope{
			{Keyword: "class", Modifiers: "partial", Name: "Outer"},
			{Keyword: "struct", Modifiers: "partial", Name: "Inner"},
		},
	}
	out, err := Emit(target, named("body", "BODY PLACEHOLDERID\n"))
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	want := "// <auto-generated/>\n" +
		"\n" +
		"namespace App\n" +
		"{\n" +
		"    partial class Outer\n" +
		"    {\n" +
		"        partial struct Inner\n" +
		"        {\n" +
		"BODY OrderId\n" +
		"        }\n" +
		"    }\n" +
		"}\n"
	if out.Text != want {
		t.Fatalf("text:\n%s\nwant:\n%s", out.Text, want)
	}

	// порядок открытий и закрытий
	ns := strings.Index(out.Text, "namespace App")
	outer := strings.Index(out.Text, "partial class Outer")
	inner := strings.Index(out.Text, "partial struct Inner")
	body := strings.Index(out.Text, "BODY OrderId")
	if !(ns < outer && outer < inner && inner < body) {
		t.Fatalf("openings out of order: %d %d %d %d", ns, outer, inner, body)
	}
	if out.Key != "App.Outer.Inner.OrderId.g.cs" {
		t.Fatalf("key = %q", out.Key)
	}
}

func TestEmitGenericEnclosing(t *testing.T) {
	target := model.Target{
		Name: "Id",
		Enclosing: []model.EnclosingScope{
			{Keyword: "record", Modifiers: "public partial", Name: "Box<T, U>", Constraints: "where T : class", Generic: true},
		},
	}
	out, err := Emit(target, named("x", "X"))
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out.Text, "public partial record Box<T, U> where T : class\n{\n") {
		t.Fatalf("declaration line missing:\n%s", out.Text)
	}
	if out.Key != "Box{T,U}.Id.g.cs" {
		t.Fatalf("key = %q", out.Key)
	}
}

func TestEmitBuiltInScaffolding(t *testing.T) {
	target := model.Target{
		Name:      "OrderId",
		Namespace: []string{"Shop"},
		Enclosing: []model.EnclosingScope{{Keyword: "class", Modifiers: "partial", Name: "Outer"}},
	}
	for _, id := range model.BuiltInTemplates() {
		t.Run(id.String(), func(t *testing.T) {
			text, _ := catalog.Text(id)
			out, err := Emit(target, resolve.Template{ID: id, Text: text, BuiltIn: true})
			if err != nil {
				t.Fatalf("Emit: %v", err)
			}
			if !strings.HasPrefix(out.Text, "// <auto-generated/>\n#pragma warning disable 1591\n#nullable enable\n") {
				t.Fatalf("missing built-in header:\n%s", out.Text[:80])
			}
			if err := testkit.CheckGenerated(out.Text, "OrderId"); err != nil {
				t.Fatalf("generated text: %v\n%s", err, out.Text)
			}
		})
	}
}

func TestEmitDeterministic(t *testing.T) {
	target := model.Target{
		Name:      "OrderId",
		Namespace: []string{"A", "B"},
		Enclosing: []model.EnclosingScope{{Keyword: "class", Modifiers: "partial", Name: "C"}},
	}
	tpl := named("t", "PLACEHOLDERID PLACEHOLDERID")
	a, errA := Emit(target, tpl)
	b, errB := Emit(target, tpl)
	if errA != nil || errB != nil {
		t.Fatalf("Emit: %v %v", errA, errB)
	}
	if a != b {
		t.Fatalf("non-deterministic output")
	}
}

func TestEmitContractViolations(t *testing.T) {
	tests := []struct {
		name   string
		target model.Target
		tpl    resolve.Template
		want   error
	}{
		{"blank name", model.Target{Name: "  "}, named("t", "x"), ErrBlankName},
		{"unset built-in", model.Target{Name: "Id"}, resolve.Template{ID: model.TemplateUnset, BuiltIn: true}, ErrUnsetTemplate},
		{"unknown built-in", model.Target{Name: "Id"}, resolve.Template{ID: model.TemplateID(200), BuiltIn: true}, ErrUnsetTemplate},
		{"zero template", model.Target{Name: "OrderId"}, resolve.Template{}, ErrUnsetTemplate},
		{"nameless named template", model.Target{Name: "OrderId"}, resolve.Template{Text: "struct PLACEHOLDERID {}"}, ErrUnsetTemplate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Emit(tt.target, tt.tpl); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := EmitExtra(model.Target{Name: "Id"}, named(" ", "x")); !errors.Is(err, ErrBlankExtra) {
		t.Fatalf("err = %v, want ErrBlankExtra", err)
	}
}

func TestEmitAll(t *testing.T) {
	target := model.Target{Name: "Id", Namespace: []string{"N"}}
	res := resolve.Resolution{
		Outcome:  resolve.Generate,
		Template: named("main", "M"),
		Extras:   []resolve.Template{named("dapper", "D PLACEHOLDERID")},
	}
	outs, err := EmitAll(target, res)
	if err != nil {
		t.Fatalf("EmitAll: %v", err)
	}
	if len(outs) != 2 || outs[0].Key != "N.Id.g.cs" || outs[1].Key != "N.Id.dapper.g.cs" {
		t.Fatalf("outputs = %+v", outs)
	}
	if !strings.Contains(outs[1].Text, "D Id") {
		t.Fatalf("extra text = %q", outs[1].Text)
	}

	skipped, err := EmitAll(target, resolve.Resolution{Outcome: resolve.Skip})
	if err != nil || skipped != nil {
		t.Fatalf("skip must emit nothing: %v %v", skipped, err)
	}
}
