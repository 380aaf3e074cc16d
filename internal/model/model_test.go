package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"typedid/internal/source"
)

func sampleTarget() Target {
	return Target{
		Name:      "OrderId",
		Namespace: []string{"Shop", "Orders"},
		Enclosing: []EnclosingScope{
			{Keyword: "class", Modifiers: "public partial", Name: "Outer<T>", Constraints: "where T : new()", Generic: true},
			{Keyword: "struct", Modifiers: "partial", Name: "Inner"},
		},
		Requested: BuiltInChoice(TemplateInt),
		Extras:    []string{"dapper"},
		Location:  source.Location{Path: "Ids.cs", Span: source.Span{Start: 10, End: 30}},
	}
}

func TestTargetEqualIndependentInstances(t *testing.T) {
	a, b := sampleTarget(), sampleTarget()
	if !a.Equal(b) {
		t.Fatalf("independent instances differ: %s", cmp.Diff(a, b))
	}
}

func TestTargetEqualDetectsSingleFieldChange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Target)
	}{
		{"name", func(t *Target) { t.Name = "OrderID" }},
		{"namespace", func(t *Target) { t.Namespace = []string{"Shop"} }},
		{"enclosing keyword", func(t *Target) { t.Enclosing[1].Keyword = "class" }},
		{"enclosing generic", func(t *Target) { t.Enclosing[0].Generic = false }},
		{"requested", func(t *Target) { t.Requested = NamedChoice("Int") }},
		{"extras", func(t *Target) { t.Extras = nil }},
		{"location", func(t *Target) { t.Location.Span.End++ }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := sampleTarget()
			b := sampleTarget().Clone()
			tt.mutate(&b)
			if a.Equal(b) {
				t.Fatalf("expected inequality after changing %s", tt.name)
			}
		})
	}
}

func TestTargetCloneDoesNotAlias(t *testing.T) {
	a := sampleTarget()
	b := a.Clone()
	b.Enclosing[0].Name = "Changed"
	if a.Enclosing[0].Name != "Outer<T>" {
		t.Fatalf("clone shares enclosing chain")
	}
}

func TestQualifiedName(t *testing.T) {
	if got := sampleTarget().QualifiedName(); got != "Shop.Orders.Outer<T>.Inner.OrderId" {
		t.Fatalf("QualifiedName() = %q", got)
	}
	if got := (Target{Name: "Id"}).QualifiedName(); got != "Id" {
		t.Fatalf("QualifiedName() = %q", got)
	}
	nested := Target{Name: "Id", Enclosing: []EnclosingScope{{Name: "Outer"}}}
	if got := nested.QualifiedName(); got != "Outer.Id" {
		t.Fatalf("QualifiedName() = %q", got)
	}
}

func TestParseTemplateID(t *testing.T) {
	tests := []struct {
		in   string
		want TemplateID
		ok   bool
	}{
		{"Guid", TemplateGuid, true},
		{"Template.Long", TemplateLong, true},
		{"StronglyTypedIds.Template.String", TemplateString, true},
		{"guid", TemplateUnset, false},
		{"", TemplateUnset, false},
		{"Unset", TemplateUnset, false},
	}
	for _, tt := range tests {
		got, ok := ParseTemplateID(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseTemplateID(%q) = %v,%v want %v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	if TemplateUnset.Valid() || !FallbackTemplate.Valid() {
		t.Errorf("unexpected validity of sentinel/fallback")
	}
}

func TestNamedTemplatesLookup(t *testing.T) {
	set := NewNamedTemplates(
		NamedTemplate{Name: "guid", Content: "lower", HasContent: true},
		NamedTemplate{Name: "dup", Content: "first", HasContent: true},
		NamedTemplate{Name: "dup", Content: "second", HasContent: true},
	)
	if _, ok := set.Lookup("Guid"); ok {
		t.Fatalf("lookup must be case-sensitive")
	}
	if got, ok := set.Lookup("dup"); !ok || got.Content != "first" {
		t.Fatalf("Lookup(dup) = %+v,%v", got, ok)
	}
	other := NewNamedTemplates(set.Items()...)
	if !set.Equal(other) {
		t.Fatalf("rebuilt collection must be equal")
	}
}

func TestFingerprintStable(t *testing.T) {
	a, err := Fingerprint(sampleTarget())
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	b, _ := Fingerprint(sampleTarget())
	if a != b {
		t.Fatalf("equal values produced different digests")
	}
	changed := sampleTarget()
	changed.Name = "OrderIe"
	c, _ := Fingerprint(changed)
	if a == c {
		t.Fatalf("different values produced the same digest")
	}

	s1, _ := Fingerprint(NewNamedTemplates(NamedTemplate{Name: "a", Content: "x", HasContent: true}))
	s2, _ := Fingerprint(NewNamedTemplates(NamedTemplate{Name: "a", Content: "y", HasContent: true}))
	if s1 == s2 {
		t.Fatalf("template content must contribute to the digest")
	}
}

func TestCombineOrderMatters(t *testing.T) {
	x, _ := Fingerprint("x")
	y, _ := Fingerprint("y")
	if Combine(x, y) == Combine(y, x) {
		t.Fatalf("Combine must be order-sensitive")
	}
}
