package source

import "testing"

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want Span
	}{
		{"disjoint", Span{Start: 2, End: 4}, Span{Start: 8, End: 10}, Span{Start: 2, End: 10}},
		{"nested", Span{Start: 0, End: 20}, Span{Start: 5, End: 6}, Span{Start: 0, End: 20}},
		{"reversed", Span{Start: 8, End: 10}, Span{Start: 2, End: 4}, Span{Start: 2, End: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.want {
				t.Errorf("Cover() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpanLen(t *testing.T) {
	if got := (Span{Start: 3, End: 7}).Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}
	// инвертированный спан не должен давать переполнение
	if got := (Span{Start: 7, End: 3}).Len(); got != 0 {
		t.Errorf("Len() on inverted span = %d, want 0", got)
	}
	if !(Span{Start: 5, End: 5}).Empty() {
		t.Errorf("expected empty span")
	}
}

func TestSpanContains(t *testing.T) {
	outer := Span{Start: 10, End: 20}
	if !outer.Contains(Span{Start: 10, End: 20}) {
		t.Errorf("span must contain itself")
	}
	if outer.Contains(Span{Start: 9, End: 12}) {
		t.Errorf("span must not contain a span starting before it")
	}
}

func TestLocationLess(t *testing.T) {
	a := Location{Path: "a.cs", Span: Span{Start: 5, End: 6}}
	b := Location{Path: "a.cs", Span: Span{Start: 7, End: 8}}
	c := Location{Path: "b.cs"}
	if !a.Less(b) || b.Less(a) {
		t.Errorf("expected a < b by span start")
	}
	if !b.Less(c) {
		t.Errorf("expected path ordering to dominate")
	}
	if a.Less(a) {
		t.Errorf("location must not be less than itself")
	}
}

func TestLocationString(t *testing.T) {
	if got := NoLocation.String(); got != "<unknown>" {
		t.Errorf("NoLocation.String() = %q", got)
	}
	loc := Location{Path: "Ids.cs", Start: LineCol{Line: 3, Col: 14}}
	if got := loc.String(); got != "Ids.cs:3:14" {
		t.Errorf("String() = %q", got)
	}
}
