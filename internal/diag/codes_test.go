package diag

import "testing"

func TestCodeDescriptors(t *testing.T) {
	tests := []struct {
		code Code
		id   string
		sev  Severity
		cat  Category
	}{
		{NotExtensible, "STI1001", SevWarning, CatUsage},
		{NestedTargetNotAllowed, "STI1002", SevWarning, CatUsage},
		{MultipleAssemblyDefaults, "STI2001", SevWarning, CatConfiguration},
		{UnknownTemplate, "STI2002", SevError, CatConfiguration},
		{TemplateUnreadable, "STI4001", SevWarning, CatIO},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := tt.code.ID(); got != tt.id {
				t.Errorf("ID() = %q, want %q", got, tt.id)
			}
			if got := tt.code.Severity(); got != tt.sev {
				t.Errorf("Severity() = %v, want %v", got, tt.sev)
			}
			if got := tt.code.Category(); got != tt.cat {
				t.Errorf("Category() = %v, want %v", got, tt.cat)
			}
			if tt.code.Title() == "" {
				t.Errorf("missing title")
			}
		})
	}
}

func TestUnregisteredCodeFallsBack(t *testing.T) {
	c := Code(9999)
	if c.ID() != "STI0000" {
		t.Errorf("ID() = %q", c.ID())
	}
	if c.Title() != UnknownCode.Title() {
		t.Errorf("Title() = %q", c.Title())
	}
}
