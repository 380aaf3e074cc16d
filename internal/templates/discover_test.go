package templates

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"typedid/internal/diag"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b/dapper.typedid", "\xEF\xBB\xBFline\r\n")
	writeFile(t, root, "a/custom.typedid", "custom PLACEHOLDERID")
	writeFile(t, root, "a/readme.md", "ignored")
	writeFile(t, root, "a/ .typedid", "blank name")

	files, diags, err := Discover(context.Background(), root, nil, 2)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics %+v", diags)
	}
	var got []string
	for _, f := range files {
		got = append(got, f.RelPath+"="+f.Name)
	}
	want := []string{"a/custom.typedid=custom", "b/dapper.typedid=dapper"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
	if files[1].Content != "line\n" {
		t.Fatalf("content not normalised: %q", files[1].Content)
	}

	set := Collection(files)
	if tpl, ok := set.Lookup("custom"); !ok || tpl.Content != "custom PLACEHOLDERID" || !tpl.HasContent {
		t.Fatalf("Lookup(custom) = %+v,%v", tpl, ok)
	}
}

func TestDiscoverPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ids/x.typedid", "x")
	writeFile(t, root, "other/y.typedid", "y")

	files, _, err := Discover(context.Background(), root, []string{"ids/**/*.typedid", "ids/*.typedid"}, 1)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 || files[0].Name != "x" {
		t.Fatalf("files = %+v", files)
	}

	for _, bad := range []string{"../*.typedid", "/abs/*.typedid", "ids/[.typedid"} {
		if _, _, err := Discover(context.Background(), root, []string{bad}, 1); err == nil {
			t.Errorf("pattern %q must be rejected", bad)
		}
	}
}

func TestDiscoverUnreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permissions")
	}
	root := t.TempDir()
	p := writeFile(t, root, "locked.typedid", "secret")
	if err := os.Chmod(p, 0); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	files, diags, err := Discover(context.Background(), root, nil, 1)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 || !files[0].Absent {
		t.Fatalf("files = %+v", files)
	}
	if len(diags) != 1 || diags[0].Code != diag.TemplateUnreadable {
		t.Fatalf("diags = %+v", diags)
	}
	if tpl, ok := Collection(files).Lookup("locked"); !ok || tpl.HasContent {
		t.Fatalf("unreadable template must be found without content: %+v,%v", tpl, ok)
	}
}

func TestLogicalNameNFC(t *testing.T) {
	// "é" в NFD: e + combining acute
	nfd := "café.typedid"
	if got := LogicalName("/tmp/" + nfd); got != "café" {
		t.Fatalf("LogicalName = %q", got)
	}
}

func TestAccept(t *testing.T) {
	tests := []struct {
		path, name string
		want       bool
	}{
		{"x/a.typedid", "a", true},
		{"x/a.txt", "a", false},
		{"x/ .typedid", " ", false},
	}
	for _, tt := range tests {
		if got := Accept(tt.path, tt.name); got != tt.want {
			t.Errorf("Accept(%q, %q) = %v", tt.path, tt.name, got)
		}
	}
}
