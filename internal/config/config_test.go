package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, FileName)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[generator]\noutput = \"out\"\njobs = 3\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	proj, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if proj.Root != root {
		t.Fatalf("root = %q, want %q", proj.Root, root)
	}
	want := Default()
	want.Generator.Output = "out"
	want.Generator.Jobs = 3
	if diff := cmp.Diff(want, proj.Config); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if got := proj.Resolve("out"); got != filepath.Join(root, "out") {
		t.Fatalf("Resolve = %q", got)
	}
}

func TestDiscoverWithoutFile(t *testing.T) {
	dir := t.TempDir()
	if _, ok, err := Find(dir); err != nil || ok {
		// a typedid.toml above the temp dir would make this test meaningless
		t.Skipf("unexpected config above temp dir: ok=%v err=%v", ok, err)
	}
	proj, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if proj.Path != "" {
		t.Fatalf("path = %q", proj.Path)
	}
	if diff := cmp.Diff(Default(), proj.Config); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[generator\n", "failed to parse TOML"},
		{"unknown", "[generator]\nmode = 1\n", "unknown keys: generator.mode"},
		{"empty manifest", "[generator]\nmanifest = \" \"\n", "[generator].manifest must not be empty"},
		{"empty pattern", "[generator]\ntemplates = [\"\"]\n", "empty pattern"},
		{"negative jobs", "[generator]\njobs = -1\n", "[generator].jobs must be >= 0"},
		{"zero entries", "[cache]\nentries = 0\n", "[cache].entries must be > 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), tc.content))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := Default()
	cfg.Cache.Disk = true
	if err := Write(path, cfg); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	if err := Write(path, cfg); !errors.Is(err, os.ErrExist) {
		t.Fatalf("second Write err = %v, want ErrExist", err)
	}
}
