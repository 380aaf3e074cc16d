package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"typedid/internal/attr"
	"typedid/internal/catalog"
	"typedid/internal/diag"
	"typedid/internal/extract"
	"typedid/internal/model"
	"typedid/internal/pipeline"
	"typedid/internal/source"
	"typedid/internal/version"
)

func sampleInput(template string) pipeline.Input {
	loc := source.Location{Path: "Ids.cs", Start: source.LineCol{Line: 4, Col: 1}}
	return pipeline.Input{
		Declarations: []extract.Declaration{{
			Name:      "OrderId",
			Modifiers: []string{"partial"},
			Attributes: []attr.Application{{
				Name:       attr.MarkerName,
				Positional: []attr.Argument{attr.String(template)},
				Location:   loc,
			}},
			Location: loc,
		}},
	}
}

func TestKeyStable(t *testing.T) {
	a, err := Key(sampleInput("x"))
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	b, err := Key(sampleInput("x"))
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	c, err := Key(sampleInput("y"))
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	if a != b {
		t.Fatalf("equal inputs produced different keys")
	}
	if a == c {
		t.Fatalf("different inputs produced the same key")
	}
}

func TestKeyCoversCatalogAndBuild(t *testing.T) {
	in := sampleInput("x")
	cur, err := Key(in)
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	b := version.Current()
	same, err := keyFor(in, catalog.Digest(), b.Version+"+"+b.GitCommit)
	if err != nil {
		t.Fatalf("keyFor: %v", err)
	}
	if cur != same {
		t.Fatalf("Key must use the embedded catalog and the current build")
	}

	otherCatalog, err := keyFor(in, model.Digest{1}, b.Version+"+"+b.GitCommit)
	if err != nil {
		t.Fatalf("keyFor: %v", err)
	}
	otherBuild, err := keyFor(in, catalog.Digest(), "9.9.9+deadbeef")
	if err != nil {
		t.Fatalf("keyFor: %v", err)
	}
	if otherCatalog == cur || otherBuild == cur {
		t.Fatalf("changed catalog or build reused the cache key")
	}
}

func TestPutGet(t *testing.T) {
	c, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	in := sampleInput("missing")
	res, err := pipeline.Run(context.Background(), in, pipeline.Options{Jobs: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Diagnostics) == 0 {
		t.Fatalf("expected an unknown template diagnostic")
	}
	key, err := Key(in)
	if err != nil {
		t.Fatalf("Key: %v", err)
	}

	if _, ok, err := c.Get(key); err != nil || ok {
		t.Fatalf("Get before Put = %v, %v", ok, err)
	}
	if err := c.Put(key, FromResult(res)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	p, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	got := p.Result()
	if diff := cmp.Diff(res.Outputs, got.Outputs); diff != "" {
		t.Fatalf("outputs mismatch (-want +got):\n%s", diff)
	}
	if !diag.EqualAll(res.Diagnostics, got.Diagnostics) {
		t.Fatalf("diagnostics mismatch: %+v vs %+v", res.Diagnostics, got.Diagnostics)
	}

	entries, err := os.ReadDir(filepath.Join(c.Dir(), "runs"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != key.String()+".mp" {
		t.Fatalf("unexpected cache entries %v", entries)
	}
}

func TestDropAll(t *testing.T) {
	c, err := OpenDir(filepath.Join(t.TempDir(), "typedid"))
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	key, _ := Key(sampleInput("x"))
	if err := c.Put(key, &Payload{}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, err := c.Get(key); err != nil || ok {
		t.Fatalf("Get after DropAll = %v, %v", ok, err)
	}
	if err := c.Put(key, &Payload{}); err != nil {
		t.Fatalf("Put after DropAll: %v", err)
	}
}

func TestNilCache(t *testing.T) {
	var c *DiskCache
	if err := c.Put(model.Digest{}, &Payload{}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, err := c.Get(model.Digest{}); ok || err != nil {
		t.Fatalf("Get = %v, %v", ok, err)
	}
}

func TestOpenUsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	c, err := Open("typedid")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if c.Dir() != filepath.Join(dir, "typedid") {
		t.Fatalf("dir = %q", c.Dir())
	}
}
