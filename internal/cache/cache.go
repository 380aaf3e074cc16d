// Package cache persists finished generation passes on disk, keyed by the
// fingerprint of the pass input.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"typedid/internal/catalog"
	"typedid/internal/diag"
	"typedid/internal/emit"
	"typedid/internal/model"
	"typedid/internal/pipeline"
	"typedid/internal/version"
)

// Current schema version - increment when Payload format changes
const schemaVersion uint16 = 2

// DiskCache хранит результаты прогонов по отпечатку входа.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Payload is what a cached pass keeps: enough to replay outputs and
// diagnostics without running the pipeline.
type Payload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Input       model.Digest
	Outputs     []emit.Output
	Diagnostics []diag.Diagnostic
	Written     time.Time
}

// Open initializes a disk cache for app under XDG_CACHE_HOME, falling back
// to ~/.cache.
func Open(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, app))
}

// OpenDir opens a disk cache rooted at dir.
func OpenDir(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key model.Digest) string {
	return filepath.Join(c.dir, "runs", key.String()+".mp")
}

// Key fingerprints a pass input together with the running binary.
func Key(in pipeline.Input) (model.Digest, error) {
	b := version.Current()
	return keyFor(in, catalog.Digest(), b.Version+"+"+b.GitCommit)
}

// keyFor also covers the embedded catalog and the build version: a new binary
// may render the same input differently.
func keyFor(in pipeline.Input, cat model.Digest, build string) (model.Digest, error) {
	d, err := model.Fingerprint(struct {
		Schema  uint16
		Catalog model.Digest
		Build   string
		Input   pipeline.Input
	}{schemaVersion, cat, build, in})
	if err != nil {
		return model.Digest{}, fmt.Errorf("fingerprint input: %w", err)
	}
	return d, nil
}

// Put serializes and writes a payload.
func (c *DiskCache) Put(key model.Digest, payload *Payload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	payload.Schema = schemaVersion
	payload.Input = key
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads a payload. Entries written with another schema or for another
// key are treated as misses.
func (c *DiskCache) Get(key model.Digest) (*Payload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var out Payload
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", f.Name(), err)
	}
	if out.Schema != schemaVersion || out.Input != key {
		return nil, false, nil
	}
	return &out, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// FromResult captures the replayable part of a pass.
func FromResult(res *pipeline.Result) *Payload {
	if res == nil {
		return &Payload{}
	}
	return &Payload{
		Outputs:     res.Outputs,
		Diagnostics: res.Diagnostics,
		Written:     time.Now().UTC(),
	}
}

// Result rebuilds a pass result from a payload. Per-target reports are not
// cached.
func (p *Payload) Result() *pipeline.Result {
	return &pipeline.Result{
		Outputs:     p.Outputs,
		Diagnostics: p.Diagnostics,
	}
}
