package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"typedid/internal/emit"
)

// writeStats counts what writeOutputs did.
type writeStats struct {
	Written   int
	Unchanged int
	Removed   int
}

// writeOutputs stores every output under dir by key. Files whose content is
// unchanged are not touched so host incremental builds stay quiet. Stale
// generated files (*.g.cs) that no longer correspond to an output are removed.
func writeOutputs(dir string, outputs []emit.Output) (writeStats, error) {
	var st writeStats
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return st, fmt.Errorf("failed to create output directory: %w", err)
	}

	keep := make(map[string]bool, len(outputs))
	for _, o := range outputs {
		if o.Key == "" || strings.ContainsAny(o.Key, `/\`) {
			return st, fmt.Errorf("invalid output key %q", o.Key)
		}
		keep[o.Key] = true
		path := filepath.Join(dir, o.Key)
		existing, err := os.ReadFile(path)
		if err == nil && bytes.Equal(existing, []byte(o.Text)) {
			st.Unchanged++
			continue
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return st, err
		}
		if err := writeFileAtomic(path, []byte(o.Text)); err != nil {
			return st, fmt.Errorf("failed to write %s: %w", path, err)
		}
		st.Written++
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return st, err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".g.cs") || keep[name] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return st, err
		}
		st.Removed++
	}
	return st, nil
}

func writeFileAtomic(path string, data []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()
	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
