// Package config finds and decodes typedid.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"typedid/internal/pipeline"
	"typedid/internal/templates"
)

// FileName is the project configuration file looked up from the working
// directory upwards.
const FileName = "typedid.toml"

type Config struct {
	Generator Generator `toml:"generator"`
	Cache     Cache     `toml:"cache"`
}

type Generator struct {
	Manifest  string   `toml:"manifest"`
	Templates []string `toml:"templates"`
	Output    string   `toml:"output"`
	Jobs      int      `toml:"jobs"`
}

type Cache struct {
	Disk    bool `toml:"disk"`
	Entries int  `toml:"entries"`
}

// Project is a loaded configuration together with where it came from.
// Path is empty when no file was found and defaults are in effect.
type Project struct {
	Path   string
	Root   string
	Config Config
}

// Default returns the configuration used when no typedid.toml exists.
func Default() Config {
	return Config{
		Generator: Generator{
			Manifest:  "obj/typedid.decls.toml",
			Templates: append([]string(nil), templates.DefaultPatterns...),
			Output:    "Generated",
		},
		Cache: Cache{Entries: pipeline.DefaultCacheEntries},
	}
}

// Find walks from startDir to the filesystem root looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest typedid.toml above startDir, or the defaults
// rooted at startDir when there is none.
func Discover(startDir string) (*Project, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		root, err := filepath.Abs(startDir)
		if err != nil {
			return nil, err
		}
		return &Project{Root: root, Config: Default()}, nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Project{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// Load decodes one configuration file. Keys that are absent keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("generator", "manifest") {
		if strings.TrimSpace(raw.Generator.Manifest) == "" {
			return Config{}, fmt.Errorf("%s: [generator].manifest must not be empty", path)
		}
		cfg.Generator.Manifest = raw.Generator.Manifest
	}
	if meta.IsDefined("generator", "templates") {
		for _, p := range raw.Generator.Templates {
			if strings.TrimSpace(p) == "" {
				return Config{}, fmt.Errorf("%s: [generator].templates contains an empty pattern", path)
			}
		}
		cfg.Generator.Templates = raw.Generator.Templates
	}
	if meta.IsDefined("generator", "output") {
		cfg.Generator.Output = raw.Generator.Output
	}
	if meta.IsDefined("generator", "jobs") {
		if raw.Generator.Jobs < 0 {
			return Config{}, fmt.Errorf("%s: [generator].jobs must be >= 0", path)
		}
		cfg.Generator.Jobs = raw.Generator.Jobs
	}
	if meta.IsDefined("cache", "disk") {
		cfg.Cache.Disk = raw.Cache.Disk
	}
	if meta.IsDefined("cache", "entries") {
		if raw.Cache.Entries <= 0 {
			return Config{}, fmt.Errorf("%s: [cache].entries must be > 0", path)
		}
		cfg.Cache.Entries = raw.Cache.Entries
	}
	return cfg, nil
}

// Resolve makes rel absolute against the project root.
func (p *Project) Resolve(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// Write renders cfg as TOML to path. Existing files are not overwritten.
func Write(path string, cfg Config) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
