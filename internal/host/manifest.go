package host

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"typedid/internal/source"
)

// LoadManifest decodes a TOML declarations manifest exported by the host
// compiler. Relative paths are resolved against the manifest directory.
func LoadManifest(path string) (*Request, error) {
	var req Request
	meta, err := toml.DecodeFile(path, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if !meta.IsDefined("version") {
		req.Version = ProtocolVersion
	}
	if req.Version != ProtocolVersion {
		return nil, fmt.Errorf("%s: unsupported manifest version %d (want %d)", path, req.Version, ProtocolVersion)
	}

	base := filepath.Dir(path)
	for i := range req.Declarations {
		resolveLocation(&req.Declarations[i].Location, base)
		for j := range req.Declarations[i].Annotations {
			resolveLocation(&req.Declarations[i].Annotations[j].Location, base)
		}
	}
	for i := range req.Defaults {
		resolveLocation(&req.Defaults[i].Location, base)
	}
	for i := range req.Templates {
		if p := req.Templates[i].Path; p != "" && !filepath.IsAbs(p) {
			req.Templates[i].Path = filepath.Join(base, p)
		}
	}
	return &req, nil
}

func resolveLocation(l *Location, base string) {
	if l.Path == "" || filepath.IsAbs(l.Path) {
		return
	}
	l.Path = source.NormalizePath(filepath.Join(base, l.Path))
}
