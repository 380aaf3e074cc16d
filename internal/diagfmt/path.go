package diagfmt

import (
	"path"
	"path/filepath"
	"strings"

	"typedid/internal/source"
)

// autoPathLimit is the length above which auto mode falls back to the basename.
const autoPathLimit = 48

func formatPath(p string, mode PathMode, baseDir string) string {
	if p == "" {
		return "-"
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(filepath.FromSlash(p)); err == nil {
			return source.NormalizePath(abs)
		}
		return source.NormalizePath(p)
	case PathModeRelative:
		return source.RelativePath(p, baseDir)
	case PathModeBasename:
		return path.Base(source.NormalizePath(p))
	default:
		rel := source.RelativePath(p, baseDir)
		if len(rel) > autoPathLimit && strings.Contains(rel, "/") {
			return path.Base(rel)
		}
		return rel
	}
}
