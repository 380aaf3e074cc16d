// Package templates discovers externally supplied named templates on disk.
package templates

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"typedid/internal/diag"
	"typedid/internal/model"
	"typedid/internal/source"
)

// Suffix is the file extension of named templates.
const Suffix = ".typedid"

// DefaultPatterns is used when the configuration lists no patterns.
var DefaultPatterns = []string{"**/*" + Suffix}

// File is one discovered template file.
type File struct {
	Path    string // absolute
	RelPath string // slash-separated, relative to the discovery root
	Name    string // logical name
	Content string
	Absent  bool
}

// LogicalName derives the template name from a file path: the base name
// without the suffix, trimmed and NFC-normalised so that names read from
// NFD filesystems match annotation literals.
func LogicalName(path string) string {
	base := filepath.Base(filepath.FromSlash(path))
	base = strings.TrimSuffix(base, Suffix)
	return norm.NFC.String(strings.TrimSpace(base))
}

// Accept reports whether a host-supplied entry is a named template: the path
// must carry the suffix and the logical name must not be blank.
func Accept(path, name string) bool {
	return strings.HasSuffix(path, Suffix) && strings.TrimSpace(name) != ""
}

// Discover expands the glob patterns under root and reads every matching
// template file. Unreadable files are kept with absent content and reported
// with TemplateUnreadable. Results are sorted by relative path.
func Discover(ctx context.Context, root string, patterns []string, jobs int) ([]File, []diag.Diagnostic, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve template root: %w", err)
	}

	paths, err := expand(absRoot, patterns)
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return nil, nil, nil
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	files := make([]File, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rel := source.RelativePath(p, absRoot)
			f := File{Path: p, RelPath: rel, Name: LogicalName(p)}
			txt, rerr := source.ReadText(p)
			if rerr != nil {
				f.Absent = true
				errs[i] = rerr
			} else {
				f.Content = txt.String()
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var diags []diag.Diagnostic
	out := files[:0]
	for i, f := range files {
		if !Accept(f.Path, f.Name) {
			continue
		}
		if errs[i] != nil {
			diags = append(diags, diag.New(diag.TemplateUnreadable, source.Location{Path: f.RelPath}, f.RelPath, errs[i].Error()))
		}
		out = append(out, f)
	}
	return out, diags, nil
}

// expand resolves patterns relative to root and returns sorted unique
// absolute paths of regular files with the template suffix.
func expand(root string, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		if err := validatePattern(pattern); err != nil {
			return nil, err
		}
		// doublestar не ходит по симлинкам по умолчанию
		matches, err := doublestar.FilepathGlob(filepath.Join(root, pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			rel, err := filepath.Rel(root, m)
			if err != nil || strings.HasPrefix(rel, "..") {
				return nil, fmt.Errorf("template %s escapes root %s", m, root)
			}
			if strings.HasSuffix(m, Suffix) {
				seen[m] = struct{}{}
			}
		}
	}
	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func validatePattern(pattern string) error {
	clean := filepath.Clean(pattern)
	if filepath.IsAbs(clean) {
		return fmt.Errorf("invalid template pattern: absolute paths not allowed: %s", pattern)
	}
	if slices.Contains(strings.Split(filepath.ToSlash(clean), "/"), "..") {
		return fmt.Errorf("invalid template pattern: parent directory references not allowed: %s", pattern)
	}
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return fmt.Errorf("invalid template pattern: %s", pattern)
	}
	return nil
}

// Collection converts discovered files into the pipeline's template set,
// preserving order so that the first file wins on duplicate names.
func Collection(files []File) model.NamedTemplates {
	items := make([]model.NamedTemplate, 0, len(files))
	for _, f := range files {
		items = append(items, model.NamedTemplate{Name: f.Name, Content: f.Content, HasContent: !f.Absent})
	}
	return model.NewNamedTemplates(items...)
}
