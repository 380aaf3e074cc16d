// Package watch re-runs generation when template files or the declarations
// manifest change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"typedid/internal/trace"
)

// DefaultDebounce batches bursts of editor writes into one re-run.
const DefaultDebounce = 200 * time.Millisecond

// ignoredDirs are never descended into.
var ignoredDirs = map[string]bool{
	".git":         true,
	".vs":          true,
	".idea":        true,
	".vscode":      true,
	"node_modules": true,
	"bin":          true,
}

type Options struct {
	// Root is walked recursively; every directory under it is watched.
	Root string
	// Files are watched individually via their parent directory.
	Files []string
	// Match selects which changed paths trigger a re-run. Nil accepts all.
	Match    func(path string) bool
	Debounce time.Duration
}

// Watcher wraps fsnotify with directory discovery and debouncing.
type Watcher struct {
	fsw   *fsnotify.Watcher
	opts  Options
	files map[string]bool

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
	fire    chan struct{}
}

// New creates a watcher and registers every directory it needs.
func New(ctx context.Context, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{
		fsw:     fsw,
		opts:    opts,
		files:   make(map[string]bool, len(opts.Files)),
		pending: make(map[string]bool),
		fire:    make(chan struct{}, 1),
	}

	dirs := make(map[string]bool)
	if opts.Root != "" {
		if err := filepath.WalkDir(opts.Root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != opts.Root && ignoredDirs[d.Name()] {
				return filepath.SkipDir
			}
			dirs[path] = true
			return nil
		}); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to walk %s: %w", opts.Root, err)
		}
	}
	for _, f := range opts.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = fsw.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			// каталог мог исчезнуть между обходом и подпиской
			trace.Fail(ctx, trace.ScopeRun, "watch:add-failed", fmt.Errorf("%s: %w", dir, err))
		}
	}
	trace.Point(ctx, trace.ScopeRun, "watch:ready", fmt.Sprintf("%d directories", len(dirs)))
	return w, nil
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}

// Run delivers debounced batches of changed paths to onChange until ctx is
// cancelled or onChange returns an error. Paths are sorted.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, changed []string) error) error {
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			trace.Fail(ctx, trace.ScopeRun, "watch:error", err)
		case <-w.fire:
			changed := w.drain()
			if len(changed) == 0 {
				continue
			}
			if err := onChange(ctx, changed); err != nil {
				if errors.Is(err, context.Canceled) && ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && w.opts.Root != "" && !ignoredDirs[info.Name()] {
			if err := w.fsw.Add(ev.Name); err != nil {
				trace.Fail(ctx, trace.ScopeRun, "watch:add-failed", fmt.Errorf("%s: %w", ev.Name, err))
			}
			return
		}
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	if !w.relevant(ev.Name) {
		return
	}
	trace.Point(ctx, trace.ScopeRun, "watch:change", ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[ev.Name] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, func() {
		select {
		case w.fire <- struct{}{}:
		default:
			// уже запланировано
		}
	})
}

func (w *Watcher) relevant(path string) bool {
	if abs, err := filepath.Abs(path); err == nil && w.files[abs] {
		return true
	}
	if w.opts.Root == "" {
		return false
	}
	if w.opts.Match == nil {
		return true
	}
	return w.opts.Match(path)
}

func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.pending))
	for p := range w.pending {
		out = append(out, p)
	}
	clear(w.pending)
	slices.Sort(out)
	return out
}
