package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"javamaybe/internal/trace"
)

// DefaultDebounce is how long Watch waits for the file system to settle.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions extends Options for Watch.
type WatchOptions struct {
	Options
	Debounce time.Duration
	// OnRun is called after every run, including the first one.
	OnRun func(*Result, error)
}

// Watch runs once and then again whenever a .java file under the input or a
// source path changes, until ctx is cancelled. Unchanged units are skipped.
func Watch(ctx context.Context, wo WatchOptions) error {
	if wo.Debounce <= 0 {
		wo.Debounce = DefaultDebounce
	}
	onRun := wo.OnRun
	if onRun == nil {
		onRun = func(*Result, error) {}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	outDir := ""
	if wo.OutputDir != "" {
		outDir, _ = filepath.Abs(wo.OutputDir)
	}
	roots := append([]string{watchRoot(wo.Input)}, wo.SourcePath...)
	for _, root := range roots {
		if err := addTree(w, root, outDir); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: watch %s: %w", ErrConfig, root, err)
			}
			return fmt.Errorf("watch: %w", err)
		}
	}

	// watcher is armed before the first run so no edit slips in between
	res, err := Run(ctx, wo.Options)
	if errors.Is(err, ErrConfig) {
		return err
	}
	onRun(res, err)

	tracer := trace.FromContext(ctx)
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if name, aerr := filepath.Abs(ev.Name); aerr == nil && outDir != "" && within(outDir, name) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if st, serr := os.Stat(ev.Name); serr == nil && st.IsDir() {
					_ = addTree(w, ev.Name, outDir)
				}
			}
			if !relevant(ev) {
				continue
			}
			trace.Point(tracer, trace.ScopeDriver, "watch", ev.Op.String(), "path", ev.Name)
			if timer == nil {
				timer = time.NewTimer(wo.Debounce)
			} else {
				timer.Reset(wo.Debounce)
			}
			pending = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			onRun(nil, fmt.Errorf("watch: %w", err))
		case <-pending:
			pending = nil
			opts := wo.Options
			if res != nil {
				opts.Previous = res.Fingerprints()
			}
			next, rerr := Run(ctx, opts)
			if rerr == nil {
				res = next
			}
			onRun(next, rerr)
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	return isJavaFile(ev.Name) || ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0
}

func watchRoot(input string) string {
	if st, err := os.Stat(input); err == nil && !st.IsDir() {
		return filepath.Dir(input)
	}
	return input
}

// addTree registers dir and its subdirectories; fsnotify does not recurse.
func addTree(w *fsnotify.Watcher, dir, skip string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if abs, aerr := filepath.Abs(path); aerr == nil && skip != "" && within(skip, abs) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
