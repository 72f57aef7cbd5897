package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/715d/mainthread/pkg/allowlist"
)

const watchDebounce = 300 * time.Millisecond

// watch runs the analysis once and again after every batch of relevant file
// changes until ctx is cancelled or the process is interrupted.
func watch(ctx context.Context, cfg *Config, run func(context.Context)) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	roots := []string{"."}
	if cfg.ConfigDir != "" {
		roots = append(roots, cfg.ConfigDir)
	}
	w, err := newWatcher(roots, watchDebounce, relevantTo(cfg))
	if err != nil {
		return errWithCode(fmt.Errorf("watch: %w", err), exitError)
	}
	defer w.Close()

	run(ctx)
	return w.Run(ctx, func(paths []string) {
		slog.Info("files changed, re-running analysis", "files", paths)
		run(ctx)
	})
}

// relevantTo reports whether a changed file can affect the analysis result.
func relevantTo(cfg *Config) func(string) bool {
	configFile := ""
	if cfg.ConfigFile != "" {
		configFile, _ = filepath.Abs(cfg.ConfigFile)
	}
	return func(path string) bool {
		if filepath.Ext(path) == ".go" || filepath.Base(path) == "go.mod" {
			return true
		}
		if _, ok := allowlist.KindOf(path); ok {
			return true
		}
		abs, err := filepath.Abs(path)
		return err == nil && abs == configFile
	}
}

// watcher batches file system events under a set of directory trees.
type watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	match    func(string) bool
}

func newWatcher(roots []string, debounce time.Duration, match func(string) bool) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{fs: fw, debounce: debounce, match: match}
	for _, root := range roots {
		if err := w.addTree(root); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// addTree watches root and its subdirectories, skipping hidden, vendor and
// testdata directories below root.
func (w *watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata"
}

// Run delivers batches of changed paths to onChange once no further events
// arrived for the debounce interval. It returns when ctx is done or the
// watcher is closed.
func (w *watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !skipDir(info.Name()) {
					if err := w.addTree(ev.Name); err != nil {
						slog.Warn("watching new directory", "dir", ev.Name, "error", err)
					}
				}
			}
			if !w.match(ev.Name) {
				continue
			}
			slog.Debug("file changed", "file", ev.Name, "op", ev.Op.String())
			pending[ev.Name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := slices.Sorted(maps.Keys(pending))
			clear(pending)
			onChange(paths)
		}
	}
}

// Close stops watching.
func (w *watcher) Close() error {
	return w.fs.Close()
}
