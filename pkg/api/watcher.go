package api

// The watcher rebuilds when one of the files that went into the last build
// changes. Editors often save by writing a temporary file and renaming it over
// the original, which silently drops a watch on the file itself, so the
// directories containing those files are watched instead and events are
// filtered by name.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/esmpack/esmpack/internal/cache"
	"github.com/esmpack/esmpack/internal/fs"
)

// Several events usually arrive for a single save
const defaultDebounce = 100 * time.Millisecond

type watcher struct {
	fs    fs.FS
	fsw   *fsnotify.Watcher
	files map[string]bool
	dirs  map[string]bool

	// Watched even when the last build failed before reading them
	entryPaths []string
}

func newWatcher(fsys fs.FS, fsw *fsnotify.Watcher, options BuildOptions) *watcher {
	w := &watcher{fs: fsys, fsw: fsw, files: make(map[string]bool), dirs: make(map[string]bool)}

	base := options.AbsWorkingDir
	if base == "" {
		base = fsys.Cwd()
	}
	for _, entryPoint := range options.EntryPoints {
		path := entryPoint
		if !fsys.IsAbs(path) {
			path = fsys.Join(base, path)
		}
		w.entryPaths = append(w.entryPaths, path)
	}
	return w
}

// setFiles replaces the watched set with the files of "result". A failed
// build has no file list, so the previous one is kept and extended with the
// entry points in case the failure was one of them going missing.
func (w *watcher) setFiles(result BuildResult) error {
	files := make(map[string]bool)
	if result.Status == BuildSucceeded {
		for _, path := range result.Files {
			files[path] = true
		}
	} else {
		for path := range w.files {
			files[path] = true
		}
	}
	for _, path := range w.entryPaths {
		files[path] = true
	}

	dirs := make(map[string]bool)
	for path := range files {
		dirs[w.fs.Dir(path)] = true
	}

	for dir := range w.dirs {
		if !dirs[dir] {
			// The directory may already be gone, which also removes the watch
			_ = w.fsw.Remove(dir)
		}
	}
	for dir := range dirs {
		if w.dirs[dir] {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				delete(dirs, dir)
				continue
			}
			return fmt.Errorf("watch: add directory %q: %w", dir, err)
		}
	}

	w.files = files
	w.dirs = dirs
	return nil
}

func (w *watcher) isRelevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return w.files[event.Name]
}

func watchImpl(ctx context.Context, fsys fs.FS, options BuildOptions, watchOptions WatchOptions) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer fsw.Close()

	debounce := watchOptions.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	w := newWatcher(fsys, fsw, options)
	fsCache := cache.MakeFSCache()

	// Returns false once the context is done
	rebuild := func() (bool, error) {
		result := buildImpl(ctx, fsys, fsCache, options)
		if result.Status == BuildCancelled || ctx.Err() != nil {
			return false, nil
		}
		if result.Status == BuildSucceeded {
			fsCache.Retain(result.Files)
		}
		if watchOptions.OnRebuild != nil {
			watchOptions.OnRebuild(result)
		}
		return true, w.setFiles(result)
	}

	if ok, err := rebuild(); !ok || err != nil {
		return err
	}

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed unexpectedly")
			}
			if !w.isRelevant(event) {
				continue
			}
			fsCache.Invalidate(event.Name)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if ok, err := rebuild(); !ok || err != nil {
				return err
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed unexpectedly")
			}
			return fmt.Errorf("watch: %w", err)
		}
	}
}
