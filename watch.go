package zakki

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-zakki/internal/logfields"
)

// DefaultDebounce is the quiet period Watch waits for before rebuilding.
const DefaultDebounce = 200 * time.Millisecond

// Watch rebuilds the site whenever something below the source directory
// changes, until ctx is done. Bursts of events closer together than
// debounce trigger a single rebuild. onBuild, if set, receives the outcome
// of every rebuild; a failed rebuild does not stop watching.
func (b *Builder) Watch(ctx context.Context, debounce time.Duration, onBuild func(*Report, error)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	absDst, err := filepath.Abs(b.cfg.OutputDir)
	if err != nil {
		return err
	}
	if err := addRecursive(watcher, b.cfg.SourceDir, absDst); err != nil {
		return err
	}
	b.logger.LogAttrs(ctx, slog.LevelInfo, "watching", logfields.Source(b.cfg.SourceDir))

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !relevant(event, absDst) {
				continue
			}
			b.logger.LogAttrs(ctx, slog.LevelDebug, "change detected",
				logfields.Path(event.Name), logfields.Event(event.Op.String()))
			if event.Has(fsnotify.Create) {
				// New directories need their own watch; a file simply fails to add.
				_ = addRecursive(watcher, event.Name, absDst)
			}
			timer.Reset(debounce)

		case <-timer.C:
			report, err := b.Build(ctx)
			if onBuild != nil {
				onBuild(report, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			b.logger.LogAttrs(ctx, slog.LevelError, "fsnotify error", logfields.Error(err))
		}
	}
}

// relevant drops chmod-only events and anything written below the output
// directory or to hidden files, e.g. editor swap files.
func relevant(event fsnotify.Event, absDst string) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return abs != absDst && !strings.HasPrefix(abs, absDst+string(filepath.Separator))
}

// addRecursive watches root and every directory below it except hidden
// ones and the output directory.
func addRecursive(w *fsnotify.Watcher, root, absDst string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if abs, err := filepath.Abs(path); err == nil && abs == absDst {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
