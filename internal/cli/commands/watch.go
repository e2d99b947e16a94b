package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchAndCheck runs an initial check and then re-checks whenever a watched
// file is written or created, until ctx is done.
func watchAndCheck(ctx context.Context, cmdCtx *CommandContext, args []string, files []string) error {
	r := cmdCtx.Renderer

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range watchRoots(args) {
		if err := watchDir(watcher, dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	recheck := func() {
		if err := checkOnce(ctx, cmdCtx, files); err != nil && !errors.Is(err, ErrCheckFailed) {
			r.Error(err.Error())
		}
		r.Muted("Watching for changes. Press Ctrl+C to stop.")
	}
	recheck()

	trigger := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !cmdCtx.Cfg.HasExtension(event.Name) {
				continue
			}

			cmdCtx.Logger.Debug("change detected", "file", event.Name, "op", event.Op.String())
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(cmdCtx.Cfg.WatchDebounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})
		case <-trigger:
			// Pick up created and removed files.
			if updated, err := collectFiles(args, cmdCtx.Cfg); err == nil {
				files = updated
			} else {
				cmdCtx.Logger.Warn("failed to collect files", "error", err)
			}
			recheck()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Warn("watcher error", "error", err)
		}
	}
}

// watchRoots returns the directories to watch for paths. Files are watched
// through their parent directory so editors that replace files on save are
// still seen.
func watchRoots(paths []string) []string {
	if len(paths) == 0 {
		return []string{"."}
	}
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range paths {
		dir := p
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			dir = filepath.Dir(p)
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != dir && len(info.Name()) > 0 && info.Name()[0] == '.' {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}
