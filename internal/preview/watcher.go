package preview

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change kinds reported to a ChangeCallback.
const (
	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

// ChangeCallback is called for each settled change under the watched root.
// kind is Created, Updated or Deleted; path is relative to root.
type ChangeCallback func(kind string, path string)

// settleDelay coalesces bursts of events on the same file (editors and
// atomic renames emit several).
const settleDelay = 100 * time.Millisecond

// siteExt lists the file types a change to which affects the rendered site.
// Temp files from atomic writes (e.g. "index.html123456") do not match.
var siteExt = map[string]struct{}{
	".html": {}, ".htm": {}, ".css": {}, ".js": {}, ".json": {}, ".xml": {}, ".txt": {},
	".svg": {}, ".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".ico": {},
	".woff": {}, ".woff2": {},
}

// Watch starts an fsnotify watcher on root and reports changes to site files
// until ctx is cancelled. New directories are added to the watch list as
// they appear; hidden directories are skipped.
func Watch(ctx context.Context, root string, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	pending := make(map[string]string)
	var settleTimer *time.Timer
	var settleCh <-chan time.Time

	schedule := func(rel, kind string) {
		// A create followed by writes is still a create.
		if prev, ok := pending[rel]; !ok || prev != Created || kind == Deleted {
			pending[rel] = kind
		}
		if settleTimer == nil {
			settleTimer = time.NewTimer(settleDelay)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(settleDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-settleCh:
			for rel, kind := range pending {
				logger.Debug("watcher: change", slog.String("path", rel), slog.String("op", kind))
				if cb != nil {
					cb(kind, rel)
				}
			}
			clear(pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if hidden(info.Name()) {
						continue
					}
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					continue
				}
			}

			if !isSiteFile(absPath) {
				continue
			}

			rel, relErr := filepath.Rel(root, absPath)
			if relErr != nil {
				continue
			}

			switch {
			case ev.Op&fsnotify.Create != 0:
				schedule(rel, Created)
			case ev.Op&fsnotify.Write != 0:
				schedule(rel, Updated)
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// Rename fires on the old path; the new one arrives as Create.
				schedule(rel, Deleted)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func isSiteFile(path string) bool {
	if hidden(filepath.Base(path)) {
		return false
	}
	_, ok := siteExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

func hidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".")
}

// addDirsRecursive adds root and all its non-hidden subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && hidden(d.Name()) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
