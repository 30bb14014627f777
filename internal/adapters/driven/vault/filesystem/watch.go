package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/vaultag/internal/logger"
)

// WatchDebounce is how long the vault must be quiet before a batch of
// changed notes is reported.
var WatchDebounce = 500 * time.Millisecond

// Watch reports batches of vault-relative paths of notes that were created
// or written. Only files with the given extensions are reported and hidden
// paths are ignored. Directories created later are watched as they appear.
// The channel is closed when ctx is done.
func (v *Vault) Watch(ctx context.Context, extensions ...string) (<-chan []string, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := v.addDirs(w, v.root); err != nil {
		w.Close()
		return nil, err
	}

	out := make(chan []string)
	go v.watchLoop(ctx, w, extSet(extensions), out)
	return out, nil
}

func (v *Vault) watchLoop(ctx context.Context, w *fsnotify.Watcher, want extensions, out chan<- []string) {
	defer close(out)
	defer w.Close()

	pending := make(map[string]bool)
	timer := time.NewTimer(WatchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if rel, ok := v.handleFsEvent(w, ev, want); ok {
				pending[rel] = true
				timer.Reset(WatchDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("vault watch: %v", err)
		case <-timer.C:
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			sort.Strings(batch)
			pending = make(map[string]bool)
			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}
		}
	}
}

// handleFsEvent returns the vault-relative path of a changed note. Newly
// created directories are added to w when it is non-nil.
func (v *Vault) handleFsEvent(w *fsnotify.Watcher, ev fsnotify.Event, want extensions) (string, bool) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return "", false
	}
	rel, err := filepath.Rel(v.root, ev.Name)
	if err != nil || isHidden(rel) {
		return "", false
	}
	info, err := os.Stat(ev.Name)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		if w != nil && ev.Has(fsnotify.Create) {
			if err := v.addDirs(w, ev.Name); err != nil {
				logger.Warn("vault watch: %v", err)
			}
		}
		return "", false
	}
	if !info.Mode().IsRegular() || !want.match(ev.Name) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// addDirs watches dir and every non-hidden directory below it.
func (v *Vault) addDirs(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != v.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

// isHidden reports whether any element of a relative path starts with a dot.
func isHidden(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
