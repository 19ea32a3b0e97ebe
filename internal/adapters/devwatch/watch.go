package devwatch

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"joymouse/internal/core/joymouse"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports when an opened device node disappears from its directory.
// Lost is safe to call from the translation loop while the watch goroutine
// runs.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	logger  joymouse.Logger

	lost      atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// Watch starts watching the parent directory of path. Symlinks such as
// /dev/input/by-id entries are resolved first so the removal of the real
// node is what gets reported.
func Watch(path string, logger joymouse.Logger) (*Watcher, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}
	resolved = filepath.Clean(resolved)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(resolved)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(resolved), err)
	}

	w := &Watcher{
		watcher: watcher,
		path:    resolved,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) Lost() bool {
	return w.lost.Load()
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&fsnotify.Remove == fsnotify.Remove || event.Op&fsnotify.Rename == fsnotify.Rename {
				if !w.lost.Swap(true) {
					w.logger.Warn("Input device node removed", "path", w.path, "op", event.Op.String())
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Device watch error", "path", w.path, "err", err)
		}
	}
}
