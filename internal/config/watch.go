package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher reloads the config file when it changes on disk.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func(FileConfig)
	onError  func(error)
}

// NewWatcher watches the directory holding path so editors that replace the
// file on save are still observed. The directory must exist.
func NewWatcher(path string, onChange func(FileConfig), onError func(error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		if cerr := fw.Close(); cerr != nil {
			// Best-effort watcher close.
			_ = cerr
		}
		return nil, fmt.Errorf("watch config directory: %w", err)
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &Watcher{path: path, watcher: fw, onChange: onChange, onError: onError}, nil
}

// Run dispatches reloads until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) reload() {
	cfg, err := LoadConfig(w.path)
	if err != nil {
		w.onError(fmt.Errorf("reload config: %w", err))
		return
	}
	w.onChange(cfg)
}
