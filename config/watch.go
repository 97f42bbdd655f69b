package config

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file when it changes on disk and hands the result to the
// render loop through a channel. The loop polls Reloaded() once per frame, so the only
// goroutine involved is the fsnotify reader.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	reloaded chan *Config
	done     chan struct{}
}

// Watch starts watching path. The directory is watched rather than the file so that
// editors which replace the file on save are still observed.
func Watch(path string) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("watching config: empty path")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	w := &Watcher{
		path:     filepath.Clean(path),
		watcher:  fw,
		reloaded: make(chan *Config, 1),
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				slog.Warn("config reload failed", "path", w.path, "error", err)
				continue
			}
			// Keep only the newest config if the loop has not picked up the last one.
			select {
			case <-w.reloaded:
			default:
			}
			w.reloaded <- cfg
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

// Reloaded returns a freshly loaded config if one is waiting, without blocking.
func (w *Watcher) Reloaded() (*Config, bool) {
	if w == nil {
		return nil, false
	}
	select {
	case cfg := <-w.reloaded:
		return cfg, true
	default:
		return nil, false
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	close(w.done)
	return w.watcher.Close()
}
