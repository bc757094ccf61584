package config

import (
	"time"

	"github.com/fsnotify/fsnotify"

	"llmgateway/logger"
)

// Watcher watches the store's config directory for external edits (an admin
// replacing providers.json by hand, a backup being restored) and reloads the
// four JSON documents into the store after a debounce window. The seed file
// is not re-read on reload.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	debounce time.Duration
	stopCh   chan struct{}
}

// NewWatcher creates a watcher over store's directory. Call Start to begin
// watching and Stop to tear it down.
func NewWatcher(store *Store) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		store:    store,
		watcher:  fsw,
		debounce: 500 * time.Millisecond,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start adds the config directory to the underlying fsnotify watch and
// begins the reload loop in a background goroutine.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.store.dir); err != nil {
		return err
	}
	logger.Info("watching config directory", "dir", w.store.dir)
	go w.loop()
	return nil
}

// Stop halts the watch loop and releases the underlying inotify handle.
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}

			logger.Debug("config directory event", "op", event.Op.String(), "name", event.Name)

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				if err := w.store.Reload(); err != nil {
					logger.Error("config reload failed", "error", err.Error())
				} else {
					logger.Info("config reloaded from disk")
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("config watcher error", "error", err.Error())

		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}
