package storage

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher reports token files written or removed by other processes, so a
// logout in one shell is observed by every other shell of the same user.
type Watcher struct {
	store     *FileStore
	callbacks []func(Change)
	mu        sync.RWMutex
	logger    *zap.Logger
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewWatcher starts watching the directory of store.
func NewWatcher(store *FileStore, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(store.Dir()); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", store.Dir(), err)
	}

	w := &Watcher{
		store:    store,
		logger:   logger,
		watcher:  fsWatcher,
		debounce: defaultDebounce,
		stopCh:   make(chan struct{}),
	}
	go w.watchLoop()

	logger.Debug("Watching token directory", zap.String("dir", store.Dir()))
	return w, nil
}

// OnChange registers a callback run for every settled change.
func (w *Watcher) OnChange(callback func(Change)) {
	w.mu.Lock()
	w.callbacks = append(w.callbacks, callback)
	w.mu.Unlock()
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

func (w *Watcher) watchLoop() {
	defer w.watcher.Close()

	// Editors and atomic renames emit bursts of events per key; only the
	// last one is reported.
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			key := w.store.keyFor(event.Name)
			if key == "" {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if t, ok := timers[key]; ok {
				t.Stop()
			}
			timers[key] = time.AfterFunc(w.debounce, func() {
				w.emit(key)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Token watcher error", zap.Error(err))

		case <-w.stopCh:
			w.logger.Debug("Stopping token watcher")
			return
		}
	}
}

// emit reads the settled state of key and notifies callbacks.
func (w *Watcher) emit(key string) {
	select {
	case <-w.stopCh:
		return
	default:
	}

	change := Change{Key: key}
	value, err := w.store.Get(key)
	switch {
	case err != nil:
		w.logger.Warn("Failed to read changed token", zap.String("key", key), zap.Error(err))
		return
	case value == "":
		change.Deleted = true
		if p, perr := w.store.path(key); perr == nil {
			if _, serr := os.Stat(p); serr == nil {
				change.Deleted = false
			}
		}
	default:
		change.Value = value
	}

	w.mu.RLock()
	callbacks := make([]func(Change), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for i, cb := range callbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					w.logger.Error("Token change callback panicked",
						zap.Int("callback_index", i),
						zap.Any("panic", r),
					)
				}
			}()
			cb(change)
		}()
	}
}
