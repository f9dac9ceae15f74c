package storage

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/coredata/errors"
	"github.com/teranos/coredata/logger"
)

// DefaultDebounce is how long the watcher waits for a burst of events on one
// file to settle.
const DefaultDebounce = 200 * time.Millisecond

// InvalidateCallback is called after a changed raw file was evicted.
type InvalidateCallback func(path string)

// Watcher evicts pooled adapters when their raw files change on disk.
type Watcher struct {
	pool     *Pool
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.SugaredLogger

	mu        sync.Mutex
	timers    map[string]*time.Timer
	callbacks []InvalidateCallback
	done      chan struct{}
}

// NewWatcher watches dirs for raw file changes and invalidates pool entries.
func NewWatcher(pool *Pool, dirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	for _, dir := range dirs {
		clean, err := ValidatePath(dir)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		if err := fsw.Add(clean); err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", clean)
		}
	}

	return &Watcher{
		pool:     pool,
		watcher:  fsw,
		debounce: DefaultDebounce,
		logger:   logger.ComponentLogger("storage.watcher"),
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}, nil
}

// SetDebounce changes the debounce period. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// OnInvalidate registers a callback run after each eviction.
func (w *Watcher) OnInvalidate(callback InvalidateCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	go w.watchLoop()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if _, err := w.pool.Registry().Resolve(suffix(event.Name)); err != nil {
				continue
			}
			w.logger.Debugw("Raw file changed",
				logger.FieldPath, event.Name,
				logger.FieldOperation, event.Op.String())
			w.schedule(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnw("Raw watcher error", logger.FieldError, err)

		case <-w.done:
			return
		}
	}
}

// schedule debounces events per path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.invalidate(path)
	})
}

func (w *Watcher) invalidate(path string) {
	w.mu.Lock()
	delete(w.timers, path)
	callbacks := make([]InvalidateCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	if w.pool.Invalidate(path) {
		w.logger.Infow("Evicted changed raw file", logger.FieldPath, path)
	}
	for _, callback := range callbacks {
		callback(path)
	}
}

// Stop stops watching and cancels pending evictions.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
	default:
		close(w.done)
	}
	return w.watcher.Close()
}
