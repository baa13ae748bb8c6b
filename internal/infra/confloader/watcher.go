package confloader

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/kvplay-go/internal/telemetry/logger"
)

// DefaultDebounce coalesces the burst of events an editor produces when it
// saves a file.
const DefaultDebounce = 50 * time.Millisecond

// Watcher reports changes to configuration files.
type Watcher struct {
	fsw      *fsnotify.Watcher
	log      logger.Logger
	debounce time.Duration

	mu       sync.Mutex
	files    map[string]struct{}
	handlers []func(string)
	pending  map[string]*time.Timer

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger.
func WithWatcherLogger(l logger.Logger) WatcherOption {
	return func(w *Watcher) {
		w.log = l
	}
}

// WithDebounce sets how long a file must stay quiet before handlers run.
// Zero runs handlers on every event.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher creates a Watcher.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		log:      logger.Discard(),
		debounce: DefaultDebounce,
		files:    make(map[string]struct{}),
		pending:  make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch adds a file. Its directory is watched so that editors replacing the
// file by rename are still seen; events for other files there are ignored.
func (w *Watcher) Watch(path string) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	if err := w.fsw.Add(dir); err != nil {
		w.log.Error("watch failed", "dir", dir, "error", err)
		return err
	}

	w.mu.Lock()
	w.files[path] = struct{}{}
	w.mu.Unlock()

	w.log.Debug("watching config file", "file", path)
	return nil
}

// OnChange registers a handler that receives the path of a changed file.
func (w *Watcher) OnChange(fn func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, fn)
}

// Start processes events until Stop is called.
func (w *Watcher) Start() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.schedule(filepath.Clean(ev.Name), ev.Op)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

// StartAsync runs Start in a goroutine. Stop waits for it to return.
func (w *Watcher) StartAsync() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.Start()
	}()
}

// Stop ends watching and drops pending notifications. It is safe to call
// more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)

		w.mu.Lock()
		for path, t := range w.pending {
			t.Stop()
			delete(w.pending, path)
		}
		w.mu.Unlock()

		err = w.fsw.Close()
		w.wg.Wait()
		if err != nil {
			w.log.Error("watcher close failed", "error", err)
		}
	})
	return err
}

func (w *Watcher) schedule(path string, op fsnotify.Op) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[path]; !ok {
		return
	}
	w.log.Debug("config file event", "file", path, "op", op.String())

	if w.debounce <= 0 {
		go w.fire(path)
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() { w.fire(path) })
}

func (w *Watcher) fire(path string) {
	select {
	case <-w.done:
		return
	default:
	}

	w.mu.Lock()
	delete(w.pending, path)
	handlers := append(([]func(string))(nil), w.handlers...)
	w.mu.Unlock()

	w.log.Debug("config file changed", "file", path)
	for _, fn := range handlers {
		fn(path)
	}
}
