package plugin

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports plugin files that appear or change in a directory.
//
// Paths are delivered on a channel from a background goroutine; the frame
// loop drains them with Drain and loads them itself, so the Manager stays
// on one goroutine.
type Watcher struct {
	mu sync.Mutex

	fsw    *fsnotify.Watcher
	dir    string
	accept func(path string) bool
	delay  time.Duration
	logger *zap.Logger

	// Debounce timers by path
	pending map[string]*time.Timer

	paths chan string

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long a path must stay quiet before it is reported.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithWatcherLogger sets the watcher logger.
func WithWatcherLogger(logger *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher starts watching dir. accept filters the reported paths.
func NewWatcher(dir string, accept func(path string) bool, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(abs); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		dir:     abs,
		accept:  accept,
		delay:   250 * time.Millisecond,
		logger:  zap.NewNop(),
		pending: make(map[string]*time.Timer),
		paths:   make(chan string, 64),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Paths returns the channel of reported paths.
func (w *Watcher) Paths() <-chan string {
	return w.paths
}

// Drain returns every path reported so far without blocking.
func (w *Watcher) Drain() []string {
	var out []string
	for {
		select {
		case p, ok := <-w.paths:
			if !ok {
				return out
			}
			out = append(out, p)
		default:
			return out
		}
	}
}

// Close stops the watcher and closes the path channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	close(w.closeCh)
	close(w.paths)
	w.mu.Unlock()

	w.closedWg.Wait()
	return w.fsw.Close()
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("plugin directory watch error", zap.String("dir", w.dir), zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	if !w.accept(ev.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.pending[ev.Name]; ok {
		t.Reset(w.delay)
		return
	}
	path := ev.Name
	w.pending[path] = time.AfterFunc(w.delay, func() { w.fire(path) })
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	delete(w.pending, path)

	select {
	case w.paths <- path:
		w.logger.Debug("plugin file changed", zap.String("path", path))
	default:
		w.logger.Warn("plugin watch queue full, dropping path", zap.String("path", path))
	}
}
