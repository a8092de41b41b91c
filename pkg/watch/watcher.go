// Package watch re-runs a comparison whenever one of its input files
// changes on disk, so a report stays current while a statute draft is
// being edited.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/fsnotify.v1"
)

// DefaultDebounce is how long the watcher waits after the last change
// before firing. Editors often write a file several times in quick
// succession; the debounce collapses those into one callback.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a fixed set of files and invokes a callback after any
// of them changes.
type Watcher struct {
	paths    map[string]bool // cleaned absolute paths to react to
	onChange func(path string)
	debounce time.Duration
	logger   hclog.Logger

	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	running  bool
	mu       sync.Mutex
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the debounce interval.
func WithDebounce(debounce time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = debounce
	}
}

// WithLogger attaches a logger for watch events.
func WithLogger(logger hclog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New creates a watcher over the given files. The callback receives the
// path of the file that changed; it runs on the watcher's goroutine, so a
// slow callback delays later events rather than overlapping them.
func New(paths []string, onChange func(path string), options ...Option) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if onChange == nil {
		return nil, fmt.Errorf("change callback is required")
	}

	w := &Watcher{
		paths:    make(map[string]bool, len(paths)),
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   hclog.NewNullLogger(),
	}
	for _, path := range paths {
		absolute, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolving watch path %s: %w", path, err)
		}
		w.paths[filepath.Clean(absolute)] = true
	}
	for _, option := range options {
		option(w)
	}
	return w, nil
}

// Start begins watching. The parent directories are registered rather
// than the files themselves: editors that save via rename-and-replace
// would otherwise drop the watch on the first save.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	directories := make(map[string]bool)
	for path := range w.paths {
		directories[filepath.Dir(path)] = true
	}
	for directory := range directories {
		if err := watcher.Add(directory); err != nil {
			watcher.Close()
			return fmt.Errorf("watching directory %s: %w", directory, err)
		}
	}

	w.watcher = watcher
	w.stopChan = make(chan struct{})
	w.running = true

	go w.watchLoop()
	return nil
}

// Stop stops the watcher. A pending debounced callback is discarded.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return fmt.Errorf("watcher is not running")
	}

	close(w.stopChan)
	w.watcher.Close()
	w.running = false
	return nil
}

// watchLoop dispatches file events until Stop is called.
func (w *Watcher) watchLoop() {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var pending string

	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.paths[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			w.logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
			pending = event.Name
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			w.onChange(pending)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}
