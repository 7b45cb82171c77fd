package tasks

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a path must stay quiet before it is uploaded.
const DefaultDebounce = 250 * time.Millisecond

// WatchOpts configure a [DirWatcher].
type WatchOpts struct {
	Debounce time.Duration
	Logger   *log.Logger
	Progress chan<- ProgressUpdate
}

// DirWatcher uploads files created or rewritten in a directory.
//
// Each path is uploaded once its events stop for the debounce period, so a file written in
// several chunks is uploaded once with its final content. Rewriting a file later uploads it again
// under a new index.
type DirWatcher struct {
	dir      string
	uploader Uploader
	debounce time.Duration
	logger   *log.Logger
	progress chan<- ProgressUpdate

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}

	mu      sync.Mutex
	pending map[string]*pendingUpload
	started bool
	stopped bool
	flushes sync.WaitGroup
}

// NewDirWatcher creates a watcher for dir. Call [DirWatcher.Start] to begin uploading.
func NewDirWatcher(dir string, uploader Uploader, opts WatchOpts) (*DirWatcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &DirWatcher{
		dir:      dir,
		uploader: uploader,
		debounce: opts.Debounce,
		logger:   opts.Logger.With("component", "watcher"),
		progress: opts.Progress,
		watcher:  w,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		pending:  make(map[string]*pendingUpload),
	}, nil
}

// Dir returns the watched directory.
func (w *DirWatcher) Dir() string { return w.dir }

// Start begins watching. Calling it more than once has no effect.
func (w *DirWatcher) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()

	w.logger.Info("watching directory", "dir", w.dir, "debounce", w.debounce)
	go w.run()
}

func (w *DirWatcher) run() {
	defer close(w.doneCh)

	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 && !ignored(ev.Name) {
				sendProgress(w.progress, watchEventUpdate(ev.Name, ev.Op.String()))
				w.schedule(ev.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "err", err)
		}
	}
}

type pendingUpload struct {
	timer *time.Timer
}

// schedule (re)arms the debounce timer for path.
func (w *DirWatcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if p, ok := w.pending[path]; ok && p.timer.Stop() {
		p.timer.Reset(w.debounce)
		return
	}

	p := &pendingUpload{}
	w.flushes.Add(1)
	p.timer = time.AfterFunc(w.debounce, func() {
		defer w.flushes.Done()
		w.flush(path, p)
	})
	w.pending[path] = p
}

// flush uploads path if it is still a regular file.
func (w *DirWatcher) flush(path string, p *pendingUpload) {
	w.mu.Lock()
	if w.pending[path] == p {
		delete(w.pending, path)
	}
	stopped := w.stopped
	w.mu.Unlock()

	if stopped {
		return
	}

	data, err := readRegularFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			w.logger.Debug("skipping path", "path", path, "err", err)
		}
		return
	}

	name := filepath.Base(path)
	index := w.uploader.UploadFile(name, data)
	w.logger.Info("uploaded watched file", "name", name, "index", index)
	sendProgress(w.progress, uploadedUpdate(0, 0, name, index))
}

// Stop stops watching and cancels uploads that have not fired yet.
func (w *DirWatcher) Stop() error {
	w.mu.Lock()
	started := w.started
	w.stopped = true
	for path, p := range w.pending {
		if p.timer.Stop() {
			w.flushes.Done()
		}
		delete(w.pending, path)
	}
	w.mu.Unlock()

	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}

	if started {
		<-w.doneCh
	}
	w.flushes.Wait()

	return w.watcher.Close()
}

// ignored reports whether name looks like a hidden, temporary or backup file.
func ignored(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp") ||
		strings.HasSuffix(name, ".tmp") ||
		strings.HasSuffix(name, ".part") ||
		strings.HasSuffix(name, ".crdownload")
}
