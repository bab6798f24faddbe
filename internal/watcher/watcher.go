// Package watcher reports changes to notebook files on disk.
//
// Files are watched through their parent directory so that editors which
// save by writing a temporary file and renaming it over the original are
// still seen. Bursts of events for a file are coalesced into one Event once
// the file has been quiet for the debounce interval.
package watcher

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/notebookconcat/internal/logger"
)

// Errors returned by the watcher.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
	ErrNotWatching     = errors.New("path is not being watched")
	ErrPathNotExist    = errors.New("path does not exist")
)

// Op is a set of file operations.
type Op uint32

// File operations.
const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
)

// String returns the operations joined by "|".
func (op Op) String() string {
	var parts []string
	for _, o := range []struct {
		op   Op
		name string
	}{{OpCreate, "CREATE"}, {OpWrite, "WRITE"}, {OpRemove, "REMOVE"}, {OpRename, "RENAME"}} {
		if op.Has(o.op) {
			parts = append(parts, o.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// Has reports whether op includes o.
func (op Op) Has(o Op) bool {
	return op&o != 0
}

// Event is a coalesced change to one watched file.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Exists reports whether the file was present after the change.
func (e Event) Exists() bool {
	if e.Op.Has(OpRemove) || e.Op.Has(OpRename) {
		_, err := os.Stat(e.Path)
		return err == nil
	}
	return true
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before events are delivered.
// Zero delivers every event immediately.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// Watcher watches individual files.
type Watcher struct {
	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	files   map[string]bool
	dirs    map[string]int
	pending map[string]Event

	debounce time.Duration
	logger   *slog.Logger

	events chan Event
	errors chan error

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		pending:  make(map[string]Event),
		debounce: 200 * time.Millisecond,
		logger:   logger.Discard(),
		events:   make(chan Event, 16),
		errors:   make(chan error, 16),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.closedWg.Add(1)
	go w.processLoop()
	return w, nil
}

// Watch starts watching the file at path.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return ErrPathNotExist
		}
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[abs] {
		return ErrAlreadyWatching
	}

	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[abs] = true

	w.logger.Debug("watching file", "path", abs)
	return nil
}

// Unwatch stops watching the file at path.
func (w *Watcher) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if !w.files[abs] {
		return ErrNotWatching
	}

	delete(w.files, abs)
	delete(w.pending, abs)
	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		return w.fsw.Remove(dir)
	}
	return nil
}

// IsWatching reports whether path is watched.
func (w *Watcher) IsWatching(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[abs]
}

// Events returns the channel of coalesced file events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of watch errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and closes its channels. Pending events are
// dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()

	close(w.events)
	close(w.errors)
	return w.fsw.Close()
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.closeCh:
			return

		case fsEvent, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			ev, ok := w.convert(fsEvent)
			if !ok {
				continue
			}
			if w.debounce == 0 {
				w.send(ev)
				continue
			}
			w.queue(ev)
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
			select {
			case w.errors <- err:
			default:
			}

		case <-timer.C:
			for _, ev := range w.flush() {
				w.send(ev)
			}
		}
	}
}

// convert maps an fsnotify event for a watched file to an Event.
func (w *Watcher) convert(fsEvent fsnotify.Event) (Event, bool) {
	abs, err := filepath.Abs(fsEvent.Name)
	if err != nil {
		return Event{}, false
	}

	w.mu.Lock()
	watched := w.files[abs]
	w.mu.Unlock()
	if !watched {
		return Event{}, false
	}

	op := convertOp(fsEvent.Op)
	if op == 0 {
		return Event{}, false
	}
	return Event{Path: abs, Op: op, Time: time.Now()}, true
}

func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}

// queue merges ev into the pending event for its path.
func (w *Watcher) queue(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.pending[ev.Path]; ok {
		ev.Op |= p.Op
	}
	w.pending[ev.Path] = ev
}

// flush removes and returns every pending event.
func (w *Watcher) flush() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()

	events := make([]Event, 0, len(w.pending))
	for path, ev := range w.pending {
		events = append(events, ev)
		delete(w.pending, path)
	}
	return events
}

func (w *Watcher) send(ev Event) {
	select {
	case w.events <- ev:
	case <-w.closeCh:
	}
}
