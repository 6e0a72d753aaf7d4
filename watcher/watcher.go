// Package watcher wraps fsnotify into a recursive, debounced filesystem
// event source shaped for workspace/didChangeWatchedFiles: a small
// channel of (URI, ChangeType) pairs that both the LSP server and
// cmd/cjpm-watch can consume without depending on glsp directly.
package watcher

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/text/unicode/norm"
)

// ChangeType mirrors LSP's FileChangeType numbering so a caller can pass
// watcher events straight onto the wire without translation.
type ChangeType int

const (
	Created ChangeType = 1
	Changed ChangeType = 2
	Deleted ChangeType = 3
)

func (c ChangeType) String() string {
	switch c {
	case Created:
		return "created"
	case Changed:
		return "changed"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Event is one coalesced filesystem change, URI-addressed the way LSP's
// FileEvent is.
type Event struct {
	URI  string
	Type ChangeType
}

// Options configures a Watcher.
type Options struct {
	// DebounceMs groups rapid successive events for the same path into
	// one emitted Event. 0 selects a 200ms default.
	DebounceMs int
	// Exclude lists glob patterns (matched against the path's base name)
	// that are never watched and never emitted, e.g. "*.cjo.flag" noise
	// files or vendored directories.
	Exclude []string
}

func (o Options) debounce() time.Duration {
	if o.DebounceMs <= 0 {
		return 200 * time.Millisecond
	}
	return time.Duration(o.DebounceMs) * time.Millisecond
}

// Watcher recursively watches a root directory and emits debounced,
// exclude-filtered Events on its Events channel.
type Watcher struct {
	fsw     *fsnotify.Watcher
	logger  *slog.Logger
	options Options

	Events chan Event

	debounceMu     sync.Mutex
	debounceTimers map[string]*time.Timer
	pending        map[string]ChangeType

	stopOnce sync.Once
	stopChan chan struct{}
	started  bool
}

// New creates a Watcher. The caller must call Start to begin watching
// and Stop to release the underlying OS handles.
func New(options Options, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: create: %w", err)
	}
	return &Watcher{
		fsw:            fsw,
		logger:         logger.With(slog.String("component", "watcher")),
		options:        options,
		Events:         make(chan Event, 64),
		debounceTimers: make(map[string]*time.Timer),
		pending:        make(map[string]ChangeType),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start adds root and every non-excluded subdirectory to the watch set,
// then begins the background event loop. Safe to call once; a second
// call returns an error.
func (w *Watcher) Start(root string) error {
	if w.started {
		return fmt.Errorf("watcher: already started")
	}
	if err := w.fsw.Add(root); err != nil {
		return fmt.Errorf("watcher: watch %s: %w", root, err)
	}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // best-effort: skip unreadable entries
		}
		if !info.IsDir() {
			return nil
		}
		if w.shouldExclude(path) {
			return filepath.SkipDir
		}
		if path == root {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", slog.String("path", path), slog.Any("error", err))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watcher: walk %s: %w", root, err)
	}

	w.logger.Info("watching", slog.String("root", root))
	w.started = true
	go w.loop()
	return nil
}

// Stop shuts the watcher down and closes Events. Idempotent.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.debounceMu.Lock()
		for _, t := range w.debounceTimers {
			t.Stop()
		}
		w.debounceTimers = make(map[string]*time.Timer)
		w.debounceMu.Unlock()
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.Events)
	for {
		select {
		case <-w.stopChan:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if w.shouldExclude(ev.Name) {
		return
	}

	// A new directory needs its own watch added for recursive coverage.
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if !w.shouldExclude(ev.Name) {
				if err := w.fsw.Add(ev.Name); err != nil {
					w.logger.Warn("failed to watch new directory", slog.String("path", ev.Name), slog.Any("error", err))
				}
			}
			return
		}
	}

	var kind ChangeType
	switch {
	case ev.Op&fsnotify.Create == fsnotify.Create:
		kind = Created
	case ev.Op&fsnotify.Write == fsnotify.Write:
		kind = Changed
	case ev.Op&fsnotify.Remove == fsnotify.Remove, ev.Op&fsnotify.Rename == fsnotify.Rename:
		kind = Deleted
	default:
		return
	}

	w.debounce(ev.Name, kind)
}

// debounce coalesces rapid repeat events for the same path into a single
// emitted Event, keeping only the most recent ChangeType — a Deleted
// seen after a Changed within the debounce window should report Deleted,
// not the stale Changed.
func (w *Watcher) debounce(path string, kind ChangeType) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	w.pending[path] = kind
	if timer, exists := w.debounceTimers[path]; exists {
		timer.Stop()
	}

	w.debounceTimers[path] = time.AfterFunc(w.options.debounce(), func() {
		w.debounceMu.Lock()
		kind, ok := w.pending[path]
		delete(w.pending, path)
		delete(w.debounceTimers, path)
		w.debounceMu.Unlock()
		if !ok {
			return
		}
		select {
		case w.Events <- Event{URI: PathToURI(path), Type: kind}:
		case <-w.stopChan:
		}
	})
}

func (w *Watcher) shouldExclude(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.options.Exclude {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	switch base {
	case ".git", "node_modules", ".cjpm":
		return true
	}
	return false
}

// PathToURI renders an absolute filesystem path as a file:// URI the way
// the rest of this module's LSP-facing packages expect. The path is
// normalized to NFC first: macOS's HFS+/APFS decompose accented
// filenames to NFD on disk, and a watch event's raw path would
// otherwise mismatch the NFC-composed URI the editor sent in
// textDocument/didOpen for the same file.
func PathToURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	slashed := filepath.ToSlash(abs)
	if len(slashed) == 0 || slashed[0] != '/' {
		slashed = "/" + slashed
	}
	return "file://" + norm.NFC.String(slashed)
}
