package index

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

const debounceDelay = 200 * time.Millisecond

// Watcher monitors the library for file changes and triggers re-indexing.
type Watcher struct {
	indexer  *Indexer
	watcher  *fsnotify.Watcher
	root     string
	debounce map[string]*time.Timer
	mu       sync.Mutex
	closed   bool
	onChange func(path string)
	onError  func(error)
	log      *log.Logger
}

// NewWatcher watches every non-hidden directory under the library root.
// onChange runs after a document was re-indexed or removed; onError runs
// once if the watcher fails.
func NewWatcher(indexer *Indexer, onChange func(string), onError func(error), logger *log.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}

	root := indexer.Library().Root
	w := &Watcher{
		indexer:  indexer,
		watcher:  fw,
		root:     root,
		debounce: make(map[string]*time.Timer),
		onChange: onChange,
		onError:  onError,
		log:      logger.With("component", "watcher"),
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
	if err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}
	return w, nil
}

// Start begins watching for changes. Blocks until Stop is called.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.log.Warn("event overflow, re-indexing")
				if _, err := w.indexer.IndexAll(); err != nil {
					w.fatal(err)
					return
				}
				w.notify("")
				continue
			}
			w.fatal(fmt.Errorf("watch: %w", err))
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if !strings.HasSuffix(path, ".md") {
		if event.Has(fsnotify.Create) {
			info, err := os.Stat(path)
			if err == nil && info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
				if err := w.watcher.Add(path); err != nil {
					w.log.Warn("watch new directory", "path", path, "err", err)
				}
			}
		}
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	w.debounce[path] = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		delete(w.debounce, path)
		closed := w.closed
		w.mu.Unlock()
		if closed {
			return
		}

		var err error
		if _, statErr := os.Stat(path); statErr != nil {
			err = w.indexer.RemoveFile(path)
		} else {
			err = w.indexer.IndexFile(path)
		}
		if err != nil {
			w.log.Error("reindex", "path", path, "err", err)
			return
		}
		w.log.Debug("reindexed", "path", path, "op", event.Op.String())
		w.notify(path)
	})
}

func (w *Watcher) notify(path string) {
	if w.onChange != nil {
		w.onChange(path)
	}
}

func (w *Watcher) fatal(err error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	onError := w.onError
	w.mu.Unlock()

	if onError != nil {
		onError(err)
	}
}

// Stop stops the watcher and pending re-index timers.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	w.closed = true
	for _, t := range w.debounce {
		t.Stop()
	}
	w.debounce = map[string]*time.Timer{}
	w.mu.Unlock()
	return w.watcher.Close()
}
