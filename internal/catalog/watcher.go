package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"hrintel/internal/errors"
)

// Watcher reloads a catalog file into a Holder whenever it changes on disk.
type Watcher struct {
	mu sync.Mutex

	path    string
	holder  *Holder
	lastMod time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}
	doneChan   chan struct{}

	onReload func(err error)
	logger   *errors.Logger

	running bool
}

// NewWatcher creates a watcher for path. onReload, if set, is called after
// every reload attempt with its result.
func NewWatcher(path string, holder *Holder, debounceDelay time.Duration, onReload func(error), logger *errors.Logger) *Watcher {
	if debounceDelay <= 0 {
		debounceDelay = 500 * time.Millisecond
	}
	return &Watcher{
		path:          filepath.Clean(path),
		holder:        holder,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		doneChan:      make(chan struct{}),
		onReload:      onReload,
		logger:        logger,
	}
}

// Start begins watching the catalog file.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("catalog watcher is already running")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory so editors that replace the file by rename are seen.
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	if stat, err := os.Stat(w.path); err == nil {
		w.lastMod = stat.ModTime()
	}

	w.fsWatcher = fsw
	w.running = true
	go w.watchLoop()

	w.logger.Info("Catalog file watcher started", "file", w.path, "debounce_delay", w.debounceDelay)
	return nil
}

// Stop stops the watcher and waits for its loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	close(w.stopChan)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	err := w.fsWatcher.Close()
	w.running = false
	w.mu.Unlock()

	<-w.doneChan
	w.logger.Info("Catalog file watcher stopped")
	return err
}

// IsRunning reports whether the watcher loop is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) watchLoop() {
	defer close(w.doneChan)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.shouldProcessEvent(event) {
				w.scheduleReload()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.LogError(err, "Catalog watcher error")

		case <-w.reloadChan:
			if w.hasChanged() {
				w.reload()
			}

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) hasChanged() bool {
	stat, err := os.Stat(w.path)
	if err != nil {
		return false
	}
	if stat.ModTime().Equal(w.lastMod) {
		return false
	}
	w.lastMod = stat.ModTime()
	return true
}

func (w *Watcher) reload() {
	err := w.holder.ReloadFile(w.path)
	if err != nil {
		w.logger.LogError(err, "Catalog reload failed, keeping previous catalog", "file", w.path)
	} else {
		snap := w.holder.Snapshot()
		w.logger.Info("Catalog reloaded",
			"file", w.path,
			"version", snap.Version,
			"skills", len(snap.Catalog.Skills),
			"rules", len(snap.Catalog.Roles.Rules))
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case w.reloadChan <- struct{}{}:
		default:
		}
	})
}
