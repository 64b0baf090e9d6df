package gallery

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ExhibitWatcher reloads an exhibit file when it changes on disk. Reloads happen on
// the watcher goroutine; the frame loop picks up the latest result with Poll.
type ExhibitWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	log     Logger

	mu      sync.Mutex
	pending *Exhibit

	done chan struct{}
	wg   sync.WaitGroup
}

// WatchExhibit watches the directory holding path, so editors that replace the file
// by renaming are followed.
func WatchExhibit(path string, log Logger) (*ExhibitWatcher, error) {
	if log == nil {
		log = NewNopLogger()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating exhibit watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("error watching %s: %w", abs, err)
	}

	w := &ExhibitWatcher{
		path:    abs,
		watcher: watcher,
		log:     log,
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *ExhibitWatcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warnf("exhibit watcher: %v", err)
		}
	}
}

func (w *ExhibitWatcher) reload() {
	ex, err := LoadExhibit(w.path)
	if err != nil {
		// Half written files fail to parse; the next write event retries.
		w.log.Warnf("exhibit reload failed: %v", err)
		return
	}
	w.mu.Lock()
	w.pending = ex
	w.mu.Unlock()
}

// Poll returns the most recent reload not yet consumed.
func (w *ExhibitWatcher) Poll() (*Exhibit, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	ex := w.pending
	w.pending = nil
	return ex, ex != nil
}

func (w *ExhibitWatcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
