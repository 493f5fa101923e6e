// Package watcher observes the vendored Cellar for keg directories that
// appear or disappear outside brewstrap (e.g. a developer driving the
// vendored brew by hand) and journals those changes so the operation log
// stays an honest audit trail.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/blackwell-systems/brewstrap/internal/store"
)

// Watcher tails filesystem events on the Cellar directory and records a
// journal entry per created or removed formula directory. It watches the
// Cellar root only: brew creates Cellar/<formula> when installing the
// first keg and removes it with the last one, so root-level events are
// exactly the package-level transitions.
type Watcher struct {
	cellar string
	store  *store.Store
	fsw    *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a Watcher over the given cellar directory.
func New(cellar string, st *store.Store) (*Watcher, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	return &Watcher{
		cellar: cellar,
		store:  st,
		stopCh: make(chan struct{}),
	}, nil
}

// Start begins watching. The cellar directory is created when missing so
// a watch can start before the first install.
func (w *Watcher) Start() error {
	if err := os.MkdirAll(w.cellar, 0755); err != nil {
		return fmt.Errorf("cannot create cellar %s: %w", w.cellar, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(w.cellar); err != nil {
		fsw.Close()
		return fmt.Errorf("cannot watch %s: %w", w.cellar, err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.run()
	return nil
}

// run processes fsnotify events until the stop signal is received.
func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watcher: fsnotify error: %v\n", err)
		case <-w.stopCh:
			return
		}
	}
}

// handleEvent journals a create or remove of a direct cellar child.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if name == "" || name[0] == '.' {
		return
	}

	var action string
	switch {
	case event.Op&fsnotify.Create != 0:
		action = store.ActionKegAdded
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		action = store.ActionKegRemoved
	default:
		return
	}

	op := &store.Operation{
		Package: name,
		Action:  action,
		Detail:  "observed in cellar",
	}
	if err := w.store.RecordOperation(op); err != nil {
		fmt.Fprintf(os.Stderr, "watcher: cannot journal %s of %s: %v\n", action, name, err)
	}
}

// Stop halts the watcher and waits for the event loop to drain.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	var err error
	if w.fsw != nil {
		err = w.fsw.Close()
	}
	w.wg.Wait()
	return err
}
