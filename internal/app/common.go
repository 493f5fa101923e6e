package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blackwell-systems/brewstrap/internal/brew"
	"github.com/blackwell-systems/brewstrap/internal/config"
	"github.com/blackwell-systems/brewstrap/internal/store"
)

var envOnce sync.Once

// applyEnvOnce applies the prefix's environment mutations a single time
// per process, before the first brew command.
func applyEnvOnce(prefix *config.Prefix) error {
	var err error
	envOnce.Do(func() {
		err = prefix.ApplyEnv()
	})
	return err
}

// newManager builds the reconciliation manager for the resolved prefix.
func newManager(prefix *config.Prefix) *brew.Manager {
	return brew.NewManager(prefix, brew.NewRunner())
}

// getJournalPath returns the journal database path, creating its parent
// directory. Uses $HOME/.brewstrap/journal.db.
func getJournalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	dir := filepath.Join(home, ".brewstrap")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create brewstrap directory: %w", err)
	}

	return filepath.Join(dir, "journal.db"), nil
}

// openJournal opens the journal and ensures its schema exists.
func openJournal() (*store.Store, error) {
	path, err := getJournalPath()
	if err != nil {
		return nil, err
	}

	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if err := db.CreateSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// kegVersion extracts the version component from a keg prefix path
// (Cellar/<name>/<version>).
func kegVersion(kegPath string) string {
	return filepath.Base(kegPath)
}

// journalOp records an operation, degrading to a stderr warning when the
// journal is unavailable. Journaling never fails a mutation that already
// succeeded against the backend.
func journalOp(db *store.Store, op *store.Operation) {
	if db == nil {
		return
	}
	if err := db.RecordOperation(op); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not journal %s of %s: %v\n", op.Action, op.Package, err)
	}
}
