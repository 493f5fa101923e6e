package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/brewstrap/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the Cellar and journal external changes",
	Long: `Run a foreground watcher over the vendored Cellar.

Kegs that appear or disappear outside brewstrap (e.g. someone driving the
vendored brew by hand) are recorded in the journal, so the audit trail
stays honest. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	prefix, err := getPrefix()
	if err != nil {
		return err
	}

	db, err := openJournal()
	if err != nil {
		return err
	}
	defer db.Close()

	w, err := watcher.New(prefix.Cellar(), db)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}

	fmt.Printf("Watching %s (Ctrl-C to stop)\n", prefix.Cellar())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\nStopping watcher...")
	return w.Stop()
}
