package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/brewstrap/internal/output"
	"github.com/blackwell-systems/brewstrap/internal/store"
)

var (
	historyLimit   int
	historyPackage string

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show the journal of prefix mutations",
		Long: `Show journaled operations: bootstraps, installs, removals, upgrades,
clone syncs, and cellar changes observed by the watcher.

The journal is an audit log only; brewstrap never derives package state
from it.`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}
)

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "maximum operations to show (0 for all)")
	historyCmd.Flags().StringVar(&historyPackage, "package", "", "only show operations for this formula")
	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openJournal()
	if err != nil {
		return err
	}
	defer db.Close()

	var ops []*store.Operation
	if historyPackage != "" {
		ops, err = db.PackageHistory(historyPackage)
	} else {
		ops, err = db.ListOperations(historyLimit)
	}
	if err != nil {
		return err
	}

	fmt.Print(output.RenderHistoryTable(ops))
	return nil
}
