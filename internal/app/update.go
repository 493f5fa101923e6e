package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/brewstrap/internal/brew"
	"github.com/blackwell-systems/brewstrap/internal/store"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Sync the brew and tap clones, then upgrade",
	Long: `Force-fetch and hard-reset the vendored brew clone and the tap clone to
their remote heads, then run the upgrade reconciliation.

No partial application: a brew clone sync failure prevents the tap sync
and the upgrade.`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	RootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	prefix, err := getPrefix()
	if err != nil {
		return err
	}
	mgr := newManager(prefix)
	installer := brew.NewInstaller(prefix, brew.NewRunner())

	if err := installer.Update(mgr); err != nil {
		return err
	}

	db, jerr := openJournal()
	if jerr == nil {
		defer db.Close()
		journalOp(db, &store.Operation{
			Package: "-",
			Action:  store.ActionSync,
			Detail:  "brew and tap clones synced, outdated formulas reconciled",
		})
	}

	fmt.Println("✓ Update complete")
	return nil
}
