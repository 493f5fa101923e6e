package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/brewstrap/internal/store"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Reinstall every outdated formula at its current tap version",
	Long: `Upgrade all outdated formulas by removing and reinstalling each one.

brew's native bulk upgrade is deliberately not used: in a vendored install
the replacement must come from the brewstrap tap, not from brew's default
upstream. The sequence stops at the first failure; formulas already
processed stay upgraded and the remainder stay at their old version.`,
	Args: cobra.NoArgs,
	RunE: runUpgrade,
}

func init() {
	RootCmd.AddCommand(upgradeCmd)
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	prefix, err := getPrefix()
	if err != nil {
		return err
	}
	mgr := newManager(prefix)

	outdated, err := mgr.Outdated()
	if err != nil {
		return err
	}
	if len(outdated) == 0 {
		fmt.Println("Everything is up to date.")
		return nil
	}
	fmt.Printf("Upgrading %d formula(s)...\n", len(outdated))

	db, jerr := openJournal()
	if jerr != nil {
		db = nil
	} else {
		defer db.Close()
	}

	if err := mgr.Upgrade(); err != nil {
		return fmt.Errorf("upgrade stopped early (already-processed formulas stay upgraded): %w", err)
	}

	for _, pkg := range outdated {
		journalOp(db, &store.Operation{
			Package: pkg.Name,
			Action:  store.ActionUpgrade,
			Version: pkg.Version,
		})
	}
	fmt.Printf("✓ Upgraded %d formula(s)\n", len(outdated))
	return nil
}
