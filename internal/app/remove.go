package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/brewstrap/internal/store"
)

var removeCmd = &cobra.Command{
	Use:   "remove <formula>...",
	Short: "Force-remove installed formulas",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRemove,
}

func init() {
	RootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	prefix, err := getPrefix()
	if err != nil {
		return err
	}
	mgr := newManager(prefix)

	db, err := openJournal()
	if err != nil {
		db = nil
	} else {
		defer db.Close()
	}

	for _, name := range args {
		if err := mgr.Remove(name); err != nil {
			return err
		}
		journalOp(db, &store.Operation{
			Package: name,
			Action:  store.ActionRemove,
		})
		fmt.Printf("✓ Removed %s\n", name)
	}
	return nil
}
