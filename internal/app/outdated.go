package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/brewstrap/internal/output"
)

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "List installed formulas that are not current",
	Args:  cobra.NoArgs,
	RunE:  runOutdated,
}

func init() {
	RootCmd.AddCommand(outdatedCmd)
}

func runOutdated(cmd *cobra.Command, args []string) error {
	prefix, err := getPrefix()
	if err != nil {
		return err
	}

	packages, err := newManager(prefix).Outdated()
	if err != nil {
		return err
	}

	if len(packages) == 0 {
		fmt.Println("Everything is up to date.")
		return nil
	}
	fmt.Print(output.RenderPackageTable(packages, true))
	return nil
}
