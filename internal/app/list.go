package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/brewstrap/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed formulas with versions",
	Long: `List every formula installed under the vendored prefix.

Bottle status is not reported: brew's list output does not expose it.
Use 'brewstrap info <formula>' for the full record.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	RootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	prefix, err := getPrefix()
	if err != nil {
		return err
	}

	packages, err := newManager(prefix).List()
	if err != nil {
		return err
	}

	fmt.Print(output.RenderPackageTable(packages, false))
	return nil
}
