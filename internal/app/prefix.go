package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var prefixCmd = &cobra.Command{
	Use:   "prefix [<formula>]",
	Short: "Print the installation prefix, or a formula's active keg",
	Long: `Without arguments, print the installation prefix.

With a formula name, print the install directory of its active version:
the highest installed version under the formula's cellar, compared
numerically (1.10.0 beats 1.9.0).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrefix,
}

func init() {
	RootCmd.AddCommand(prefixCmd)
}

func runPrefix(cmd *cobra.Command, args []string) error {
	prefix, err := getPrefix()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Println(prefix.Root)
		return nil
	}

	keg, err := newManager(prefix).KegPrefix(args[0])
	if err != nil {
		return err
	}
	fmt.Println(keg)
	return nil
}
