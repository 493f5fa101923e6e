package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <formula>",
	Short: "Show the package record for a formula",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	RootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	prefix, err := getPrefix()
	if err != nil {
		return err
	}
	mgr := newManager(prefix)

	pkg, err := mgr.Info(args[0])
	if err != nil {
		return err
	}

	bottled := "no"
	if pkg.Bottled {
		bottled = "yes"
	}
	fmt.Printf("%s %s (bottled: %s)\n", pkg.Name, pkg.Version, bottled)

	if mgr.Installed(pkg.Name) {
		keg, err := mgr.KegPrefix(pkg.Name)
		if err != nil {
			return err
		}
		linked := "not linked"
		if mgr.Linked(pkg.Name) {
			linked = "linked"
		}
		fmt.Printf("Installed at %s (%s)\n", keg, linked)
	} else {
		fmt.Println("Not installed")
	}
	return nil
}
