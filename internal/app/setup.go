package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/brewstrap/internal/brew"
	"github.com/blackwell-systems/brewstrap/internal/shell"
	"github.com/blackwell-systems/brewstrap/internal/store"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Bootstrap the vendored Homebrew prefix",
	Long: `Bootstrap (or repair) the vendored Homebrew under the installation prefix.

Safe to run repeatedly: each step checks current state before acting.

Steps:
  • Create the installation prefix
  • Shallow-clone brew at the pinned branch, or repair a foreign clone
  • Remove the obsolete flat tap directory and prune orphaned state
  • Fetch the portable binary-patching tools
  • Tap the brewstrap formula channel
  • Add the prefix bin directory to the shell config`,
	RunE: runSetup,
}

func init() {
	RootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	prefix, err := getPrefix()
	if err != nil {
		return err
	}

	installer := brew.NewInstaller(prefix, brew.NewRunner())
	if err := installer.EnsureInstalled(); err != nil {
		return err
	}
	fmt.Printf("✓ Vendored brew ready at %s\n", prefix.Root)

	added, configFile, err := shell.EnsurePathEntry(prefix.Bin())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not update shell config: %v\n", err)
	} else if added {
		fmt.Printf("✓ Added %s to PATH via %s (restart your shell)\n", prefix.Bin(), configFile)
	}

	db, err := openJournal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return nil
	}
	defer db.Close()
	journalOp(db, &store.Operation{
		Package: "-",
		Action:  store.ActionBootstrap,
		Detail:  "prefix " + prefix.Root,
	})

	return nil
}
