package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/brewstrap/internal/store"
)

var installCmd = &cobra.Command{
	Use:   "install <formula>...",
	Short: "Install formulas from the vendored brew",
	Long: `Install one or more formulas, preferring precompiled bottles.

Formulas carried by the brewstrap tap are installed tap-qualified so they
always win over same-named upstream formulas. An already-installed formula
is reinstalled in place (unlink, install, link); the unlink and link steps
tolerate already-satisfied state, so repeating an install is harmless.`,
	Example: `  # Install a single library
  brewstrap install libsndfile

  # Install several at once
  brewstrap install libsndfile portaudio aubio`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInstall,
}

func init() {
	RootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
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
		if err := mgr.Add(name); err != nil {
			return err
		}

		version := ""
		if keg, kerr := mgr.KegPrefix(name); kerr == nil {
			version = kegVersion(keg)
		}
		journalOp(db, &store.Operation{
			Package: name,
			Action:  store.ActionInstall,
			Version: version,
		})
		fmt.Printf("✓ Installed %s\n", name)
	}
	return nil
}
