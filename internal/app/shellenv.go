package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/brewstrap/internal/config"
)

var shellenvCmd = &cobra.Command{
	Use:   "shellenv",
	Short: "Print shell export lines for the vendored prefix",
	Long: `Print the environment exports the vendored brew and its kegs need.

Intended for eval in a shell profile:
  eval "$(brewstrap shellenv)"`,
	Args: cobra.NoArgs,
	RunE: runShellenv,
}

func init() {
	RootCmd.AddCommand(shellenvCmd)
}

func runShellenv(cmd *cobra.Command, args []string) error {
	prefix, err := getPrefix()
	if err != nil {
		return err
	}

	cache, err := config.CacheDir()
	if err != nil {
		return err
	}

	fmt.Printf("export PATH=%q:%q:$PATH\n", prefix.Bin(), prefix.Sbin())
	fmt.Printf("export LD_LIBRARY_PATH=$LD_LIBRARY_PATH:%q\n", prefix.Lib())
	fmt.Printf("export HOMEBREW_CACHE=%q\n", cache)
	return nil
}
