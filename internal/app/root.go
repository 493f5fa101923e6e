package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/brewstrap/internal/config"
)

var (
	prefixRoot string

	// RootCmd is the root command for brewstrap
	RootCmd = &cobra.Command{
		Use:   "brewstrap",
		Short: "Bootstrap and drive a vendored, per-project Homebrew",
		Long: `brewstrap maintains a private Homebrew clone under an isolated
installation prefix and installs native library dependencies from a
dedicated tap, without touching any system-wide Homebrew the user may
already have.

Quick Start:
  1. brewstrap setup
  2. brewstrap install <formula>
  3. brewstrap outdated
  4. brewstrap upgrade

Features:
  • Self-repairing vendored brew clone pinned to a known branch
  • Bottle-first installs from the brewstrap tap
  • Explicit remove-then-reinstall upgrades (never brew's bulk upgrade)
  • Append-only journal of every prefix mutation
  • Cellar watcher for changes made behind brewstrap's back

Examples:
  # Bootstrap the vendored prefix
  brewstrap setup

  # Install a native library
  brewstrap install libsndfile

  # Show what would be upgraded
  brewstrap outdated

  # Reconcile everything to current tap versions
  brewstrap upgrade`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("brewstrap: vendored Homebrew bootstrap and package reconciliation")
			fmt.Println()
			fmt.Println("Run 'brewstrap setup' to bootstrap the vendored prefix.")
			fmt.Println("Run 'brewstrap --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&prefixRoot, "prefix", "", "installation prefix (default: derived from the brewstrap binary location)")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

// getPrefix resolves the installation prefix from the flag or the default
// derivation and applies the process environment exactly once.
func getPrefix() (*config.Prefix, error) {
	root := prefixRoot
	if root == "" {
		derived, err := config.DefaultRoot()
		if err != nil {
			return nil, fmt.Errorf("cannot derive installation prefix: %w", err)
		}
		root = derived
	}

	prefix := config.New(root)
	if err := applyEnvOnce(prefix); err != nil {
		return nil, err
	}
	return prefix, nil
}
