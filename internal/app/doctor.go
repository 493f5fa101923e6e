package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/brewstrap/internal/brew"
	"github.com/blackwell-systems/brewstrap/internal/config"
	"github.com/blackwell-systems/brewstrap/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose common issues with the vendored prefix",
	Long: `Runs diagnostic checks on the brewstrap installation.

Checks:
  • Installation prefix exists
  • Vendored brew executable is present
  • Clone remote matches the canonical repository
  • brewstrap tap is present
  • Cache directory is resolvable
  • Journal is accessible`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println("Running brewstrap diagnostics...")
	fmt.Println()

	issues := 0

	prefix, err := getPrefix()
	if err != nil {
		fmt.Println("✗ Cannot resolve installation prefix:", err)
		fmt.Println("  Action: pass --prefix explicitly")
		return fmt.Errorf("doctor found fatal issues")
	}

	if _, err := os.Stat(prefix.Root); os.IsNotExist(err) {
		fmt.Println("✗ Installation prefix missing:", prefix.Root)
		fmt.Println("  Action: run 'brewstrap setup'")
		issues++
	} else {
		fmt.Println("✓ Installation prefix:", prefix.Root)
	}

	if _, err := os.Stat(prefix.Brew()); os.IsNotExist(err) {
		fmt.Println("✗ Vendored brew not found at:", prefix.Brew())
		fmt.Println("  Action: run 'brewstrap setup'")
		issues++
	} else {
		fmt.Println("✓ Vendored brew present")

		installer := brew.NewInstaller(prefix, brew.NewRunner())
		if remote, ok := installer.RemoteCanonical(); ok {
			fmt.Println("✓ Clone remote is canonical")
		} else {
			fmt.Printf("✗ Clone remote is %q, not the canonical repository\n", remote)
			fmt.Println("  Action: run 'brewstrap setup' to repair the clone")
			issues++
		}
	}

	if _, err := os.Stat(prefix.TapDir()); os.IsNotExist(err) {
		fmt.Printf("✗ Tap %s not present\n", config.TapID)
		fmt.Println("  Action: run 'brewstrap setup'")
		issues++
	} else {
		fmt.Printf("✓ Tap %s present\n", config.TapID)
	}

	if cache, err := config.CacheDir(); err != nil {
		fmt.Println("⚠ Cannot resolve cache directory:", err)
		issues++
	} else {
		fmt.Println("✓ Cache directory:", cache)
	}

	if db, err := openJournal(); err != nil {
		fmt.Println("⚠ Journal unavailable:", err)
		issues++
	} else {
		if _, err := db.ListOperations(1); err != nil && !errors.Is(err, store.ErrNotInitialized) {
			fmt.Println("⚠ Journal not readable:", err)
			issues++
		} else {
			fmt.Println("✓ Journal accessible")
		}
		db.Close()
	}

	fmt.Println()
	if issues > 0 {
		return fmt.Errorf("doctor found %d issue(s)", issues)
	}
	fmt.Println("No issues found.")
	return nil
}
