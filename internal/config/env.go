package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CacheDir returns the brew cache location used by brewstrap: a namespaced
// directory under the user's home, so the vendored brew never shares a
// cache with a separately managed Homebrew install.
func CacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "brewstrap"), nil
}

// ApplyEnv applies the process-wide environment the vendored brew and its
// kegs require. Called once per process, before any brew command runs.
// Each mutation checks current state first, so repeated calls are no-ops:
//   - prepend <prefix>/bin and <prefix>/sbin to PATH
//   - append <prefix>/lib to LD_LIBRARY_PATH
//   - point HOMEBREW_CACHE at the namespaced cache directory
//
// Directory existence is not checked here; brew creates what it needs on
// first use.
func (p *Prefix) ApplyEnv() error {
	prependPathEntry(p.Sbin())
	prependPathEntry(p.Bin())
	appendListEntry("LD_LIBRARY_PATH", p.Lib())

	cache, err := CacheDir()
	if err != nil {
		return err
	}
	return os.Setenv("HOMEBREW_CACHE", cache)
}

// prependPathEntry puts dir at the front of PATH unless already present.
func prependPathEntry(dir string) {
	path := os.Getenv("PATH")
	for _, entry := range filepath.SplitList(path) {
		if entry == dir {
			return
		}
	}
	if path == "" {
		os.Setenv("PATH", dir)
		return
	}
	os.Setenv("PATH", dir+string(os.PathListSeparator)+path)
}

// appendListEntry puts dir at the end of the named list variable unless
// already present.
func appendListEntry(key, dir string) {
	val := os.Getenv(key)
	for _, entry := range filepath.SplitList(val) {
		if entry == dir {
			return
		}
	}
	if val == "" {
		os.Setenv(key, dir)
		return
	}
	os.Setenv(key, strings.TrimRight(val, string(os.PathListSeparator))+string(os.PathListSeparator)+dir)
}
