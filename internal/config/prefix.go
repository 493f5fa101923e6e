// Package config defines the installation-prefix layout for the vendored
// Homebrew and the process environment it requires.
package config

import (
	"os"
	"path/filepath"
)

// Tap identity for the formula channel brewstrap installs from. The tap
// is cloned by brew into Library/Taps/<org>/homebrew-<repo>.
const (
	TapOrg  = "blackwell-systems"
	TapRepo = "vendored"
)

// TapID is the identifier passed to `brew tap`.
const TapID = TapOrg + "/" + TapRepo

// Prefix is the absolute path under which the vendored brew clone, its
// tap, and every installed keg live. It is constructed once at startup
// and passed to every component; there is no process-wide singleton, so
// tests can point components at an isolated directory.
type Prefix struct {
	Root string
}

// New returns a Prefix rooted at root.
func New(root string) *Prefix {
	return &Prefix{Root: root}
}

// DefaultRoot derives the installation prefix from the running binary's
// own install directory, so every invocation of the same brewstrap build
// resolves the same prefix regardless of caller or working directory.
func DefaultRoot() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(exe), "..", "homebrew"), nil
}

// Brew returns the path of the vendored brew executable.
func (p *Prefix) Brew() string {
	return filepath.Join(p.Root, "bin", "brew")
}

// Bin returns the backend's binary directory.
func (p *Prefix) Bin() string {
	return filepath.Join(p.Root, "bin")
}

// Sbin returns the backend's admin-binary directory.
func (p *Prefix) Sbin() string {
	return filepath.Join(p.Root, "sbin")
}

// Lib returns the shared-library directory installed kegs link into.
func (p *Prefix) Lib() string {
	return filepath.Join(p.Root, "lib")
}

// Cellar returns the per-formula, per-version install root.
func (p *Prefix) Cellar() string {
	return filepath.Join(p.Root, "Cellar")
}

// CellarFor returns the cellar directory of a single formula; its
// subdirectories are the installed versions.
func (p *Prefix) CellarFor(name string) string {
	return filepath.Join(p.Cellar(), name)
}

// LinkedKegs returns the directory of symbolic markers for linked kegs.
func (p *Prefix) LinkedKegs() string {
	return filepath.Join(p.Root, "Library", "LinkedKegs")
}

// TapDir returns the clone directory of the brewstrap tap.
func (p *Prefix) TapDir() string {
	return filepath.Join(p.Root, "Library", "Taps", TapOrg, "homebrew-"+TapRepo)
}

// ObsoleteTapDir returns the flat tap directory used before Homebrew
// nested taps under an organization directory. EnsureInstalled removes it
// when found.
func (p *Prefix) ObsoleteTapDir() string {
	return filepath.Join(p.Root, "Library", "Taps", TapOrg+"-"+TapRepo)
}

// FormulaPath returns where the tap would hold the formula file for name.
func (p *Prefix) FormulaPath(name string) string {
	return filepath.Join(p.TapDir(), "Formula", name+".rb")
}

// QualifiedFormula returns the tap-qualified formula name.
func QualifiedFormula(name string) string {
	return TapID + "/" + name
}
