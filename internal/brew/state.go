package brew

import (
	"fmt"
	"os"
	"strings"

	"github.com/blackwell-systems/brewstrap/internal/config"
)

// Manager reconciles package state against the vendored brew. It keeps no
// cache: brew's own output is the sole source of truth for installed and
// outdated state, so every query goes back to the backend (or to the
// cellar directories it maintains).
//
// Operations are blocking external-process invocations with no timeout and
// no retry; callers that share a prefix across processes must serialize
// access themselves.
type Manager struct {
	prefix *config.Prefix
	runner Runner
}

// NewManager returns a Manager operating on the given prefix.
func NewManager(prefix *config.Prefix, runner Runner) *Manager {
	return &Manager{prefix: prefix, runner: runner}
}

// List returns every installed formula with its installed version, from
// `brew list --versions`. Empty output means nothing is installed and
// yields an empty slice, not an error.
//
// Each output line is "name v1 [v2 ...]"; the last column is the newest
// keg and becomes the record's version. Bottle status is not exposed by
// this command, so Bottled is always false here (see Package.Bottled).
func (m *Manager) List() ([]*Package, error) {
	out, err := m.runner.Output("", m.prefix.Brew(), "list", "--versions")
	if err != nil {
		return nil, fmt.Errorf("brew list failed: %w", err)
	}

	var packages []*Package
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		packages = append(packages, &Package{
			Name:    fields[0],
			Version: fields[len(fields)-1],
		})
	}
	return packages, nil
}

// Outdated returns a full record for every installed formula that is not
// current. brew reports the names; Info resolves each one. A name that
// fails the Info lookup propagates that failure rather than being skipped,
// so a broken tap entry is never silently ignored.
func (m *Manager) Outdated() ([]*Package, error) {
	out, err := m.runner.Output("", m.prefix.Brew(), "outdated")
	if err != nil {
		return nil, fmt.Errorf("brew outdated failed: %w", err)
	}

	var packages []*Package
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		pkg, err := m.Info(name)
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}
	return packages, nil
}

// Info queries brew for a single formula and parses the result. It runs
// from the tap's working directory and prefers the tap-qualified name when
// the tap carries a formula file for name, so tap formulas always win over
// same-named upstream ones.
func (m *Manager) Info(name string) (*Package, error) {
	out, err := m.runner.Output(m.prefix.TapDir(), m.prefix.Brew(), "info", "--json=v1", m.formulaArg(name))
	if err != nil {
		return nil, &NotFoundError{Name: name, Err: err}
	}

	pkg, err := parseInfo(out)
	if err != nil {
		return nil, &NotFoundError{Name: name, Err: err}
	}
	return pkg, nil
}

// Installed reports whether any version of name has a cellar directory.
// Purely a filesystem check; brew is not invoked.
func (m *Manager) Installed(name string) bool {
	entries, err := os.ReadDir(m.prefix.CellarFor(name))
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			return true
		}
	}
	return false
}

// Linked reports whether a linked-keg marker exists for name. Purely a
// filesystem check; brew is not invoked.
func (m *Manager) Linked(name string) bool {
	_, err := os.Lstat(m.prefix.LinkedKegs() + "/" + name)
	return err == nil
}

// KegPrefix returns the install directory of the active version of name:
// the maximum Version among the cellar subdirectories. Version ordering is
// numeric, not lexical ("1.10.0" beats "1.9.0"). A cellar entry whose name
// does not parse as a version is a reported error, and a formula with no
// cellar entries fails with *NotInstalledError.
func (m *Manager) KegPrefix(name string) (string, error) {
	cellar := m.prefix.CellarFor(name)
	entries, err := os.ReadDir(cellar)
	if err != nil {
		return "", &NotInstalledError{Name: name}
	}

	var best Version
	found := false
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		v, err := ParseVersion(entry.Name())
		if err != nil {
			return "", fmt.Errorf("cellar entry %s/%s: %w", name, entry.Name(), err)
		}
		if !found || best.Less(v) {
			best = v
			found = true
		}
	}
	if !found {
		return "", &NotInstalledError{Name: name}
	}
	return cellar + "/" + best.String(), nil
}

// Add installs name, preferring a precompiled bottle, and links it.
//
// The unlink and link steps are each tolerant of already-satisfied state:
// unlinking an unlinked keg exits non-zero and linking a keg-only formula
// is refused, and neither outcome should fail the install. Only the
// install step itself is fatal. Add is therefore idempotent from every
// package state.
func (m *Manager) Add(name string) error {
	tapDir := m.prefix.TapDir()

	if m.Linked(name) {
		if err := m.runner.Run(tapDir, StdioSilenceStdout, m.prefix.Brew(), "unlink", "--quiet", name); err != nil {
			fmt.Fprintf(os.Stderr, "brewstrap: unlink %s before install: %v\n", name, err)
		}
	}

	if err := m.runner.Run(tapDir, StdioInherit, m.prefix.Brew(), "install", "--force-bottle", m.formulaArg(name)); err != nil {
		return fmt.Errorf("install %s: %w", name, err)
	}

	// Keg-only formulas refuse to link by design; that is not a failure.
	if err := m.runner.Run(tapDir, StdioSilenceStdout, m.prefix.Brew(), "link", name); err != nil {
		fmt.Fprintf(os.Stderr, "brewstrap: link %s: %v\n", name, err)
	}
	return nil
}

// Remove force-uninstalls name. Failure is fatal and carries the name.
func (m *Manager) Remove(name string) error {
	if err := m.runner.Run("", StdioInherit, m.prefix.Brew(), "rm", "--force", name); err != nil {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

// Upgrade reinstalls every outdated formula as an explicit remove-then-add
// sequence. brew's native bulk upgrade is deliberately not used: in a
// vendored install the replacement must come from this tool's own tap, not
// from whatever brew's default upstream currently publishes.
//
// A failure partway through stops the run. Formulas already processed stay
// at their new version and the remainder stay outdated; there is no
// rollback. Callers auditing partial upgrades must inspect the error.
func (m *Manager) Upgrade() error {
	outdated, err := m.Outdated()
	if err != nil {
		return err
	}
	for _, pkg := range outdated {
		if err := m.Remove(pkg.Name); err != nil {
			return err
		}
		if err := m.Add(pkg.Name); err != nil {
			return err
		}
	}
	return nil
}

// formulaArg returns the tap-qualified name when the tap has a local
// formula file for name, the bare name otherwise.
func (m *Manager) formulaArg(name string) string {
	if _, err := os.Stat(m.prefix.FormulaPath(name)); err == nil {
		return config.QualifiedFormula(name)
	}
	return name
}
