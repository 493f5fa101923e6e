package brew

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blackwell-systems/brewstrap/internal/config"
)

const (
	// brewRepoURL is the canonical repository of the vendored backend.
	brewRepoURL = "https://github.com/Homebrew/brew"
	// brewBranch is the pinned branch the clone tracks.
	brewBranch = "master"

	// defaultArtifactBaseURL serves the helper-tools bundle.
	defaultArtifactBaseURL = "https://artifacts.blackwell.systems/brewstrap"
	// toolsArchive is the tarball of binary-patching tools extracted into
	// the backend's bin directory.
	toolsArchive = "portable-tools.tar.gz"
	// toolsMarker is the file whose presence means the tools are installed.
	toolsMarker = "patchelf"

	// maxToolsArchiveSize caps the helper-tools download (64MB).
	maxToolsArchiveSize = 64 * 1024 * 1024
)

// Installer bootstraps the vendored brew under the installation prefix.
// EnsureInstalled is idempotent and safe to run on every process start.
type Installer struct {
	prefix          *config.Prefix
	runner          Runner
	client          *http.Client
	artifactBaseURL string
}

// InstallerOption configures an Installer.
type InstallerOption func(*Installer)

// WithHTTPClient sets a custom HTTP client for artifact downloads.
func WithHTTPClient(c *http.Client) InstallerOption {
	return func(i *Installer) { i.client = c }
}

// WithArtifactBaseURL overrides the artifact server base URL (for testing).
func WithArtifactBaseURL(url string) InstallerOption {
	return func(i *Installer) { i.artifactBaseURL = url }
}

// NewInstaller returns an Installer for the given prefix.
func NewInstaller(prefix *config.Prefix, runner Runner, opts ...InstallerOption) *Installer {
	inst := &Installer{
		prefix:          prefix,
		runner:          runner,
		artifactBaseURL: defaultArtifactBaseURL,
	}
	for _, opt := range opts {
		opt(inst)
	}
	if inst.client == nil {
		inst.client = &http.Client{Timeout: 5 * time.Minute}
	}
	return inst
}

// EnsureInstalled brings the vendored brew to a usable state:
//
//  1. create the prefix directory,
//  2. shallow-clone brew at the pinned branch when the executable is
//     missing,
//  3. repair an existing clone whose remote does not match the canonical
//     URL (rewrite remote + refspec, force-fetch, hard-reset; never a
//     merge),
//  4. remove the obsolete flat tap directory and prune orphaned state,
//  5. fetch the portable binary-patching tools when missing,
//  6. tap the brewstrap formula channel when absent.
//
// Every network or command failure is fatal to the call; there is no
// fallback to a stale clone and no retry.
func (i *Installer) EnsureInstalled() error {
	if err := os.MkdirAll(i.prefix.Root, 0755); err != nil {
		return fmt.Errorf("cannot create installation prefix %s: %w", i.prefix.Root, err)
	}

	if !isExecutable(i.prefix.Brew()) {
		err := i.runner.Run("", StdioInherit, "git",
			"clone", "--depth", "1", "--branch", brewBranch, brewRepoURL, i.prefix.Root)
		if err != nil {
			return &BootstrapError{Step: "clone", Source: brewRepoURL, Dest: i.prefix.Root, Err: err}
		}
	} else if err := i.repairRemoteIfForeign(); err != nil {
		return err
	}

	if _, err := os.Stat(i.prefix.ObsoleteTapDir()); err == nil {
		if err := os.RemoveAll(i.prefix.ObsoleteTapDir()); err != nil {
			return fmt.Errorf("cannot remove obsolete tap %s: %w", i.prefix.ObsoleteTapDir(), err)
		}
		if err := i.runner.Run("", StdioSilenceStdout, i.prefix.Brew(), "prune"); err != nil {
			return fmt.Errorf("brew prune after obsolete tap removal: %w", err)
		}
	}

	if _, err := os.Stat(filepath.Join(i.prefix.Bin(), toolsMarker)); os.IsNotExist(err) {
		if err := i.downloadTools(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(i.prefix.TapDir()); os.IsNotExist(err) {
		if err := i.runner.Run("", StdioSilenceStdout, i.prefix.Brew(), "tap", config.TapID); err != nil {
			return &BootstrapError{Step: "tap", Source: config.TapID, Dest: i.prefix.TapDir(), Err: err}
		}
	}

	return nil
}

// repairRemoteIfForeign checks the clone's configured remote and, when it
// does not match the canonical URL (a prior partial or foreign clone
// occupies the prefix), rewrites remote and refspec and force-resets the
// working tree to the fetched origin ref.
func (i *Installer) repairRemoteIfForeign() error {
	current, err := i.runner.Output(i.prefix.Root, "git", "config", "--get", "remote.origin.url")
	if err == nil && strings.TrimSpace(current) == brewRepoURL {
		return nil
	}

	steps := [][]string{
		{"config", "remote.origin.url", brewRepoURL},
		{"config", "remote.origin.fetch", "+refs/heads/" + brewBranch + ":refs/remotes/origin/" + brewBranch},
		{"fetch", "--force", "--depth", "1", "origin"},
		{"reset", "--hard", "origin/" + brewBranch},
	}
	for _, args := range steps {
		if err := i.runner.Run(i.prefix.Root, StdioSilenceStdout, "git", args...); err != nil {
			return &BootstrapError{Step: "repair", Source: brewRepoURL, Dest: i.prefix.Root, Err: err}
		}
	}
	return nil
}

// RemoteCanonical reports the clone's configured origin URL and whether
// it matches the canonical repository. Read-only; EnsureInstalled is what
// repairs a foreign remote.
func (i *Installer) RemoteCanonical() (string, bool) {
	current, err := i.runner.Output(i.prefix.Root, "git", "config", "--get", "remote.origin.url")
	if err != nil {
		return "", false
	}
	current = strings.TrimSpace(current)
	return current, current == brewRepoURL
}

// Update force-syncs the brew clone and the tap clone to their remote
// heads, then runs the upgrade reconciliation. Strictly sequential: when
// the brew clone sync fails, neither the tap sync nor the upgrade runs.
func (i *Installer) Update(mgr *Manager) error {
	if err := i.syncClone(i.prefix.Root); err != nil {
		return &BootstrapError{Step: "sync brew", Source: brewRepoURL, Dest: i.prefix.Root, Err: err}
	}
	if err := i.syncClone(i.prefix.TapDir()); err != nil {
		return &BootstrapError{Step: "sync tap", Source: config.TapID, Dest: i.prefix.TapDir(), Err: err}
	}
	return mgr.Upgrade()
}

// syncClone force-fetches dir's origin and hard-resets to the fetched head.
func (i *Installer) syncClone(dir string) error {
	if err := i.runner.Run(dir, StdioSilenceStdout, "git", "fetch", "--force", "--depth", "1", "origin"); err != nil {
		return err
	}
	return i.runner.Run(dir, StdioSilenceStdout, "git", "reset", "--hard", "FETCH_HEAD")
}

// downloadTools fetches the portable-tools tarball from the artifact
// server and extracts it into the backend's bin directory.
func (i *Installer) downloadTools() error {
	url := i.artifactBaseURL + "/" + toolsArchive
	dest := i.prefix.Bin()

	resp, err := i.client.Get(url)
	if err != nil {
		return &BootstrapError{Step: "download tools", Source: url, Dest: dest, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &BootstrapError{Step: "download tools", Source: url, Dest: dest,
			Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	if err := extractTarGz(io.LimitReader(resp.Body, maxToolsArchiveSize), dest); err != nil {
		return &BootstrapError{Step: "extract tools", Source: url, Dest: dest, Err: err}
	}
	return nil
}

// extractTarGz unpacks a gzipped tarball into dest, preserving file modes.
// Entries escaping dest are rejected.
func extractTarGz(r io.Reader, dest string) error {
	gzr, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzr.Close()

	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}

	tr := tar.NewReader(gzr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read tarball: %w", err)
		}

		name := filepath.Clean(header.Name)
		if name == "." || strings.HasPrefix(name, "..") || filepath.IsAbs(name) {
			continue
		}
		target := filepath.Join(dest, name)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(header.Mode).Perm())
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		}
	}
	return nil
}

// isExecutable reports whether path is a regular file with an execute bit.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}
